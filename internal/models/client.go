package models

// Client is a customer that income transactions can be attributed to.
type Client struct {
	Base
	Name string `gorm:"not null" json:"name"`
}
