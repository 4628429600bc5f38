package models

// Role distinguishes administrators from partners.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RolePartner Role = "PARTNER"
)

// User represents the user model in the database
type User struct {
	Base
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Password string `gorm:"not null" json:"-"`
	Role     Role   `gorm:"type:varchar(16);not null" json:"role"`
	Name     string `gorm:"not null" json:"name"`
}
