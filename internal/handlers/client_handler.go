package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fundledger/internal/services"
)

// ClientHandler handles client requests.
type ClientHandler struct {
	clientService services.ClientServicer
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientService services.ClientServicer) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// CreateClientRequest represents the request payload for creating a client.
type CreateClientRequest struct {
	Name string `json:"name" binding:"required,max=200"`
}

// CreateClient creates a client
// @Summary     Create a client
// @Tags        clients
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateClientRequest true "Client details"
// @Success     201 {object} models.Client "Client created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /clients [post]
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	client, err := h.clientService.CreateClient(req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"client": client})
}

// ListClients lists clients
// @Summary     List clients
// @Tags        clients
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  models.Client "Clients ordered by name"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /clients [get]
func (h *ClientHandler) ListClients(c *gin.Context) {
	clients, err := h.clientService.ListClients()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": clients})
}
