package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/cleanops-api/internal/application/service"
	"github.com/sangkips/cleanops-api/internal/presentation/http/dto/request"
	"github.com/sangkips/cleanops-api/internal/presentation/http/dto/response"
)

// ClientHandler handles clients and their properties
type ClientHandler struct {
	clientService *service.ClientService
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

func clientInput(req *request.ClientRequest) *service.ClientInput {
	return &service.ClientInput{
		Name:           req.Name,
		CompanyName:    req.CompanyName,
		Emails:         req.Emails,
		Phones:         req.Phones,
		BillingAddress: req.BillingAddress,
		Notes:          req.Notes,
	}
}

func propertyInput(req *request.PropertyRequest) *service.PropertyInput {
	return &service.PropertyInput{
		Name:    req.Name,
		Address: req.Address,
		Details: req.Details,
		Notes:   req.Notes,
	}
}

// List handles GET /clients
func (h *ClientHandler) List(c *gin.Context) {
	result, err := h.clientService.ListClients(c.Request.Context(), scope(c), pageParams(c), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, "Clients retrieved", result)
}

// Create handles POST /clients
func (h *ClientHandler) Create(c *gin.Context) {
	var req request.ClientRequest
	if !bindJSON(c, &req) {
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), scope(c), clientInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Client created", client)
}

// Get handles GET /clients/:id
func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	client, err := h.clientService.GetClient(c.Request.Context(), scope(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Client retrieved", client)
}

// Update handles PUT /clients/:id
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req request.ClientRequest
	if !bindJSON(c, &req) {
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), scope(c), id, clientInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Client updated", client)
}

// Delete handles DELETE /clients/:id
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.clientService.DeleteClient(c.Request.Context(), scope(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListProperties handles GET /clients/:id/properties
func (h *ClientHandler) ListProperties(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	properties, err := h.clientService.ListProperties(c.Request.Context(), scope(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Properties retrieved", properties)
}

// AddProperty handles POST /clients/:id/properties
func (h *ClientHandler) AddProperty(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req request.PropertyRequest
	if !bindJSON(c, &req) {
		return
	}

	property, err := h.clientService.AddProperty(c.Request.Context(), scope(c), id, propertyInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Property created", property)
}

// GetProperty handles GET /properties/:id
func (h *ClientHandler) GetProperty(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	property, err := h.clientService.GetProperty(c.Request.Context(), scope(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Property retrieved", property)
}

// UpdateProperty handles PUT /properties/:id
func (h *ClientHandler) UpdateProperty(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req request.PropertyRequest
	if !bindJSON(c, &req) {
		return
	}

	property, err := h.clientService.UpdateProperty(c.Request.Context(), scope(c), id, propertyInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Property updated", property)
}

// DeleteProperty handles DELETE /properties/:id
func (h *ClientHandler) DeleteProperty(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.clientService.DeleteProperty(c.Request.Context(), scope(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
