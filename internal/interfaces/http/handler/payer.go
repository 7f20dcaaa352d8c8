package handler

import (
	"context"
	"fmt"

	appinvoicing "github.com/facturator/backend/internal/application/invoicing"
	"github.com/facturator/backend/internal/domain/invoicing"
	"github.com/facturator/backend/internal/interfaces/http/dto"
	"github.com/facturator/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CommandBus dispatches invoicing commands
type CommandBus interface {
	Handle(ctx context.Context, msg any) ([]any, error)
}

// PayerQueries reads payers
type PayerQueries interface {
	GetPayer(ctx context.Context, id uuid.UUID) (*invoicing.PayerView, error)
	ListPayers(ctx context.Context, name string) (*appinvoicing.PayerList, error)
}

// PayerHandler serves /api/v1/payers
type PayerHandler struct {
	BaseHandler
	bus     CommandBus
	queries PayerQueries
}

// NewPayerHandler creates a PayerHandler
func NewPayerHandler(bus CommandBus, queries PayerQueries) *PayerHandler {
	return &PayerHandler{bus: bus, queries: queries}
}

// List godoc
// @Summary      List payers
// @Description  List payers, optionally filtered by a case-insensitive name fragment
// @Tags         payers
// @Produce      json
// @Param        name query string false "Name fragment"
// @Success      200 {object} PayerListResponse
// @Failure      500 {object} ErrorResponse
// @Router       /api/v1/payers [get]
func (h *PayerHandler) List(c *gin.Context) {
	list, err := h.queries.ListPayers(c.Request.Context(), c.Query("name"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// Create godoc
// @Summary      Create payer
// @Description  Register a payer. Names are stored uppercased.
// @Tags         payers
// @Accept       json
// @Produce      json
// @Param        request body dto.CreatePayerRequest true "Payer"
// @Success      201 {object} PayerResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/payers [post]
func (h *PayerHandler) Create(c *gin.Context) {
	var req dto.CreatePayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	results, err := h.bus.Handle(c.Request.Context(), invoicing.AddPayer{
		ID:       uuid.New(),
		Name:     req.Name,
		NIF:      req.NIF,
		Address:  req.Address,
		ZipCode:  req.ZipCode,
		City:     req.City,
		Province: req.Province,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	view, err := firstResult[*invoicing.PayerView](results)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, view)
}

// Get godoc
// @Summary      Get payer
// @Tags         payers
// @Produce      json
// @Param        id path string true "Payer ID" format(uuid)
// @Success      200 {object} PayerResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/payers/{id} [get]
func (h *PayerHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	view, err := h.queries.GetPayer(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if view == nil {
		h.NotFound(c, payerNotFound(id))
		return
	}
	h.Success(c, view)
}

// Update godoc
// @Summary      Update payer
// @Description  Update the supplied fields. Omitted and null fields are left unchanged.
// @Tags         payers
// @Accept       json
// @Produce      json
// @Param        id path string true "Payer ID" format(uuid)
// @Param        request body dto.UpdatePayerRequest true "Fields to change"
// @Success      200 {object} PayerResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/payers/{id} [put]
// @Router       /api/v1/payers/{id} [patch]
func (h *PayerHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdatePayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	results, err := h.bus.Handle(c.Request.Context(), invoicing.UpdatePayer{
		ID:       id,
		Name:     req.Name,
		NIF:      req.NIF,
		Address:  req.Address,
		ZipCode:  req.ZipCode,
		City:     req.City,
		Province: req.Province,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	view, err := firstResult[*invoicing.PayerView](results)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if view == nil {
		h.NotFound(c, payerNotFound(id))
		return
	}
	h.Success(c, view)
}

// Delete godoc
// @Summary      Delete payer
// @Description  Delete a payer. Payers with allocated orders cannot be deleted.
// @Tags         payers
// @Param        id path string true "Payer ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      406 {object} ErrorResponse
// @Router       /api/v1/payers/{id} [delete]
func (h *PayerHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	results, err := h.bus.Handle(c.Request.Context(), invoicing.DeletePayer{ID: id})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	deleted, err := firstResult[string](results)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if deleted == "" {
		h.NotFound(c, payerNotFound(id))
		return
	}
	h.NoContent(c)
}

func payerNotFound(id uuid.UUID) string {
	return fmt.Sprintf("Payer with ID %s not found", id)
}
