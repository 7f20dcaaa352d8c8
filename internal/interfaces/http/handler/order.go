package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	appinvoicing "github.com/facturator/backend/internal/application/invoicing"
	"github.com/facturator/backend/internal/domain/invoicing"
	"github.com/facturator/backend/internal/domain/shared"
	"github.com/facturator/backend/internal/interfaces/http/dto"
	"github.com/facturator/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderQueries reads invoice orders
type OrderQueries interface {
	GetOrder(ctx context.Context, id uuid.UUID) (*invoicing.OrderView, error)
	ListOrders(ctx context.Context, payerName string) (*appinvoicing.OrderList, error)
}

// UploadSettings holds the statement upload defaults
type UploadSettings struct {
	CodePrefix     string
	StartingNumber int64
	MaxFileSize    int64
}

// OrderHandler serves /api/v1/orders
type OrderHandler struct {
	BaseHandler
	bus      CommandBus
	queries  OrderQueries
	settings UploadSettings
}

// NewOrderHandler creates an OrderHandler
func NewOrderHandler(bus CommandBus, queries OrderQueries, settings UploadSettings) *OrderHandler {
	return &OrderHandler{bus: bus, queries: queries, settings: settings}
}

// List godoc
// @Summary      List orders
// @Description  List invoice orders, optionally filtered by a case-insensitive payer name fragment
// @Tags         orders
// @Produce      json
// @Param        payer_name query string false "Payer name fragment"
// @Success      200 {object} OrderListResponse
// @Failure      500 {object} ErrorResponse
// @Router       /api/v1/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	list, err := h.queries.ListOrders(c.Request.Context(), c.Query("payer_name"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// Create godoc
// @Summary      Create order
// @Description  Record an invoice order. payer_name, date and quantity are required.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateOrderRequest true "Order"
// @Success      201 {object} OrderResponse
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	cmd := invoicing.AddOrder{
		ID:        uuid.New(),
		PayerName: req.PayerName,
		Quantity:  req.Quantity,
		Number:    req.Number,
	}
	if req.Date != "" {
		date, err := time.Parse(invoicing.DateLayout, req.Date)
		if err != nil {
			h.BadRequest(c, "date must be formatted as YYYY-MM-DD")
			return
		}
		cmd.Date = date
	}

	results, err := h.bus.Handle(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	view, err := firstResult[*invoicing.OrderView](results)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, view)
}

// Get godoc
// @Summary      Get order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} OrderResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	view, err := h.queries.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if view == nil {
		h.NotFound(c, orderNotFound(id))
		return
	}
	h.Success(c, view)
}

// Update godoc
// @Summary      Update order
// @Description  Update the supplied fields. Changing payer_name re-matches the payer.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body dto.UpdateOrderRequest true "Fields to change"
// @Success      200 {object} OrderResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/orders/{id} [put]
// @Router       /api/v1/orders/{id} [patch]
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	cmd := invoicing.UpdateOrder{
		ID:        id,
		PayerName: req.PayerName,
		Quantity:  req.Quantity,
		Number:    req.Number,
	}
	if raw, ok := req.Date.Get(); ok {
		date, err := time.Parse(invoicing.DateLayout, raw)
		if err != nil {
			h.BadRequest(c, "date must be formatted as YYYY-MM-DD")
			return
		}
		cmd.Date = shared.Some(date)
	}

	results, err := h.bus.Handle(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	view, err := firstResult[*invoicing.OrderView](results)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if view == nil {
		h.NotFound(c, orderNotFound(id))
		return
	}
	h.Success(c, view)
}

// Delete godoc
// @Summary      Delete order
// @Tags         orders
// @Param        id path string true "Order ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      406 {object} ErrorResponse
// @Router       /api/v1/orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	results, err := h.bus.Handle(c.Request.Context(), invoicing.DeleteOrder{ID: id})
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
		h.NotFound(c, orderNotFound(id))
		return
	}
	h.NoContent(c)
}

// Upload godoc
// @Summary      Upload bank statement
// @Description  Create one order per incoming transfer of an HTML bank statement export.
// @Description  Orders whose concept matches a payer are numbered and allocated.
// @Tags         orders
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Bank statement export"
// @Param        code_fixed_part formData string false "Invoice number prefix"
// @Param        code_starting_number formData int false "Last number already issued"
// @Success      201 {object} OrderListResponse
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Router       /api/v1/orders/file [post]
func (h *OrderHandler) Upload(c *gin.Context) {
	var req dto.UploadOrdersRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "No file part in the request")
		return
	}
	if header.Filename == "" {
		h.BadRequest(c, "No file selected")
		return
	}
	if h.settings.MaxFileSize > 0 && header.Size > h.settings.MaxFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.CodeRequestTooLarge,
			fmt.Sprintf("File exceeds the maximum size of %d bytes", h.settings.MaxFileSize))
		return
	}

	file, err := header.Open()
	if err != nil {
		h.HandleError(c, fmt.Errorf("failed to open uploaded file: %w", err))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		h.HandleError(c, fmt.Errorf("failed to read uploaded file: %w", err))
		return
	}

	cmd := invoicing.UploadOrders{
		File:               data,
		CodeFixedPart:      h.settings.CodePrefix,
		CodeStartingNumber: h.settings.StartingNumber,
	}
	if req.CodeFixedPart != "" {
		cmd.CodeFixedPart = req.CodeFixedPart
	}
	if req.CodeStartingNumber != nil {
		cmd.CodeStartingNumber = *req.CodeStartingNumber
	}

	results, err := h.bus.Handle(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	views, err := firstResult[[]invoicing.OrderView](results)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if views == nil {
		views = []invoicing.OrderView{}
	}
	h.Created(c, appinvoicing.OrderList{Orders: views})
}

func orderNotFound(id uuid.UUID) string {
	return fmt.Sprintf("Order with ID %s not found", id)
}
