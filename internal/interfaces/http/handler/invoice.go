package handler

import (
	"context"
	"mime"
	"net/http"

	appinvoicing "github.com/facturator/backend/internal/application/invoicing"
	"github.com/facturator/backend/internal/interfaces/http/dto"
	"github.com/facturator/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// InvoiceProvider builds and renders invoices
type InvoiceProvider interface {
	GetInvoiceContext(ctx context.Context, number string) (*appinvoicing.InvoiceContext, error)
	RenderInvoice(ctx context.Context, number string) (*appinvoicing.InvoiceContext, []byte, error)
}

// InvoiceHandler serves /api/v1/invoices and /api/v1/pdfs
type InvoiceHandler struct {
	BaseHandler
	invoices InvoiceProvider
}

// NewInvoiceHandler creates an InvoiceHandler
func NewInvoiceHandler(invoices InvoiceProvider) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

// Context godoc
// @Summary      Invoice context
// @Description  Return the data printed on the invoice of the order carrying the number
// @Tags         invoices
// @Produce      json
// @Param        number query string true "Invoice number"
// @Success      200 {object} InvoiceContextResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/invoices [get]
func (h *InvoiceHandler) Context(c *gin.Context) {
	var q dto.InvoiceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	ic, err := h.invoices.GetInvoiceContext(c.Request.Context(), q.Number)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ic)
}

// PDF godoc
// @Summary      Invoice PDF
// @Description  Render the invoice of the order carrying the number and send it as an attachment
// @Tags         invoices
// @Produce      application/pdf
// @Param        number query string true "Invoice number"
// @Success      200 {file} binary
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/pdfs [get]
func (h *InvoiceHandler) PDF(c *gin.Context) {
	var q dto.InvoiceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	ic, pdf, err := h.invoices.RenderInvoice(c.Request.Context(), q.Number)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": ic.FileName()})
	c.Header("Content-Disposition", disposition)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
