package handler

import (
	appinvoicing "github.com/facturator/backend/internal/application/invoicing"
	"github.com/facturator/backend/internal/domain/invoicing"
	"github.com/facturator/backend/internal/interfaces/http/dto"
)

// Swagger models. The handlers write dto.Response; these spell out its data field per endpoint.

// ErrorResponse is a failed API response
// @Description Standard error response
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// PayerResponse wraps a single payer
type PayerResponse struct {
	Success bool                `json:"success" example:"true"`
	Data    invoicing.PayerView `json:"data"`
}

// PayerListResponse wraps the payer list
type PayerListResponse struct {
	Success bool                   `json:"success" example:"true"`
	Data    appinvoicing.PayerList `json:"data"`
}

// OrderResponse wraps a single order
type OrderResponse struct {
	Success bool                `json:"success" example:"true"`
	Data    invoicing.OrderView `json:"data"`
}

// OrderListResponse wraps an order list
type OrderListResponse struct {
	Success bool                   `json:"success" example:"true"`
	Data    appinvoicing.OrderList `json:"data"`
}

// InvoiceContextResponse wraps the data printed on an invoice
type InvoiceContextResponse struct {
	Success bool                        `json:"success" example:"true"`
	Data    appinvoicing.InvoiceContext `json:"data"`
}

// MessageResponse wraps a human readable outcome
type MessageResponse struct {
	Success bool            `json:"success" example:"true"`
	Data    dto.MessageData `json:"data"`
}

// SignupResponse wraps the new account
type SignupResponse struct {
	Success bool               `json:"success" example:"true"`
	Data    dto.SignupResponse `json:"data"`
}

// LoginResponse wraps the login outcome
type LoginResponse struct {
	Success bool              `json:"success" example:"true"`
	Data    dto.LoginResponse `json:"data"`
}

// HealthResponse wraps the health report
type HealthResponse struct {
	Success bool       `json:"success" example:"true"`
	Data    HealthData `json:"data"`
}
