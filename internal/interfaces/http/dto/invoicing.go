package dto

import (
	"github.com/facturator/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CreatePayerRequest is the body of POST /api/v1/payers
type CreatePayerRequest struct {
	Name     string `json:"name" binding:"required,notblank,max=200" example:"ANA GARCIA LOPEZ"`
	NIF      string `json:"nif" binding:"max=50" example:"12345678Z"`
	Address  string `json:"address" binding:"max=300" example:"Calle Mayor 1"`
	ZipCode  string `json:"zip_code" binding:"max=20" example:"28001"`
	City     string `json:"city" binding:"max=100" example:"Madrid"`
	Province string `json:"province" binding:"max=100" example:"Madrid"`
}

// UpdatePayerRequest is the body of PUT and PATCH /api/v1/payers/:id.
// Omitted and null fields are left unchanged.
type UpdatePayerRequest struct {
	Name     shared.Optional[string] `json:"name" swaggertype:"string"`
	NIF      shared.Optional[string] `json:"nif" swaggertype:"string"`
	Address  shared.Optional[string] `json:"address" swaggertype:"string"`
	ZipCode  shared.Optional[string] `json:"zip_code" swaggertype:"string"`
	City     shared.Optional[string] `json:"city" swaggertype:"string"`
	Province shared.Optional[string] `json:"province" swaggertype:"string"`
}

// CreateOrderRequest is the body of POST /api/v1/orders
type CreateOrderRequest struct {
	PayerName string          `json:"payer_name" example:"ANA GARCIA LOPEZ"`
	Date      string          `json:"date" binding:"omitempty,isodate" example:"2024-01-31"`
	Quantity  decimal.Decimal `json:"quantity" swaggertype:"number" example:"150"`
	Number    *string         `json:"number" example:"TEST-0001"`
}

// UpdateOrderRequest is the body of PUT and PATCH /api/v1/orders/:id.
// Omitted and null fields are left unchanged.
type UpdateOrderRequest struct {
	PayerName shared.Optional[string]          `json:"payer_name" swaggertype:"string"`
	Date      shared.Optional[string]          `json:"date" swaggertype:"string"`
	Quantity  shared.Optional[decimal.Decimal] `json:"quantity" swaggertype:"number"`
	Number    shared.Optional[string]          `json:"number" swaggertype:"string"`
}

// UploadOrdersRequest holds the optional form fields of POST /api/v1/orders/file
type UploadOrdersRequest struct {
	CodeFixedPart      string `form:"code_fixed_part" binding:"max=40"`
	CodeStartingNumber *int64 `form:"code_starting_number" binding:"omitempty,min=0"`
}

// InvoiceQuery selects an invoice by order number
type InvoiceQuery struct {
	Number string `form:"number" binding:"required"`
}
