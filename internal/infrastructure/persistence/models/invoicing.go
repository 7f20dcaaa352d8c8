package models

import (
	"time"

	"github.com/facturator/backend/internal/domain/invoicing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayerModel is the persistence model for the Payer aggregate.
type PayerModel struct {
	BaseModel
	Name     string `gorm:"type:varchar(200);not null;index"`
	NIF      string `gorm:"column:nif;type:varchar(50)"`
	Address  string `gorm:"type:varchar(300)"`
	ZipCode  string `gorm:"type:varchar(20)"`
	City     string `gorm:"type:varchar(100)"`
	Province string `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (PayerModel) TableName() string {
	return "payers"
}

// ToDomain converts the persistence model to a domain Payer
func (m *PayerModel) ToDomain() *invoicing.Payer {
	return &invoicing.Payer{
		BaseAggregateRoot: m.aggregateRoot(),
		Name:              m.Name,
		NIF:               m.NIF,
		Address:           invoicing.NewAddress(m.Address, m.ZipCode, m.City, m.Province),
	}
}

// FromDomain populates the persistence model from a domain Payer
func (m *PayerModel) FromDomain(p *invoicing.Payer) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
	m.NIF = p.NIF
	m.Address = p.Address.Street
	m.ZipCode = p.Address.ZipCode
	m.City = p.Address.City
	m.Province = p.Address.Province
}

// PayerModelFromDomain creates a new persistence model from a domain Payer
func PayerModelFromDomain(p *invoicing.Payer) *PayerModel {
	m := &PayerModel{}
	m.FromDomain(p)
	return m
}

// InvoiceOrderModel is the persistence model for the InvoiceOrder aggregate.
// Deleting a payer that still has orders is rejected by the foreign key.
type InvoiceOrderModel struct {
	BaseModel
	PayerName string          `gorm:"type:varchar(200);not null;index"`
	Date      time.Time       `gorm:"type:date;not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Number    *string         `gorm:"type:varchar(50);index"`
	PayerID   *uuid.UUID      `gorm:"type:uuid;index"`
	Payer     *PayerModel     `gorm:"foreignKey:PayerID;references:ID;constraint:OnDelete:RESTRICT"`
}

// TableName returns the table name for GORM
func (InvoiceOrderModel) TableName() string {
	return "invoice_orders"
}

// ToDomain converts the persistence model to a domain InvoiceOrder.
// The allocated payer is attached when it was preloaded.
func (m *InvoiceOrderModel) ToDomain() *invoicing.InvoiceOrder {
	order := &invoicing.InvoiceOrder{
		BaseAggregateRoot: m.aggregateRoot(),
		PayerName:         m.PayerName,
		Date:              m.Date.UTC(),
		Quantity:          m.Quantity,
		Number:            m.Number,
		PayerID:           m.PayerID,
	}
	if m.Payer != nil {
		order.AllocatePayer(m.Payer.ToDomain())
	}
	return order
}

// FromDomain populates the persistence model from a domain InvoiceOrder
func (m *InvoiceOrderModel) FromDomain(o *invoicing.InvoiceOrder) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.PayerName = o.PayerName
	m.Date = o.Date
	m.Quantity = o.Quantity
	m.Number = o.Number
	m.PayerID = o.PayerID
}

// InvoiceOrderModelFromDomain creates a new persistence model from a domain InvoiceOrder
func InvoiceOrderModelFromDomain(o *invoicing.InvoiceOrder) *InvoiceOrderModel {
	m := &InvoiceOrderModel{}
	m.FromDomain(o)
	return m
}

// InvoiceSequenceModel stores the last number issued for a code prefix
type InvoiceSequenceModel struct {
	Prefix    string    `gorm:"type:varchar(50);primary_key"`
	LastValue int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceSequenceModel) TableName() string {
	return "invoice_sequences"
}

// ToDomain converts the persistence model to a domain Sequence
func (m *InvoiceSequenceModel) ToDomain() *invoicing.Sequence {
	return &invoicing.Sequence{Prefix: m.Prefix, LastValue: m.LastValue}
}
