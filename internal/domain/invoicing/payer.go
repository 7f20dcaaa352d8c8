package invoicing

import (
	"strings"

	"github.com/facturator/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AggregateTypePayer is the aggregate type name used by payer events
const AggregateTypePayer = "Payer"

// NormalizeName returns the stored form of a payer name: trimmed and uppercased.
// A Caser is stateful, so one is built per call.
func NormalizeName(name string) string {
	return cases.Upper(language.Spanish).String(strings.TrimSpace(name))
}

// Address is the postal address of a payer
type Address struct {
	Street   string
	ZipCode  string
	City     string
	Province string
}

// NewAddress creates a new address value object
func NewAddress(street, zipCode, city, province string) Address {
	return Address{
		Street:   street,
		ZipCode:  zipCode,
		City:     city,
		Province: province,
	}
}

// Equal compares two addresses, ignoring case on the free-text parts
func (a Address) Equal(other Address) bool {
	return strings.EqualFold(a.Street, other.Street) &&
		a.ZipCode == other.ZipCode &&
		strings.EqualFold(a.City, other.City) &&
		strings.EqualFold(a.Province, other.Province)
}

// Payer is a billable counterparty
type Payer struct {
	shared.BaseAggregateRoot
	Name    string
	NIF     string
	Address Address
}

// NewPayer creates a payer; the name is stored uppercased
func NewPayer(id uuid.UUID, name, nif string, address Address) (*Payer, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidCommand, "Payer name cannot be empty")
	}
	p := &Payer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(id),
		Name:              NormalizeName(name),
		NIF:               nif,
		Address:           address,
	}
	p.AddDomainEvent(NewPayerRegisteredEvent(p))
	return p, nil
}

// SameNaturalKey reports whether both payers carry the same name.
// Maps and sets must key payers by ID instead.
func (p *Payer) SameNaturalKey(other *Payer) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.Name == other.Name
}

// PayerPatch is a partial update; only present fields are written
type PayerPatch struct {
	Name     shared.Optional[string]
	NIF      shared.Optional[string]
	Street   shared.Optional[string]
	ZipCode  shared.Optional[string]
	City     shared.Optional[string]
	Province shared.Optional[string]
}

// Apply writes the present fields of the patch onto the payer
func (p *Payer) Apply(patch PayerPatch) {
	if name, ok := patch.Name.Get(); ok {
		p.Name = NormalizeName(name)
	}
	patch.NIF.ApplyTo(&p.NIF)
	patch.Street.ApplyTo(&p.Address.Street)
	patch.ZipCode.ApplyTo(&p.Address.ZipCode)
	patch.City.ApplyTo(&p.Address.City)
	patch.Province.ApplyTo(&p.Address.Province)
	p.Touch()
}

// PayerView is the flat representation returned by handlers
type PayerView struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	NIF      string    `json:"nif"`
	Address  string    `json:"address"`
	ZipCode  string    `json:"zip_code"`
	City     string    `json:"city"`
	Province string    `json:"province"`
}

// View returns the flat representation of the payer
func (p *Payer) View() PayerView {
	return PayerView{
		ID:       p.ID,
		Name:     p.Name,
		NIF:      p.NIF,
		Address:  p.Address.Street,
		ZipCode:  p.Address.ZipCode,
		City:     p.Address.City,
		Province: p.Address.Province,
	}
}

// PayerDescriptor describes payers to generic repositories
type PayerDescriptor struct{}

// EntityName returns the entity name
func (PayerDescriptor) EntityName() string { return "payer" }

// DefaultFilterField returns the column used by Get
func (PayerDescriptor) DefaultFilterField() string { return "name" }
