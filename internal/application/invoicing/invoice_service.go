package invoicing

import (
	"context"
	"fmt"

	"github.com/facturator/backend/internal/domain/invoicing"
	"go.uber.org/zap"
)

// Issuer holds the professional details printed on every invoice
type Issuer struct {
	Name     string
	Address  string
	ZipCode  string
	City     string
	Province string
	NIF      string
	Email    string
	LogoPath string
}

// InvoiceContext is the flat data handed to the invoice template
type InvoiceContext struct {
	InvoiceNumber        string           `json:"invoice_number"`
	InvoiceDate          string           `json:"invoice_date"`
	ClientName           string           `json:"client_name"`
	ClientAddress        string           `json:"client_address"`
	ClientZipCode        string           `json:"client_zip_code"`
	ClientCity           string           `json:"client_city"`
	ClientProvince       string           `json:"client_province"`
	ClientNIF            string           `json:"client_nif"`
	ProfessionalName     string           `json:"professional_name"`
	ProfessionalAddress  string           `json:"professional_address"`
	ProfessionalZipCode  string           `json:"professional_zip_code"`
	ProfessionalCity     string           `json:"professional_city"`
	ProfessionalProvince string           `json:"professional_province"`
	ProfessionalNIF      string           `json:"professional_nif"`
	ProfessionalEmail    string           `json:"professional_email"`
	OrderLines           []invoicing.Line `json:"order_lines"`
	TotalBI              string           `json:"total_bi"`
	DiscountQty          string           `json:"discount_qty"`
	IVAQty               string           `json:"iva_qty"`
	IRPFQty              string           `json:"irpf_qty"`
	TotalAPagar          string           `json:"Total_a_pagar"`
	LogoPath             string           `json:"logo_path"`
}

// FileName returns the download name of the rendered invoice
func (c *InvoiceContext) FileName() string {
	return fmt.Sprintf("%s_%s.pdf", c.ClientName, c.InvoiceDate)
}

// InvoiceRenderer turns an invoice context into a PDF document
type InvoiceRenderer interface {
	RenderInvoice(ctx context.Context, ic *InvoiceContext) ([]byte, error)
}

// DocumentArchive keeps a copy of every rendered document
type DocumentArchive interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) error
}

// InvoiceService builds invoice contexts and renders them
type InvoiceService struct {
	uowFactory UnitOfWorkFactory
	issuer     Issuer
	renderer   InvoiceRenderer
	archive    DocumentArchive
	logger     *zap.Logger
}

// NewInvoiceService creates an InvoiceService. renderer and archive may be nil.
func NewInvoiceService(uowFactory UnitOfWorkFactory, issuer Issuer, renderer InvoiceRenderer, archive DocumentArchive, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{
		uowFactory: uowFactory,
		issuer:     issuer,
		renderer:   renderer,
		archive:    archive,
		logger:     logger,
	}
}

// GetInvoiceContext returns the rendering context of the order carrying number.
// It fails with NOT_FOUND when no order has that number.
func (s *InvoiceService) GetInvoiceContext(ctx context.Context, number string) (*InvoiceContext, error) {
	var ic *InvoiceContext
	err := WithUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		order, err := uow.Orders().GetBy(ctx, "number", number)
		if err != nil {
			return err
		}
		ic, err = BuildInvoiceContext(order, s.issuer)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ic, nil
}

// RenderInvoice renders the invoice of the order carrying number and archives the PDF
func (s *InvoiceService) RenderInvoice(ctx context.Context, number string) (*InvoiceContext, []byte, error) {
	if s.renderer == nil {
		return nil, nil, fmt.Errorf("invoice rendering is not configured")
	}
	ic, err := s.GetInvoiceContext(ctx, number)
	if err != nil {
		return nil, nil, err
	}
	pdf, err := s.renderer.RenderInvoice(ctx, ic)
	if err != nil {
		return nil, nil, err
	}
	if s.archive != nil {
		key := "invoices/" + ic.InvoiceNumber + ".pdf"
		if err := s.archive.Upload(ctx, key, pdf, "application/pdf"); err != nil {
			s.logger.Warn("Failed to archive invoice", zap.String("key", key), zap.Error(err))
		}
	}
	return ic, pdf, nil
}

// BuildInvoiceContext maps an order and its allocated payer to the template context.
// An order without a payer renders empty client fields.
func BuildInvoiceContext(order *invoicing.InvoiceOrder, issuer Issuer) (*InvoiceContext, error) {
	lines, err := order.Lines()
	if err != nil {
		return nil, err
	}

	ic := &InvoiceContext{
		InvoiceDate:          order.Date.Format(invoicing.DateLayout),
		ProfessionalName:     issuer.Name,
		ProfessionalAddress:  issuer.Address,
		ProfessionalZipCode:  issuer.ZipCode,
		ProfessionalCity:     issuer.City,
		ProfessionalProvince: issuer.Province,
		ProfessionalNIF:      issuer.NIF,
		ProfessionalEmail:    issuer.Email,
		OrderLines:           lines,
		TotalBI:              euros(order.Quantity.String()),
		DiscountQty:          euros("0.00"),
		IVAQty:               euros("0.00"),
		IRPFQty:              euros("0.00"),
		TotalAPagar:          euros(order.Quantity.String()),
		LogoPath:             issuer.LogoPath,
	}
	if order.Number != nil {
		ic.InvoiceNumber = *order.Number
	}
	if p := order.AllocatedPayer(); p != nil {
		ic.ClientName = p.Name
		ic.ClientAddress = p.Address.Street
		ic.ClientZipCode = p.Address.ZipCode
		ic.ClientCity = p.Address.City
		ic.ClientProvince = p.Address.Province
		ic.ClientNIF = p.NIF
	}
	return ic, nil
}

func euros(amount string) string {
	return amount + "€"
}
