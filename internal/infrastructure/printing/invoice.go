package printing

import (
	"bytes"
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"time"

	appinvoicing "github.com/facturator/backend/internal/application/invoicing"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:embed templates/invoice.html
var templateFS embed.FS

var invoiceTemplate = template.Must(
	template.New("invoice.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/invoice.html"),
)

var templateFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string {
		return d.StringFixed(2) + "€"
	},
	"units": func(d decimal.Decimal) string {
		return d.String()
	},
}

// invoicePage is the template data: the invoice context plus the inlined logo
type invoicePage struct {
	*appinvoicing.InvoiceContext
	Logo template.URL
}

// InvoiceDocument renders invoice contexts to PDF through a PDFRenderer
type InvoiceDocument struct {
	renderer PDFRenderer
	timeout  time.Duration
	logger   *zap.Logger
}

// NewInvoiceDocument creates an InvoiceDocument
func NewInvoiceDocument(renderer PDFRenderer, timeout time.Duration, logger *zap.Logger) *InvoiceDocument {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceDocument{
		renderer: renderer,
		timeout:  timeout,
		logger:   logger,
	}
}

// RenderInvoice renders the invoice page and converts it to PDF
func (d *InvoiceDocument) RenderInvoice(ctx context.Context, ic *appinvoicing.InvoiceContext) ([]byte, error) {
	html, err := d.RenderHTML(ic)
	if err != nil {
		return nil, err
	}

	result, err := d.renderer.Render(ctx, &RenderRequest{
		HTML:                  html,
		Margins:               DefaultMargins(),
		Title:                 "Factura " + ic.InvoiceNumber,
		EnableLocalFileAccess: true,
		Timeout:               d.timeout,
	})
	if err != nil {
		return nil, err
	}
	return result.PDFData, nil
}

// RenderHTML executes the invoice template. A logo that cannot be read is left out.
func (d *InvoiceDocument) RenderHTML(ic *appinvoicing.InvoiceContext) (string, error) {
	if ic == nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "invoice context is nil", nil)
	}

	data := invoicePage{InvoiceContext: ic}
	if ic.LogoPath != "" {
		logo, err := logoDataURL(ic.LogoPath)
		if err != nil {
			d.logger.Warn("Invoice logo not available", zap.String("path", ic.LogoPath), zap.Error(err))
		} else {
			data.Logo = logo
		}
	}

	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute invoice template", err)
	}
	return buf.String(), nil
}

// logoDataURL inlines the image at path so both engines can render it
// without loading local files.
func logoDataURL(path string) (template.URL, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	mime := http.DetectContentType(raw)
	return template.URL(fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(raw))), nil
}

var _ appinvoicing.InvoiceRenderer = (*InvoiceDocument)(nil)
