// Package printing renders invoices to PDF.
//
// The invoice page is an embedded html/template document. The resulting HTML
// is converted by one of two engines:
//   - WkhtmltopdfRenderer, running the wkhtmltopdf command-line tool
//   - ChromedpRenderer, driving a headless Chrome over the DevTools protocol
//
// NewRenderer picks the engine from the printing configuration:
//
//	renderer, err := printing.NewRenderer(cfg.Printing, logger)
//	if err != nil {
//	    return err
//	}
//	defer renderer.Close()
//
//	doc, err := printing.NewInvoiceDocument(renderer, cfg.Printing.Timeout)
//	pdf, err := doc.RenderInvoice(ctx, invoiceContext)
package printing
