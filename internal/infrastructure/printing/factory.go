package printing

import (
	"strings"

	"github.com/facturator/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Rendering engines
const (
	EngineWkhtmltopdf = "wkhtmltopdf"
	EngineChromedp    = "chromedp"
)

// NewRenderer builds the PDF engine named by cfg.Engine. An empty engine selects wkhtmltopdf.
func NewRenderer(cfg config.PrintingConfig, logger *zap.Logger) (PDFRenderer, error) {
	engine := strings.ToLower(strings.TrimSpace(cfg.Engine))
	switch engine {
	case "", EngineWkhtmltopdf:
		return NewWkhtmltopdfRenderer(&WkhtmltopdfConfig{
			BinaryPath:     cfg.WkhtmltopdfPath,
			DefaultTimeout: cfg.Timeout,
			Logger:         logger,
		})
	case EngineChromedp:
		return NewChromedpRenderer(&ChromedpConfig{
			DefaultTimeout: cfg.Timeout,
			RemoteURL:      cfg.ChromeURL,
			NoSandbox:      true,
			Logger:         logger,
		}), nil
	default:
		return nil, NewRenderError(ErrCodeUnknownEngine, "unknown printing engine: "+cfg.Engine, nil)
	}
}
