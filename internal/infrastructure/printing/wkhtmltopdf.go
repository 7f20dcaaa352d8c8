package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// WkhtmltopdfConfig configures the wkhtmltopdf renderer
type WkhtmltopdfConfig struct {
	// BinaryPath is an absolute path or a name looked up in PATH
	BinaryPath     string
	DefaultTimeout time.Duration
	Logger         *zap.Logger
}

// WkhtmltopdfRenderer pipes invoice HTML through the wkhtmltopdf command-line tool.
// The page is read from stdin and the document written to stdout, so no temp files are used.
type WkhtmltopdfRenderer struct {
	binary  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewWkhtmltopdfRenderer fails with BINARY_NOT_FOUND when the binary cannot be resolved
func NewWkhtmltopdfRenderer(cfg *WkhtmltopdfConfig) (*WkhtmltopdfRenderer, error) {
	if cfg == nil {
		cfg = &WkhtmltopdfConfig{}
	}
	name := cfg.BinaryPath
	if name == "" {
		name = EngineWkhtmltopdf
	}
	binary, err := lookupBinary(name)
	if err != nil {
		return nil, NewRenderError(ErrCodeBinaryNotFound, "wkhtmltopdf binary not found: "+name, err)
	}

	r := &WkhtmltopdfRenderer{
		binary:  binary,
		timeout: cfg.DefaultTimeout,
		logger:  cfg.Logger,
	}
	if r.timeout <= 0 {
		r.timeout = 30 * time.Second
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r, nil
}

func lookupBinary(name string) (string, error) {
	if !filepath.IsAbs(name) {
		return exec.LookPath(name)
	}
	if _, err := os.Stat(name); err != nil {
		return "", err
	}
	return name, nil
}

// Render converts req.HTML to an A4 portrait PDF
func (r *WkhtmltopdfRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if req == nil || strings.TrimSpace(req.HTML) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = r.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := time.Now()
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.binary, wkhtmltopdfArgs(req)...)
	cmd.Stdin = strings.NewReader(req.HTML)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			msg := fmt.Sprintf("PDF rendering timed out after %v", timeout)
			if errors.Is(ctxErr, context.Canceled) {
				msg = "PDF rendering was cancelled"
			}
			return nil, NewRenderError(ErrCodeRenderTimeout, msg, err)
		}
		r.logger.Error("wkhtmltopdf failed", zap.Error(err), zap.String("stderr", stderr.String()))
		return nil, NewRenderError(ErrCodeRenderFailed, "wkhtmltopdf execution failed: "+stderr.String(), err)
	}
	if stdout.Len() == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	result := &RenderResult{
		PDFData:        stdout.Bytes(),
		PageCount:      countPages(stdout.Bytes()),
		RenderDuration: time.Since(started),
	}
	r.logger.Info("PDF rendered",
		zap.String("engine", EngineWkhtmltopdf),
		zap.String("title", req.Title),
		zap.Int("bytes", len(result.PDFData)),
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration))
	return result, nil
}

func wkhtmltopdfArgs(req *RenderRequest) []string {
	mm := func(v int) string { return fmt.Sprintf("%dmm", v) }
	args := []string{
		"--quiet",
		"--encoding", "UTF-8",
		"--page-size", "A4",
		"--orientation", "Portrait",
		"--margin-top", mm(req.Margins.Top),
		"--margin-right", mm(req.Margins.Right),
		"--margin-bottom", mm(req.Margins.Bottom),
		"--margin-left", mm(req.Margins.Left),
		"--disable-javascript",
	}
	if req.EnableLocalFileAccess {
		args = append(args, "--enable-local-file-access")
	}
	if req.Title != "" {
		args = append(args, "--title", req.Title)
	}
	// read the page from stdin and write the document to stdout
	return append(args, "-", "-")
}

// Close is a no-op: every render runs its own process
func (r *WkhtmltopdfRenderer) Close() error {
	return nil
}

// countPages counts page objects, excluding the page tree nodes
func countPages(pdf []byte) int {
	n := bytes.Count(pdf, []byte("/Type /Page")) - bytes.Count(pdf, []byte("/Type /Pages"))
	return max(n, 1)
}

var _ PDFRenderer = (*WkhtmltopdfRenderer)(nil)
