package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kehinde-ajayi/docchat/constants"
	"github.com/kehinde-ajayi/docchat/internal/common"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	MaxPages      int    // 0 = no limit

	TessdataDir string
}

// Extractor extracts plain text from PDFs and images using external tools.
type Extractor struct {
	cfg    Config
	runner Runner
	log    *zap.Logger
}

func NewExtractor(cfg Config, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{cfg: cfg, runner: execRunner{log: logger}, log: logger}
}

// Extract picks a strategy based on file extension.
func (e *Extractor) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.log.Debug("starting text extraction", zap.String("path", path), zap.String("ext", ext))
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		res, err := e.extractPDF(ctx, path)
		res.Duration = time.Since(start)
		return res, err
	case constants.IMAGE:
		res, err := e.extractImage(ctx, path)
		res.Duration = time.Since(start)
		return res, err
	default:
		e.log.Error("unsupported extension", zap.String("extension", ext))
		return Result{}, fmt.Errorf("%w: extension %q", common.ErrUnsupportedFormat, ext)
	}
}

// extractPDF tries the embedded text layer first and falls back to
// rasterize-and-OCR for scanned documents with no extractable text.
func (e *Extractor) extractPDF(ctx context.Context, path string) (Result, error) {
	text, pages, warns, err := e.pdfToText(ctx, path)
	if err == nil && strings.TrimSpace(text) != "" {
		e.log.Info("extract.pdf.ok",
			zap.String("path", path),
			zap.String("method", "pdf-text"),
			zap.Int("pages", pages),
			zap.Int("bytes", len(text)),
		)
		return Result{
			Text:       Normalize(text),
			Pages:      pages,
			SourceType: constants.PDF,
			Method:     "pdf-text",
			Warnings:   warns,
		}, nil
	}
	if err != nil {
		warns = append(warns, err.Error())
	}

	text, pages, ocrWarns, ocrErr := e.pdfToOCR(ctx, path)
	warns = append(warns, ocrWarns...)
	if ocrErr != nil {
		e.log.Error("extract.pdf.failed", zap.String("path", path), zap.Error(ocrErr))
		return Result{SourceType: constants.PDF, Warnings: warns},
			fmt.Errorf("%w: %v", common.ErrUnreadableDocument, ocrErr)
	}
	e.log.Info("extract.pdf.ok",
		zap.String("path", path),
		zap.String("method", "pdf-ocr"),
		zap.Int("pages", pages),
		zap.Int("bytes", len(text)),
	)
	return Result{
		Text:       Normalize(text),
		Pages:      pages,
		SourceType: constants.PDF,
		Method:     "pdf-ocr",
		Language:   e.cfg.TesseractLang,
		Warnings:   warns,
	}, nil
}
