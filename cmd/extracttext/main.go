package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kehinde-ajayi/docchat/internal/common"
	"github.com/kehinde-ajayi/docchat/internal/extract"
)

// extracttext runs one-shot text extraction for a single PDF or image and
// prints the normalized text to stdout. Diagnostics go to stderr.
func main() {
	logger := zap.NewNop()
	if os.Getenv("EXTRACT_DEBUG") != "" {
		l, err := zap.NewDevelopment()
		if err == nil {
			logger = l
		}
	}
	defer func() {
		_ = logger.Sync()
	}()

	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: extracttext <file.pdf|file.png|file.jpg>")
		os.Exit(2)
	}
	path := os.Args[1]
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(os.Stderr, "cannot stat %s: %v\n", path, err)
		os.Exit(2)
	}

	cfg := common.LoadConfig()

	extractor := extract.NewExtractor(extract.Config{
		Pdftotext:     cfg.Extract.Pdftotext,
		Pdftoppm:      cfg.Extract.Pdftoppm,
		Tesseract:     cfg.Extract.Tesseract,
		TesseractLang: cfg.Extract.TesseractLang,
		TessdataDir:   cfg.Extract.TessdataDir,
		DPI:           cfg.Extract.DPI,
		MaxPages:      cfg.Extract.MaxPages,
	}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Extract.Timeout)
	defer cancel()

	start := time.Now()
	res, err := extractor.Extract(ctx, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "extraction failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "method=%s pages=%d chars=%d elapsed=%s\n",
		res.Method, res.Pages, len(res.Text), time.Since(start).Round(time.Millisecond))
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	fmt.Println(res.Text)
}
