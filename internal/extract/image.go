package extract

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kehinde-ajayi/docchat/constants"
	"github.com/kehinde-ajayi/docchat/internal/common"
)

func (e *Extractor) extractImage(ctx context.Context, path string) (Result, error) {
	txt, warn, err := e.tesseractOCR(ctx, path)
	if err != nil {
		e.log.Error("extract.image.failed", zap.String("path", path), zap.Error(err))
		return Result{SourceType: constants.IMAGE, Warnings: warn},
			fmt.Errorf("%w: %v", common.ErrUnreadableDocument, err)
	}
	txt = Normalize(txt)

	e.log.Info("extract.image.ok",
		zap.String("path", path),
		zap.Int("bytes", len(txt)),
	)
	return Result{
		Text:       txt,
		Pages:      1,
		SourceType: constants.IMAGE,
		Method:     "image-ocr",
		Language:   e.cfg.TesseractLang,
		Warnings:   warn,
	}, nil
}

func (e *Extractor) tesseractOCR(ctx context.Context, path string) (string, []string, error) {
	args := []string{path, "stdout", "-l", e.cfg.TesseractLang}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", []string{string(errb)}, fmt.Errorf("tesseract: %w", err)
	}

	// minor cleanup of obvious line noise
	txt := reBoxNoise.ReplaceAllString(string(out), "")
	return txt, nil, nil
}
