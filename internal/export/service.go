package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/kehinde-ajayi/docchat/internal/common"
	"github.com/kehinde-ajayi/docchat/internal/session"
)

// Service produces downloadable renditions of session state: plain-text
// transcripts and document text, and an XLSX session report.
type Service struct {
	store  *session.Store
	logger *zap.Logger
}

func NewService(store *session.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// FormatTranscript renders turns as alternating "You:" / "AI:" lines, one
// per turn, joined by newlines.
func FormatTranscript(turns []session.Turn) string {
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		label := "AI"
		if t.Role == session.RoleUser {
			label = "You"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", label, t.Message))
	}
	return strings.Join(lines, "\n")
}

// TranscriptText returns the named document's transcript as plain text.
func (s *Service) TranscriptText(name string) (string, error) {
	turns, err := s.store.Transcript(name)
	if err != nil {
		return "", err
	}
	return FormatTranscript(turns), nil
}

// DocumentText returns the extracted text of the named document.
func (s *Service) DocumentText(name string) (string, error) {
	doc, ok := s.store.Document(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", common.ErrDocumentNotFound, name)
	}
	return doc.Text, nil
}

// SessionReportXLSX returns an XLSX workbook summarizing every document in
// the session: one row per document with its kind, text size, turn count,
// and upload time.
func (s *Service) SessionReportXLSX() ([]byte, error) {
	start := time.Now()

	docs := s.store.List()
	active := s.store.ActiveName()

	f := excelize.NewFile()
	const sheet = "Documents"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("%w: create sheet: %v", common.ErrInternal, err)
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// Drop the default sheet excelize creates.
	if index, _ := f.GetSheetIndex("Sheet1"); index != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"Document",
		"Kind",
		"Text Chars",
		"Turns",
		"Uploaded At",
		"Active",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, d := range docs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, d.Name)
		write(2, d.Kind)
		write(3, len(d.Text))
		write(4, s.store.TurnCount(d.Name))
		if !d.UploadedAt.IsZero() {
			write(5, d.UploadedAt.UTC().Format("2006-01-02 15:04:05"))
		} else {
			write(5, "")
		}
		if d.Name == active {
			write(6, "yes")
		} else {
			write(6, "")
		}

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 36) // document name
	_ = f.SetColWidth(sheet, "B", "B", 10)
	_ = f.SetColWidth(sheet, "C", "D", 12)
	_ = f.SetColWidth(sheet, "E", "E", 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, common.WrapError(err, "xlsx write")
	}

	s.logger.Info("export.report.ok",
		zap.Int("documents", len(docs)),
		zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
	)
	return buf.Bytes(), nil
}
