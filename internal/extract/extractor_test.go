package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kehinde-ajayi/docchat/constants"
	"github.com/kehinde-ajayi/docchat/internal/common"
)

// stubRunner dispatches on the command name and can fabricate the page
// images pdftoppm would produce.
type stubRunner struct {
	pdftotextOut string
	pdftotextErr error

	pdftoppmPages int
	pdftoppmErr   error

	tesseractOut string
	tesseractErr error

	calls []string
}

func (r *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	r.calls = append(r.calls, name)
	switch name {
	case "pdftotext":
		return []byte(r.pdftotextOut), nil, r.pdftotextErr
	case "pdftoppm":
		if r.pdftoppmErr != nil {
			return nil, []byte("ppm boom"), r.pdftoppmErr
		}
		prefix := args[len(args)-1]
		for i := 1; i <= r.pdftoppmPages; i++ {
			name := prefix + "-" + string(rune('0'+i)) + ".png"
			if err := os.WriteFile(name, []byte("png"), 0o644); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	case "tesseract":
		return []byte(r.tesseractOut), nil, r.tesseractErr
	}
	return nil, nil, errors.New("unexpected command " + name)
}

func newTestExtractor(r Runner) *Extractor {
	e := NewExtractor(Config{}, nil)
	e.runner = r
	return e
}

func TestExtractPDFTextLayer(t *testing.T) {
	r := &stubRunner{pdftotextOut: "Page one\fPage two"}
	e := newTestExtractor(r)

	res, err := e.Extract(context.Background(), "/tmp/sample.pdf")
	require.NoError(t, err)
	assert.Equal(t, "pdf-text", res.Method)
	assert.Equal(t, constants.PDF, res.SourceType)
	assert.Equal(t, 2, res.Pages)
	assert.Contains(t, res.Text, "Page one")
	assert.Equal(t, []string{"pdftotext"}, r.calls, "readable text layer must not trigger OCR")
}

func TestExtractPDFFallsBackToOCR(t *testing.T) {
	r := &stubRunner{
		pdftotextOut:  "   \n  ", // text layer present but empty
		pdftoppmPages: 2,
		tesseractOut:  "scanned words",
	}
	e := newTestExtractor(r)

	res, err := e.Extract(context.Background(), "/tmp/scan.pdf")
	require.NoError(t, err)
	assert.Equal(t, "pdf-ocr", res.Method)
	assert.Equal(t, 2, res.Pages)
	assert.Contains(t, res.Text, "scanned words")
	assert.Contains(t, strings.Join(r.calls, ","), "pdftoppm")
}

func TestExtractPDFAllPagesFailOCR(t *testing.T) {
	r := &stubRunner{
		pdftotextOut:  "", // no text layer
		pdftoppmPages: 3,
		tesseractErr:  errors.New("no text engine"),
	}
	e := newTestExtractor(r)

	_, err := e.Extract(context.Background(), "/tmp/scan.pdf")
	assert.ErrorIs(t, err, common.ErrUnreadableDocument,
		"OCR erroring on every rendered page must not look like an empty document")
}

func TestExtractPDFUnreadable(t *testing.T) {
	r := &stubRunner{
		pdftotextErr: errors.New("broken xref"),
		pdftoppmErr:  errors.New("cannot rasterize"),
	}
	e := newTestExtractor(r)

	_, err := e.Extract(context.Background(), "/tmp/corrupt.pdf")
	assert.ErrorIs(t, err, common.ErrUnreadableDocument)
}

func TestExtractPDFNoPagesRendered(t *testing.T) {
	r := &stubRunner{pdftotextOut: "", pdftoppmPages: 0}
	e := newTestExtractor(r)

	_, err := e.Extract(context.Background(), "/tmp/empty.pdf")
	assert.ErrorIs(t, err, common.ErrUnreadableDocument)
}

func TestExtractImage(t *testing.T) {
	r := &stubRunner{tesseractOut: "RECEIPT\nTOTAL 12.50\n"}
	e := newTestExtractor(r)

	res, err := e.Extract(context.Background(), "/tmp/receipt.jpg")
	require.NoError(t, err)
	assert.Equal(t, "image-ocr", res.Method)
	assert.Equal(t, constants.IMAGE, res.SourceType)
	assert.Equal(t, 1, res.Pages)
	assert.Equal(t, "RECEIPT\nTOTAL 12.50", res.Text)
}

func TestExtractImageFailure(t *testing.T) {
	r := &stubRunner{tesseractErr: errors.New("no text engine")}
	e := newTestExtractor(r)

	_, err := e.Extract(context.Background(), "/tmp/blank.png")
	assert.ErrorIs(t, err, common.ErrUnreadableDocument)
}

func TestExtractUnsupportedExtension(t *testing.T) {
	e := newTestExtractor(&stubRunner{})

	_, err := e.Extract(context.Background(), "/tmp/notes.docx")
	assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
}

func TestNormalize(t *testing.T) {
	in := "a\r\nb\t\tc   d\n\n\n\ne  \n"
	out := Normalize(in)
	assert.Equal(t, "a\nb c d\n\ne", out)
}

func TestMaxPagesCapsOCR(t *testing.T) {
	r := &stubRunner{pdftotextOut: "", pdftoppmPages: 5, tesseractOut: "x"}
	e := NewExtractor(Config{MaxPages: 2}, nil)
	e.runner = r

	res, err := e.Extract(context.Background(), filepath.Join(t.TempDir(), "big.pdf"))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Pages)
}
