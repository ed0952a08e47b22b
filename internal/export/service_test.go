package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/kehinde-ajayi/docchat/constants"
	"github.com/kehinde-ajayi/docchat/internal/common"
	"github.com/kehinde-ajayi/docchat/internal/session"
)

func TestFormatTranscript(t *testing.T) {
	turns := []session.Turn{
		{Role: session.RoleUser, Message: "a"},
		{Role: session.RoleAssistant, Message: "b"},
	}
	assert.Equal(t, "You: a\nAI: b", FormatTranscript(turns))
	assert.Equal(t, "", FormatTranscript(nil))
}

func TestTranscriptText(t *testing.T) {
	store := session.NewStore(nil)
	store.AddDocument(session.Document{Name: "a.pdf", Text: "t", Kind: constants.PDF})
	require.NoError(t, store.AppendTurn("a.pdf", session.Turn{Role: session.RoleUser, Message: "what is this?"}))
	require.NoError(t, store.AppendTurn("a.pdf", session.Turn{Role: session.RoleAssistant, Message: "an invoice"}))

	svc := NewService(store, nil)
	text, err := svc.TranscriptText("a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "You: what is this?\nAI: an invoice", text)

	_, err = svc.TranscriptText("ghost.pdf")
	assert.ErrorIs(t, err, common.ErrDocumentNotFound)
}

func TestDocumentText(t *testing.T) {
	store := session.NewStore(nil)
	store.AddDocument(session.Document{Name: "a.pdf", Text: "extracted body", Kind: constants.PDF})

	svc := NewService(store, nil)
	text, err := svc.DocumentText("a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "extracted body", text)

	_, err = svc.DocumentText("ghost.pdf")
	assert.ErrorIs(t, err, common.ErrDocumentNotFound)
}

func TestSessionReportXLSX(t *testing.T) {
	store := session.NewStore(nil)
	uploaded := time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC)
	store.AddDocument(session.Document{Name: "a.pdf", Text: "12345", Kind: constants.PDF, UploadedAt: uploaded})
	store.AddDocument(session.Document{Name: "b.png", Text: "xy", Kind: constants.IMAGE, UploadedAt: uploaded})
	require.NoError(t, store.AppendTurn("a.pdf", session.Turn{Role: session.RoleUser, Message: "q"}))

	svc := NewService(store, nil)
	buf, err := svc.SessionReportXLSX()
	require.NoError(t, err)
	require.NotEmpty(t, buf)

	f, err := excelize.OpenReader(bytes.NewReader(buf))
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()

	rows, err := f.GetRows("Documents")
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per document")

	assert.Equal(t, "Document", rows[0][0])
	assert.Equal(t, "a.pdf", rows[1][0])
	assert.Equal(t, constants.PDF, rows[1][1])
	assert.Equal(t, "5", rows[1][2])
	assert.Equal(t, "1", rows[1][3])
	assert.Equal(t, "b.png", rows[2][0])
	assert.Equal(t, "yes", rows[2][5], "last uploaded document is active")
}
