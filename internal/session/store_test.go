package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kehinde-ajayi/docchat/constants"
	"github.com/kehinde-ajayi/docchat/internal/common"
)

func doc(name, kind string) Document {
	return Document{Name: name, Text: "text of " + name, Kind: kind}
}

func TestAddDocumentMakesItActive(t *testing.T) {
	s := NewStore(nil)

	s.AddDocument(doc("a.pdf", constants.PDF))
	assert.Equal(t, "a.pdf", s.ActiveName())

	s.AddDocument(doc("b.png", constants.IMAGE))
	assert.Equal(t, "b.png", s.ActiveName())
	assert.Equal(t, 2, s.Len())
}

func TestDocumentAndTranscriptKeysMatch(t *testing.T) {
	s := NewStore(nil)
	s.AddDocument(doc("a.pdf", constants.PDF))
	s.AddDocument(doc("b.png", constants.IMAGE))

	for _, d := range s.List() {
		_, err := s.Transcript(d.Name)
		require.NoError(t, err, "every document must have a transcript entry")
	}

	require.NoError(t, s.RemoveDocument("a.pdf"))
	_, err := s.Transcript("a.pdf")
	assert.ErrorIs(t, err, common.ErrDocumentNotFound)
}

func TestOverwritePreservesTranscript(t *testing.T) {
	s := NewStore(nil)
	s.AddDocument(doc("a.pdf", constants.PDF))
	require.NoError(t, s.AppendTurn("a.pdf", Turn{Role: RoleUser, Message: "q1"}))
	require.NoError(t, s.AppendTurn("a.pdf", Turn{Role: RoleAssistant, Message: "a1"}))

	s.AddDocument(Document{Name: "a.pdf", Text: "new text", Kind: constants.PDF})

	d, ok := s.Document("a.pdf")
	require.True(t, ok)
	assert.Equal(t, "new text", d.Text)
	assert.Equal(t, 2, s.TurnCount("a.pdf"), "re-upload must keep the transcript")
	assert.Equal(t, 1, s.Len())
}

func TestRemoveActiveReassignsInInsertionOrder(t *testing.T) {
	s := NewStore(nil)
	s.AddDocument(doc("a.pdf", constants.PDF))
	s.AddDocument(doc("b.png", constants.IMAGE))
	require.NoError(t, s.SetActive("a.pdf"))

	require.NoError(t, s.RemoveDocument("a.pdf"))
	assert.Equal(t, "b.png", s.ActiveName())

	require.NoError(t, s.RemoveDocument("b.png"))
	assert.Equal(t, "", s.ActiveName())

	_, ok := s.GetActive()
	assert.False(t, ok)
}

func TestRemoveInactiveKeepsActive(t *testing.T) {
	s := NewStore(nil)
	s.AddDocument(doc("a.pdf", constants.PDF))
	s.AddDocument(doc("b.png", constants.IMAGE))

	require.NoError(t, s.RemoveDocument("a.pdf"))
	assert.Equal(t, "b.png", s.ActiveName())
}

func TestRemoveDeletesBackingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))

	s := NewStore(nil)
	s.AddDocument(Document{Name: "a.pdf", Text: "t", Kind: constants.PDF, Path: path})

	require.NoError(t, s.RemoveDocument("a.pdf"))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestRemoveSurvivesFileDeleteFailure(t *testing.T) {
	s := NewStore(nil)
	s.removeFile = func(string) error { return errors.New("permission denied") }
	s.AddDocument(Document{Name: "a.pdf", Text: "t", Kind: constants.PDF, Path: "/nope/a.pdf"})

	require.NoError(t, s.RemoveDocument("a.pdf"))
	assert.Equal(t, 0, s.Len())
}

func TestSetActiveRejectsUnknown(t *testing.T) {
	s := NewStore(nil)
	s.AddDocument(doc("a.pdf", constants.PDF))

	err := s.SetActive("ghost.pdf")
	assert.ErrorIs(t, err, common.ErrDocumentNotFound)
	assert.Equal(t, "a.pdf", s.ActiveName(), "failed activation must not change the active reference")
}

func TestClearTranscript(t *testing.T) {
	s := NewStore(nil)
	s.AddDocument(doc("a.pdf", constants.PDF))
	require.NoError(t, s.AppendTurn("a.pdf", Turn{Role: RoleUser, Message: "q"}))

	require.NoError(t, s.ClearTranscript("a.pdf"))
	assert.Equal(t, 0, s.TurnCount("a.pdf"))

	d, ok := s.Document("a.pdf")
	require.True(t, ok)
	assert.NotEmpty(t, d.Text, "clearing the transcript must not touch the document text")

	assert.ErrorIs(t, s.ClearTranscript("ghost.pdf"), common.ErrDocumentNotFound)
}

func TestListPreservesInsertionOrder(t *testing.T) {
	s := NewStore(nil)
	s.AddDocument(doc("c.pdf", constants.PDF))
	s.AddDocument(doc("a.pdf", constants.PDF))
	s.AddDocument(doc("b.png", constants.IMAGE))

	var names []string
	for _, d := range s.List() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"c.pdf", "a.pdf", "b.png"}, names)
}

func TestTranscriptReturnsCopy(t *testing.T) {
	s := NewStore(nil)
	s.AddDocument(doc("a.pdf", constants.PDF))
	require.NoError(t, s.AppendTurn("a.pdf", Turn{Role: RoleUser, Message: "q"}))

	turns, err := s.Transcript("a.pdf")
	require.NoError(t, err)
	turns[0].Message = "mutated"

	fresh, err := s.Transcript("a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "q", fresh[0].Message)
}
