package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kehinde-ajayi/docchat/constants"
	"github.com/kehinde-ajayi/docchat/internal/common"
)

type fakeResponder struct {
	answer string
	err    error

	calls     int
	gotName   string
	gotText   string
	gotPrompt string
}

func (f *fakeResponder) Ask(_ context.Context, docName, docText, question string) (string, error) {
	f.calls++
	f.gotName = docName
	f.gotText = docText
	f.gotPrompt = question
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func TestAskAppendsBothTurns(t *testing.T) {
	s := NewStore(nil)
	s.AddDocument(Document{Name: "a.pdf", Text: "the document text", Kind: constants.PDF})
	r := &fakeResponder{answer: "forty-two"}
	d := NewDispatcher(s, r, nil)

	turn, err := d.Ask(context.Background(), "a.pdf", "what is the answer?")
	require.NoError(t, err)
	assert.Equal(t, RoleAssistant, turn.Role)
	assert.Equal(t, "forty-two", turn.Message)
	assert.Equal(t, "the document text", r.gotText)

	turns, err := s.Transcript("a.pdf")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, RoleUser, turns[0].Role)
	assert.Equal(t, "what is the answer?", turns[0].Message)
	assert.Equal(t, RoleAssistant, turns[1].Role)
	assert.Equal(t, "forty-two", turns[1].Message)
}

func TestAskResponderFailureKeepsUserTurn(t *testing.T) {
	s := NewStore(nil)
	s.AddDocument(Document{Name: "a.pdf", Text: "text", Kind: constants.PDF})
	r := &fakeResponder{err: common.ErrResponderUnavailable}
	d := NewDispatcher(s, r, nil)

	_, err := d.Ask(context.Background(), "a.pdf", "q")
	assert.ErrorIs(t, err, common.ErrResponderUnavailable)

	turns, terr := s.Transcript("a.pdf")
	require.NoError(t, terr)
	require.Len(t, turns, 1, "the unanswered question stays on the transcript")
	assert.Equal(t, RoleUser, turns[0].Role)
}

func TestAskNoActiveDocument(t *testing.T) {
	d := NewDispatcher(NewStore(nil), &fakeResponder{}, nil)

	_, err := d.Ask(context.Background(), "", "q")
	assert.ErrorIs(t, err, common.ErrNoActiveDocument)
}

func TestAskUnknownDocument(t *testing.T) {
	d := NewDispatcher(NewStore(nil), &fakeResponder{}, nil)

	_, err := d.Ask(context.Background(), "ghost.pdf", "q")
	assert.ErrorIs(t, err, common.ErrDocumentNotFound)
}

func TestAskEmptyQuestion(t *testing.T) {
	s := NewStore(nil)
	s.AddDocument(Document{Name: "a.pdf", Text: "text", Kind: constants.PDF})
	r := &fakeResponder{}
	d := NewDispatcher(s, r, nil)

	_, err := d.Ask(context.Background(), "a.pdf", "   \n\t ")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	assert.Zero(t, r.calls)
	assert.Zero(t, s.TurnCount("a.pdf"))
}
