package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kehinde-ajayi/docchat/internal/common"
)

// Responder answers a question grounded in one document's text. It is
// expected to keep a conversational context per document name.
type Responder interface {
	Ask(ctx context.Context, docName, docText, question string) (string, error)
}

// Dispatcher executes one question/answer exchange against a document.
type Dispatcher struct {
	store     *Store
	responder Responder
	log       *zap.Logger
}

func NewDispatcher(store *Store, responder Responder, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{store: store, responder: responder, log: logger}
}

// Ask appends the user turn, asks the responder, and appends the assistant
// turn on success. On responder failure the user turn is kept, so the
// transcript records the unanswered question and the exchange can be retried.
func (d *Dispatcher) Ask(ctx context.Context, name, question string) (Turn, error) {
	if name == "" {
		return Turn{}, common.ErrNoActiveDocument
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return Turn{}, fmt.Errorf("%w: question is empty", common.ErrInvalidInput)
	}

	doc, ok := d.store.Document(name)
	if !ok {
		return Turn{}, fmt.Errorf("%w: %q", common.ErrDocumentNotFound, name)
	}

	if err := d.store.AppendTurn(name, Turn{Role: RoleUser, Message: question, At: time.Now().UTC()}); err != nil {
		return Turn{}, err
	}

	start := time.Now()
	answer, err := d.responder.Ask(ctx, doc.Name, doc.Text, question)
	if err != nil {
		d.log.Error("chat.ask.failed",
			zap.String("document", name),
			zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
			zap.Error(err),
		)
		return Turn{}, err
	}

	turn := Turn{Role: RoleAssistant, Message: answer, At: time.Now().UTC()}
	if err := d.store.AppendTurn(name, turn); err != nil {
		// The document was removed mid-exchange; the answer has nowhere to go.
		return Turn{}, err
	}

	d.log.Info("chat.ask.ok",
		zap.String("document", name),
		zap.Int("question_len", len(question)),
		zap.Int("answer_len", len(answer)),
		zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
	)
	return turn, nil
}
