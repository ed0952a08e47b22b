package session

import (
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kehinde-ajayi/docchat/internal/common"
)

// Store holds the authoritative set of documents and their transcripts for
// one session. Documents and transcripts are created and destroyed together,
// so their key sets are always identical. All state is in memory; only the
// uploaded files themselves live on disk.
type Store struct {
	mu          sync.Mutex
	docs        map[string]Document
	transcripts map[string][]Turn
	order       []string // insertion order, drives active reassignment
	active      string
	log         *zap.Logger

	// removeFile is swapped in tests; defaults to os.Remove.
	removeFile func(string) error
}

func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		docs:        make(map[string]Document),
		transcripts: make(map[string][]Turn),
		log:         logger,
		removeFile:  os.Remove,
	}
}

// AddDocument inserts or overwrites the document entry for doc.Name and makes
// it the active document. An existing transcript under the same name is
// preserved; the prior text is silently discarded.
func (s *Store) AddDocument(doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[doc.Name]; !exists {
		s.order = append(s.order, doc.Name)
		s.transcripts[doc.Name] = nil
	} else {
		s.log.Info("session.document.overwritten", zap.String("name", doc.Name))
	}
	s.docs[doc.Name] = doc
	s.active = doc.Name
}

// SetActive sets the active document reference. Unknown names are rejected.
func (s *Store) SetActive(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[name]; !ok {
		return fmt.Errorf("%w: %q", common.ErrDocumentNotFound, name)
	}
	s.active = name
	return nil
}

// RemoveDocument deletes the document and its transcript, and best-effort
// deletes the backing file. A failed file deletion is logged as a warning and
// does not block the in-memory removal. If the removed document was active,
// the first remaining document in insertion order becomes active.
func (s *Store) RemoveDocument(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[name]
	if !ok {
		return fmt.Errorf("%w: %q", common.ErrDocumentNotFound, name)
	}

	delete(s.docs, name)
	delete(s.transcripts, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	if doc.Path != "" {
		if err := s.removeFile(doc.Path); err != nil {
			s.log.Warn("session.document.file_delete_failed",
				zap.String("name", name),
				zap.String("path", doc.Path),
				zap.Error(err),
			)
		}
	}

	if s.active == name {
		if len(s.order) > 0 {
			s.active = s.order[0]
		} else {
			s.active = ""
		}
	}

	s.log.Info("session.document.removed", zap.String("name", name), zap.String("active", s.active))
	return nil
}

// ClearTranscript empties the transcript for name in place; the document and
// its text are untouched.
func (s *Store) ClearTranscript(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[name]; !ok {
		return fmt.Errorf("%w: %q", common.ErrDocumentNotFound, name)
	}
	s.transcripts[name] = nil
	return nil
}

// AppendTurn appends one turn to the transcript for name.
func (s *Store) AppendTurn(name string, turn Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[name]; !ok {
		return fmt.Errorf("%w: %q", common.ErrDocumentNotFound, name)
	}
	if turn.At.IsZero() {
		turn.At = time.Now().UTC()
	}
	s.transcripts[name] = append(s.transcripts[name], turn)
	return nil
}

// Document returns a copy of the named document.
func (s *Store) Document(name string) (Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[name]
	return doc, ok
}

// Transcript returns a copy of the named document's transcript.
func (s *Store) Transcript(name string) ([]Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[name]; !ok {
		return nil, fmt.Errorf("%w: %q", common.ErrDocumentNotFound, name)
	}
	return append([]Turn(nil), s.transcripts[name]...), nil
}

// ActiveName returns the active document name, or "" when none is active.
func (s *Store) ActiveName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// GetActive returns a snapshot of the active document and its transcript.
// The second return is false when no document is active.
func (s *Store) GetActive() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == "" {
		return Snapshot{}, false
	}
	doc := s.docs[s.active]
	return Snapshot{
		Document:   doc,
		Transcript: append([]Turn(nil), s.transcripts[s.active]...),
	}, true
}

// List returns all documents in insertion order.
func (s *Store) List() []Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Document, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.docs[name])
	}
	return out
}

// TurnCount returns the transcript length for name, or 0 if absent.
func (s *Store) TurnCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transcripts[name])
}

// Len returns the number of documents in the session.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}
