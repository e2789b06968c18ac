// Package session holds the per-upload state: the raw document and the
// single normalized result. All core operations go through an explicit
// Session rather than ambient state, and result writes are gated by an
// operation token so a stale in-flight extraction can never overwrite the
// result of a newer one.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mikael-ade/transdoc/internal/models"
)

type Session struct {
	ID string

	mu       sync.Mutex
	doc      *models.RawDocument
	result   models.Result
	op       uuid.UUID // identity of the operation allowed to commit
	lastUsed time.Time
}

func New(doc *models.RawDocument) *Session {
	return &Session{
		ID:       uuid.New().String(),
		doc:      doc,
		lastUsed: time.Now(),
	}
}

// Document returns the raw document owned by this session.
func (s *Session) Document() *models.RawDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()
	return s.doc
}

// Replace installs a new upload. The previous document and result are
// released and any in-flight operation loses its right to commit.
func (s *Session) Replace(doc *models.RawDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	s.result = models.Result{}
	s.op = uuid.Nil
	s.lastUsed = time.Now()
}

// Begin starts a new extraction or translation operation: the prior result is
// cleared in full (no merging across operations) and the returned token is
// the only one Commit will accept until the next Begin or Replace.
func (s *Session) Begin() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = models.Result{}
	s.op = uuid.New()
	s.lastUsed = time.Now()
	return s.op
}

// Commit writes the result if op is still the current operation. A late
// completion from an abandoned operation is dropped and Commit reports false.
func (s *Session) Commit(op uuid.UUID, res models.Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if op != s.op || op == uuid.Nil {
		return false
	}
	s.result = res
	s.lastUsed = time.Now()
	return true
}

// Result returns the current result model.
func (s *Session) Result() models.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()
	return s.result
}

// LastUsed reports when the session was last touched.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}
