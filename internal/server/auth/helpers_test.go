package auth

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/credgate/internal/common"
	"github.com/dmitrijs2005/credgate/internal/logging"
	"github.com/dmitrijs2005/credgate/internal/server/models"
	"golang.org/x/crypto/bcrypt"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

// recordingLogger keeps messages with their level so tests can assert on them.
type recordingLogger struct {
	mu      *sync.Mutex
	entries *[]logEntry
	attrs   []any
}

type logEntry struct {
	level string
	msg   string
	args  []any
}

func newRecordingLogger() recordingLogger {
	return recordingLogger{mu: &sync.Mutex{}, entries: &[]logEntry{}}
}

func (r recordingLogger) add(level, msg string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.entries = append(*r.entries, logEntry{level: level, msg: msg, args: append(append([]any{}, r.attrs...), args...)})
}

func (r recordingLogger) Debug(_ context.Context, msg string, args ...any) { r.add("debug", msg, args) }
func (r recordingLogger) Info(_ context.Context, msg string, args ...any)  { r.add("info", msg, args) }
func (r recordingLogger) Warn(_ context.Context, msg string, args ...any)  { r.add("warn", msg, args) }
func (r recordingLogger) Error(_ context.Context, msg string, args ...any) { r.add("error", msg, args) }
func (r recordingLogger) With(args ...any) logging.Logger {
	return recordingLogger{mu: r.mu, entries: r.entries, attrs: append(append([]any{}, r.attrs...), args...)}
}

func (r recordingLogger) all() []logEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]logEntry(nil), *r.entries...)
}

type fakeStore struct {
	users map[string]*models.User
	err   error
	calls atomic.Int32
}

func (f *fakeStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

// countingHasher wraps a real hasher and counts comparisons.
type countingHasher struct {
	PasswordHasher
	verifies atomic.Int32
}

func (c *countingHasher) Verify(password, hash string) bool {
	c.verifies.Add(1)
	return c.PasswordHasher.Verify(password, hash)
}

func newTestHasher() *BcryptHasher {
	return NewBcryptHasher(bcrypt.MinCost)
}

func mustHash(h PasswordHasher, password string) string {
	s, err := h.Hash(password)
	if err != nil {
		panic(err)
	}
	return s
}
