package pages

import (
	"log/slog"
	"sync"

	"github.com/abissens/elepages/internal/logfields"
	"github.com/abissens/elepages/pkg/errors"
)

// EnvRootPath is the conventional env key installed by the driver: the
// filesystem path of the input root, which is also the git repository root.
const EnvRootPath = "root_path"

// Env is the ambient context handed to every stage: a typed key/value map of
// opaque heterogeneous values plus verbosity-gated trace emission.
type Env struct {
	mu        sync.RWMutex
	values    map[string]any
	Verbosity int
	logger    *slog.Logger
}

// NewEnv returns an empty env logging through slog.Default.
func NewEnv() *Env {
	return &Env{values: map[string]any{}, logger: slog.Default()}
}

// WithLogger replaces the env logger (fluent helper).
func (e *Env) WithLogger(l *slog.Logger) *Env {
	e.logger = l
	return e
}

// WithVerbosity sets the trace verbosity (fluent helper).
func (e *Env) WithVerbosity(v int) *Env {
	e.Verbosity = v
	return e
}

// Insert stores a value under key, returning the previous value if any.
func (e *Env) Insert(key string, value any) any {
	e.mu.Lock()
	defer e.mu.Unlock()
	prev := e.values[key]
	e.values[key] = value
	return prev
}

// Get returns the raw value stored under key.
func (e *Env) Get(key string) (any, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.values[key]
	return v, ok
}

// GetString returns the string stored under key, or an element_not_found
// error when the key is absent or holds another type.
func (e *Env) GetString(key string) (string, error) {
	v, ok := e.Get(key)
	if !ok {
		return "", errors.ElementNotFound(key)
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.ElementNotFound(key)
	}
	return s, nil
}

// PrintV emits a trace record at verbosity >= 1.
func (e *Env) PrintV(tag, msg string) { e.print(1, tag, msg) }

// PrintVV emits a trace record at verbosity >= 2.
func (e *Env) PrintVV(tag, msg string) { e.print(2, tag, msg) }

// PrintVVV emits a trace record at verbosity >= 3.
func (e *Env) PrintVVV(tag, msg string) { e.print(3, tag, msg) }

func (e *Env) print(level int, tag, msg string) {
	if e.Verbosity < level {
		return
	}
	logger := e.logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info(msg, logfields.Stage(tag))
}
