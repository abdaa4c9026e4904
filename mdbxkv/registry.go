package mdbxkv

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/glycerine/idem"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/erigontech/mdbxkv/kv"
	"github.com/erigontech/mdbxkv/kv/mdbx"
)

// EnvClosingEvent is a waitable signal that an Environment has started (and
// possibly finished) closing, grounded on glycerine-lmdb-go's Barrier use of
// idem.Halter for a goroutine-safe gate.
type EnvClosingEvent struct {
	halt *idem.Halter
}

func newEnvClosingEvent() *EnvClosingEvent {
	return &EnvClosingEvent{halt: idem.NewHalter()}
}

// signal marks the environment as closing; safe to call more than once.
func (e *EnvClosingEvent) signal() {
	e.halt.ReqStop.Close()
	e.halt.Done.Close()
}

// Wait blocks until the environment has finished closing, or timeout elapses
// if timeout > 0. Returns true if the close completed before the deadline.
func (e *EnvClosingEvent) Wait(timeout time.Duration) bool {
	if timeout <= 0 {
		<-e.halt.Done.Chan
		return true
	}
	select {
	case <-e.halt.Done.Chan:
		return true
	case <-time.After(timeout):
		return false
	}
}

type registryEntry struct {
	env     *Environment
	options OpenOptions
	closing *EnvClosingEvent
}

var (
	registryMu sync.RWMutex
	registry   = map[string]*registryEntry{}
	openGroup  singleflight.Group
)

// Open resolves path to its canonical form and either attaches to the
// already-open Environment registered for it (erroring if opts is not
// equivalent to the options it was opened with) or opens a fresh one,
// grounded on heed's env.rs OPENED_ENV global registry.
//
// Concurrent Open calls on the same path are de-duplicated through a
// singleflight group so only one goroutine actually touches the engine.
func Open(path string, opts OpenOptions) (*Environment, error) {
	canon, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("mdbxkv: resolving path %q: %w", path, err)
	}

	v, err, _ := openGroup.Do(canon, func() (any, error) {
		registryMu.Lock()
		defer registryMu.Unlock()

		if entry, ok := registry[canon]; ok {
			if !entry.options.equivalent(opts) {
				return nil, ErrAlreadyOpen
			}
			entry.env.refs.Add(1)
			return entry.env, nil
		}

		openEngine := opts.engineOpen
		if openEngine == nil {
			openEngine = mdbx.Open
		}
		rawEnv, err := openEngine(canon, opts.Flags, opts.maxReaders(), opts.maxDBs(), int64(opts.MapSize))
		if err != nil {
			return nil, fromRaw("open", err)
		}

		env := newEnvironment(canon, rawEnv, opts)
		registry[canon] = &registryEntry{env: env, options: opts, closing: newEnvClosingEvent()}
		opts.logger().Info("environment opened", zap.String("path", canon))
		return env, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Environment), nil
}

// evictRegistry removes env's entry from the registry, if it is still
// there, and returns the EnvClosingEvent callers should signal once the
// engine is actually closed. It is idempotent: a path already evicted (by
// an earlier PrepareForClosing or Close on the same Environment) returns a
// fresh, not-yet-signaled event instead of re-deleting anything, but
// Environment.closingEvent caches the first result so every caller for one
// Environment observes the same event regardless of which call evicted it.
func evictRegistry(env *Environment) *EnvClosingEvent {
	registryMu.Lock()
	defer registryMu.Unlock()
	if entry, ok := registry[env.path]; ok && entry.env == env {
		delete(registry, env.path)
		return entry.closing
	}
	return newEnvClosingEvent()
}

// ClosingEventFor returns the waitable close signal registered for path, if
// an Environment is (or was, until just now) open there.
func ClosingEventFor(path string) (*EnvClosingEvent, bool) {
	canon, err := filepath.Abs(path)
	if err != nil {
		return nil, false
	}
	registryMu.RLock()
	defer registryMu.RUnlock()
	entry, ok := registry[canon]
	if !ok {
		return nil, false
	}
	return entry.closing, true
}
