package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dtroode/pushgate/internal/logger"
	"github.com/dtroode/pushgate/internal/model"
)

// registrationTimeout bounds a shared registration attempt. Registration
// outlives any single caller, so the attempt runs on its own deadline
// rather than the first caller's context.
const registrationTimeout = time.Minute

// Registrar provides the single background worker registration. Concurrent
// callers share one in-flight attempt instead of racing to register.
type Registrar struct {
	runtime model.WorkerRuntime
	script  string
	scope   string
	logger  *logger.Logger

	mu       sync.Mutex
	inflight *registration
}

type registration struct {
	done   chan struct{}
	worker model.Worker
	err    error
}

func NewRegistrar(runtime model.WorkerRuntime, script, scope string, logger *logger.Logger) *Registrar {
	return &Registrar{
		runtime: runtime,
		script:  script,
		scope:   scope,
		logger:  logger,
	}
}

var _ model.WorkerRegistrar = (*Registrar)(nil)

// EnsureRegistered returns the active worker registration, reusing an
// existing one when present and registering a new worker otherwise. A failed
// attempt is not retried internally; the next call starts a fresh one.
func (r *Registrar) EnsureRegistered(ctx context.Context) (model.Worker, error) {
	r.mu.Lock()
	reg := r.inflight
	if reg == nil {
		reg = &registration{done: make(chan struct{})}
		r.inflight = reg
		go r.run(reg)
	}
	r.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-reg.done:
	}
	return reg.worker, reg.err
}

// Current returns the existing registration without creating one.
func (r *Registrar) Current(ctx context.Context) (model.Worker, error) {
	return r.runtime.Registration(ctx, r.scope)
}

func (r *Registrar) run(reg *registration) {
	ctx, cancel := context.WithTimeout(context.Background(), registrationTimeout)
	defer cancel()

	reg.worker, reg.err = r.register(ctx)
	close(reg.done)

	if reg.err != nil {
		r.mu.Lock()
		if r.inflight == reg {
			r.inflight = nil
		}
		r.mu.Unlock()
	}
}

func (r *Registrar) register(ctx context.Context) (model.Worker, error) {
	worker, err := r.runtime.Registration(ctx, r.scope)
	if err == nil {
		r.logger.Debug("reusing existing worker registration", "scope", r.scope)
		return worker, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		r.logger.Debug("registration lookup failed, registering a new worker",
			"scope", r.scope,
			"error", err.Error())
	}

	worker, err = r.runtime.Register(ctx, r.script, r.scope)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrRegistrationFailed, err)
	}

	r.logger.Info("registered background worker", "script", r.script, "scope", r.scope)
	return worker, nil
}
