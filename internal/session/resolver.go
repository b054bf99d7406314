// Package session decides, for the signed-in identity, whether a view may
// be shown and follows auth changes.
package session

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dtroode/jobboard/internal/access"
	"github.com/dtroode/jobboard/internal/logger"
	"github.com/dtroode/jobboard/internal/model"
)

// Backend is the auth surface the resolver reads. *client.Client
// satisfies it.
type Backend interface {
	// CurrentIdentity returns nil when nobody is signed in.
	CurrentIdentity(ctx context.Context) (*model.Identity, error)
	Profile(ctx context.Context) (model.Profile, error)
	Subscribe(fn func(identity *model.Identity)) (unsubscribe func())
}

// State is the resolved view state. Profile is nil when it could not be
// loaded.
type State struct {
	Identity *model.Identity
	Profile  *model.Profile
	Decision access.Decision
}

type Resolver struct {
	backend Backend
	logger  *logger.Logger
}

func NewResolver(backend Backend, logger *logger.Logger) *Resolver {
	return &Resolver{backend: backend, logger: logger}
}

// Resolve loads the identity and its profile and authorizes view. owner is
// the company owning the viewed offer, or nil. A failed identity lookup
// counts as signed out.
func (r *Resolver) Resolve(ctx context.Context, view access.View, owner *uuid.UUID) State {
	identity, err := r.backend.CurrentIdentity(ctx)
	if err != nil {
		r.logger.Debug("Session resolver: identity lookup failed",
			"view", view,
			"error", err.Error())
		identity = nil
	}
	return r.resolveFor(ctx, identity, view, owner)
}

func (r *Resolver) resolveFor(ctx context.Context, identity *model.Identity, view access.View, owner *uuid.UUID) State {
	state := State{Identity: identity}
	subject := access.Subject{Identity: identity, ResourceOwner: owner}

	if identity != nil {
		profile, err := r.backend.Profile(ctx)
		if err != nil {
			r.logger.Debug("Session resolver: profile lookup failed",
				"user_id", identity.ID,
				"error", err.Error())
			subject.ProfileErr = err
		} else {
			state.Profile = &profile
			subject.Profile = &profile
		}
	}

	state.Decision = access.Authorize(view, subject)
	return state
}

// Watch calls fn with a fresh State after every sign-in, sign-out and
// token refresh until the returned stop function is called or ctx ends.
// It does not emit an initial State; call Resolve for that. stop is safe
// to call more than once.
func (r *Resolver) Watch(ctx context.Context, view access.View, owner *uuid.UUID, fn func(State)) (stop func()) {
	var stopped atomic.Bool
	done := make(chan struct{})

	unsubscribe := r.backend.Subscribe(func(identity *model.Identity) {
		if stopped.Load() {
			return
		}
		state := r.resolveFor(ctx, identity, view, owner)
		if stopped.Load() {
			return
		}
		fn(state)
	})

	var once sync.Once
	stop = func() {
		once.Do(func() {
			stopped.Store(true)
			unsubscribe()
			close(done)
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			stop()
		case <-done:
		}
	}()

	return stop
}
