// Package profile updates account fields one at a time and re-probes the
// session gate afterwards so derived state (greeting, admin controls) stays
// correct.
package profile

import (
	"context"
	"errors"
	"sync"

	"tms/internal/session"
	"tms/internal/validate"
	"tms/pkg/tmsapi"
)

var (
	ErrBusy         = errors.New("request already in flight")
	ErrInvalidField = errors.New("invalid profile field")
)

type Flow struct {
	api  *tmsapi.Client
	gate *session.Gate

	mu   sync.Mutex
	msg  string
	busy bool
}

func NewFlow(api *tmsapi.Client, gate *session.Gate) *Flow {
	return &Flow{api: api, gate: gate}
}

func (f *Flow) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.msg
}

func (f *Flow) UpdateUsername(ctx context.Context, next string) error {
	if next == "" {
		f.setMessage("Username cannot be empty.")
		return ErrInvalidField
	}
	if next == f.gate.Current().Username {
		f.setMessage("Username is the same. No changes made.")
		return nil
	}
	return f.submit(ctx, func(ctx context.Context) (string, error) {
		return f.api.UpdateUsername(ctx, next)
	}, "Failed to update username.")
}

func (f *Flow) UpdateEmail(ctx context.Context, next string) error {
	if !validate.IsValidEmail(next) {
		f.setMessage("Please enter a valid email address.")
		return ErrInvalidField
	}
	if next == f.gate.Current().Email {
		f.setMessage("Email is the same. No changes made.")
		return nil
	}
	return f.submit(ctx, func(ctx context.Context) (string, error) {
		return f.api.UpdateEmail(ctx, next)
	}, "Failed to update email.")
}

func (f *Flow) UpdatePhone(ctx context.Context, next string) error {
	if !validate.IsValidMobile(next) {
		f.setMessage("Please enter a valid 10-digit phone number.")
		return ErrInvalidField
	}
	if next == f.gate.Current().Phone {
		f.setMessage("Phone number is the same. No changes made.")
		return nil
	}
	return f.submit(ctx, func(ctx context.Context) (string, error) {
		return f.api.UpdatePhone(ctx, next)
	}, "Failed to update phone.")
}

func (f *Flow) UpdatePassword(ctx context.Context, next string) error {
	if !validate.IsValidPassword(next) {
		f.setMessage("Password must be at least 6 characters.")
		return ErrInvalidField
	}
	return f.submit(ctx, func(ctx context.Context) (string, error) {
		return f.api.UpdatePassword(ctx, next)
	}, "Failed to update password.")
}

func (f *Flow) submit(ctx context.Context, op func(context.Context) (string, error), fallback string) error {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return ErrBusy
	}
	f.busy = true
	f.mu.Unlock()

	msg, err := op(ctx)

	f.mu.Lock()
	f.busy = false
	if err != nil {
		var apiErr *tmsapi.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			f.msg = apiErr.Message
		} else if errors.As(err, &apiErr) {
			f.msg = fallback
		} else {
			f.msg = "Network error. Please try again."
		}
		f.mu.Unlock()
		return err
	}
	f.msg = msg
	f.mu.Unlock()

	// Re-probe so every view sees the updated account.
	_, err = f.gate.Probe(ctx)
	return err
}

func (f *Flow) setMessage(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msg = msg
}
