// Package register implements the two-phase registration workflow: request
// an OTP, then verify it together with the chosen password to create the
// account.
package register

import (
	"context"
	"errors"
	"sync"
	"time"

	"tms/internal/validate"
	"tms/pkg/tmsapi"
)

type State int

const (
	// Idle is the login view; nothing requested yet.
	Idle State = iota
	// OtpRequested means the server has been asked to email a code.
	OtpRequested
	// Verified is terminal; the flow returns to Idle after a short delay.
	Verified
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case OtpRequested:
		return "otp_requested"
	case Verified:
		return "verified"
	}
	return "unknown"
}

var (
	ErrBusy         = errors.New("request already in flight")
	ErrInvalidDraft = errors.New("invalid registration details")
	ErrNoOTPRequest = errors.New("no otp request in progress")
)

type Draft struct {
	Username string
	Email    string
	Phone    string
	OTP      string
	Password string
}

type Flow struct {
	api *tmsapi.Client

	// resetDelay is how long the success message stays up before the flow
	// returns to the login view.
	resetDelay time.Duration

	mu         sync.Mutex
	state      State
	draft      Draft
	msg        string
	busy       bool
	resetTimer *time.Timer
}

func NewFlow(api *tmsapi.Client) *Flow {
	return &Flow{api: api, resetDelay: 2 * time.Second}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.msg
}

func (f *Flow) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// RequestOTP validates the draft locally and asks the server to email a
// code. Validation failures never reach the network. A 409 (already
// registered) surfaces the server message without a state change.
func (f *Flow) RequestOTP(ctx context.Context, d Draft) error {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return ErrBusy
	}

	switch {
	case !validate.IsValidEmail(d.Email):
		f.msg = "Please enter a valid email address."
	case !validate.IsValidMobile(d.Phone):
		f.msg = "Please enter a valid 10-digit phone number."
	case !validate.IsValidUsername(d.Username):
		f.msg = "Username must be at least 3 characters."
	default:
		f.msg = ""
	}
	if f.msg != "" {
		f.mu.Unlock()
		return ErrInvalidDraft
	}

	f.busy = true
	f.mu.Unlock()

	_, err := f.api.SendOTP(ctx, d.Email, d.Username, d.Phone)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false

	if err != nil {
		var apiErr *tmsapi.APIError
		switch {
		case errors.As(err, &apiErr) && apiErr.Status == 409:
			// Already registered; stay where we are.
			f.msg = apiErr.Message
		case errors.As(err, &apiErr) && apiErr.Message != "":
			f.msg = apiErr.Message
		case errors.As(err, &apiErr):
			f.msg = "Failed to send OTP."
		default:
			f.msg = "Network error. Please try again."
		}
		return err
	}

	f.state = OtpRequested
	f.draft = d
	f.msg = "OTP sent to your email! Please check and enter it below."
	return nil
}

// VerifyAndRegister submits the OTP and password. Only callable once an OTP
// has been requested. On success the flow shows the confirmation briefly and
// then resets to Idle so the user can log in.
func (f *Flow) VerifyAndRegister(ctx context.Context, otp, password string) error {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return ErrBusy
	}
	if f.state != OtpRequested {
		f.mu.Unlock()
		return ErrNoOTPRequest
	}

	switch {
	case !validate.IsValidOTP(otp):
		f.msg = "Please enter a valid 6-digit OTP."
	case !validate.IsValidPassword(password):
		f.msg = "Password must be at least 6 characters."
	default:
		f.msg = ""
	}
	if f.msg != "" {
		f.mu.Unlock()
		return ErrInvalidDraft
	}

	email := f.draft.Email
	f.busy = true
	f.mu.Unlock()

	_, err := f.api.VerifyRegister(ctx, email, otp, password)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false

	if err != nil {
		// Stay in OtpRequested; the user can correct the OTP and resubmit.
		var apiErr *tmsapi.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			f.msg = apiErr.Message
		} else if errors.As(err, &apiErr) {
			f.msg = "Verification failed."
		} else {
			f.msg = "Network error. Please try again."
		}
		return err
	}

	f.state = Verified
	f.msg = "Registration successful! Please login with your credentials."
	f.resetTimer = time.AfterFunc(f.resetDelay, f.Reset)
	return nil
}

// ResendOTP clears the entered code so a fresh RequestOTP can be submitted.
// The OTP is never resent automatically; the user must trigger it.
func (f *Flow) ResendOTP() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != OtpRequested {
		return
	}
	f.draft.OTP = ""
}

// Reset discards the draft and returns to the login view.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resetTimer != nil {
		f.resetTimer.Stop()
		f.resetTimer = nil
	}
	f.state = Idle
	f.draft = Draft{}
	f.msg = ""
}
