// Package admintours implements the admin inventory workflow: list, create,
// update and delete tours, keeping the local list in sync by re-fetching
// after every mutation rather than patching it optimistically.
package admintours

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"tms/pkg/tmsapi"
)

var (
	ErrBusy         = errors.New("request already in flight")
	ErrForbidden    = errors.New("access denied: not logged in as admin")
	ErrNotConfirmed = errors.New("deletion not confirmed")
	ErrInvalidDraft = errors.New("invalid tour details")
	ErrUnknownTour  = errors.New("tour not in the current list")

	// ErrRefresh marks a failed re-fetch after a mutation that committed.
	// Callers seeing it know the change went through; only the list is stale.
	ErrRefresh = errors.New("tour list refresh failed")
)

// Status is the transient message bar above the tour table. It clears itself
// after messageTTL.
type Status struct {
	Text string
	OK   bool
}

// Draft carries the form fields as entered; Price stays a string until it is
// coerced to a number just before transmission.
type Draft struct {
	Name        string
	Location    string
	Country     string
	Description string
	Price       string
	ImagePath   string
}

func (d Draft) input() (tmsapi.TourInput, error) {
	price, err := decimal.NewFromString(d.Price)
	if err != nil {
		return tmsapi.TourInput{}, fmt.Errorf("%w: price %q is not a number", ErrInvalidDraft, d.Price)
	}
	return tmsapi.TourInput{
		Name:        d.Name,
		Location:    d.Location,
		Country:     d.Country,
		Description: d.Description,
		Price:       price,
		ImagePath:   d.ImagePath,
	}, nil
}

type Flow struct {
	api        *tmsapi.Client
	confirm    func(prompt string) bool
	messageTTL time.Duration

	mu          sync.Mutex
	tours       []tmsapi.Tour
	status      *Status
	statusTimer *time.Timer
	forbidden   bool
	busy        bool
}

// NewFlow wires the delete-confirmation callback. A nil confirm denies every
// deletion.
func NewFlow(api *tmsapi.Client, confirm func(prompt string) bool) *Flow {
	return &Flow{api: api, confirm: confirm, messageTTL: 3 * time.Second}
}

// Tours returns a copy of the last fetched list.
func (f *Flow) Tours() []tmsapi.Tour {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]tmsapi.Tour, len(f.tours))
	copy(out, f.tours)
	return out
}

// Forbidden reports whether the last refresh was rejected with 403.
func (f *Flow) Forbidden() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.forbidden
}

// Status returns the current message bar, if one is showing.
func (f *Flow) Status() (Status, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status == nil {
		return Status{}, false
	}
	return *f.status, true
}

// Refresh re-fetches the full list. A 403 becomes the distinguished
// forbidden state with an access-denied message, not an empty list.
func (f *Flow) Refresh(ctx context.Context) error {
	tours, err := f.api.AdminListTours(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		var apiErr *tmsapi.APIError
		if errors.As(err, &apiErr) && apiErr.Status == 403 {
			f.tours = nil
			f.forbidden = true
			f.setStatusLocked(Status{Text: "Access Denied: Not logged in as Admin.", OK: false})
			return fmt.Errorf("%w: %s", ErrForbidden, apiErr.Message)
		}
		return err
	}

	f.tours = tours
	f.forbidden = false
	return nil
}

// Create posts a new tour and re-fetches the list on success. The server
// message is surfaced verbatim either way.
func (f *Flow) Create(ctx context.Context, d Draft) error {
	in, err := d.input()
	if err != nil {
		f.mu.Lock()
		f.setStatusLocked(Status{Text: "Price must be a number.", OK: false})
		f.mu.Unlock()
		return err
	}

	return f.mutate(ctx, func(ctx context.Context) (string, error) {
		_, msg, err := f.api.CreateTour(ctx, in)
		return msg, err
	})
}

// Update replaces an existing tour and re-fetches the list on success.
func (f *Flow) Update(ctx context.Context, id int64, d Draft) error {
	in, err := d.input()
	if err != nil {
		f.mu.Lock()
		f.setStatusLocked(Status{Text: "Price must be a number.", OK: false})
		f.mu.Unlock()
		return err
	}

	return f.mutate(ctx, func(ctx context.Context) (string, error) {
		return f.api.UpdateTour(ctx, id, in)
	})
}

// Delete removes a tour after explicit confirmation, then re-fetches so the
// list reflects server truth.
func (f *Flow) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	name := ""
	for _, t := range f.tours {
		if t.ID == id {
			name = t.Name
			break
		}
	}
	f.mu.Unlock()
	if name == "" {
		return ErrUnknownTour
	}

	prompt := fmt.Sprintf("Are you sure you want to delete %q? This action cannot be undone.", name)
	if f.confirm == nil || !f.confirm(prompt) {
		return ErrNotConfirmed
	}

	return f.mutate(ctx, func(ctx context.Context) (string, error) {
		return f.api.DeleteTour(ctx, id)
	})
}

func (f *Flow) mutate(ctx context.Context, op func(context.Context) (string, error)) error {
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
			f.setStatusLocked(Status{Text: apiErr.Message, OK: false})
		} else if errors.As(err, &apiErr) {
			f.setStatusLocked(Status{Text: "Operation failed.", OK: false})
		} else {
			f.setStatusLocked(Status{Text: "Network Error.", OK: false})
		}
		f.mu.Unlock()
		return err
	}
	f.setStatusLocked(Status{Text: msg, OK: true})
	f.mu.Unlock()

	if err := f.Refresh(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrRefresh, err)
	}
	return nil
}

// setStatusLocked shows a message and arms the self-clear timer. Callers
// hold f.mu.
func (f *Flow) setStatusLocked(s Status) {
	if f.statusTimer != nil {
		f.statusTimer.Stop()
	}
	f.status = &s
	f.statusTimer = time.AfterFunc(f.messageTTL, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.status = nil
	})
}
