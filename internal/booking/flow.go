// Package booking implements the confirmation workflow for a selected
// package and the caller's booking history.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"tms/internal/validate"
	"tms/pkg/tmsapi"
)

var (
	ErrBusy           = errors.New("request already in flight")
	ErrNoPackage      = errors.New("no package selected")
	ErrInvalidContact = errors.New("invalid contact details")
	ErrTotalMismatch  = errors.New("total does not equal price per person times persons")
	ErrCompleted      = errors.New("booking flow already completed")
)

// Order is the upstream selection: the package, how many travellers, the
// payment mode picked in the filter, and the total the filter step computed.
type Order struct {
	Package     tmsapi.Package
	Persons     int
	PaymentMode string
	Total       decimal.Decimal
}

// Contact is collected on the confirmation page.
type Contact struct {
	Email  string
	Mobile string
}

type Flow struct {
	api *tmsapi.Client

	mu    sync.Mutex
	order Order
	msg   string
	busy  bool
	done  bool
}

// NewFlow refuses to start without a selected package; the UI sends the user
// back to the package list in that case.
func NewFlow(api *tmsapi.Client, o Order) (*Flow, error) {
	if o.Package.Name == "" {
		return nil, ErrNoPackage
	}
	if o.Persons < 1 {
		return nil, fmt.Errorf("persons must be at least 1, got %d", o.Persons)
	}
	if o.PaymentMode == "" {
		o.PaymentMode = "UPI"
	}
	return &Flow{api: api, order: o}, nil
}

func (f *Flow) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.msg
}

// Done reports whether the flow has exited (confirmed or cancelled).
func (f *Flow) Done() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done
}

// Confirm validates contact details locally (mobile first, then email),
// checks the total against price × persons, and submits the booking
// snapshot. On failure the flow stays active so the user can resubmit.
func (f *Flow) Confirm(ctx context.Context, c Contact) error {
	f.mu.Lock()
	if f.done {
		f.mu.Unlock()
		return ErrCompleted
	}
	if f.busy {
		f.mu.Unlock()
		return ErrBusy
	}

	switch {
	case !validate.IsValidMobile(c.Mobile):
		f.msg = "Please enter a valid 10-digit mobile number."
	case !validate.IsValidEmail(c.Email):
		f.msg = "Please enter a valid email address."
	default:
		f.msg = ""
	}
	if f.msg != "" {
		f.mu.Unlock()
		return ErrInvalidContact
	}

	// The total was computed upstream; verify it instead of recomputing so a
	// corrupted hand-off can't book at the wrong price.
	want := f.order.Package.Price.Mul(decimal.NewFromInt(int64(f.order.Persons)))
	if !f.order.Total.Equal(want) {
		f.msg = "Booking failed. Please try again."
		f.mu.Unlock()
		return fmt.Errorf("%w: got %s, want %s", ErrTotalMismatch, f.order.Total, want)
	}

	req := tmsapi.BookingRequest{
		Email:          c.Email,
		Mobile:         c.Mobile,
		PackageName:    f.order.Package.Name,
		TotalPrice:     f.order.Total,
		ImageFilename:  imageFilename(f.order.Package.Image),
		Location:       f.order.Package.Location,
		Country:        f.order.Package.Country,
		Persons:        f.order.Persons,
		PricePerPerson: f.order.Package.Price,
		PaymentMode:    f.order.PaymentMode,
	}

	f.busy = true
	f.mu.Unlock()

	msg, err := f.api.ConfirmBooking(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false

	if err != nil {
		var apiErr *tmsapi.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			f.msg = apiErr.Message
		} else if errors.As(err, &apiErr) {
			f.msg = "Booking failed. Please try again."
		} else {
			f.msg = "Network error. Please try again."
		}
		return err
	}

	f.msg = msg
	f.done = true
	return nil
}

// Cancel leaves the flow without touching the API.
func (f *Flow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.done = true
}

// imageFilename reduces the package image path to its last segment, the form
// the booking endpoint stores.
func imageFilename(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
