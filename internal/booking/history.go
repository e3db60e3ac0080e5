package booking

import (
	"context"
	"errors"
	"fmt"

	"tms/pkg/tmsapi"
)

var (
	ErrForbidden    = errors.New("administrator privileges required")
	ErrNotConfirmed = errors.New("cancellation not confirmed")
)

// History reads and cancels existing bookings. Cancellation is destructive
// and irreversible, so it runs through the confirm callback first.
type History struct {
	api     *tmsapi.Client
	confirm func(prompt string) bool
}

// NewHistory wires the confirmation step. A nil confirm denies every
// cancellation.
func NewHistory(api *tmsapi.Client, confirm func(prompt string) bool) *History {
	return &History{api: api, confirm: confirm}
}

// List returns the caller's own bookings.
func (h *History) List(ctx context.Context) ([]tmsapi.Booking, error) {
	return h.api.MyBookings(ctx)
}

// ListAll returns every user's bookings via the admin route. Non-admin
// callers get ErrForbidden rather than an empty list.
func (h *History) ListAll(ctx context.Context) ([]tmsapi.Booking, error) {
	out, err := h.api.AdminBookings(ctx)
	if err != nil {
		var apiErr *tmsapi.APIError
		if errors.As(err, &apiErr) && apiErr.Status == 403 {
			return nil, fmt.Errorf("%w: %s", ErrForbidden, apiErr.Message)
		}
		return nil, err
	}
	return out, nil
}

// Cancel deletes a booking after explicit confirmation.
func (h *History) Cancel(ctx context.Context, id int64) (string, error) {
	prompt := "Are you sure you want to cancel this booking? This action cannot be undone."
	if h.confirm == nil || !h.confirm(prompt) {
		return "", ErrNotConfirmed
	}
	return h.api.CancelBooking(ctx, id)
}
