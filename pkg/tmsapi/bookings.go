package tmsapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
)

// BookingRequest is the full snapshot sent on confirmation. The server stores
// it as-is; nothing is recomputed there.
type BookingRequest struct {
	Email          string          `json:"email"`
	Mobile         string          `json:"mobile"`
	PackageName    string          `json:"package_name"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	ImageFilename  string          `json:"image_filename"`
	Location       string          `json:"location"`
	Country        string          `json:"country"`
	Persons        int             `json:"persons"`
	PricePerPerson decimal.Decimal `json:"price_per_person"`
	PaymentMode    string          `json:"payment_mode"`
}

func (c *Client) ConfirmBooking(ctx context.Context, req BookingRequest) (string, error) {
	var res messageBody
	if _, err := c.doJSON(ctx, http.MethodPost, "/api/confirm_booking", req, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

// MyBookings returns the caller's booking history.
func (c *Client) MyBookings(ctx context.Context) ([]Booking, error) {
	var out []Booking
	if _, err := c.doJSON(ctx, http.MethodGet, "/api/bookings/my_history", nil, &out); err != nil {
		return nil, err
	}
	for _, b := range out {
		if err := b.validate(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// AdminBookings returns every user's bookings. Non-admin callers get
// *APIError with status 403.
func (c *Client) AdminBookings(ctx context.Context) ([]Booking, error) {
	var out []Booking
	if _, err := c.doJSON(ctx, http.MethodGet, "/api/admin/bookings", nil, &out); err != nil {
		return nil, err
	}
	for _, b := range out {
		if err := b.validate(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *Client) CancelBooking(ctx context.Context, id int64) (string, error) {
	var res messageBody
	if _, err := c.doJSON(ctx, http.MethodDelete, "/api/bookings/"+strconv.FormatInt(id, 10), nil, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}
