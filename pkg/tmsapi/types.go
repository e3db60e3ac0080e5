package tmsapi

import (
	"fmt"

	"github.com/shopspring/decimal"
)

func decimalWireFormat() {
	decimal.MarshalJSONWithoutQuotes = true
}

// SessionInfo is the status-probe result. It is replaced wholesale on every
// probe; callers never patch individual fields.
type SessionInfo struct {
	IsLoggedIn bool   `json:"isLoggedIn"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	IsAdmin    bool   `json:"isAdmin"`
}

func (s SessionInfo) validate() error {
	if s.IsLoggedIn && s.Username == "" {
		return fmt.Errorf("status response claims a session but carries no username")
	}
	return nil
}

// Tour is an inventory record as the admin routes return it.
type Tour struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Location    string          `json:"location"`
	Country     string          `json:"country"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImagePath   string          `json:"image_path"`
}

func (t Tour) validate() error {
	if t.ID <= 0 || t.Name == "" {
		return fmt.Errorf("malformed tour record: id=%d name=%q", t.ID, t.Name)
	}
	return nil
}

// Package is the same record as Tour on the public routes, which rename
// image_path to image.
type Package struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Location    string          `json:"location"`
	Country     string          `json:"country"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
}

func (p Package) validate() error {
	if p.ID <= 0 || p.Name == "" {
		return fmt.Errorf("malformed package record: id=%d name=%q", p.ID, p.Name)
	}
	return nil
}

// Booking is immutable once created; the only mutation is cancellation,
// which deletes it.
type Booking struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"user_id,omitempty"`
	Username       string          `json:"username"`
	PackageName    string          `json:"package_name"`
	Image          string          `json:"image"`
	Location       string          `json:"location"`
	Country        string          `json:"country"`
	Persons        int             `json:"persons"`
	PricePerPerson decimal.Decimal `json:"price_per_person"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	PaymentMode    string          `json:"payment_mode"`
	BookingDate    string          `json:"booking_date"`
}

func (b Booking) validate() error {
	if b.ID <= 0 || b.PackageName == "" {
		return fmt.Errorf("malformed booking record: id=%d package=%q", b.ID, b.PackageName)
	}
	return nil
}
