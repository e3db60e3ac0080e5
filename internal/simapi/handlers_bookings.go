package simapi

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type confirmBookingRequest struct {
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

func (s *Server) handleConfirmBooking(w http.ResponseWriter, r *http.Request) {
	var req confirmBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if req.ImageFilename == "" || req.Email == "" || req.Mobile == "" {
		writeMessage(w, http.StatusBadRequest, "Missing required booking details.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.currentUser(r)
	if u == nil {
		writeMessage(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	country := req.Country
	if country == "" {
		country = "India"
	}
	paymentMode := req.PaymentMode
	if paymentMode == "" {
		paymentMode = "UPI"
	}

	s.nextBookingID++
	s.bookings[s.nextBookingID] = &booking{
		id:             s.nextBookingID,
		userID:         u.id,
		packageName:    req.PackageName,
		imagePath:      req.ImageFilename,
		location:       req.Location,
		country:        country,
		persons:        req.Persons,
		pricePerPerson: req.PricePerPerson,
		totalPrice:     req.TotalPrice,
		paymentMode:    paymentMode,
		bookingDate:    s.opts.Now().UTC(),
	}

	s.opts.Logf("simapi: booking confirmation for %s sent to %s", req.PackageName, req.Email)
	writeMessage(w, http.StatusOK, "Booking successfully saved and confirmation email sent.")
}

type bookingJSON struct {
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

func (s *Server) bookingsSorted() []*booking {
	out := make([]*booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

func (s *Server) handleMyBookings(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.currentUser(r)
	if u == nil {
		writeMessage(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	out := make([]bookingJSON, 0)
	for _, b := range s.bookingsSorted() {
		if b.userID != u.id {
			continue
		}
		out = append(out, bookingJSON{
			ID:             b.id,
			Username:       u.username,
			PackageName:    b.packageName,
			Image:          b.imagePath,
			Location:       b.location,
			Country:        b.country,
			Persons:        b.persons,
			PricePerPerson: b.pricePerPerson,
			TotalPaid:      b.totalPrice,
			PaymentMode:    b.paymentMode,
			BookingDate:    b.bookingDate.Format("2006-01-02"),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAdminBookings(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]bookingJSON, 0)
	for _, b := range s.bookingsSorted() {
		username := ""
		if owner, ok := s.users[b.userID]; ok {
			username = owner.username
		}
		out = append(out, bookingJSON{
			ID:             b.id,
			UserID:         b.userID,
			Username:       username,
			PackageName:    b.packageName,
			Image:          b.imagePath,
			Location:       b.location,
			Country:        b.country,
			Persons:        b.persons,
			PricePerPerson: b.pricePerPerson,
			TotalPaid:      b.totalPrice,
			PaymentMode:    b.paymentMode,
			BookingDate:    b.bookingDate.Format("2006-01-02 15:04:05"),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "Booking not found.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.currentUser(r)
	if u == nil {
		writeMessage(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	b, ok := s.bookings[id]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Booking not found.")
		return
	}
	if b.userID != u.id && !u.isAdmin {
		writeMessage(w, http.StatusForbidden, "Unauthorized to cancel this booking.")
		return
	}

	delete(s.bookings, id)
	writeMessage(w, http.StatusOK, "Booking cancelled successfully.")
}
