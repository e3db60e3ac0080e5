// Package simapi is an in-memory stand-in for the booking backend, used by
// the dev commands and the flow tests. It mirrors the production API's
// routes, status codes and message strings exactly, but holds everything in
// maps: nothing survives a restart and credentials are stored as given.
//
// Never expose it outside local development.
package simapi

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func init() {
	// Money crosses the wire as bare JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type Options struct {
	// SessionSecret signs the session cookie (HS256).
	SessionSecret string
	SessionTTL    time.Duration
	OTPTTL        time.Duration

	// FixedOTP, when set, replaces the random OTP so drivers and tests can
	// complete registration deterministically.
	FixedOTP string

	AllowedOrigins []string

	// Now is the clock; tests override it to exercise OTP expiry.
	Now func() time.Time

	// Logf receives dev-facing notes such as issued OTPs. Defaults to log.Printf.
	Logf func(format string, args ...any)
}

type Server struct {
	opts Options

	mu            sync.Mutex
	users         map[int64]*user
	tours         map[int64]*tour
	bookings      map[int64]*booking
	otps          map[string]otpEntry // keyed by email
	nextUserID    int64
	nextTourID    int64
	nextBookingID int64
}

type user struct {
	id       int64
	username string
	email    string
	phone    string
	password string
	isAdmin  bool
}

type tour struct {
	id          int64
	name        string
	location    string
	country     string
	description string
	price       decimal.Decimal
	imagePath   string
}

type booking struct {
	id             int64
	userID         int64
	packageName    string
	imagePath      string
	location       string
	country        string
	persons        int
	pricePerPerson decimal.Decimal
	totalPrice     decimal.Decimal
	paymentMode    string
	bookingDate    time.Time
}

type otpEntry struct {
	otp      string
	username string
	phone    string
	issuedAt time.Time
}

func New(opts Options) *Server {
	if opts.SessionSecret == "" {
		opts.SessionSecret = "dev-only-secret"
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.OTPTTL <= 0 {
		opts.OTPTTL = 10 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logf == nil {
		opts.Logf = log.Printf
	}

	s := &Server{
		opts:     opts,
		users:    make(map[int64]*user),
		tours:    make(map[int64]*tour),
		bookings: make(map[int64]*booking),
		otps:     make(map[string]otpEntry),
	}
	s.seed()
	return s
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	if len(s.opts.AllowedOrigins) > 0 {
		r.Use(corsMiddleware(corsOptions{
			AllowedOrigins: s.opts.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			MaxAgeSeconds:  600,
		}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/send_otp", s.handleSendOTP)
		r.Post("/verify_register", s.handleVerifyRegister)
		r.Post("/login", s.handleLogin)
		r.Get("/status", s.handleStatus)
		r.Post("/contact", s.handleContact)

		r.Get("/tours", s.handleListTours)
		r.Get("/packages/filter", s.handleFilterPackages)

		// Session-holder routes.
		r.Group(func(r chi.Router) {
			r.Use(s.requireLogin)

			r.Post("/logout", s.handleLogout)
			r.Post("/update_username", s.handleUpdateUsername)
			r.Post("/update_email", s.handleUpdateEmail)
			r.Post("/update_phone", s.handleUpdatePhone)
			r.Post("/update_password", s.handleUpdatePassword)

			r.Post("/confirm_booking", s.handleConfirmBooking)
			r.Get("/bookings/my_history", s.handleMyBookings)
			r.Delete("/bookings/{id}", s.handleCancelBooking)
		})

		// Admin routes.
		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requireAdmin)

			r.Get("/tours", s.handleAdminListTours)
			r.Post("/tours", s.handleCreateTour)
			r.Get("/tours/{id}", s.handleGetTour)
			r.Put("/tours/{id}", s.handleUpdateTour)
			r.Delete("/tours/{id}", s.handleDeleteTour)

			r.Get("/bookings", s.handleAdminBookings)
		})
	})

	return r
}

func (s *Server) findUserByUsername(name string) *user {
	for _, u := range s.users {
		if u.username == name {
			return u
		}
	}
	return nil
}

func (s *Server) findUserByEmail(email string) *user {
	for _, u := range s.users {
		if u.email == email {
			return u
		}
	}
	return nil
}

func (s *Server) findUserByPhone(phone string) *user {
	for _, u := range s.users {
		if u.phone == phone {
			return u
		}
	}
	return nil
}
