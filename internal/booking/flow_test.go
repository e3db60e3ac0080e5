package booking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"tms/internal/simapi"
	"tms/pkg/tmsapi"
)

func newTestAPI(t *testing.T) (*tmsapi.Client, *int32) {
	t.Helper()
	sim := simapi.New(simapi.Options{FixedOTP: "123456", Logf: t.Logf})
	router := sim.Router()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	api, err := tmsapi.New(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return api, &hits
}

func loginAdmin(t *testing.T, api *tmsapi.Client) {
	t.Helper()
	if _, err := api.Login(context.Background(), "admin", "admin123"); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func testOrder(t *testing.T, api *tmsapi.Client, persons int) Order {
	t.Helper()
	pkgs, err := api.ListTours(context.Background())
	if err != nil {
		t.Fatalf("list tours: %v", err)
	}
	if len(pkgs) == 0 {
		t.Fatalf("no seeded tours")
	}
	p := pkgs[0]
	return Order{
		Package:     p,
		Persons:     persons,
		PaymentMode: "UPI",
		Total:       p.Price.Mul(decimal.NewFromInt(int64(persons))),
	}
}

func TestNewFlowRequiresPackage(t *testing.T) {
	api, _ := newTestAPI(t)
	if _, err := NewFlow(api, Order{Persons: 2}); !errors.Is(err, ErrNoPackage) {
		t.Fatalf("expected ErrNoPackage, got %v", err)
	}
}

func TestTotalIsDecimalExact(t *testing.T) {
	price := decimal.RequireFromString("1500.00")
	total := price.Mul(decimal.NewFromInt(3))
	if !total.Equal(decimal.RequireFromString("4500.00")) {
		t.Fatalf("expected 4500.00, got %s", total)
	}
}

func TestConfirmRejectsBadContactLocally(t *testing.T) {
	api, hits := newTestAPI(t)
	loginAdmin(t, api)
	before := atomic.LoadInt32(hits)

	f, err := NewFlow(api, testOrder(t, api, 2))
	if err != nil {
		t.Fatalf("new flow: %v", err)
	}
	// hits moved during testOrder's list call; reset the baseline.
	before = atomic.LoadInt32(hits)

	// Mobile is checked before email.
	err = f.Confirm(context.Background(), Contact{Email: "a@b.com", Mobile: "12345"})
	if !errors.Is(err, ErrInvalidContact) {
		t.Fatalf("expected ErrInvalidContact, got %v", err)
	}
	if got := f.Message(); got != "Please enter a valid 10-digit mobile number." {
		t.Fatalf("unexpected message %q", got)
	}

	err = f.Confirm(context.Background(), Contact{Email: "nobody", Mobile: "9876543210"})
	if !errors.Is(err, ErrInvalidContact) {
		t.Fatalf("expected ErrInvalidContact, got %v", err)
	}
	if got := f.Message(); got != "Please enter a valid email address." {
		t.Fatalf("unexpected message %q", got)
	}

	if n := atomic.LoadInt32(hits); n != before {
		t.Fatalf("expected local rejections to make no network calls, got %d extra", n-before)
	}
	if f.Done() {
		t.Fatalf("flow should stay active after rejection")
	}
}

func TestConfirmEnforcesTotalInvariant(t *testing.T) {
	api, _ := newTestAPI(t)
	loginAdmin(t, api)

	order := testOrder(t, api, 3)
	order.Total = order.Total.Add(decimal.NewFromInt(1))
	f, err := NewFlow(api, order)
	if err != nil {
		t.Fatalf("new flow: %v", err)
	}

	err = f.Confirm(context.Background(), Contact{Email: "a@b.com", Mobile: "9876543210"})
	if !errors.Is(err, ErrTotalMismatch) {
		t.Fatalf("expected ErrTotalMismatch, got %v", err)
	}
}

func TestConfirmAndHistory(t *testing.T) {
	api, _ := newTestAPI(t)
	loginAdmin(t, api)
	ctx := context.Background()

	order := testOrder(t, api, 3)
	f, err := NewFlow(api, order)
	if err != nil {
		t.Fatalf("new flow: %v", err)
	}

	if err := f.Confirm(ctx, Contact{Email: "a@b.com", Mobile: "9876543210"}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if got := f.Message(); got != "Booking successfully saved and confirmation email sent." {
		t.Fatalf("unexpected message %q", got)
	}
	if !f.Done() {
		t.Fatalf("expected flow done after success")
	}

	// A completed flow refuses another submit.
	if err := f.Confirm(ctx, Contact{Email: "a@b.com", Mobile: "9876543210"}); !errors.Is(err, ErrCompleted) {
		t.Fatalf("expected ErrCompleted, got %v", err)
	}

	hist := NewHistory(api, func(string) bool { return true })
	mine, err := hist.List(ctx)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(mine))
	}
	b := mine[0]
	if b.PackageName != order.Package.Name || b.Persons != 3 {
		t.Fatalf("unexpected booking %+v", b)
	}
	if !b.TotalPaid.Equal(order.Total) {
		t.Fatalf("expected total %s, got %s", order.Total, b.TotalPaid)
	}

	// Cancellation removes it.
	if _, err := hist.Cancel(ctx, b.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	mine, err = hist.List(ctx)
	if err != nil {
		t.Fatalf("history after cancel: %v", err)
	}
	if len(mine) != 0 {
		t.Fatalf("expected empty history, got %d", len(mine))
	}
}

func TestCancelRequiresConfirmation(t *testing.T) {
	api, _ := newTestAPI(t)
	loginAdmin(t, api)

	hist := NewHistory(api, func(string) bool { return false })
	if _, err := hist.Cancel(context.Background(), 1); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("expected ErrNotConfirmed, got %v", err)
	}

	// A nil confirmer denies as well.
	hist = NewHistory(api, nil)
	if _, err := hist.Cancel(context.Background(), 1); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("expected ErrNotConfirmed, got %v", err)
	}
}

func TestListAllForbiddenForNonAdmin(t *testing.T) {
	api, _ := newTestAPI(t)
	// Anonymous caller.
	hist := NewHistory(api, nil)
	if _, err := hist.ListAll(context.Background()); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestConfirmRejectsConcurrentSubmit(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Booking successfully saved and confirmation email sent."}`))
	}))
	t.Cleanup(srv.Close)

	api, err := tmsapi.New(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	order := Order{
		Package: tmsapi.Package{
			ID: 1, Name: "Ayodhya", Location: "Uttar Pradesh", Country: "India",
			Price: decimal.RequireFromString("500.00"), Image: "/images/ayodhya.jpg",
		},
		Persons:     2,
		PaymentMode: "UPI",
		Total:       decimal.RequireFromString("1000.00"),
	}
	f, err := NewFlow(api, order)
	if err != nil {
		t.Fatalf("new flow: %v", err)
	}

	contact := Contact{Email: "a@b.com", Mobile: "9876543210"}
	first := make(chan error, 1)
	go func() { first <- f.Confirm(context.Background(), contact) }()
	<-entered

	if err := f.Confirm(context.Background(), contact); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy while a submit is outstanding, got %v", err)
	}
	if f.Done() {
		t.Fatalf("rejected submit must not change state")
	}

	close(release)
	if err := <-first; err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	if !f.Done() {
		t.Fatalf("expected first confirm to complete")
	}
}

func TestConfirmTransportFailureKeepsFlowActive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	api, err := tmsapi.New(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	srv.Close()

	order := Order{
		Package:     tmsapi.Package{ID: 1, Name: "Ayodhya", Price: decimal.RequireFromString("500.00")},
		Persons:     1,
		PaymentMode: "UPI",
		Total:       decimal.RequireFromString("500.00"),
	}
	f, err := NewFlow(api, order)
	if err != nil {
		t.Fatalf("new flow: %v", err)
	}

	err = f.Confirm(context.Background(), Contact{Email: "a@b.com", Mobile: "9876543210"})
	if err == nil {
		t.Fatalf("expected transport error")
	}
	var apiErr *tmsapi.APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("expected a transport error, not an API error: %v", err)
	}
	if got := f.Message(); got != "Network error. Please try again." {
		t.Fatalf("unexpected message %q", got)
	}
	if f.Done() {
		t.Fatalf("flow must stay active so the user can retry")
	}
}

func TestCancelFlowMakesNoAPICall(t *testing.T) {
	api, hits := newTestAPI(t)
	loginAdmin(t, api)

	f, err := NewFlow(api, testOrder(t, api, 1))
	if err != nil {
		t.Fatalf("new flow: %v", err)
	}
	before := atomic.LoadInt32(hits)

	f.Cancel()
	if !f.Done() {
		t.Fatalf("expected done after cancel")
	}
	if n := atomic.LoadInt32(hits); n != before {
		t.Fatalf("expected no network calls, got %d extra", n-before)
	}
}
