package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tms/internal/simapi"
	"tms/pkg/tmsapi"
)

func newTestAPI(t *testing.T) *tmsapi.Client {
	t.Helper()
	sim := simapi.New(simapi.Options{FixedOTP: "123456", Logf: t.Logf})
	srv := httptest.NewServer(sim.Router())
	t.Cleanup(srv.Close)

	api, err := tmsapi.New(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return api
}

func TestProbeAnonymous(t *testing.T) {
	g := NewGate(newTestAPI(t))

	info, err := g.Probe(context.Background())
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if info.IsLoggedIn || info.Username != "" || info.IsAdmin {
		t.Fatalf("expected anonymous session, got %+v", info)
	}
}

func TestLoginWrongPasswordLeavesSessionUnchanged(t *testing.T) {
	g := NewGate(newTestAPI(t))

	err := g.Login(context.Background(), "bob", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if got := g.Message(); got != "Invalid credentials." {
		t.Fatalf("expected invalid-credentials message, got %q", got)
	}
	if cur := g.Current(); cur.IsLoggedIn {
		t.Fatalf("expected session unchanged, got %+v", cur)
	}
}

func TestLoginAdminThenLogout(t *testing.T) {
	g := NewGate(newTestAPI(t))
	ctx := context.Background()

	if err := g.Login(ctx, "admin", "admin123"); err != nil {
		t.Fatalf("login: %v", err)
	}

	cur := g.Current()
	if !cur.IsLoggedIn || cur.Username != "admin" || !cur.IsAdmin {
		t.Fatalf("expected admin session after login, got %+v", cur)
	}

	if err := g.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if cur := g.Current(); cur.IsLoggedIn {
		t.Fatalf("expected cleared session after logout, got %+v", cur)
	}
}

func TestLogoutClearsSessionEvenOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	api, err := tmsapi.New(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	g := NewGate(api)

	if err := g.Logout(context.Background()); err == nil {
		t.Fatalf("expected logout call to fail")
	}
	if cur := g.Current(); cur.IsLoggedIn {
		t.Fatalf("expected session cleared despite server error, got %+v", cur)
	}
}

func TestLoginRejectsConcurrentSubmit(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`{"isLoggedIn":true,"username":"admin","email":"admin@tms.com","phone":"0000000000","isAdmin":true}`))
			return
		}
		close(entered)
		<-release
		_, _ = w.Write([]byte(`{"message":"Login successful.","user":"admin","isAdmin":true}`))
	}))
	t.Cleanup(srv.Close)

	api, err := tmsapi.New(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	g := NewGate(api)

	first := make(chan error, 1)
	go func() { first <- g.Login(context.Background(), "admin", "admin123") }()
	<-entered

	if err := g.Login(context.Background(), "admin", "admin123"); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy while a login is outstanding, got %v", err)
	}
	if g.Current().IsLoggedIn {
		t.Fatalf("rejected login must not change the session")
	}

	close(release)
	if err := <-first; err != nil {
		t.Fatalf("first login: %v", err)
	}
	if cur := g.Current(); !cur.IsLoggedIn || cur.Username != "admin" {
		t.Fatalf("expected session after first login, got %+v", cur)
	}
}

func TestLoginProbeFailureDoesNotClaimSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Login successful.","user":"admin","isAdmin":true}`))
	}))
	t.Cleanup(srv.Close)

	api, err := tmsapi.New(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	g := NewGate(api)

	if err := g.Login(context.Background(), "admin", "admin123"); err == nil {
		t.Fatalf("expected error when the follow-up probe fails")
	}
	if got := g.Message(); got != "An error occurred: Status 500" {
		t.Fatalf("unexpected message %q", got)
	}
	if g.Current().IsLoggedIn {
		t.Fatalf("session must stay unset until a probe confirms it")
	}
}

func TestLoginSurfacesUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	api, err := tmsapi.New(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	g := NewGate(api)

	if err := g.Login(context.Background(), "bob", "pw"); err == nil {
		t.Fatalf("expected error")
	}
	if got := g.Message(); got != "An error occurred: Status 503" {
		t.Fatalf("unexpected message %q", got)
	}
}
