package simapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	sim := New(Options{FixedOTP: "123456", Logf: t.Logf})
	srv := httptest.NewServer(sim.Router())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) (int, map[string]any) {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.StatusCode, out
}

func TestVerifyWithoutSendIsRejected(t *testing.T) {
	srv := newTestServer(t)

	status, body := postJSON(t, srv.URL+"/api/verify_register", map[string]string{
		"email": "nobody@example.com", "otp": "123456", "password": "secret123",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if body["message"] != "OTP expired or invalid. Please request a new one." {
		t.Fatalf("unexpected message %v", body["message"])
	}
}

func TestContactRequiresAllFields(t *testing.T) {
	srv := newTestServer(t)

	status, body := postJSON(t, srv.URL+"/api/contact", map[string]string{
		"name": "Bob", "email": "bob@example.com",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if body["message"] != "Incomplete form data." {
		t.Fatalf("unexpected message %v", body["message"])
	}
}

func TestExpiredOTPIsRejected(t *testing.T) {
	now := time.Now()
	sim := New(Options{
		FixedOTP: "123456",
		OTPTTL:   10 * time.Minute,
		Now:      func() time.Time { return now },
		Logf:     t.Logf,
	})
	srv := httptest.NewServer(sim.Router())
	t.Cleanup(srv.Close)

	status, _ := postJSON(t, srv.URL+"/api/send_otp", map[string]string{
		"email": "bob@example.com", "username": "bob", "phone": "9876543210",
	})
	if status != http.StatusOK {
		t.Fatalf("send_otp: %d", status)
	}

	now = now.Add(11 * time.Minute)
	status, body := postJSON(t, srv.URL+"/api/verify_register", map[string]string{
		"email": "bob@example.com", "otp": "123456", "password": "secret123",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if body["message"] != "OTP expired. Please request a new one." {
		t.Fatalf("unexpected message %v", body["message"])
	}

	// The entry is gone; a retry now reports invalid, not expired.
	status, body = postJSON(t, srv.URL+"/api/verify_register", map[string]string{
		"email": "bob@example.com", "otp": "123456", "password": "secret123",
	})
	if status != http.StatusBadRequest || body["message"] != "OTP expired or invalid. Please request a new one." {
		t.Fatalf("expected invalid after expiry purge, got %d %v", status, body["message"])
	}
}

func TestProtectedRoutesNeedASession(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/bookings/my_history")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestPriceSerializesAsBareNumber(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/tours")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var raw []map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(raw) == 0 {
		t.Fatalf("no seeded tours")
	}
	price := raw[0]["price"]
	if len(price) == 0 || price[0] == '"' {
		t.Fatalf("expected unquoted price, got %s", price)
	}
}
