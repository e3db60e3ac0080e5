package simapi

import (
	"fmt"
	"math/rand"
	"net/http"
	"strings"
)

func (s *Server) generateOTP() string {
	if s.opts.FixedOTP != "" {
		return s.opts.FixedOTP
	}
	return fmt.Sprintf("%06d", 100000+rand.Intn(900000))
}

type sendOTPRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Phone    string `json:"phone"`
}

func (s *Server) handleSendOTP(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findUserByEmail(req.Email) != nil {
		writeMessage(w, http.StatusConflict, "Email already exists. Please login to your account.")
		return
	}
	if s.findUserByPhone(req.Phone) != nil {
		writeMessage(w, http.StatusConflict, "Phone number already exists. Please login to your account.")
		return
	}
	if s.findUserByUsername(req.Username) != nil {
		writeMessage(w, http.StatusConflict, "Username already exists. Please choose another.")
		return
	}

	otp := s.generateOTP()
	s.otps[req.Email] = otpEntry{
		otp:      otp,
		username: req.Username,
		phone:    req.Phone,
		issuedAt: s.opts.Now(),
	}

	// The production backend emails the code; here it only reaches the log.
	s.opts.Logf("simapi: otp for %s is %s", req.Email, otp)

	writeMessage(w, http.StatusOK, "OTP sent successfully to your email.")
}

type verifyRegisterRequest struct {
	Email    string `json:"email"`
	OTP      string `json:"otp"`
	Password string `json:"password"`
}

func (s *Server) handleVerifyRegister(w http.ResponseWriter, r *http.Request) {
	var req verifyRegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.otps[req.Email]
	if !ok {
		writeMessage(w, http.StatusBadRequest, "OTP expired or invalid. Please request a new one.")
		return
	}
	if s.opts.Now().Sub(entry.issuedAt) > s.opts.OTPTTL {
		delete(s.otps, req.Email)
		writeMessage(w, http.StatusBadRequest, "OTP expired. Please request a new one.")
		return
	}
	if entry.otp != req.OTP {
		writeMessage(w, http.StatusBadRequest, "Invalid OTP. Please try again.")
		return
	}

	s.nextUserID++
	s.users[s.nextUserID] = &user{
		id:       s.nextUserID,
		username: entry.username,
		email:    req.Email,
		phone:    entry.phone,
		password: req.Password,
	}
	delete(s.otps, req.Email)

	writeMessage(w, http.StatusCreated, "Registration successful! Please login.")
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	s.mu.Lock()
	u := s.findUserByUsername(req.Username)
	s.mu.Unlock()

	if u == nil || u.password != req.Password {
		writeMessage(w, http.StatusUnauthorized, "Login unsuccessful. Check username and password.")
		return
	}

	s.issueSession(w, u)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful.",
		"user":    u.username,
		"isAdmin": u.isAdmin,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearSession(w)
	writeMessage(w, http.StatusOK, "Logged out successfully.")
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	u := s.currentUser(r)
	s.mu.Unlock()

	if u == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"isLoggedIn": false,
			"username":   "",
			"email":      "",
			"phone":      "",
			"isAdmin":    false,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"isLoggedIn": true,
		"username":   u.username,
		"email":      u.email,
		"phone":      u.phone,
		"isAdmin":    u.isAdmin,
	})
}

func (s *Server) handleUpdateUsername(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewUsername string `json:"new_username"`
	}
	if err := decodeJSON(r, &req); err != nil || req.NewUsername == "" {
		writeMessage(w, http.StatusBadRequest, "New username required.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.currentUser(r)
	if u == nil {
		writeMessage(w, http.StatusUnauthorized, "Authentication required.")
		return
	}
	if other := s.findUserByUsername(req.NewUsername); other != nil && other.id != u.id {
		writeMessage(w, http.StatusConflict, "Username already taken.")
		return
	}

	u.username = req.NewUsername
	// The session cookie names the user; reissue it so the session follows
	// the rename.
	s.issueSession(w, u)

	writeMessage(w, http.StatusOK, "Username updated successfully.")
}

func (s *Server) handleUpdateEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewEmail string `json:"new_email"`
	}
	if err := decodeJSON(r, &req); err != nil || req.NewEmail == "" || !strings.Contains(req.NewEmail, "@") {
		writeMessage(w, http.StatusBadRequest, "Valid email required.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.currentUser(r)
	if u == nil {
		writeMessage(w, http.StatusUnauthorized, "Authentication required.")
		return
	}
	if other := s.findUserByEmail(req.NewEmail); other != nil && other.id != u.id {
		writeMessage(w, http.StatusConflict, "Email already taken.")
		return
	}

	u.email = req.NewEmail
	writeMessage(w, http.StatusOK, "Email updated successfully.")
}

func (s *Server) handleUpdatePhone(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewPhone string `json:"new_phone"`
	}
	if err := decodeJSON(r, &req); err != nil || len(req.NewPhone) != 10 {
		writeMessage(w, http.StatusBadRequest, "Valid 10-digit phone number required.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.currentUser(r)
	if u == nil {
		writeMessage(w, http.StatusUnauthorized, "Authentication required.")
		return
	}
	if other := s.findUserByPhone(req.NewPhone); other != nil && other.id != u.id {
		writeMessage(w, http.StatusConflict, "Phone number already taken.")
		return
	}

	u.phone = req.NewPhone
	writeMessage(w, http.StatusOK, "Phone number updated successfully.")
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewPassword string `json:"new_password"`
	}
	if err := decodeJSON(r, &req); err != nil || len(req.NewPassword) < 6 {
		writeMessage(w, http.StatusBadRequest, "Password must be at least 6 characters.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.currentUser(r)
	if u == nil {
		writeMessage(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	u.password = req.NewPassword
	writeMessage(w, http.StatusOK, "Password updated successfully.")
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Name == "" || req.Email == "" || req.Message == "" {
		writeMessage(w, http.StatusBadRequest, "Incomplete form data.")
		return
	}

	s.opts.Logf("simapi: contact form from %s <%s>: %s", req.Name, req.Email, req.Message)
	writeMessage(w, http.StatusOK, "Message sent successfully!")
}
