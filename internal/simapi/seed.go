package simapi

import "github.com/shopspring/decimal"

// seed mirrors the production bootstrap: a default admin account and the
// initial six-tour inventory.
func (s *Server) seed() {
	s.nextUserID++
	s.users[s.nextUserID] = &user{
		id:       s.nextUserID,
		username: "admin",
		email:    "admin@tms.com",
		phone:    "0000000000",
		password: "admin123",
		isAdmin:  true,
	}

	seedTours := []tour{
		{name: "Ayodhya", location: "Uttar Pradesh", country: "India", price: decimal.NewFromFloat(500.0), imagePath: "/ayodhya.webp", description: "Holy City in UP"},
		{name: "Tajmahal", location: "Agra", country: "India", price: decimal.NewFromFloat(250.0), imagePath: "/tajmahal.webp", description: "Dedicated to his wife Mumtaz by Shajahan."},
		{name: "Red Fort", location: "Delhi", country: "India", price: decimal.NewFromFloat(1200.0), imagePath: "/red-fort.webp", description: "Dedicated to our independence."},
		{name: "Pink Mahala", location: "Jaipur", country: "India", price: decimal.NewFromFloat(150.0), imagePath: "/jaipur.webp", description: "Known as Pink City"},
		{name: "Cholas Temple", location: "Tamil Nadu", country: "India", price: decimal.NewFromFloat(750.0), imagePath: "/temple.webp", description: "An ancient Temple in TN built by cholas"},
		{name: "Golden Temple", location: "Punjab", country: "India", price: decimal.NewFromFloat(900.0), imagePath: "/golden-temple.webp", description: "Witness the temple built with gold"},
	}
	for _, t := range seedTours {
		s.nextTourID++
		t.id = s.nextTourID
		cp := t
		s.tours[t.id] = &cp
	}
}
