package simapi

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// adminTourJSON is the admin-route shape (image_path); publicTourJSON is the
// public shape, which renames the field to image.
type adminTourJSON struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Location    string          `json:"location"`
	Country     string          `json:"country"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImagePath   string          `json:"image_path"`
}

type publicTourJSON struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Location    string          `json:"location"`
	Country     string          `json:"country"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
}

func (s *Server) toursSorted() []*tour {
	out := make([]*tour, 0, len(s.tours))
	for _, t := range s.tours {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

func (s *Server) handleAdminListTours(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]adminTourJSON, 0, len(s.tours))
	for _, t := range s.toursSorted() {
		out = append(out, adminTourJSON{
			ID: t.id, Name: t.name, Location: t.location, Country: t.country,
			Description: t.description, Price: t.price, ImagePath: t.imagePath,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListTours(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]publicTourJSON, 0, len(s.tours))
	for _, t := range s.toursSorted() {
		out = append(out, publicTourJSON{
			ID: t.id, Name: t.name, Location: t.location, Country: t.country,
			Description: t.description, Price: t.price, Image: t.imagePath,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type tourCreateRequest struct {
	Name        string          `json:"name"`
	Location    string          `json:"location"`
	Country     string          `json:"country"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImagePath   string          `json:"image_path"`
}

func (s *Server) handleCreateTour(w http.ResponseWriter, r *http.Request) {
	var req tourCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tours {
		if t.name == req.Name {
			writeMessage(w, http.StatusBadRequest, "Error creating tour: name already exists")
			return
		}
	}

	s.nextTourID++
	s.tours[s.nextTourID] = &tour{
		id:          s.nextTourID,
		name:        req.Name,
		location:    req.Location,
		country:     req.Country,
		description: req.Description,
		price:       req.Price,
		imagePath:   req.ImagePath,
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Tour created successfully!",
		"id":      s.nextTourID,
	})
}

func (s *Server) tourFromPath(r *http.Request) *tour {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return nil
	}
	return s.tours[id]
}

func (s *Server) handleGetTour(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tourFromPath(r)
	if t == nil {
		writeMessage(w, http.StatusNotFound, "Tour not found.")
		return
	}
	writeJSON(w, http.StatusOK, adminTourJSON{
		ID: t.id, Name: t.name, Location: t.location, Country: t.country,
		Description: t.description, Price: t.price, ImagePath: t.imagePath,
	})
}

// tourUpdateRequest uses pointers so omitted fields keep their values, the
// way the production backend treats a partial PUT.
type tourUpdateRequest struct {
	Name        *string          `json:"name"`
	Location    *string          `json:"location"`
	Country     *string          `json:"country"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	ImagePath   *string          `json:"image_path"`
}

func (s *Server) handleUpdateTour(w http.ResponseWriter, r *http.Request) {
	var req tourUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tourFromPath(r)
	if t == nil {
		writeMessage(w, http.StatusNotFound, "Tour not found.")
		return
	}

	if req.Name != nil {
		t.name = *req.Name
	}
	if req.Location != nil {
		t.location = *req.Location
	}
	if req.Country != nil {
		t.country = *req.Country
	}
	if req.Description != nil {
		t.description = *req.Description
	}
	if req.Price != nil {
		t.price = *req.Price
	}
	if req.ImagePath != nil {
		t.imagePath = *req.ImagePath
	}

	writeMessage(w, http.StatusOK, "Tour updated successfully!")
}

func (s *Server) handleDeleteTour(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tourFromPath(r)
	if t == nil {
		writeMessage(w, http.StatusNotFound, "Tour not found.")
		return
	}

	delete(s.tours, t.id)
	writeMessage(w, http.StatusOK, "Tour deleted successfully.")
}

// splitFacet parses a comma-joined facet list, dropping blanks and the
// "All ..." placeholder values the UI may send.
func splitFacet(raw, allValue string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" && p != allValue {
			out = append(out, p)
		}
	}
	return out
}

func (s *Server) handleFilterPackages(w http.ResponseWriter, r *http.Request) {
	places := splitFacet(r.URL.Query().Get("places"), "All Places")
	countries := splitFacet(r.URL.Query().Get("countries"), "All Countries")

	contains := func(list []string, v string) bool {
		for _, x := range list {
			if x == v {
				return true
			}
		}
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]publicTourJSON, 0, len(s.tours))
	for _, t := range s.toursSorted() {
		if len(places) > 0 && !contains(places, t.name) {
			continue
		}
		if len(countries) > 0 && !contains(countries, t.country) {
			continue
		}
		out = append(out, publicTourJSON{
			ID: t.id, Name: t.name, Location: t.location, Country: t.country,
			Description: t.description, Price: t.price, Image: t.imagePath,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
