// Package search builds package-filter queries from the facet selections the
// filter bar collects.
package search

import (
	"context"
	"sort"

	"tms/pkg/tmsapi"
)

type Facet int

const (
	FacetPlaces Facet = iota
	FacetCountries
)

// PaymentMode values match the wire strings the payment dropdown offers.
type PaymentMode string

const (
	PaymentUPI     PaymentMode = "UPI"
	PaymentCard    PaymentMode = "Debit/Credit Cards"
	PaymentOffline PaymentMode = "Offline Payment"
)

const (
	MinPersons = 1
	MaxPersons = 10
)

// Selection is transient UI state: set-valued place/country facets plus the
// persons count and payment mode carried into the booking step.
type Selection struct {
	places    map[string]struct{}
	countries map[string]struct{}
	persons   int
	payment   PaymentMode
}

func NewSelection() *Selection {
	return &Selection{
		places:    make(map[string]struct{}),
		countries: make(map[string]struct{}),
		persons:   MinPersons,
		payment:   PaymentUPI,
	}
}

// Toggle adds the value to the facet set if absent, removes it if present.
// Toggling twice is a no-op. The zero Selection is usable; the sets are
// allocated on first write.
func (s *Selection) Toggle(f Facet, v string) {
	if s.places == nil {
		s.places = make(map[string]struct{})
	}
	if s.countries == nil {
		s.countries = make(map[string]struct{})
	}
	set := s.places
	if f == FacetCountries {
		set = s.countries
	}
	if _, ok := set[v]; ok {
		delete(set, v)
	} else {
		set[v] = struct{}{}
	}
}

func (s *Selection) Places() []string    { return sortedKeys(s.places) }
func (s *Selection) Countries() []string { return sortedKeys(s.countries) }

func (s *Selection) Persons() int { return s.persons }

// SetPersons clamps to the 1–10 range the picker offers.
func (s *Selection) SetPersons(n int) {
	if n < MinPersons {
		n = MinPersons
	}
	if n > MaxPersons {
		n = MaxPersons
	}
	s.persons = n
}

func (s *Selection) Payment() PaymentMode { return s.payment }

func (s *Selection) SetPayment(p PaymentMode) {
	switch p {
	case PaymentUPI, PaymentCard, PaymentOffline:
		s.payment = p
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Options derives the selectable facet values from the full dataset
// snapshot: the distinct package names and distinct countries, in first-seen
// order. They are never user-editable.
func Options(pkgs []tmsapi.Package) (places, countries []string) {
	seenPlace := make(map[string]struct{})
	seenCountry := make(map[string]struct{})
	for _, p := range pkgs {
		if _, ok := seenPlace[p.Name]; !ok {
			seenPlace[p.Name] = struct{}{}
			places = append(places, p.Name)
		}
		if _, ok := seenCountry[p.Country]; !ok {
			seenCountry[p.Country] = struct{}{}
			countries = append(countries, p.Country)
		}
	}
	return places, countries
}

// Browser fetches package lists for a selection.
type Browser struct {
	api *tmsapi.Client
}

func NewBrowser(api *tmsapi.Client) *Browser {
	return &Browser{api: api}
}

// Load fetches the unfiltered dataset, used for the initial view and for
// deriving facet options.
func (b *Browser) Load(ctx context.Context) ([]tmsapi.Package, error) {
	return b.api.ListTours(ctx)
}

// Apply always issues the fetch, including for an empty selection: an empty
// filter means no restriction, not an empty result.
func (b *Browser) Apply(ctx context.Context, s *Selection) ([]tmsapi.Package, error) {
	return b.api.FilterPackages(ctx, s.Places(), s.Countries())
}
