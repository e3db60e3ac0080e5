package tmsapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ListTours returns the full public inventory.
func (c *Client) ListTours(ctx context.Context) ([]Package, error) {
	var out []Package
	if _, err := c.doJSON(ctx, http.MethodGet, "/api/tours", nil, &out); err != nil {
		return nil, err
	}
	for _, p := range out {
		if err := p.validate(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// AdminListTours returns the inventory via the admin route. Non-admin callers
// get *APIError with status 403.
func (c *Client) AdminListTours(ctx context.Context) ([]Tour, error) {
	var out []Tour
	if _, err := c.doJSON(ctx, http.MethodGet, "/api/admin/tours", nil, &out); err != nil {
		return nil, err
	}
	for _, t := range out {
		if err := t.validate(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

type TourInput struct {
	Name        string          `json:"name"`
	Location    string          `json:"location"`
	Country     string          `json:"country"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImagePath   string          `json:"image_path"`
}

type createTourResult struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

func (c *Client) CreateTour(ctx context.Context, in TourInput) (int64, string, error) {
	var res createTourResult
	if _, err := c.doJSON(ctx, http.MethodPost, "/api/admin/tours", in, &res); err != nil {
		return 0, "", err
	}
	return res.ID, res.Message, nil
}

func (c *Client) UpdateTour(ctx context.Context, id int64, in TourInput) (string, error) {
	var res messageBody
	if _, err := c.doJSON(ctx, http.MethodPut, "/api/admin/tours/"+strconv.FormatInt(id, 10), in, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

func (c *Client) DeleteTour(ctx context.Context, id int64) (string, error) {
	var res messageBody
	if _, err := c.doJSON(ctx, http.MethodDelete, "/api/admin/tours/"+strconv.FormatInt(id, 10), nil, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

// FilterPackages fetches packages matching the selected facets. Both
// parameters are always sent, comma-joined; empty means no restriction, so an
// empty call returns the full list.
func (c *Client) FilterPackages(ctx context.Context, places, countries []string) ([]Package, error) {
	q := url.Values{}
	q.Set("places", strings.Join(places, ","))
	q.Set("countries", strings.Join(countries, ","))

	var out []Package
	if _, err := c.doJSON(ctx, http.MethodGet, "/api/packages/filter?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	for _, p := range out {
		if err := p.validate(); err != nil {
			return nil, err
		}
	}
	return out, nil
}
