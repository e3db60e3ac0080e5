// Command bookflow drives the whole booking workflow against a running API
// (the simulator or a real backend): register with an OTP, log in, filter
// the inventory, confirm a booking and print the history.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"tms/internal/booking"
	"tms/internal/register"
	"tms/internal/search"
	"tms/internal/session"
	"tms/pkg/config"
	"tms/pkg/tmsapi"
)

func main() {
	var (
		baseURL  = flag.String("base-url", "", "API base url (defaults to API_BASE_URL from env/.env)")
		username = flag.String("username", "traveller", "username to register")
		password = flag.String("password", "secret123", "password to register with")
		email    = flag.String("email", "traveller@example.com", "email to register")
		phone    = flag.String("phone", "9876543210", "10-digit phone to register")
		otp      = flag.String("otp", "", "registration OTP (defaults to FIXED_OTP from env/.env)")
		place    = flag.String("place", "", "place facet to filter on (optional)")
		persons  = flag.Int("persons", 2, "number of travellers")
		payment  = flag.String("payment", string(search.PaymentUPI), "payment mode")
	)
	flag.Parse()

	cfg := config.Load()
	if *baseURL == "" {
		*baseURL = cfg.APIBaseURL
	}
	if *otp == "" {
		*otp = cfg.FixedOTP
	}
	if *otp == "" {
		fmt.Fprintln(os.Stderr, "missing -otp (or FIXED_OTP in env/.env; run the simulator with FIXED_OTP set)")
		os.Exit(2)
	}

	api, err := tmsapi.New(*baseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "client: %v\n", err)
		os.Exit(2)
	}

	ctx := context.Background()
	gate := session.NewGate(api)

	if _, err := gate.Probe(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "status probe: %v\n", err)
		os.Exit(1)
	}

	reg := register.NewFlow(api)
	draft := register.Draft{Username: *username, Email: *email, Phone: *phone}
	if err := reg.RequestOTP(ctx, draft); err != nil {
		fmt.Fprintf(os.Stderr, "request otp: %v (%s)\n", err, reg.Message())
		os.Exit(1)
	}
	fmt.Println(reg.Message())

	if err := reg.VerifyAndRegister(ctx, *otp, *password); err != nil {
		fmt.Fprintf(os.Stderr, "verify: %v (%s)\n", err, reg.Message())
		os.Exit(1)
	}
	fmt.Println(reg.Message())

	if err := gate.Login(ctx, *username, *password); err != nil {
		fmt.Fprintf(os.Stderr, "login: %v (%s)\n", err, gate.Message())
		os.Exit(1)
	}
	fmt.Printf("logged in as %s\n", gate.Current().Username)

	browser := search.NewBrowser(api)
	all, err := browser.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load packages: %v\n", err)
		os.Exit(1)
	}
	places, countries := search.Options(all)
	fmt.Printf("facets: %d places, %d countries\n", len(places), len(countries))

	sel := search.NewSelection()
	sel.SetPersons(*persons)
	sel.SetPayment(search.PaymentMode(*payment))
	if *place != "" {
		sel.Toggle(search.FacetPlaces, *place)
	}

	pkgs, err := browser.Apply(ctx, sel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "filter: %v\n", err)
		os.Exit(1)
	}
	if len(pkgs) == 0 {
		fmt.Fprintln(os.Stderr, "no packages matched the filter")
		os.Exit(1)
	}
	pick := pkgs[0]
	fmt.Printf("booking %s (%s, %s) for %d persons\n", pick.Name, pick.Location, pick.Country, sel.Persons())

	order := booking.Order{
		Package:     pick,
		Persons:     sel.Persons(),
		PaymentMode: string(sel.Payment()),
		Total:       pick.Price.Mul(decimal.NewFromInt(int64(sel.Persons()))),
	}
	flow, err := booking.NewFlow(api, order)
	if err != nil {
		fmt.Fprintf(os.Stderr, "booking flow: %v\n", err)
		os.Exit(1)
	}
	if err := flow.Confirm(ctx, booking.Contact{Email: *email, Mobile: *phone}); err != nil {
		fmt.Fprintf(os.Stderr, "confirm: %v (%s)\n", err, flow.Message())
		os.Exit(1)
	}
	fmt.Println(flow.Message())

	hist := booking.NewHistory(api, nil)
	mine, err := hist.List(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "history: %v\n", err)
		os.Exit(1)
	}
	for _, b := range mine {
		fmt.Printf("booking #%d %s x%d total=%s on %s\n", b.ID, b.PackageName, b.Persons, b.TotalPaid, b.BookingDate)
	}
}
