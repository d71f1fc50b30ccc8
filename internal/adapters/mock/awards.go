package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/beetlebot/award-finder/internal/core"
	"github.com/cockroachdb/errors"
)

const (
	dateLayout = "2006-01-02"
	maxDays    = 31
)

// AwardSearcher generates seats.aero style availability records. Output is
// deterministic for a given request and mixes both record layouts.
type AwardSearcher struct{}

func NewAwardSearcher() *AwardSearcher {
	return &AwardSearcher{}
}

func (a *AwardSearcher) Name() string            { return "mock_awards" }
func (a *AwardSearcher) Tier() core.ProviderTier { return core.TierEasySignup }
func (a *AwardSearcher) Capabilities() []core.Capability {
	return []core.Capability{core.CapAwardSearch, core.CapSegments}
}
func (a *AwardSearcher) Available() (bool, string) { return true, "" }

type carrier struct {
	Code     string
	Currency string
}

// Programs missing here fly on a generic carrier and quote taxes in USD.
var programCarriers = map[string]carrier{
	"aeroplan":       {"AC", "CAD"},
	"flyingblue":     {"AF", "EUR"},
	"executive-club": {"BA", "GBP"},
	"velocity":       {"VA", "AUD"},
	"ana":            {"NH", "JPY"},
	"united":         {"UA", "USD"},
	"american":       {"AA", "USD"},
	"delta":          {"DL", "USD"},
	"alaska":         {"AS", "USD"},
	"singapore":      {"SQ", "USD"},
	"emirates":       {"EK", "USD"},
	"qatar":          {"QR", "USD"},
	"virginatlantic": {"VS", "USD"},
	"lufthansa":      {"LH", "EUR"},
	"turkish":        {"TK", "USD"},
}

var baseMiles = map[core.Cabin]int{
	core.CabinEconomy:  25000,
	core.CabinPremium:  40000,
	core.CabinBusiness: 60000,
	core.CabinFirst:    85000,
}

var aircraft = []string{"Boeing 787-9", "Airbus A350-900", "Boeing 777-300ER", "Airbus A321neo", "Boeing 737 MAX 8"}

var hubs = []string{"ORD", "FRA", "DOH", "IST", "YYZ", "CDG", "LHR", "SIN"}

func (a *AwardSearcher) Search(ctx context.Context, req core.AwardSearchRequest) ([]json.RawMessage, error) {
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, errors.Wrap(err, "invalid start date")
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, errors.Wrap(err, "invalid end date")
	}

	rng := rand.New(rand.NewSource(hashSeed(req.Origin + req.Destination + req.StartDate + string(req.Cabin))))

	var records []json.RawMessage
	for day, n := start, 0; !day.After(end) && n < maxDays; day, n = day.AddDate(0, 0, 1), n+1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, source := range req.Sources {
			if rng.Intn(10) < 4 {
				continue
			}
			var rec map[string]any
			if len(records)%2 == 0 {
				rec = summaryRecord(rng, req, source, day)
			} else {
				rec = tripRecord(rng, req, source, day)
			}
			raw, err := json.Marshal(rec)
			if err != nil {
				return nil, errors.Wrap(err, "encode mock record")
			}
			records = append(records, raw)
		}
	}
	if req.Take > 0 && len(records) > req.Take {
		records = records[:req.Take]
	}
	return records, nil
}

func carrierFor(source string) carrier {
	if c, ok := programCarriers[source]; ok {
		return c
	}
	return carrier{Code: strings.ToUpper(source[:min(2, len(source))]), Currency: "USD"}
}

func milesFor(rng *rand.Rand, cabin core.Cabin) int {
	base, ok := baseMiles[cabin]
	if !ok {
		base = baseMiles[core.CabinEconomy]
	}
	return base + 500*rng.Intn(base/1250+1)
}

// taxesFor returns the amount in the program's quote currency, in cents.
func taxesFor(rng *rand.Rand, c carrier) int {
	usdCents := 560 + rng.Intn(40000)
	if c.Currency == "JPY" {
		return usdCents * 150
	}
	return usdCents
}

// summaryRecord builds the availability layout: one row per route and day
// with cabin-prefixed fields and taxes in cents.
func summaryRecord(rng *rand.Rand, req core.AwardSearchRequest, source string, day time.Time) map[string]any {
	c := carrierFor(source)
	rec := map[string]any{
		"ID": fmt.Sprintf("mock_%s_%s", source, day.Format("20060102")),
		"Route": map[string]any{
			"OriginAirport":      req.Origin,
			"DestinationAirport": req.Destination,
			"Source":             source,
		},
		"Date":          day.Format(dateLayout),
		"ParsedDate":    day.Format(time.RFC3339),
		"Source":        source,
		"TaxesCurrency": c.Currency,
	}

	cabins := []core.Cabin{core.CabinEconomy}
	if req.Cabin != core.CabinEconomy && req.Cabin != "" {
		cabins = append(cabins, req.Cabin)
	}
	for _, cabin := range cabins {
		p := cabin.Prefix()
		miles := milesFor(rng, cabin)
		direct := rng.Intn(3) > 0
		airlines := c.Code
		if !direct {
			airlines += ", " + hubCarrier(rng)
		}
		rec[p+"Available"] = true
		rec[p+"MileageCost"] = fmt.Sprintf("%d", miles)
		rec[p+"MileageCostRaw"] = miles
		taxes := taxesFor(rng, c)
		rec[p+"TotalTaxes"] = fmt.Sprintf("%d", taxes)
		rec[p+"TotalTaxesRaw"] = taxes
		rec[p+"RemainingSeatsRaw"] = 1 + rng.Intn(9)
		rec[p+"AirlinesRaw"] = airlines
		rec[p+"DirectRaw"] = direct
	}
	return rec
}

func hubCarrier(rng *rand.Rand) string {
	codes := []string{"LH", "TK", "QR", "AC", "UA"}
	return codes[rng.Intn(len(codes))]
}

// tripRecord builds the trip layout: a single itinerary with segments, a
// true stop count and taxes in major units.
func tripRecord(rng *rand.Rand, req core.AwardSearchRequest, source string, day time.Time) map[string]any {
	c := carrierFor(source)
	stops := rng.Intn(3)
	departs := day.Add(time.Duration(6+rng.Intn(14)) * time.Hour)

	points := []string{req.Origin}
	for i := 0; i < stops; i++ {
		points = append(points, hubs[rng.Intn(len(hubs))])
	}
	points = append(points, req.Destination)

	var segments []map[string]any
	var flightNumbers []string
	at, arrives := departs, departs
	for i := 0; i+1 < len(points); i++ {
		block := time.Duration(90+rng.Intn(600)) * time.Minute
		number := fmt.Sprintf("%s%d", c.Code, 100+rng.Intn(900))
		flightNumbers = append(flightNumbers, number)
		segments = append(segments, map[string]any{
			"Order":              i,
			"FlightNumber":       number,
			"OriginAirport":      points[i],
			"DestinationAirport": points[i+1],
			"DepartsAt":          at.Format(time.RFC3339),
			"ArrivesAt":          at.Add(block).Format(time.RFC3339),
			"AircraftName":       aircraft[rng.Intn(len(aircraft))],
			"FareClass":          req.Cabin.Prefix(),
			"Distance":           300 + rng.Intn(6000),
			"Source":             source,
		})
		arrives = at.Add(block)
		at = arrives.Add(time.Duration(60+rng.Intn(120)) * time.Minute)
	}

	return map[string]any{
		"ID":                   fmt.Sprintf("mock_trip_%s_%s_%d", source, day.Format("20060102"), rng.Intn(1000)),
		"Source":               source,
		"MileageCost":          milesFor(rng, req.Cabin),
		"TotalTaxes":           float64(taxesFor(rng, c)) / 100,
		"TaxesCurrency":        c.Currency,
		"RemainingSeats":       1 + rng.Intn(9),
		"Stops":                stops,
		"TotalDuration":        int(arrives.Sub(departs).Minutes()),
		"OriginAirport":        req.Origin,
		"DestinationAirport":   req.Destination,
		"DepartsAt":            departs.Format(time.RFC3339),
		"ArrivesAt":            arrives.Format(time.RFC3339),
		"Carriers":             c.Code,
		"FlightNumbers":        strings.Join(flightNumbers, ", "),
		"AvailabilitySegments": segments,
	}
}

func hashSeed(s string) int64 {
	var h int64
	for _, c := range s {
		h = h*31 + int64(c)
	}
	if h < 0 {
		h = -h
	}
	return h
}
