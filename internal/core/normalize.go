package core

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strings"

	"github.com/beetlebot/award-finder/internal/currency"
	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
)

// ErrMalformedRecord marks availability records that are not JSON objects.
var ErrMalformedRecord = errors.New("malformed availability record")

// USDConverter converts an amount in any currency to USD. Conversion never
// fails; degradations are reported on the returned value.
type USDConverter interface {
	Convert(ctx context.Context, amount float64, code string) currency.Conversion
}

type OfferNormalizer struct {
	rates  USDConverter
	logger *slog.Logger
}

func NewOfferNormalizer(rates USDConverter, logger *slog.Logger) *OfferNormalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &OfferNormalizer{rates: rates, logger: logger}
}

// recordDecoder reads one upstream layout. decode fills every FlightOffer
// field except the USD tax amount.
type recordDecoder interface {
	shape() Shape
	taxes() (amount float64, currencyCode string)
	decode() FlightOffer
}

// Fields only present in the flat detailed layout. The summary layout names
// its cabin fields with a one-letter prefix, so these never collide.
var detailedKeys = []string{"MileageCost", "AvailabilitySegments", "TotalTaxes", "FlightNumbers", "TotalDuration"}

func decoderFor(r record, cabin Cabin) recordDecoder {
	for _, key := range detailedKeys {
		if r.has(key) {
			return detailedDecoder{r: r}
		}
	}
	return prefixedDecoder{r: r, prefix: cabin.Prefix()}
}

// Normalize converts one raw availability record into a FlightOffer for the
// requested cabin. Missing fields become zero values; the only error is a
// record that is not a JSON object.
func (n *OfferNormalizer) Normalize(ctx context.Context, raw json.RawMessage, cabin Cabin) (FlightOffer, error) {
	offer, _, err := n.normalize(ctx, raw, cabin)
	return offer, err
}

func (n *OfferNormalizer) normalize(ctx context.Context, raw json.RawMessage, cabin Cabin) (FlightOffer, currency.Conversion, error) {
	var r record
	if err := json.Unmarshal(raw, &r); err != nil {
		return FlightOffer{}, currency.Conversion{}, errors.Mark(errors.Wrap(err, "decode availability record"), ErrMalformedRecord)
	}
	if r == nil {
		return FlightOffer{}, currency.Conversion{}, errors.Mark(errors.New("availability record is null"), ErrMalformedRecord)
	}

	dec := decoderFor(r, cabin)
	offer := dec.decode()

	amount, code := dec.taxes()
	conv := n.rates.Convert(ctx, amount, code)

	offer.Shape = dec.shape()
	offer.Cabin = cabin
	offer.TaxesUSD = conv.USD
	if offer.TaxesUSD < 0 {
		offer.TaxesUSD = 0
	}
	offer.TaxesCurrency = conv.Currency
	offer.Raw = append(json.RawMessage(nil), raw...)
	return offer, conv, nil
}

// Batch is the outcome of normalizing a whole response.
type Batch struct {
	Offers   []FlightOffer
	Skipped  []error
	Warnings []string
}

// NormalizeAll normalizes every record, skipping malformed ones. Each
// fallback currency is reported once in Warnings.
func (n *OfferNormalizer) NormalizeAll(ctx context.Context, raws []json.RawMessage, cabin Cabin) Batch {
	batch := Batch{Offers: make([]FlightOffer, 0, len(raws))}
	warned := make(map[string]bool)

	for i, raw := range raws {
		offer, conv, err := n.normalize(ctx, raw, cabin)
		if err != nil {
			n.logger.Warn("skipping availability record", "index", i, "error", err)
			batch.Skipped = append(batch.Skipped, errors.Wrapf(err, "record %d", i))
			continue
		}
		if conv.Warning != nil && !warned[conv.Currency] {
			warned[conv.Currency] = true
			batch.Warnings = append(batch.Warnings, conv.Warning.Error())
		}
		batch.Offers = append(batch.Offers, offer)
	}
	return batch
}

// prefixedDecoder reads the summary layout: cabin fields are prefixed with
// Y, W, J or F, taxes are in minor units and only a direct flag is given.
type prefixedDecoder struct {
	r      record
	prefix string
}

func (d prefixedDecoder) shape() Shape { return ShapeCabinPrefixed }

// field prefers the "...Raw" variant, which carries typed values, over the
// display variant.
func (d prefixedDecoder) field(name string) string {
	raw := d.prefix + name + "Raw"
	if d.r.has(raw) {
		return raw
	}
	return d.prefix + name
}

func (d prefixedDecoder) taxes() (float64, string) {
	cents := d.r.num(d.field("TotalTaxes"))
	major := decimal.NewFromFloat(cents).Shift(-2).InexactFloat64()
	return major, taxesCurrency(d.r)
}

func (d prefixedDecoder) decode() FlightOffer {
	route := d.r.obj("Route")

	direct := d.r.bool(d.field("Direct"))
	stops := StopCount{N: 0, Known: true}
	if !direct {
		stops = StopCount{N: 1, Known: false}
	}

	departs := d.r.time("Date")
	if departs.IsZero() {
		departs = d.r.time("ParsedDate")
	}

	return FlightOffer{
		ID:             d.r.str("ID"),
		SourceProgram:  firstNonEmpty(route.str("Source"), d.r.str("Source")),
		MilesCost:      nonNegative(d.r.int(d.field("MileageCost"))),
		RemainingSeats: nonNegative(d.r.int(d.field("RemainingSeats"))),
		DepartureTime:  departs,
		Origin:         firstNonEmpty(route.str("OriginAirport"), d.r.str("OriginAirport")),
		Destination:    firstNonEmpty(route.str("DestinationAirport"), d.r.str("DestinationAirport")),
		Nonstop:        direct,
		Stops:          stops,
		Carriers:       d.r.str(d.field("Airlines")),
	}
}

// detailedDecoder reads the flat trip layout with true stop counts, taxes in
// major units and per-segment detail.
type detailedDecoder struct {
	r record
}

func (d detailedDecoder) shape() Shape { return ShapeDetailed }

func (d detailedDecoder) taxes() (float64, string) {
	return d.r.num("TotalTaxes"), taxesCurrency(d.r)
}

func (d detailedDecoder) decode() FlightOffer {
	segments := d.segments()

	stops := StopCount{N: nonNegative(d.r.int("Stops")), Known: true}
	if !d.r.has("Stops") && len(segments) > 1 {
		stops.N = len(segments) - 1
	}

	offer := FlightOffer{
		ID:              d.r.str("ID"),
		SourceProgram:   d.r.str("Source"),
		MilesCost:       nonNegative(d.r.int("MileageCost")),
		RemainingSeats:  nonNegative(d.r.int("RemainingSeats")),
		DepartureTime:   d.r.time("DepartsAt"),
		ArrivalTime:     d.r.time("ArrivesAt"),
		Origin:          d.r.str("OriginAirport"),
		Destination:     d.r.str("DestinationAirport"),
		Nonstop:         stops.N == 0,
		Stops:           stops,
		DurationMinutes: nonNegative(d.r.int("TotalDuration")),
		Carriers:        d.r.str("Carriers"),
		FlightNumbers:   d.r.str("FlightNumbers"),
	}

	if len(segments) > 0 {
		first, last := segments[0], segments[len(segments)-1]
		offer.Origin = firstNonEmpty(offer.Origin, first.Origin)
		offer.Destination = firstNonEmpty(offer.Destination, last.Destination)
		if offer.DepartureTime.IsZero() {
			offer.DepartureTime = first.DepartsAt
		}
		if offer.ArrivalTime.IsZero() {
			offer.ArrivalTime = last.ArrivesAt
		}
		offer.Segments = segments
	}
	if offer.SourceProgram == "" {
		for _, s := range d.r.list("AvailabilitySegments") {
			if src := s.str("Source"); src != "" {
				offer.SourceProgram = src
				break
			}
		}
	}
	return offer
}

func (d detailedDecoder) segments() []Segment {
	raw := d.r.list("AvailabilitySegments")
	if len(raw) == 0 {
		return nil
	}
	sort.SliceStable(raw, func(i, j int) bool {
		return raw[i].int("Order") < raw[j].int("Order")
	})

	out := make([]Segment, 0, len(raw))
	for _, s := range raw {
		out = append(out, Segment{
			FlightNumber: s.str("FlightNumber"),
			Origin:       s.str("OriginAirport"),
			Destination:  s.str("DestinationAirport"),
			DepartsAt:    s.time("DepartsAt"),
			ArrivesAt:    s.time("ArrivesAt"),
			Aircraft:     s.str("AircraftName"),
			FareClass:    s.str("FareClass"),
			Distance:     nonNegative(s.int("Distance")),
		})
	}
	return out
}

func taxesCurrency(r record) string {
	code := strings.ToUpper(r.str("TaxesCurrency"))
	if code == "" {
		return currency.USD
	}
	return code
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
