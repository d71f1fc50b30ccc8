package core

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/beetlebot/award-finder/internal/config"
	"github.com/cockroachdb/errors"
)

type Capability string

const (
	CapAwardSearch Capability = "awards.search"
	CapSegments    Capability = "segments"
)

type ProviderTier string

const (
	TierEasySignup      ProviderTier = "easySignup"
	TierPartnerRequired ProviderTier = "partnerRequired"
)

// ErrInvalidCabin marks cabin names outside economy, premium, business, first.
var ErrInvalidCabin = errors.New("invalid cabin")

type Cabin string

const (
	CabinEconomy  Cabin = "economy"
	CabinPremium  Cabin = "premium"
	CabinBusiness Cabin = "business"
	CabinFirst    Cabin = "first"
)

func ParseCabin(s string) (Cabin, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "economy", "coach", "y":
		return CabinEconomy, nil
	case "premium", "premium_economy", "premium-economy", "w":
		return CabinPremium, nil
	case "business", "j":
		return CabinBusiness, nil
	case "first", "f":
		return CabinFirst, nil
	}
	return "", errors.Mark(
		errors.Newf("unknown cabin %q (want economy, premium, business or first)", s),
		ErrInvalidCabin,
	)
}

// Prefix is the one-letter fare code the upstream summary records use to
// name cabin-specific fields. Unknown cabins read economy fields.
func (c Cabin) Prefix() string {
	switch c {
	case CabinPremium:
		return "W"
	case CabinBusiness:
		return "J"
	case CabinFirst:
		return "F"
	}
	return "Y"
}

func (c Cabin) Title() string {
	if c == "" {
		return "Unknown"
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// StopCount is the number of intermediate stops. Known is false when the
// upstream record only says the flight is not direct; N is then 1 and means
// "at least one".
type StopCount struct {
	N     int  `json:"n"`
	Known bool `json:"known"`
}

func (s StopCount) String() string {
	switch {
	case s.N == 0:
		return "Nonstop"
	case !s.Known:
		return "1+ stops"
	case s.N == 1:
		return "1 stop"
	}
	return strconv.Itoa(s.N) + " stops"
}

// Shape names the upstream record layout an offer was decoded from.
type Shape string

const (
	ShapeCabinPrefixed Shape = "cabin_prefixed"
	ShapeDetailed      Shape = "detailed"
)

type Segment struct {
	FlightNumber string    `json:"flightNumber,omitempty"`
	Origin       string    `json:"origin,omitempty"`
	Destination  string    `json:"destination,omitempty"`
	DepartsAt    time.Time `json:"departsAt,omitzero"`
	ArrivesAt    time.Time `json:"arrivesAt,omitzero"`
	Aircraft     string    `json:"aircraft,omitempty"`
	FareClass    string    `json:"fareClass,omitempty"`
	Distance     int       `json:"distance,omitempty"`
}

// FlightOffer is one bookable award availability. TaxesUSD is always in USD;
// TaxesCurrency only records what the upstream quoted. Ranking reads the
// canonical fields; ID through Segments are for display.
type FlightOffer struct {
	SourceProgram  string          `json:"sourceProgram"`
	Cabin          Cabin           `json:"cabin"`
	MilesCost      int             `json:"milesCost"`
	TaxesUSD       float64         `json:"taxesUSD"`
	RemainingSeats int             `json:"remainingSeats"`
	DepartureTime  time.Time       `json:"departureTime,omitzero"`
	Origin         string          `json:"origin"`
	Destination    string          `json:"destination"`
	Nonstop        bool            `json:"nonstop"`
	Raw            json.RawMessage `json:"-"`

	ID              string    `json:"id,omitempty"`
	Shape           Shape     `json:"shape"`
	TaxesCurrency   string    `json:"taxesCurrency,omitempty"`
	ArrivalTime     time.Time `json:"arrivalTime,omitzero"`
	Stops           StopCount `json:"stops"`
	DurationMinutes int       `json:"durationMinutes,omitempty"`
	Carriers        string    `json:"carriers,omitempty"`
	FlightNumbers   string    `json:"flightNumbers,omitempty"`
	Segments        []Segment `json:"segments,omitempty"`
}

func (f FlightOffer) HasDeparture() bool { return !f.DepartureTime.IsZero() }

// AwardSearchRequest is the query sent to the availability search endpoint.
type AwardSearchRequest struct {
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	Cabin       Cabin    `json:"cabin"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Sources     []string `json:"sources"`
	OrderBy     string   `json:"orderBy,omitempty"`
	Take        int      `json:"take,omitempty"`
}

//go:generate mockgen -source=types.go -destination=mocks/mock_searcher.go -package=mocks

// AwardSearcher returns raw availability records, one JSON object per offer.
type AwardSearcher interface {
	Name() string
	Tier() ProviderTier
	Capabilities() []Capability
	Available() (bool, string)
	Search(ctx context.Context, req AwardSearchRequest) ([]json.RawMessage, error)
}

type SearchResult struct {
	Query       AwardSearchRequest `json:"query"`
	Mode        config.Mode        `json:"mode"`
	Provider    string             `json:"provider"`
	CreditCard  string             `json:"creditCard,omitempty"`
	Offers      []FlightOffer      `json:"offers"`
	CPP         []*float64         `json:"cpp,omitempty"`
	TotalFound  int                `json:"totalFound"`
	Matched     int                `json:"matched"`
	Sort        SortStrategy       `json:"sort"`
	Warnings    []string           `json:"warnings,omitempty"`
	Skipped     int                `json:"skipped,omitempty"`
	FetchedAt   time.Time          `json:"fetchedAt"`
	CashPrice   *float64           `json:"cashPrice,omitempty"`
	ShowDetails bool               `json:"-"`
}

type ProviderInfo struct {
	Name         string       `json:"name"`
	Capabilities []Capability `json:"capabilities"`
	Tier         ProviderTier `json:"tier"`
	Status       string       `json:"status"`
	Reason       string       `json:"reason,omitempty"`
}

type DoctorReport struct {
	Mode        config.Mode    `json:"mode"`
	ConfigPath  string         `json:"configPath,omitempty"`
	ConfigError string         `json:"configError,omitempty"`
	Providers   []ProviderInfo `json:"providers"`
	RateCache   string         `json:"rateCache"`
	Healthy     bool           `json:"healthy"`
	Summary     string         `json:"summary"`
}
