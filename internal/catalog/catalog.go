// Package catalog maps credit card rewards currencies to the airline loyalty
// programs they transfer to, keyed by seats.aero source identifiers.
package catalog

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrUnknownCreditCard marks errors returned for card ids missing from the catalog.
var ErrUnknownCreditCard = errors.New("unknown credit card")

type Program struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

type Card struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName"`
	Partners    []string `json:"partners"`
}

const (
	American        = "american"
	Aeroplan        = "aeroplan"
	Aeromexico      = "aeromexico"
	Alaska          = "alaska"
	ANA             = "ana"
	AsiaMiles       = "asia-miles"
	Delta           = "delta"
	Etihad          = "etihad"
	ExecutiveClub   = "executive-club"
	Finnair         = "finnair"
	FlyingBlue      = "flyingblue"
	Hawaiian        = "hawaiian"
	JetBlue         = "jetblue"
	KrisFlyer       = "singapore"
	Lufthansa       = "lufthansa"
	PrivilegeClub   = "qatar"
	Qantas          = "qantas"
	Skywards        = "emirates"
	Southwest       = "southwest"
	Turkish         = "turkish"
	United          = "united"
	VirginAtlantic  = "virginatlantic"
	VirginAustralia = "velocity"
)

var programNames = map[string]string{
	American:        "American Airlines AAdvantage",
	Aeroplan:        "Air Canada Aeroplan",
	Aeromexico:      "Aeromexico Club Premier",
	Alaska:          "Alaska Airlines Mileage Plan",
	ANA:             "ANA Mileage Club",
	AsiaMiles:       "Cathay Pacific Asia Miles",
	Delta:           "Delta SkyMiles",
	Etihad:          "Etihad Guest",
	ExecutiveClub:   "British Airways Executive Club",
	Finnair:         "Finnair Plus",
	FlyingBlue:      "Air France-KLM Flying Blue",
	Hawaiian:        "Hawaiian Airlines HawaiianMiles",
	JetBlue:         "JetBlue TrueBlue",
	KrisFlyer:       "Singapore Airlines KrisFlyer",
	Lufthansa:       "Lufthansa Miles & More",
	PrivilegeClub:   "Qatar Airways Privilege Club",
	Qantas:          "Qantas Frequent Flyer",
	Skywards:        "Emirates Skywards",
	Southwest:       "Southwest Rapid Rewards",
	Turkish:         "Turkish Airlines Miles&Smiles",
	United:          "United MileagePlus",
	VirginAtlantic:  "Virgin Atlantic Flying Club",
	VirginAustralia: "Virgin Australia Velocity",
}

// cards is kept in presentation order; partner order within a card is the
// order shown to users, not a preference.
var cards = []Card{
	{
		ID:          "capital-one",
		DisplayName: "Capital One (Venture, VentureX, Spark Miles)",
		Partners: []string{
			Aeromexico, Aeroplan, FlyingBlue, Skywards, Etihad, Finnair,
			JetBlue, Qantas, PrivilegeClub, KrisFlyer, Turkish, VirginAtlantic,
		},
	},
	{
		ID:          "chase",
		DisplayName: "Chase Ultimate Rewards (Sapphire, Freedom, Ink)",
		Partners:    []string{Aeroplan, FlyingBlue, JetBlue, KrisFlyer, United, VirginAtlantic},
	},
	{
		ID:          "amex",
		DisplayName: "American Express Membership Rewards",
		Partners: []string{
			Aeromexico, Aeroplan, FlyingBlue, Delta, Skywards, Etihad,
			JetBlue, Qantas, PrivilegeClub, KrisFlyer, VirginAtlantic, VirginAustralia,
		},
	},
	{
		ID:          "citi",
		DisplayName: "Citi ThankYou Rewards (Premier, Prestige, Rewards+)",
		Partners: []string{
			Aeromexico, American, FlyingBlue, Skywards, Etihad,
			JetBlue, PrivilegeClub, KrisFlyer, Turkish, VirginAtlantic,
		},
	},
	{
		ID:          "bilt",
		DisplayName: "Bilt Rewards",
		Partners: []string{
			Aeroplan, FlyingBlue, Alaska, Skywards, Etihad,
			PrivilegeClub, Turkish, United, VirginAtlantic,
		},
	},
	{
		ID:          "wells-fargo",
		DisplayName: "Wells Fargo Autograph",
		Partners:    []string{FlyingBlue, VirginAtlantic},
	},
	{
		ID:          "rove",
		DisplayName: "Rove",
		Partners:    []string{Aeromexico, Etihad, Finnair, Lufthansa, PrivilegeClub},
	},
}

// UnknownCreditCardError is returned by PartnersFor. Valid lists every card
// id the catalog knows, in catalog order.
type UnknownCreditCardError struct {
	Card  string
	Valid []string
}

func (e *UnknownCreditCardError) Error() string {
	return "unknown credit card: '" + e.Card + "'. Available options: " + strings.Join(e.Valid, ", ")
}

func (e *UnknownCreditCardError) Is(target error) bool {
	return target == ErrUnknownCreditCard
}

func lookupCard(id string) (Card, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, c := range cards {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}

// PartnersFor returns the transfer partners of a card. It fails for unknown
// cards because an empty partner list would still cost an API call.
func PartnersFor(cardID string) ([]string, error) {
	c, ok := lookupCard(cardID)
	if !ok {
		return nil, errors.WithHint(
			&UnknownCreditCardError{Card: cardID, Valid: CardIDs()},
			"set search.credit_card to one of the listed ids, or list programs under search.sources",
		)
	}
	out := make([]string, len(c.Partners))
	copy(out, c.Partners)
	return out, nil
}

// CardName returns the display name of a card, or the input when unknown.
func CardName(cardID string) string {
	if c, ok := lookupCard(cardID); ok {
		return c.DisplayName
	}
	return cardID
}

// ProgramName returns the display name of a loyalty program source, or the
// input when unknown.
func ProgramName(sourceID string) string {
	if name, ok := programNames[sourceID]; ok {
		return name
	}
	return sourceID
}

func CardIDs() []string {
	ids := make([]string, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, c.ID)
	}
	return ids
}

func Cards() []Card {
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		partners := make([]string, len(c.Partners))
		copy(partners, c.Partners)
		out = append(out, Card{ID: c.ID, DisplayName: c.DisplayName, Partners: partners})
	}
	return out
}

func Programs() []Program {
	out := make([]Program, 0, len(programNames))
	for id, name := range programNames {
		out = append(out, Program{ID: id, DisplayName: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
