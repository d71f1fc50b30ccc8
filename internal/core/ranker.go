package core

import (
	"sort"
	"strings"
)

type SortStrategy string

const (
	SortMiles     SortStrategy = "miles"
	SortTotalCost SortStrategy = "total_cost"
	SortCPP       SortStrategy = "cpp"
	SortDate      SortStrategy = "date"
	SortNone      SortStrategy = "none"
)

func Strategies() []SortStrategy {
	return []SortStrategy{SortMiles, SortTotalCost, SortCPP, SortDate}
}

// ParseSortStrategy reports false for names Rank does not know; Rank leaves
// such results in upstream order.
func ParseSortStrategy(s string) (SortStrategy, bool) {
	st := SortStrategy(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Strategies() {
		if st == known {
			return st, true
		}
	}
	return st, false
}

type Filters struct {
	NonstopOnly bool
}

// Ranking is the ranked candidate set. Applied differs from Requested when the
// requested strategy could not be used; Degraded and Warnings say why.
type Ranking struct {
	Offers    []FlightOffer
	Requested SortStrategy
	Applied   SortStrategy
	Degraded  bool
	Warnings  []string
}

// FilterOffers keeps offers matching every enabled filter, in input order.
func FilterOffers(offers []FlightOffer, f Filters) []FlightOffer {
	out := make([]FlightOffer, 0, len(offers))
	for _, o := range offers {
		if f.NonstopOnly && !o.Nonstop {
			continue
		}
		out = append(out, o)
	}
	return out
}

// Rank filters and then sorts the full candidate set. The input slice is not
// modified. cashPriceUSD is only read by the cpp strategy.
func Rank(offers []FlightOffer, f Filters, strategy SortStrategy, cashPriceUSD *float64) Ranking {
	ranked := FilterOffers(offers, f)
	r := Ranking{Requested: strategy, Applied: strategy}

	switch strategy {
	case SortMiles:
		sortByMiles(ranked)
	case SortTotalCost:
		sortByTotalCost(ranked)
	case SortCPP:
		if cashPriceUSD == nil {
			r.Applied = SortTotalCost
			r.Degraded = true
			r.Warnings = append(r.Warnings, "cannot sort by cpp without a baseline cash price; sorting by total_cost instead")
			sortByTotalCost(ranked)
			break
		}
		sortByCPP(ranked, *cashPriceUSD)
	case SortDate:
		sortByDate(ranked)
	default:
		r.Applied = SortNone
	}

	r.Offers = ranked
	return r
}

func sortByMiles(offers []FlightOffer) {
	sort.SliceStable(offers, func(i, j int) bool {
		if offers[i].MilesCost != offers[j].MilesCost {
			return offers[i].MilesCost < offers[j].MilesCost
		}
		return offers[i].TaxesUSD < offers[j].TaxesUSD
	})
}

func sortByTotalCost(offers []FlightOffer) {
	sort.SliceStable(offers, func(i, j int) bool {
		return TotalCost(offers[i]) < TotalCost(offers[j])
	})
}

// sortByCPP puts the best value first. Offers without a CPP (no miles) rank
// as zero.
func sortByCPP(offers []FlightOffer, cash float64) {
	type keyed struct {
		offer FlightOffer
		cpp   float64
	}
	tmp := make([]keyed, len(offers))
	for i, o := range offers {
		v, _ := CPP(o, &cash)
		tmp[i] = keyed{offer: o, cpp: v}
	}
	sort.SliceStable(tmp, func(i, j int) bool {
		return tmp[i].cpp > tmp[j].cpp
	})
	for i := range tmp {
		offers[i] = tmp[i].offer
	}
}

// sortByDate orders by departure; offers without one sort first.
func sortByDate(offers []FlightOffer) {
	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].DepartureTime.Before(offers[j].DepartureTime)
	})
}
