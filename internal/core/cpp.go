package core

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// CPP is the cents-per-point value of redeeming miles instead of paying
// cashPriceUSD: ((cash - taxes) / miles) * 100, rounded to two decimals.
// ok is false when no cash price is given, the offer costs no miles, or an
// amount is not finite. The value may be negative when taxes exceed the cash
// fare.
func CPP(offer FlightOffer, cashPriceUSD *float64) (value float64, ok bool) {
	if cashPriceUSD == nil || offer.MilesCost == 0 || finite(*cashPriceUSD) != *cashPriceUSD || finite(offer.TaxesUSD) != offer.TaxesUSD {
		return 0, false
	}
	v := decimal.NewFromFloat(*cashPriceUSD).
		Sub(decimal.NewFromFloat(offer.TaxesUSD)).
		Div(decimal.NewFromInt(int64(offer.MilesCost))).
		Mul(hundred).
		Round(2)
	return v.InexactFloat64(), true
}

// TotalCost blends miles and taxes into dollars, valuing 100 miles at 1 USD.
func TotalCost(offer FlightOffer) float64 {
	return float64(offer.MilesCost)/100 + offer.TaxesUSD
}
