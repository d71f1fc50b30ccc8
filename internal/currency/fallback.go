package currency

// Approximate USD value of one unit, used only when the live source fails.
// Currencies not listed are treated as USD.
var fallbackRates = map[string]float64{
	"CAD": 0.72,
	"EUR": 1.08,
	"GBP": 1.27,
	"JPY": 0.0067,
	"AUD": 0.65,
	"NZD": 0.60,
}

// FallbackRates returns a copy of the static fallback table.
func FallbackRates() map[string]float64 {
	out := make(map[string]float64, len(fallbackRates))
	for code, rate := range fallbackRates {
		out[code] = rate
	}
	return out
}
