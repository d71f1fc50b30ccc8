package output

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/beetlebot/award-finder/internal/catalog"
	"github.com/beetlebot/award-finder/internal/core"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Row is the display projection of one ranked offer.
type Row struct {
	Rank     int
	Program  string
	Date     string
	Miles    string
	Taxes    string
	Seats    string
	Cabin    string
	Route    string
	Arrival  string
	Duration string
	Flights  string
	CPP      string
}

func Project(rank int, o core.FlightOffer, cpp *float64) Row {
	row := Row{
		Rank:     rank,
		Program:  catalog.ProgramName(o.SourceProgram),
		Date:     formatTime(o.DepartureTime),
		Miles:    printer.Sprintf("%d", o.MilesCost),
		Taxes:    formatTaxes(o),
		Seats:    fmt.Sprintf("%d", o.RemainingSeats),
		Cabin:    o.Cabin.Title(),
		Route:    formatRoute(o.Origin, o.Destination),
		Arrival:  formatTime(o.ArrivalTime),
		Duration: formatDuration(o.DurationMinutes),
		Flights:  o.FlightNumbers,
		CPP:      FormatCPP(cpp),
	}
	if row.Flights == "" {
		row.Flights = o.Stops.String()
	}
	if !o.HasDeparture() {
		row.Date = "N/A"
	}
	return row
}

func FormatCPP(cpp *float64) string {
	if cpp == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f¢", *cpp)
}

// formatRoute is empty unless both airports are known.
func formatRoute(origin, destination string) string {
	if origin == "" || destination == "" {
		return ""
	}
	return origin + " → " + destination
}

func formatTaxes(o core.FlightOffer) string {
	s := printer.Sprintf("$%.2f", o.TaxesUSD)
	if o.TaxesCurrency != "" && o.TaxesCurrency != "USD" {
		s += " (" + o.TaxesCurrency + ")"
	}
	return s
}

// formatTime omits the clock for date-only values.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if t.Hour() == 0 && t.Minute() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04")
}

func formatDuration(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

// Table renders a search result for people. Route, Arrival, Duration and CPP
// columns only appear when some row has a value for them.
func Table(result *core.SearchResult) error {
	if len(result.Offers) == 0 {
		_, err := fmt.Fprintln(Writer, "No award availability found.")
		return err
	}

	rows := make([]Row, len(result.Offers))
	var withRoute, withArrival, withDuration, withFlights bool
	for i, o := range result.Offers {
		var cpp *float64
		if i < len(result.CPP) {
			cpp = result.CPP[i]
		}
		rows[i] = Project(i+1, o, cpp)
		withRoute = withRoute || rows[i].Route != ""
		withArrival = withArrival || rows[i].Arrival != ""
		withDuration = withDuration || rows[i].Duration != ""
		withFlights = withFlights || o.FlightNumbers != ""
	}
	withCPP := result.CashPrice != nil

	fmt.Fprintf(Writer, "Found %d flights. Showing top %d (sorted by %s).\n\n",
		result.Matched, len(result.Offers), result.Sort)

	header := []string{"#", "Program", "Date", "Miles", "Taxes", "Seats", "Cabin"}
	if withRoute {
		header = append(header, "Route")
	}
	if withArrival {
		header = append(header, "Arrival")
	}
	if withDuration {
		header = append(header, "Duration")
	}
	if withFlights {
		header = append(header, "Flights")
	} else {
		header = append(header, "Stops")
	}
	if withCPP {
		header = append(header, "CPP")
	}

	tw := tabwriter.NewWriter(Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		cols := []string{fmt.Sprintf("%d", r.Rank), r.Program, r.Date, r.Miles, r.Taxes, r.Seats, r.Cabin}
		if withRoute {
			cols = append(cols, r.Route)
		}
		if withArrival {
			cols = append(cols, r.Arrival)
		}
		if withDuration {
			cols = append(cols, r.Duration)
		}
		cols = append(cols, r.Flights)
		if withCPP {
			cols = append(cols, r.CPP)
		}
		fmt.Fprintln(tw, strings.Join(cols, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if result.ShowDetails {
		return details(rows, result.Offers)
	}
	return nil
}

var rule = strings.Repeat("=", 80)

// details prints the cost of every shown offer and, where known, its
// segments.
func details(rows []Row, offers []core.FlightOffer) error {
	fmt.Fprintf(Writer, "\n%s\nFLIGHT DETAILS\n%s\n", rule, rule)
	for i, o := range offers {
		r := rows[i]
		fmt.Fprintf(Writer, "\n[%d] %s - %s\n", r.Rank, r.Program, r.Flights)
		fmt.Fprintf(Writer, "    Cost: %s miles + %s\n", r.Miles, r.Taxes)
		if len(o.Segments) == 0 {
			continue
		}
		fmt.Fprintln(Writer, "    Segments:")
		for j, s := range o.Segments {
			fmt.Fprintf(Writer, "      %d. %s: %s → %s\n", j+1,
				orDefault(s.FlightNumber, "???"), orDefault(s.Origin, "???"), orDefault(s.Destination, "???"))
			fmt.Fprintf(Writer, "         Departs: %s | Arrives: %s\n", formatTime(s.DepartsAt), formatTime(s.ArrivesAt))
			if _, err := fmt.Fprintf(Writer, "         Aircraft: %s | Fare Class: %s\n",
				orDefault(s.Aircraft, "Unknown"), orDefault(s.FareClass, "?")); err != nil {
				return err
			}
		}
	}
	return nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
