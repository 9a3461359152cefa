// Package trip turns itinerary requests into planner tasks and wraps the
// planner's answer in a response envelope.
package trip

import (
	"time"

	"github.com/tripsmith/tripsmith/pkg/errmodel"
)

const dateLayout = "2006-01-02"

// Preferences captures the traveler's stated preferences. All fields are
// optional free text.
type Preferences struct {
	Budget            string   `json:"budget,omitempty"`
	Interests         []string `json:"interests,omitempty"`
	Transportation    string   `json:"transportation,omitempty"`
	AccommodationType string   `json:"accommodation_type,omitempty"`
	Pace              string   `json:"pace,omitempty"`
}

// Request is the itinerary request body.
type Request struct {
	FromLocation      string      `json:"from_location"`
	ToLocation        string      `json:"to_location"`
	StartDate         string      `json:"start_date"`
	EndDate           string      `json:"end_date"`
	Preferences       Preferences `json:"preferences"`
	NumberOfTravelers int         `json:"number_of_travelers"`
	IncludeWeather    bool        `json:"include_weather"`
	IncludeLocalTips  bool        `json:"include_local_tips"`
}

// Validate checks that the required fields are present. Deeper semantic
// checks (date format, ordering) are the boundary layer's concern.
func (r *Request) Validate() error {
	for _, f := range []struct{ name, val string }{
		{"from_location", r.FromLocation},
		{"to_location", r.ToLocation},
		{"start_date", r.StartDate},
	} {
		if f.val == "" {
			return errmodel.Validation("missing_field", f.name+" is required", map[string]any{"field": f.name})
		}
	}
	return nil
}

// Days returns the inclusive trip length in days. A missing or unparsable
// end date means a single-day trip.
func (r *Request) Days() int {
	start, err := time.Parse(dateLayout, r.StartDate)
	if err != nil {
		return 1
	}
	end, err := time.Parse(dateLayout, r.EndDate)
	if err != nil || end.Before(start) {
		return 1
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// CheckDates verifies date formats, ordering, and traveler count. Intended
// for the request boundary; the core calls Validate only.
func (r *Request) CheckDates() error {
	start, err := time.Parse(dateLayout, r.StartDate)
	if err != nil {
		return errmodel.Validation("bad_date", "start_date is not YYYY-MM-DD", map[string]any{"start_date": r.StartDate})
	}
	if r.EndDate != "" {
		end, err := time.Parse(dateLayout, r.EndDate)
		if err != nil {
			return errmodel.Validation("bad_date", "end_date is not YYYY-MM-DD", map[string]any{"end_date": r.EndDate})
		}
		if end.Before(start) {
			return errmodel.Validation("bad_date_range", "end_date is before start_date", nil)
		}
	}
	if r.NumberOfTravelers < 0 {
		return errmodel.Validation("bad_travelers", "number_of_travelers must not be negative", nil)
	}
	return nil
}

// Metadata echoes request options back in the response.
type Metadata struct {
	IncludesWeather   bool `json:"includes_weather"`
	IncludesLocalTips bool `json:"includes_local_tips"`
	NumberOfTravelers int  `json:"number_of_travelers"`
	DurationDays      int  `json:"duration_days"`
}

// Itinerary is the response envelope. The itinerary text is the planner's
// answer, passed through verbatim.
type Itinerary struct {
	Itinerary    string    `json:"itinerary"`
	FromLocation string    `json:"from_location"`
	ToLocation   string    `json:"to_location"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	GeneratedAt  time.Time `json:"generated_at"`
	Metadata     Metadata  `json:"metadata"`
}
