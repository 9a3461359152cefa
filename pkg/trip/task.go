package trip

import (
	"fmt"
	"strings"
)

// BuildTask renders the planner task for a validated request. The planner is
// expected to call the travel tools itself, so the task describes the trip and
// the desired output shape rather than embedding research results.
func BuildTask(r *Request) string {
	days := r.Days()
	travelers := r.NumberOfTravelers
	if travelers < 1 {
		travelers = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a %d-day travel itinerary from %s to %s.\n\n", days, r.FromLocation, r.ToLocation)
	fmt.Fprintf(&b, "TRIP DETAILS:\n")
	fmt.Fprintf(&b, "- Start Date: %s\n", r.StartDate)
	if r.EndDate != "" {
		fmt.Fprintf(&b, "- End Date: %s\n", r.EndDate)
	}
	fmt.Fprintf(&b, "- Duration: %d days\n", days)
	fmt.Fprintf(&b, "- Travelers: %d\n", travelers)
	if r.Preferences.Budget != "" {
		fmt.Fprintf(&b, "- Budget: %s\n", r.Preferences.Budget)
	}
	if len(r.Preferences.Interests) > 0 {
		fmt.Fprintf(&b, "- Interests: %s\n", strings.Join(r.Preferences.Interests, ", "))
	}
	if r.Preferences.Transportation != "" {
		fmt.Fprintf(&b, "- Transportation: %s\n", r.Preferences.Transportation)
	}
	if r.Preferences.AccommodationType != "" {
		fmt.Fprintf(&b, "- Accommodation: %s\n", r.Preferences.AccommodationType)
	}
	if r.Preferences.Pace != "" {
		fmt.Fprintf(&b, "- Pace: %s\n", r.Preferences.Pace)
	}

	b.WriteString("\nUse the available tools to research transportation, attractions, restaurants, and hotels")
	if r.IncludeWeather {
		b.WriteString(", and the current weather at the destination")
	}
	if r.IncludeLocalTips {
		b.WriteString(", and local tips and customs")
	}
	b.WriteString(".\n\n")

	fmt.Fprintf(&b, "Format the response as a detailed day-by-day itinerary starting with:\n")
	fmt.Fprintf(&b, "%q\n\n", fmt.Sprintf("Here is your %d-day itinerary from %s to %s:", days, r.FromLocation, r.ToLocation))
	b.WriteString(`Include for each day:
1. Date and day number
2. Morning activities with times
3. Afternoon activities with times
4. Evening activities with times
5. Restaurant recommendations for meals
6. Transportation details
7. Hotel/accommodation information

End with practical travel tips.`)
	return b.String()
}
