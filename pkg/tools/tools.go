// Package tools defines the travel research tools exposed to the planner.
package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tripsmith/tripsmith/pkg/providers/openweather"
	"github.com/tripsmith/tripsmith/pkg/providers/serpapi"
	"github.com/tripsmith/tripsmith/pkg/providers/tavily"
	"github.com/tripsmith/tripsmith/pkg/tool"
)

// WeatherClient fetches current conditions for a location.
type WeatherClient interface {
	CurrentByLocation(ctx context.Context, location string) (openweather.Conditions, error)
}

// WebSearch runs an open-web search (Tavily).
type WebSearch interface {
	Search(ctx context.Context, query string) ([]tavily.Result, error)
}

// OrganicSearch runs a Google search (SerpAPI).
type OrganicSearch interface {
	Search(ctx context.Context, query string) ([]serpapi.Result, error)
}

// Providers bundles the upstream clients the tools depend on.
type Providers struct {
	Weather WeatherClient
	Tavily  WebSearch
	Serp    OrganicSearch
}

const localTipsLimit = 3

// RegisterAll builds every travel tool and registers it in a fixed order.
func RegisterAll(reg *tool.Registry, p Providers) error {
	for _, build := range []func(Providers) (*tool.Func, error){
		NewTransportation,
		NewWeatherForecast,
		NewAttractions,
		NewRestaurants,
		NewHotels,
		NewLocalTips,
	} {
		t, err := build(p)
		if err != nil {
			return err
		}
		if err := reg.Register(t); err != nil {
			return err
		}
	}
	return nil
}

// NewTransportation searches for transportation options between two places.
func NewTransportation(p Providers) (*tool.Func, error) {
	return tool.NewFunc(
		"get_transportation",
		"Find transportation options between two locations (flights, trains, buses).",
		[]tool.Param{
			{Name: "from_location", Type: tool.KindString, Description: "Departure city or region", Required: true},
			{Name: "to_location", Type: tool.KindString, Description: "Destination city or region", Required: true},
			{Name: "travel_date", Type: tool.KindString, Description: "Travel date in YYYY-MM-DD form", Required: true},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			from, _ := args["from_location"].(string)
			to, _ := args["to_location"].(string)
			query := fmt.Sprintf("transportation from %s to %s", from, to)
			logrus.WithFields(logrus.Fields{"from": from, "to": to}).Info("fetching transportation options")
			results, err := p.Serp.Search(ctx, query)
			if err != nil {
				return "", err
			}
			if len(results) == 0 {
				return fmt.Sprintf("No transportation options found from %s to %s.", from, to), nil
			}
			var b strings.Builder
			fmt.Fprintf(&b, "Transportation options from %s to %s:\n", from, to)
			for _, r := range results {
				fmt.Fprintf(&b, "- %s: %s (%s)\n", r.Title, r.Snippet, r.Link)
			}
			return b.String(), nil
		},
	)
}

// NewWeatherForecast reports current conditions for a location.
func NewWeatherForecast(p Providers) (*tool.Func, error) {
	return tool.NewFunc(
		"get_weather_forecast",
		"Get current weather conditions for a location, in metric units.",
		[]tool.Param{
			{Name: "location", Type: tool.KindString, Description: "City or region to look up", Required: true},
			{Name: "date", Type: tool.KindString, Description: "Date of interest in YYYY-MM-DD form"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			location, _ := args["location"].(string)
			logrus.WithField("location", location).Info("fetching weather forecast")
			cond, err := p.Weather.CurrentByLocation(ctx, location)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Weather in %s: %s", location, cond), nil
		},
	)
}

// NewAttractions searches for top tourist attractions.
func NewAttractions(p Providers) (*tool.Func, error) {
	return tool.NewFunc(
		"get_attractions",
		"Find top tourist attractions in a location.",
		[]tool.Param{
			{Name: "location", Type: tool.KindString, Description: "City or region to look up", Required: true},
		},
		webSearchHandler(p, "top tourist attractions in %s", "Attractions in %s:", "No attractions found for %s.", 0),
	)
}

// NewRestaurants searches for restaurant recommendations.
func NewRestaurants(p Providers) (*tool.Func, error) {
	return tool.NewFunc(
		"get_restaurants",
		"Find recommended restaurants in a location.",
		[]tool.Param{
			{Name: "location", Type: tool.KindString, Description: "City or region to look up", Required: true},
		},
		organicSearchHandler(p, "best restaurants in %s", "Restaurants in %s:", "No restaurants found for %s."),
	)
}

// NewHotels searches for hotel recommendations.
func NewHotels(p Providers) (*tool.Func, error) {
	return tool.NewFunc(
		"get_hotels",
		"Find hotels in a location for a given check-in date.",
		[]tool.Param{
			{Name: "location", Type: tool.KindString, Description: "City or region to look up", Required: true},
			{Name: "check_in", Type: tool.KindString, Description: "Check-in date in YYYY-MM-DD form", Required: true},
		},
		organicSearchHandler(p, "hotels in %s", "Hotels in %s:", "No hotels found for %s."),
	)
}

// NewLocalTips searches for local customs and tips.
func NewLocalTips(p Providers) (*tool.Func, error) {
	return tool.NewFunc(
		"get_local_tips",
		"Find local tips, customs, and etiquette for a location.",
		[]tool.Param{
			{Name: "location", Type: tool.KindString, Description: "City or region to look up", Required: true},
		},
		webSearchHandler(p, "local tips and customs in %s", "Local tips for %s:", "No local tips found for %s.", localTipsLimit),
	)
}

func webSearchHandler(p Providers, queryFmt, headerFmt, emptyFmt string, limit int) tool.HandlerFunc {
	return func(ctx context.Context, args map[string]any) (string, error) {
		location, _ := args["location"].(string)
		query := fmt.Sprintf(queryFmt, location)
		logrus.WithField("query", query).Debug("tavily search")
		results, err := p.Tavily.Search(ctx, query)
		if err != nil {
			return "", err
		}
		if limit > 0 && len(results) > limit {
			results = results[:limit]
		}
		if len(results) == 0 {
			return fmt.Sprintf(emptyFmt, location), nil
		}
		var b strings.Builder
		fmt.Fprintf(&b, headerFmt+"\n", location)
		for _, r := range results {
			fmt.Fprintf(&b, "- %s: %s (%s)\n", r.Title, r.Content, r.URL)
		}
		return b.String(), nil
	}
}

func organicSearchHandler(p Providers, queryFmt, headerFmt, emptyFmt string) tool.HandlerFunc {
	return func(ctx context.Context, args map[string]any) (string, error) {
		location, _ := args["location"].(string)
		query := fmt.Sprintf(queryFmt, location)
		logrus.WithField("query", query).Debug("serpapi search")
		results, err := p.Serp.Search(ctx, query)
		if err != nil {
			return "", err
		}
		if len(results) == 0 {
			return fmt.Sprintf(emptyFmt, location), nil
		}
		var b strings.Builder
		fmt.Fprintf(&b, headerFmt+"\n", location)
		for _, r := range results {
			fmt.Fprintf(&b, "- %s: %s (%s)\n", r.Title, r.Snippet, r.Link)
		}
		return b.String(), nil
	}
}
