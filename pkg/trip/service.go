package trip

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tripsmith/tripsmith/pkg/planner"
	"github.com/tripsmith/tripsmith/pkg/tool"
)

// Service ties a planner to the tool registry and produces itineraries.
type Service struct {
	planner   planner.Planner
	registry  *tool.Registry
	estimator planner.TokenEstimator
	maxTokens int
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithTokenGuard rejects tasks whose estimated token count exceeds max.
func WithTokenGuard(est planner.TokenEstimator, max int) ServiceOption {
	return func(s *Service) {
		s.estimator = est
		s.maxTokens = max
	}
}

// NewService creates a Service.
func NewService(p planner.Planner, reg *tool.Registry, opts ...ServiceOption) *Service {
	s := &Service{planner: p, registry: reg}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Plan validates the request, builds the task, and runs the planner against
// the tool set the request allows. The planner's answer is returned verbatim
// in the envelope.
func (s *Service) Plan(ctx context.Context, req *Request) (*Itinerary, error) {
	ctx, span := otel.Tracer("tripsmith").Start(ctx, "trip.Plan")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("trip.from", req.FromLocation),
		attribute.String("trip.to", req.ToLocation),
		attribute.Int("trip.days", req.Days()),
	)

	task := BuildTask(req)
	if err := planner.GuardTaskSize(s.estimator, task, s.maxTokens); err != nil {
		return nil, err
	}

	tools := s.toolsFor(req)
	logrus.WithFields(logrus.Fields{
		"from":    req.FromLocation,
		"to":      req.ToLocation,
		"days":    req.Days(),
		"tools":   len(tools),
		"planner": s.planner.Name(),
	}).Info("generating itinerary")

	answer, err := s.planner.Plan(ctx, task, tools)
	if err != nil {
		return nil, err
	}

	travelers := req.NumberOfTravelers
	if travelers < 1 {
		travelers = 1
	}
	return &Itinerary{
		Itinerary:    answer,
		FromLocation: req.FromLocation,
		ToLocation:   req.ToLocation,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		GeneratedAt:  time.Now().UTC(),
		Metadata: Metadata{
			IncludesWeather:   req.IncludeWeather,
			IncludesLocalTips: req.IncludeLocalTips,
			NumberOfTravelers: travelers,
			DurationDays:      req.Days(),
		},
	}, nil
}

// toolsFor filters the registry by the request's include flags.
func (s *Service) toolsFor(req *Request) []tool.Tool {
	all := s.registry.List()
	out := make([]tool.Tool, 0, len(all))
	for _, t := range all {
		name := t.Describe().Name
		if name == "get_weather_forecast" && !req.IncludeWeather {
			continue
		}
		if name == "get_local_tips" && !req.IncludeLocalTips {
			continue
		}
		out = append(out, t)
	}
	return out
}
