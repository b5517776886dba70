// README: Trip planner; runs prompt -> completion -> normalization for every AI endpoint.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tripwise/internal/ai"
	"tripwise/internal/modules/usage"
	"tripwise/internal/prompt"
	"tripwise/internal/session"
	"tripwise/internal/trip"
)

// ErrInvalidInput marks requests rejected before any upstream call.
var ErrInvalidInput = errors.New("invalid input")

// Endpoint names used in logs and the usage ledger.
const (
	EndpointGenerate  = "generate-itinerary"
	EndpointEdit      = "edit-itinerary"
	EndpointTransport = "transportation-costs"
	EndpointLegal     = "legal-docs"
	EndpointImage     = "describe-image"
)

// RouteReferencer supplies an optional ground-truth line for transport prompts.
type RouteReferencer interface {
	Reference(ctx context.Context, origin, destination, mode string) (string, error)
}

type UsageRecorder interface {
	Record(ctx context.Context, r usage.Record)
}

// PlannerConfig names the model in use for the usage ledger. RouteTimeout
// caps the route reference lookup; zero means 15s.
type PlannerConfig struct {
	Provider     string
	Model        string
	RouteTimeout time.Duration
}

// TripPlanner orchestrates prompt rendering, the completion call and
// normalization of the reply.
type TripPlanner struct {
	completer ai.Completer
	sessions  session.Store
	routes    RouteReferencer
	usage     UsageRecorder
	cfg       PlannerConfig
	log       *zap.Logger
}

// NewTripPlanner wires the planner. routes and recorder may be nil.
func NewTripPlanner(completer ai.Completer, sessions session.Store, routes RouteReferencer, recorder UsageRecorder, cfg PlannerConfig, log *zap.Logger) *TripPlanner {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.RouteTimeout <= 0 {
		cfg.RouteTimeout = 15 * time.Second
	}
	return &TripPlanner{
		completer: completer,
		sessions:  sessions,
		routes:    routes,
		usage:     recorder,
		cfg:       cfg,
		log:       log,
	}
}

// GenerateItinerary returns the normalized itinerary JSON value. Its shape is
// whatever the model produced.
func (p *TripPlanner) GenerateItinerary(ctx context.Context, req trip.ItineraryRequest) (any, error) {
	v, _, err := p.run(ctx, EndpointGenerate, ai.Request{Prompt: prompt.Itinerary(req)})
	if err != nil {
		return nil, fmt.Errorf("generate itinerary: %w", err)
	}
	return v, nil
}

type EditResult struct {
	SessionID string
	Itinerary any
}

// EditItinerary applies the traveler's message to the current itinerary.
// Both the message and the raw reply are appended to the session history;
// the history is not fed back into the prompt.
func (p *TripPlanner) EditItinerary(ctx context.Context, req trip.EditRequest) (EditResult, error) {
	if strings.TrimSpace(req.Message) == "" {
		return EditResult{}, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}
	if len(req.CurrentItinerary) == 0 || string(req.CurrentItinerary) == "null" {
		return EditResult{}, fmt.Errorf("%w: current_itinerary is required", ErrInvalidInput)
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	res := EditResult{SessionID: sessionID}

	if err := p.sessions.Append(ctx, sessionID, session.Message{Role: session.RoleUser, Content: req.Message}); err != nil {
		return res, fmt.Errorf("edit itinerary: %w", err)
	}

	v, raw, err := p.run(ctx, EndpointEdit, ai.Request{Prompt: prompt.EditItinerary(req.CurrentItinerary, req.Message)})
	if raw != "" {
		if aerr := p.sessions.Append(ctx, sessionID, session.Message{Role: session.RoleAssistant, Content: raw}); aerr != nil {
			p.log.Warn("session append failed", zap.String("session_id", sessionID), zap.Error(aerr))
		}
	}
	if err != nil {
		return res, fmt.Errorf("edit itinerary: %w", err)
	}
	res.Itinerary = v
	return res, nil
}

// TransportationCosts returns the "estimates" member of the model reply, or
// the whole reply when that member is missing.
func (p *TripPlanner) TransportationCosts(ctx context.Context, q trip.TransportationQuery) (any, error) {
	v, _, err := p.run(ctx, EndpointTransport, ai.Request{Prompt: prompt.TransportationCosts(q, p.routeReference(ctx, q))})
	if err != nil {
		return nil, fmt.Errorf("transportation costs: %w", err)
	}
	if m, ok := v.(map[string]any); ok {
		if est, ok := m["estimates"]; ok {
			return est, nil
		}
	}
	return v, nil
}

// routeReference never fails; a slow or failed lookup yields "".
func (p *TripPlanner) routeReference(ctx context.Context, q trip.TransportationQuery) string {
	if p.routes == nil {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, p.cfg.RouteTimeout)
	defer cancel()

	ref, err := p.routes.Reference(ctx, q.Source, q.Destination, q.Mode)
	if err != nil {
		p.log.Info("route reference unavailable",
			zap.String("source", q.Source),
			zap.String("destination", q.Destination),
			zap.Error(err))
		return ""
	}
	return ref
}

// LegalDocuments returns the model's document list as an opaque JSON value.
func (p *TripPlanner) LegalDocuments(ctx context.Context, req trip.LegalDocsRequest) (any, error) {
	v, _, err := p.run(ctx, EndpointLegal, ai.Request{Prompt: prompt.LegalDocuments(req)})
	if err != nil {
		return nil, fmt.Errorf("legal documents: %w", err)
	}
	return v, nil
}

// ImageResult holds either the parsed analysis (Parsed is true, Analysis may
// be nil for a JSON null) or, when the model answered in prose, the cleaned text.
type ImageResult struct {
	Analysis    any
	Description string
	Parsed      bool
}

func (p *TripPlanner) DescribeImage(ctx context.Context, img ai.Image) (ImageResult, error) {
	if len(img.Data) == 0 {
		return ImageResult{}, fmt.Errorf("%w: image is empty", ErrInvalidInput)
	}
	v, raw, err := p.run(ctx, EndpointImage, ai.Request{Prompt: prompt.DescribeImage(), Image: &img})
	if err != nil {
		if errors.Is(err, ai.ErrMalformedJSON) {
			return ImageResult{Description: ai.StripFences(raw)}, nil
		}
		return ImageResult{}, fmt.Errorf("describe image: %w", err)
	}
	return ImageResult{Analysis: v, Parsed: true}, nil
}

// run performs one completion and normalization, recording the outcome.
// raw is returned whenever the completion itself succeeded.
func (p *TripPlanner) run(ctx context.Context, endpoint string, req ai.Request) (any, string, error) {
	start := time.Now()
	raw, err := p.completer.Complete(ctx, req)
	if err != nil {
		p.record(ctx, endpoint, start, usage.OutcomeUpstreamError)
		p.log.Warn("completion failed", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, "", err
	}

	v, err := ai.Normalize(raw)
	if err != nil {
		p.record(ctx, endpoint, start, usage.OutcomeParseError)
		p.log.Warn("model output not JSON", zap.String("endpoint", endpoint), zap.Int("bytes", len(raw)))
		return nil, raw, err
	}

	p.record(ctx, endpoint, start, usage.OutcomeOK)
	p.log.Debug("completion ok", zap.String("endpoint", endpoint), zap.Duration("latency", time.Since(start)))
	return v, raw, nil
}

func (p *TripPlanner) record(ctx context.Context, endpoint string, start time.Time, outcome string) {
	if p.usage == nil {
		return
	}
	p.usage.Record(ctx, usage.Record{
		Endpoint: endpoint,
		Provider: p.cfg.Provider,
		Model:    p.cfg.Model,
		Latency:  time.Since(start),
		Outcome:  outcome,
	})
}
