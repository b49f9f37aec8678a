package drafting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/felixgeelhaar/bucketlist/internal/bucket/domain"
	"github.com/felixgeelhaar/bucketlist/pkg/observability"
)

// FallbackInsight is shown when no insight can be generated.
const FallbackInsight = "Every item you check off is a story worth telling. Pick one for this month!"

// Config configures the service.
type Config struct {
	// Timeout bounds a single generation call.
	Timeout time.Duration

	// RatePerMinute is the local request budget. Zero disables limiting.
	RatePerMinute float64

	// FailureThreshold consecutive failures open the breaker.
	FailureThreshold uint32

	// OpenTimeout is how long the breaker stays open.
	OpenTimeout time.Duration

	Metrics observability.Metrics
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:          15 * time.Second,
		RatePerMinute:    10,
		FailureThreshold: 3,
		OpenTimeout:      time.Minute,
	}
}

// Request asks for a draft of a new item.
type Request struct {
	Input      string
	Type       domain.Type
	Categories []string
}

// Result is the outcome of Draft. Draft is never nil.
type Result struct {
	Draft    *domain.Draft
	Fallback bool
}

// Service wraps a Generator with a timeout, a rate limiter and a circuit
// breaker, and falls back to a local draft on any failure.
type Service struct {
	generator Generator
	breaker   *gobreaker.CircuitBreaker[string]
	limiter   *rate.Limiter
	timeout   time.Duration
	metrics   observability.Metrics
	logger    *slog.Logger
}

// NewService creates a drafting service. A nil generator always falls back.
func NewService(generator Generator, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observability.NoopMetrics{}
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 3
	}

	s := &Service{
		generator: generator,
		timeout:   cfg.Timeout,
		metrics:   cfg.Metrics,
		logger:    logger,
	}
	if cfg.RatePerMinute > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerMinute/60), max(1, int(cfg.RatePerMinute)))
	}
	s.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:    "drafting",
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
	return s
}

// Draft asks the generator for a structured draft. On any failure the
// fallback draft (raw input as title, first category) is returned instead.
func (s *Service) Draft(ctx context.Context, req Request) Result {
	start := time.Now()
	s.metrics.Counter(observability.MetricDraftRequests, 1)
	defer func() {
		s.metrics.Timing(observability.MetricOperationDuration, time.Since(start), observability.T("operation", "draft"))
	}()

	fallback := func(reason error) Result {
		s.metrics.Counter(observability.MetricDraftFallbacks, 1)
		s.logger.WarnContext(ctx, "drafting fell back to raw input", "error", reason)
		return Result{Draft: domain.FallbackDraft(req.Input, req.Categories), Fallback: true}
	}

	if strings.TrimSpace(req.Input) == "" {
		return Result{Draft: domain.FallbackDraft(req.Input, req.Categories), Fallback: true}
	}

	text, err := s.generate(ctx, Prompt{Text: draftPrompt(req), JSON: true})
	if err != nil {
		return fallback(err)
	}
	draft, err := decodeDraft(text)
	if err != nil {
		return fallback(err)
	}

	if strings.TrimSpace(draft.Title) == "" {
		draft.Title = strings.TrimSpace(req.Input)
	}
	draft.Category = matchCategory(draft.Category, req.Categories)
	return Result{Draft: draft}
}

// Insight returns a short motivational message about the list summary.
func (s *Service) Insight(ctx context.Context, summary string) string {
	text, err := s.generate(ctx, Prompt{Text: insightPrompt(summary)})
	if err != nil {
		s.logger.WarnContext(ctx, "insight generation failed", "error", err)
		return FallbackInsight
	}
	return text
}

// BreakerState returns the circuit breaker state.
func (s *Service) BreakerState() string {
	return s.breaker.State().String()
}

func (s *Service) generate(ctx context.Context, p Prompt) (string, error) {
	if s.generator == nil {
		return "", ErrNotConfigured
	}
	if s.limiter != nil && !s.limiter.Allow() {
		return "", ErrRateLimited
	}

	text, err := s.breaker.Execute(func() (string, error) {
		callCtx := ctx
		if s.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}
		return s.generator.Generate(callCtx, p)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("drafting unavailable: %w", err)
	}
	return text, err
}

func draftPrompt(req Request) string {
	itemType := req.Type
	if !itemType.IsValid() {
		itemType = domain.TypeGoal
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Create a bucket list %s from this idea: %q.\n", itemType, strings.TrimSpace(req.Input))
	if len(req.Categories) > 0 {
		fmt.Fprintf(&sb, "Pick category from: %s.\n", strings.Join(req.Categories, ", "))
	}
	sb.WriteString("Answer with one JSON object with the keys title, description, category, interests (array of strings)")
	if itemType.IsPlace() {
		sb.WriteString(", locationName, coordinates ({\"latitude\":number,\"longitude\":number}), bestTimeToVisit, images (array of URLs) and itinerary (array of {name, description})")
	}
	sb.WriteString(".")
	return sb.String()
}

func insightPrompt(summary string) string {
	return "In two sentences, give an upbeat, specific suggestion for someone whose bucket list looks like this: " + summary
}

// decodeDraft parses the generator's JSON answer, tolerating a fenced code
// block around it.
func decodeDraft(text string) (*domain.Draft, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	var d domain.Draft
	if err := json.Unmarshal([]byte(text), &d); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	if d.Coordinates != nil && !d.Coordinates.Valid() {
		d.Coordinates = nil
	}
	return &d, nil
}

// matchCategory returns the vocabulary entry equal to category (any case),
// or the first vocabulary entry.
func matchCategory(category string, vocabulary []string) string {
	category = strings.TrimSpace(category)
	if len(vocabulary) == 0 {
		return category
	}
	for _, c := range vocabulary {
		if strings.EqualFold(c, category) {
			return c
		}
	}
	return vocabulary[0]
}
