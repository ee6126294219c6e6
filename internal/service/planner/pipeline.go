package planner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"rove/internal/capabilities"
	"rove/internal/domain"
	"rove/internal/domain/models"
	"rove/internal/domain/repositories"
	"rove/internal/domain/services"
	domainllm "rove/internal/domain/services/llm"
	"rove/internal/metrics"
	"rove/internal/service/llm"
	"rove/internal/service/llm/tools"
	"rove/internal/telemetry"
)

const (
	conceptTemperature   = 0.7
	dailyPlanTemperature = 0.6
	logisticsTemperature = 0.5

	// maxStageTokens caps structured output even for models that allow more.
	maxStageTokens = 8192
)

var (
	conceptSchema = llm.SchemaFor[models.ConceptSet]("itinerary_concepts",
		"Exactly three distinct itinerary concepts for the same destination and duration.")
	dailyPlanSchema = llm.SchemaFor[models.DailyPlanSet]("daily_plan",
		"Day-by-day schedule for one itinerary concept.")
	logisticsSchema = llm.SchemaFor[models.LogisticsSet]("logistics",
		"Accommodation, transport and booking guidance for the destination.")
)

// Dependencies wires a Pipeline.
type Dependencies struct {
	Provider     domainllm.LLMProvider
	Model        string
	Capabilities capabilities.ModelCapabilities
	Contexts     services.ContextProvider
	// Tools enables research when it has tools, ResearchEnabled is set and
	// the model supports tool use.
	Tools                 *tools.ToolRegistry
	ResearchEnabled       bool
	MaxResearchIterations int
	Generations           repositories.GenerationRepository
	Logger                *slog.Logger
}

// Pipeline is the itinerary planner: gate, clarification or
// context → concepts → daily plans and logistics → merge.
type Pipeline struct {
	provider    domainllm.LLMProvider
	model       string
	maxTokens   int
	contexts    services.ContextProvider
	clarifier   *Clarifier
	researcher  *Researcher
	generations *generationLog
	logger      *slog.Logger
}

// NewPipeline creates the planner.
func NewPipeline(deps Dependencies) *Pipeline {
	maxTokens := deps.Capabilities.MaxOutput
	if maxTokens <= 0 || maxTokens > maxStageTokens {
		maxTokens = maxStageTokens
	}

	p := &Pipeline{
		provider:    deps.Provider,
		model:       deps.Model,
		maxTokens:   maxTokens,
		contexts:    deps.Contexts,
		clarifier:   NewClarifier(deps.Provider, deps.Model, deps.Logger),
		generations: &generationLog{repo: deps.Generations, logger: deps.Logger},
		logger:      deps.Logger,
	}

	if deps.ResearchEnabled && deps.Tools != nil && deps.Tools.Len() > 0 && deps.Capabilities.SupportsTools {
		p.researcher = NewResearcher(deps.Provider, deps.Model, deps.Tools, deps.MaxResearchIterations, maxTokens, deps.Logger)
	}

	deps.Logger.Info("planner ready",
		"model", deps.Model,
		"max_tokens", maxTokens,
		"research", p.researcher != nil,
	)
	return p
}

var _ services.Planner = (*Pipeline)(nil)

// Plan answers one chat turn.
func (p *Pipeline) Plan(ctx context.Context, req *services.PlanRequest) (*models.PlanResult, error) {
	ctx = WithTripID(ctx, req.TripID)
	fullContext := conversationText(req.History)

	missing := MissingFacets(req.Message, travelerText(req.History))
	if len(missing) > 0 {
		metrics.GateDecisions.WithLabelValues("clarify").Inc()
		reply, err := p.clarifier.Ask(ctx, req.History, req.Message, missing)
		if err != nil {
			return nil, p.fail(req.TripID, "clarify", err)
		}
		return &models.PlanResult{Type: models.ResponseTypeQuestion, Reply: reply}, nil
	}
	metrics.GateDecisions.WithLabelValues("generate").Inc()

	itineraries, err := p.generate(ctx, req, fullContext)
	if err != nil {
		return nil, err
	}
	return &models.PlanResult{Type: models.ResponseTypeItineraries, Itineraries: itineraries}, nil
}

func (p *Pipeline) generate(ctx context.Context, req *services.PlanRequest, fullContext string) ([]models.ComposedItinerary, error) {
	ctx, span := telemetry.StartSpan(ctx, "planner.generate", attribute.String("trip_id", req.TripID))
	started := time.Now()

	system := systemPrompt(req.Profile)

	stageContext, err := p.contexts.GetOrGenerateContext(ctx, req.Message, fullContext)
	if err != nil {
		telemetry.End(span, err)
		return nil, p.fail(req.TripID, "context", err)
	}

	concepts, err := p.concepts(ctx, system, stageContext, req.Message)
	if err != nil {
		telemetry.End(span, err)
		return nil, p.fail(req.TripID, "concepts", err)
	}

	plans := make([][]models.DayPlan, len(concepts))
	var logistics models.Logistics

	g, gctx := errgroup.WithContext(ctx)
	for i := range concepts {
		g.Go(func() error {
			plan, err := p.dailyPlan(gctx, system, concepts[i], stageContext)
			if err != nil {
				return fmt.Errorf("daily plan %d: %w", i, err)
			}
			plans[i] = plan
			return nil
		})
	}
	g.Go(func() error {
		l, err := p.logistics(gctx, system, concepts[0], stageContext, req.Message)
		if err != nil {
			return fmt.Errorf("logistics: %w", err)
		}
		logistics = l
		return nil
	})
	if err := g.Wait(); err != nil {
		telemetry.End(span, err)
		return nil, p.fail(req.TripID, "plans", err)
	}

	itineraries := make([]models.ComposedItinerary, len(concepts))
	for i, concept := range concepts {
		itineraries[i] = models.ComposedItinerary{
			Concept:   concept,
			DailyPlan: plans[i],
			Logistics: logistics,
		}
	}

	telemetry.End(span, nil)
	p.logger.Info("itineraries generated",
		"trip_id", req.TripID,
		"count", len(itineraries),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return itineraries, nil
}

// concepts is Stage A.
func (p *Pipeline) concepts(ctx context.Context, system, stageContext, message string) (concepts []models.Concept, err error) {
	ctx, span := telemetry.StartSpan(ctx, "planner.concepts")
	start := time.Now()
	defer func() {
		metrics.ObserveStage(string(models.GenerationBasicItinerary), start, err)
		telemetry.End(span, err)
	}()

	if p.researcher != nil {
		notes, err := p.researcher.Research(ctx, system, conceptResearchPrompt(stageContext, message))
		if err != nil {
			return nil, err
		}
		stageContext = withResearch(stageContext, notes)
	}

	set, resp, err := llm.GenerateStructured[models.ConceptSet](ctx, p.provider, &domainllm.StructuredRequest{
		Model:       p.model,
		System:      system,
		Messages:    []domainllm.Message{domainllm.UserText(conceptPrompt(stageContext, message))},
		Temperature: conceptTemperature,
		MaxTokens:   p.maxTokens,
		Schema:      conceptSchema,
	})
	if err != nil {
		return nil, err
	}

	p.generations.record(ctx, models.GenerationBasicItinerary, resp.Model, resp.InputTokens, resp.OutputTokens, resp.Object)
	return set.Itineraries, nil
}

// dailyPlan is Stage B for one concept.
func (p *Pipeline) dailyPlan(ctx context.Context, system string, concept models.Concept, stageContext string) (plan []models.DayPlan, err error) {
	ctx, span := telemetry.StartSpan(ctx, "planner.daily_plan", attribute.String("concept_id", concept.ID))
	start := time.Now()
	defer func() {
		metrics.ObserveStage(string(models.GenerationDailyPlan), start, err)
		telemetry.End(span, err)
	}()

	if p.researcher != nil {
		notes, err := p.researcher.Research(ctx, system, dailyPlanResearchPrompt(concept))
		if err != nil {
			return nil, err
		}
		stageContext = withResearch(stageContext, notes)
	}

	set, resp, err := llm.GenerateStructured[models.DailyPlanSet](ctx, p.provider, &domainllm.StructuredRequest{
		Model:       p.model,
		System:      system,
		Messages:    []domainllm.Message{domainllm.UserText(dailyPlanPrompt(concept, stageContext))},
		Temperature: dailyPlanTemperature,
		MaxTokens:   p.maxTokens,
		Schema:      dailyPlanSchema,
	})
	if err != nil {
		return nil, err
	}

	p.generations.record(ctx, models.GenerationDailyPlan, resp.Model, resp.InputTokens, resp.OutputTokens, resp.Object)
	return set.DailyPlan, nil
}

// logistics is Stage C, computed once from the first concept.
func (p *Pipeline) logistics(ctx context.Context, system string, concept models.Concept, stageContext, message string) (logistics models.Logistics, err error) {
	ctx, span := telemetry.StartSpan(ctx, "planner.logistics")
	start := time.Now()
	defer func() {
		metrics.ObserveStage(string(models.GenerationLogistics), start, err)
		telemetry.End(span, err)
	}()

	set, resp, err := llm.GenerateStructured[models.LogisticsSet](ctx, p.provider, &domainllm.StructuredRequest{
		Model:       p.model,
		System:      system,
		Messages:    []domainllm.Message{domainllm.UserText(logisticsPrompt(concept, stageContext, message))},
		Temperature: logisticsTemperature,
		MaxTokens:   p.maxTokens,
		Schema:      logisticsSchema,
	})
	if err != nil {
		return models.Logistics{}, err
	}

	p.generations.record(ctx, models.GenerationLogistics, resp.Model, resp.InputTokens, resp.OutputTokens, resp.Object)
	return set.Logistics, nil
}

// fail logs the upstream cause and returns the generic pipeline error.
func (p *Pipeline) fail(tripID, stage string, err error) error {
	p.logger.Error("itinerary generation failed",
		"trip_id", tripID,
		"stage", stage,
		"error", err,
	)
	return fmt.Errorf("%w: %s: %w", domain.ErrGenerationFailed, stage, err)
}
