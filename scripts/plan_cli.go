//go:build ignore

// plan_cli runs the planner from a terminal conversation, without a
// database. Usage: DEFAULT_MODEL=lorem-fast go run scripts/plan_cli.go
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"

	"rove/internal/capabilities"
	"rove/internal/config"
	"rove/internal/domain/models"
	"rove/internal/domain/services"
	"rove/internal/retry"
	llmService "rove/internal/service/llm"
	"rove/internal/service/llm/tools"
	"rove/internal/service/planner"
	"rove/internal/service/profile"
	"rove/internal/service/search"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorBlue   = "\033[34m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// memoryCache keeps destination context for the lifetime of the session.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]models.DestinationCacheEntry
}

func (m *memoryCache) GetLive(ctx context.Context, destination string, now time.Time) (*models.DestinationCacheEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[destination]
	if !ok || !e.IsLive(now) {
		return nil, nil
	}
	return &e, nil
}

func (m *memoryCache) Upsert(ctx context.Context, entry *models.DestinationCacheEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.Destination] = *entry
	return nil
}

func (m *memoryCache) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]models.DestinationCacheEntry)
	return nil
}

// setupLogger writes INFO to the console and DEBUG to a session log file.
func setupLogger() (*slog.Logger, string, error) {
	logsDir := "logs"
	logFile, err := config.SetupLogFile(logsDir, "plan-cli", 10)
	if err != nil {
		return nil, "", err
	}

	consoleHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
	fileHandler := slog.NewTextHandler(logFile, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				if src, ok := a.Value.Any().(*slog.Source); ok {
					return slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
				}
			}
			return a
		},
	})

	return slog.New(&multiHandler{handlers: []slog.Handler{consoleHandler, fileHandler}}), logFile.Name(), nil
}

// multiHandler writes to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, record.Level) {
			if err := handler.Handle(ctx, record); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}

type CLI struct {
	planner services.Planner
	history []models.Turn
	profile *models.UserProfile
	scanner *bufio.Scanner
}

func main() {
	_ = godotenv.Load()

	logger, logFile, err := setupLogger()
	if err != nil {
		fmt.Printf("%sFailed to setup logger: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}

	cfg := config.Load()
	if os.Getenv("DEFAULT_MODEL") == "" {
		cfg.DefaultModel = "lorem-fast"
	}

	registry, err := llmService.SetupProviders(cfg, logger)
	if err != nil {
		fmt.Printf("%sFailed to setup providers: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}
	provider, model, err := llmService.ResolveDefault(registry, cfg)
	if err != nil {
		fmt.Printf("%s%v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}

	caps, err := capabilities.NewRegistry()
	if err != nil {
		fmt.Printf("%sFailed to load capabilities: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}
	modelCaps, _ := caps.Lookup(provider.Name(), model)

	toolBuilder := tools.NewToolRegistryBuilder()
	if cfg.TavilyAPIKey != "" {
		policy, err := search.DefaultPolicy()
		if err != nil {
			fmt.Printf("%sFailed to load search policy: %v%s\n", colorRed, err, colorReset)
			os.Exit(1)
		}
		toolBuilder.WithSearchTools(search.NewAdapter(search.NewTavilyClient(cfg.TavilyAPIKey), policy,
			retry.Policy{MaxAttempts: cfg.RetryMaxAttempts, InitialInterval: cfg.RetryInitialInterval}, logger))
	}

	cache := &memoryCache{entries: make(map[string]models.DestinationCacheEntry)}
	cli := &CLI{
		planner: planner.NewPipeline(planner.Dependencies{
			Provider:              provider,
			Model:                 model,
			Capabilities:          modelCaps,
			Contexts:              planner.NewContextCache(cache, provider, model, cfg.CacheTTL, nil, logger),
			Tools:                 toolBuilder.Build(),
			ResearchEnabled:       cfg.ResearchEnabled,
			MaxResearchIterations: config.MaxResearchIterations,
			Logger:                logger,
		}),
		profile: homeProfile(os.Getenv("HOME_COUNTRY")),
		scanner: bufio.NewScanner(os.Stdin),
	}

	fmt.Printf("%sRove planner%s (model %s, log %s)\n", colorCyan, colorReset, model, logFile)
	if cli.profile != nil {
		fmt.Printf("Costs in %s\n", cli.profile.HomeCurrency)
	}
	fmt.Println("Describe your trip. Commands: /reset, /quit")
	cli.run()
}

// homeProfile builds an in-memory profile from a country code, or nil.
func homeProfile(code string) *models.UserProfile {
	if code == "" {
		return nil
	}
	loc := profile.LocationByCountryCode(code)
	return &models.UserProfile{
		HomeCountry:       loc.Country,
		HomeCurrency:      loc.Currency,
		PreferredLanguage: loc.Language,
		TimeZone:          loc.TimeZone,
	}
}

func (cli *CLI) run() {
	for {
		fmt.Printf("\n%syou>%s ", colorGreen, colorReset)
		line := cli.readLine()
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return
		case "/reset":
			cli.history = nil
			fmt.Println("Conversation cleared.")
			continue
		}

		start := time.Now()
		result, err := cli.planner.Plan(context.Background(), &services.PlanRequest{
			Message: line,
			History: cli.history,
			Profile: cli.profile,
		})
		if err != nil {
			fmt.Printf("%s%v%s\n", colorRed, err, colorReset)
			continue
		}

		cli.history = append(cli.history, models.Turn{Role: models.ChatRoleUser, Content: line})
		switch result.Type {
		case models.ResponseTypeQuestion:
			fmt.Printf("%srove>%s %s\n", colorBlue, colorReset, result.Reply)
			cli.history = append(cli.history, models.Turn{Role: models.ChatRoleAssistant, Content: result.Reply})
		case models.ResponseTypeItineraries:
			cli.displayItineraries(result.Itineraries)
			data, _ := json.Marshal(map[string]interface{}{"itineraries": result.Itineraries})
			cli.history = append(cli.history, models.Turn{Role: models.ChatRoleAssistant, Content: string(data)})
		}
		fmt.Printf("%s(%s)%s\n", colorYellow, time.Since(start).Round(time.Millisecond), colorReset)
	}
}

func (cli *CLI) displayItineraries(itineraries []models.ComposedItinerary) {
	for i, it := range itineraries {
		fmt.Printf("\n%s[%d] %s%s (%s, %s)\n", colorCyan, i+1, it.Title, colorReset, it.Duration, it.Destination.City)
		fmt.Printf("    %s\n", it.Theme)
		for _, day := range it.DailyPlan {
			fmt.Printf("    Day %d: %s\n", day.Day, day.Theme)
			for _, item := range day.Schedule {
				fmt.Printf("      %-13s %s (%s)\n", item.TimeSlot, item.Title, item.Details.CostEstimation)
			}
		}
		if len(it.Logistics.AccommodationDetails) > 0 {
			names := make([]string, len(it.Logistics.AccommodationDetails))
			for j, a := range it.Logistics.AccommodationDetails {
				names[j] = a.Name
			}
			fmt.Printf("    Stay: %s\n", strings.Join(names, ", "))
		}
	}
}

func (cli *CLI) readLine() string {
	if !cli.scanner.Scan() {
		os.Exit(0)
	}
	return strings.TrimSpace(cli.scanner.Text())
}
