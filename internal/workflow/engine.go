package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"contentops/internal/clustering"
	"contentops/internal/config"
	"contentops/internal/logging"
	"contentops/internal/notifications"
	"contentops/internal/services/llm"
	"contentops/internal/store"
	"contentops/internal/templates"
)

// Engine coordinates persistence, scheduling, approvals and clustering.
type Engine struct {
	cfg      *config.Config
	store    *store.Store
	logger   *slog.Logger
	notifier notifications.Service
	calendar CalendarService
	oracle   clustering.Oracle
	now      func() time.Time

	detector  *clustering.Detector
	generator *clustering.Generator
}

// Option configures optional Engine collaborators.
type Option func(*Engine)

// WithNotifier replaces the config-derived notifier (used in tests).
func WithNotifier(notifier notifications.Service) Option {
	return func(e *Engine) {
		if notifier != nil {
			e.notifier = notifier
		}
	}
}

// WithCalendar sets the calendar collaborator. LocalCalendar is the default.
func WithCalendar(calendar CalendarService) Option {
	return func(e *Engine) {
		if calendar != nil {
			e.calendar = calendar
		}
	}
}

// WithOracle overrides the clustering oracle chosen from config.
func WithOracle(oracle clustering.Oracle) Option {
	return func(e *Engine) {
		if oracle != nil {
			e.oracle = oracle
		}
	}
}

// WithClock overrides the engine's time source. It drives "today" for overdue
// checks and milestone/feedback timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine wires an engine around an open store.
func NewEngine(cfg *config.Config, st *store.Store, logger *slog.Logger, opts ...Option) *Engine {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	e := &Engine{
		cfg:      cfg,
		store:    st,
		logger:   logging.NewComponentLogger(logger, "workflow"),
		notifier: notifications.NewService(cfg),
		calendar: LocalCalendar{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.oracle == nil {
		e.oracle = defaultOracle(cfg, logger)
	}

	settings := clustering.Settings{
		LookbackDays: cfg.Clustering.LookbackDays,
		CacheTTL:     time.Duration(cfg.Clustering.CacheTTLSeconds) * time.Second,
		MaxStories:   cfg.Clustering.MaxStories,
		MaxProposals: cfg.Clustering.MaxProposals,
	}
	e.detector = clustering.NewDetector(settings, e.oracle, st, st, logger)
	e.detector.SetClock(e.now)
	e.generator = clustering.NewGenerator(e.detector, e.oracle, st, cfg.Clustering.MaxProposals, logger)
	return e
}

func defaultOracle(cfg *config.Config, logger *slog.Logger) clustering.Oracle {
	if !cfg.LLMEnabled() {
		return clustering.NewSimilarityOracle()
	}
	client := llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		Referer:        cfg.LLM.Referer,
		Title:          cfg.LLM.Title,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	})
	return clustering.NewLLMOracle(client, logger)
}

// Store exposes the underlying store for read-only tooling.
func (e *Engine) Store() *store.Store {
	return e.store
}

// EnsureTemplates seeds the template table on first use, from the configured
// catalog file when set and the built-in catalog otherwise.
func (e *Engine) EnsureTemplates(ctx context.Context) (int, error) {
	list := templates.Builtin()
	if path := e.cfg.Workflow.TemplateCatalog; path != "" {
		loaded, err := templates.LoadCatalog(path)
		if err != nil {
			return 0, fmt.Errorf("load template catalog: %w", err)
		}
		list = loaded
	}
	n, err := e.store.SeedTemplates(ctx, list)
	if err != nil {
		return n, err
	}
	if n > 0 {
		logging.Event(e.logger, "templates seeded", "templates_seeded", logging.Int("count", n))
	}
	return n, nil
}

// ListTemplates returns stored templates, optionally for one timeline type.
func (e *Engine) ListTemplates(ctx context.Context, timeline templates.TimelineType) ([]templates.Template, error) {
	return e.store.ListTemplates(ctx, timeline)
}

// CreateTemplate stores a new template.
func (e *Engine) CreateTemplate(ctx context.Context, tpl templates.Template) (templates.Template, error) {
	created, err := e.store.CreateTemplate(ctx, tpl)
	if err != nil {
		return templates.Template{}, err
	}
	logging.Event(e.logger, "template created", "template_created",
		logging.Int64("template_id", created.ID),
		logging.String("timeline_type", string(created.TimelineType)),
		logging.Bool("is_default", created.IsDefault),
	)
	return created, nil
}

func (e *Engine) today() time.Time {
	return e.now().UTC()
}

func (e *Engine) log(ctx context.Context) *slog.Logger {
	return logging.WithContext(ctx, e.logger)
}
