package clustering

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"contentops/internal/logging"
	"contentops/internal/services"
)

// Settings bound how much work a preview or generation run does.
type Settings struct {
	LookbackDays int
	CacheTTL     time.Duration
	MaxStories   int
	MaxProposals int
}

// PreviewOptions selects the stories and audience for a preview.
type PreviewOptions struct {
	ProjectID         int64
	AudienceProfileID int64
	Audience          string
	Category          string
	ForceRefresh      bool
}

// Detector previews clusters for a project and flags overlap with existing
// proposals.
type Detector struct {
	settings  Settings
	oracle    Oracle
	stories   StorySource
	proposals ProposalSource
	cache     *previewCache
	logger    *slog.Logger
	now       func() time.Time
}

// NewDetector wires a detector. A nil logger discards output.
func NewDetector(settings Settings, oracle Oracle, stories StorySource, proposals ProposalSource, logger *slog.Logger) *Detector {
	return &Detector{
		settings:  settings,
		oracle:    oracle,
		stories:   stories,
		proposals: proposals,
		cache:     newPreviewCache(settings.CacheTTL),
		logger:    logging.NewComponentLogger(logger, "clustering"),
		now:       time.Now,
	}
}

// SetClock overrides the time source (tests).
func (d *Detector) SetClock(now func() time.Time) {
	if d != nil && now != nil {
		d.now = now
	}
}

// Preview clusters the project's flagged stories within the lookback window.
// Oracle output is cached per project, audience profile and category;
// duplicate detection always runs against the current proposals.
func (d *Detector) Preview(ctx context.Context, opts PreviewOptions) (Preview, error) {
	if opts.ProjectID <= 0 {
		return Preview{}, services.Validation("clustering", "preview", "project id is required")
	}
	if d.oracle == nil {
		return Preview{}, services.Wrap(services.ErrConfiguration, "clustering", "preview", "no clustering oracle configured", nil)
	}
	now := d.now()
	key := cacheKey{projectID: opts.ProjectID, audienceProfileID: opts.AudienceProfileID, category: opts.Category}

	preview, hit := Preview{}, false
	if !opts.ForceRefresh {
		preview, hit = d.cache.get(key, now)
	}
	if !hit {
		var err error
		preview, err = d.fetch(ctx, opts, now)
		if err != nil {
			return Preview{}, err
		}
		d.cache.put(key, preview, now)
	}

	proposals, err := d.proposals.ListProposals(ctx, ProposalFilter{ProjectID: opts.ProjectID})
	if err != nil {
		return Preview{}, fmt.Errorf("list proposals: %w", err)
	}
	preview.Clusters = DetectDuplicates(preview.Clusters, proposals)
	preview.Cached = hit

	d.logger.Debug("cluster preview ready",
		logging.Int64(logging.FieldProjectID, opts.ProjectID),
		logging.Int("stories", len(preview.Stories)),
		logging.Int("clusters", len(preview.Clusters)),
		logging.Bool("cached", hit),
	)
	return preview, nil
}

// Invalidate drops cached previews for a project.
func (d *Detector) Invalidate(projectID int64) {
	d.cache.invalidate(projectID)
}

func (d *Detector) fetch(ctx context.Context, opts PreviewOptions, now time.Time) (Preview, error) {
	lookback := d.settings.LookbackDays
	if lookback <= 0 {
		lookback = 7
	}
	since := now.AddDate(0, 0, -lookback)
	stories, err := d.stories.ListFlaggedStories(ctx, opts.ProjectID, since, opts.Category)
	if err != nil {
		return Preview{}, fmt.Errorf("list flagged stories: %w", err)
	}
	if d.settings.MaxStories > 0 && len(stories) > d.settings.MaxStories {
		stories = stories[:d.settings.MaxStories]
	}
	if len(stories) == 0 {
		return Preview{
			Message:     fmt.Sprintf("No flagged stories in the last %d days", lookback),
			GeneratedAt: now.UTC(),
		}, nil
	}

	result, err := d.oracle.PreviewClusters(ctx, Request{
		ProjectID:         opts.ProjectID,
		AudienceProfileID: opts.AudienceProfileID,
		Audience:          opts.Audience,
		Stories:           stories,
	})
	if err != nil {
		return Preview{}, err
	}
	clusters := AssignIDs(result.Clusters)
	if err := ValidateClusters(clusters, stories); err != nil {
		return Preview{}, err
	}
	return Preview{
		Stories:     stories,
		Clusters:    clusters,
		Message:     result.Message,
		GeneratedAt: now.UTC(),
	}, nil
}
