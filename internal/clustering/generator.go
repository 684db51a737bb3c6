package clustering

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"contentops/internal/logging"
	"contentops/internal/services"
)

// GenerateOptions mirrors the proposal-generation request.
type GenerateOptions struct {
	ProjectID         int64
	AudienceProfileID int64
	Audience          string
	Category          string
	DurationType      string
	DurationSeconds   *int
	ComparisonRegions []string
	ClusterIDs        []string
	MaxProposals      int
}

// Generator turns selected clusters into persisted draft proposals.
type Generator struct {
	detector     *Detector
	oracle       Oracle
	sink         ProposalSink
	maxProposals int
	logger       *slog.Logger
}

// NewGenerator wires a generator around an existing detector so both share
// the preview cache.
func NewGenerator(detector *Detector, oracle Oracle, sink ProposalSink, maxProposals int, logger *slog.Logger) *Generator {
	return &Generator{
		detector:     detector,
		oracle:       oracle,
		sink:         sink,
		maxProposals: maxProposals,
		logger:       logging.NewComponentLogger(logger, "clustering"),
	}
}

// Generate previews clusters, keeps the selected ones in oracle order up to
// the cap, asks the oracle for copy and stores one draft proposal per
// cluster. Clusters beyond the cap are skipped without error.
func (g *Generator) Generate(ctx context.Context, opts GenerateOptions) ([]Proposal, error) {
	if opts.DurationSeconds != nil && *opts.DurationSeconds <= 0 {
		return nil, services.Validation("clustering", "generate", "duration seconds must be positive")
	}
	preview, err := g.detector.Preview(ctx, PreviewOptions{
		ProjectID:         opts.ProjectID,
		AudienceProfileID: opts.AudienceProfileID,
		Audience:          opts.Audience,
		Category:          opts.Category,
	})
	if err != nil {
		return nil, err
	}
	limit := g.effectiveLimit(opts.MaxProposals)
	selected, err := SelectForGeneration(preview.Clusters, opts.ClusterIDs, limit)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, nil
	}

	drafts, err := g.oracle.GenerateProposals(ctx, GenerateRequest{
		ProjectID:         opts.ProjectID,
		AudienceProfileID: opts.AudienceProfileID,
		Audience:          opts.Audience,
		DurationType:      strings.TrimSpace(opts.DurationType),
		DurationSeconds:   opts.DurationSeconds,
		ComparisonRegions: opts.ComparisonRegions,
		Clusters:          selected,
		Stories:           storiesFor(selected, preview.Stories),
	})
	if err != nil {
		return nil, err
	}

	proposals := buildProposals(opts.ProjectID, selected, drafts)
	if len(proposals) == 0 {
		return nil, services.Wrap(services.ErrTransient, "clustering", "generate", "oracle returned no usable proposals", nil)
	}
	stored, err := g.sink.CreateProposals(ctx, proposals)
	if err != nil {
		return nil, fmt.Errorf("store proposals: %w", err)
	}
	g.detector.Invalidate(opts.ProjectID)

	logging.Event(g.logger, "topic proposals generated", "proposals_generated",
		logging.Int64(logging.FieldProjectID, opts.ProjectID),
		logging.Int("selected_clusters", len(selected)),
		logging.Int("proposals", len(stored)),
	)
	return stored, nil
}

func (g *Generator) effectiveLimit(requested int) int {
	switch {
	case requested <= 0:
		return g.maxProposals
	case g.maxProposals > 0 && requested > g.maxProposals:
		return g.maxProposals
	default:
		return requested
	}
}

// buildProposals pairs drafts with their clusters in cluster order. The
// source story ids always come from the cluster, never from the oracle.
func buildProposals(projectID int64, clusters []Cluster, drafts []ProposalCopy) []Proposal {
	byCluster := make(map[string]ProposalCopy, len(drafts))
	for _, d := range drafts {
		if _, seen := byCluster[d.ClusterID]; seen {
			continue
		}
		byCluster[d.ClusterID] = d
	}
	out := make([]Proposal, 0, len(clusters))
	for _, c := range clusters {
		d, ok := byCluster[c.ID]
		if !ok || strings.TrimSpace(d.Title) == "" {
			continue
		}
		out = append(out, Proposal{
			ProjectID:             projectID,
			Title:                 strings.TrimSpace(d.Title),
			Hook:                  strings.TrimSpace(d.Hook),
			AudienceCareStatement: strings.TrimSpace(d.AudienceCareStatement),
			TalkingPoints:         d.TalkingPoints,
			ResearchCitations:     d.ResearchCitations,
			SourceStoryIDs:        append([]int64(nil), c.StoryIDs...),
			ClusterTheme:          c.Theme,
			Status:                ProposalDraft,
		})
	}
	return out
}

func storiesFor(clusters []Cluster, stories []Story) []Story {
	index := storyIndex(stories)
	var out []Story
	for _, c := range clusters {
		for _, id := range c.StoryIDs {
			if s, ok := index[id]; ok {
				out = append(out, s)
			}
		}
	}
	return out
}
