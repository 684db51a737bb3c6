package clustering

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"contentops/internal/logging"
	"contentops/internal/services"
	"contentops/internal/textutil"
)

const summaryPromptLimit = 400

type completer interface {
	Configured() bool
	CompleteInto(ctx context.Context, systemPrompt, userPrompt string, target any) error
}

// LLMOracle groups stories and writes proposals through a chat completion
// model that answers in JSON.
type LLMOracle struct {
	client completer
	logger *slog.Logger
}

// NewLLMOracle wraps an LLM client (normally *llm.Client).
func NewLLMOracle(client completer, logger *slog.Logger) *LLMOracle {
	return &LLMOracle{client: client, logger: logging.NewComponentLogger(logger, "clustering.llm")}
}

type clusterResponse struct {
	Clusters []struct {
		Theme             string   `json:"theme"`
		Keywords          []string `json:"keywords"`
		RelevanceScore    float64  `json:"relevance_score"`
		StoryIDs          []int64  `json:"story_ids"`
		AudienceRelevance string   `json:"audience_relevance"`
	} `json:"clusters"`
	Message string `json:"message"`
}

type proposalResponse struct {
	Proposals []struct {
		ClusterID             string   `json:"cluster_id"`
		Title                 string   `json:"title"`
		Hook                  string   `json:"hook"`
		AudienceCareStatement string   `json:"audience_care_statement"`
		TalkingPoints         []string `json:"talking_points"`
		ResearchCitations     []string `json:"research_citations"`
	} `json:"proposals"`
}

// PreviewClusters implements Oracle.
func (o *LLMOracle) PreviewClusters(ctx context.Context, req Request) (Preview, error) {
	if err := o.ready("preview"); err != nil {
		return Preview{}, err
	}
	var resp clusterResponse
	if err := o.client.CompleteInto(ctx, clusterSystemPrompt, buildClusterPrompt(req), &resp); err != nil {
		return Preview{}, services.Wrap(services.ErrTransient, "clustering", "llm preview", "cluster request failed", err)
	}
	clusters := make([]Cluster, 0, len(resp.Clusters))
	for _, c := range resp.Clusters {
		clusters = append(clusters, Cluster{
			Theme:             strings.TrimSpace(c.Theme),
			Keywords:          normalizeKeywords(c.Keywords),
			RelevanceScore:    int(math.Round(c.RelevanceScore)),
			StoryIDs:          c.StoryIDs,
			AudienceRelevance: strings.TrimSpace(c.AudienceRelevance),
		})
	}
	o.logger.Debug("llm clusters received", logging.Int("clusters", len(clusters)), logging.Int("stories", len(req.Stories)))
	return Preview{Stories: req.Stories, Clusters: clusters, Message: strings.TrimSpace(resp.Message)}, nil
}

// GenerateProposals implements Oracle.
func (o *LLMOracle) GenerateProposals(ctx context.Context, req GenerateRequest) ([]ProposalCopy, error) {
	if err := o.ready("generate"); err != nil {
		return nil, err
	}
	var resp proposalResponse
	if err := o.client.CompleteInto(ctx, proposalSystemPrompt, buildProposalPrompt(req), &resp); err != nil {
		return nil, services.Wrap(services.ErrTransient, "clustering", "llm generate", "proposal request failed", err)
	}
	out := make([]ProposalCopy, 0, len(resp.Proposals))
	for _, p := range resp.Proposals {
		out = append(out, ProposalCopy{
			ClusterID:             strings.TrimSpace(p.ClusterID),
			Title:                 p.Title,
			Hook:                  p.Hook,
			AudienceCareStatement: p.AudienceCareStatement,
			TalkingPoints:         p.TalkingPoints,
			ResearchCitations:     p.ResearchCitations,
		})
	}
	return out, nil
}

func (o *LLMOracle) ready(op string) error {
	if o == nil || o.client == nil || !o.client.Configured() {
		return services.Wrap(services.ErrConfiguration, "clustering", op, "LLM API key not configured", nil)
	}
	return nil
}

func buildClusterPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Audience: %s\n\nStories:\n", audienceText(req.Audience))
	for _, s := range req.Stories {
		writeStory(&b, s)
	}
	return b.String()
}

func buildProposalPrompt(req GenerateRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Audience: %s\n", audienceText(req.Audience))
	if req.DurationType != "" {
		fmt.Fprintf(&b, "Format: %s", req.DurationType)
		if req.DurationSeconds != nil {
			fmt.Fprintf(&b, " (%d seconds)", *req.DurationSeconds)
		}
		b.WriteString("\n")
	}
	if len(req.ComparisonRegions) > 0 {
		fmt.Fprintf(&b, "Compare with: %s\n", strings.Join(req.ComparisonRegions, ", "))
	}
	stories := storyIndex(req.Stories)
	for _, c := range req.Clusters {
		fmt.Fprintf(&b, "\nCluster %s: %s\nKeywords: %s\n", c.ID, c.Theme, strings.Join(c.Keywords, ", "))
		for _, id := range c.StoryIDs {
			if s, ok := stories[id]; ok {
				writeStory(&b, s)
			}
		}
	}
	return b.String()
}

func writeStory(b *strings.Builder, s Story) {
	summary := textutil.Truncate(textutil.PlainText(s.Summary), summaryPromptLimit)
	category := s.Category
	if category == "" {
		category = "general"
	}
	fmt.Fprintf(b, "- [%d] (%s) %s", s.ID, category, strings.TrimSpace(s.Title))
	if summary != "" {
		fmt.Fprintf(b, ": %s", summary)
	}
	b.WriteString("\n")
}

func audienceText(audience string) string {
	if strings.TrimSpace(audience) == "" {
		return "general news audience"
	}
	return strings.TrimSpace(audience)
}

func normalizeKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, k := range in {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
