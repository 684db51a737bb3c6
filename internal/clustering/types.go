package clustering

import (
	"strings"
	"time"

	"contentops/internal/services"
)

// Story is a flagged news item supplied by the ingestion collaborator.
type Story struct {
	ID        int64
	ProjectID int64
	Title     string
	Summary   string
	Category  string
	URL       string
	FlaggedAt time.Time
}

// Cluster is a scored grouping of stories. Clusters are derived per preview
// and never stored.
type Cluster struct {
	ID                string
	Theme             string
	Keywords          []string
	RelevanceScore    int
	StoryIDs          []int64
	AudienceRelevance string
	SimilarProposals  []SimilarProposal
}

// SimilarProposal reports how much of an existing proposal a cluster covers.
type SimilarProposal struct {
	ProposalID        int64
	Title             string
	Status            ProposalStatus
	OverlapPercentage int
	ThemeSimilarity   float64
}

// ProposalStatus tracks a proposal through editorial review.
type ProposalStatus string

const (
	ProposalDraft    ProposalStatus = "draft"
	ProposalReviewed ProposalStatus = "reviewed"
	ProposalApproved ProposalStatus = "approved"
	ProposalRejected ProposalStatus = "rejected"
	ProposalArchived ProposalStatus = "archived"
)

// ProposalStatuses returns every proposal status.
func ProposalStatuses() []ProposalStatus {
	return []ProposalStatus{ProposalDraft, ProposalReviewed, ProposalApproved, ProposalRejected, ProposalArchived}
}

// ParseProposalStatus converts user input into a ProposalStatus.
func ParseProposalStatus(value string) (ProposalStatus, error) {
	normalized := ProposalStatus(strings.ToLower(strings.TrimSpace(value)))
	for _, status := range ProposalStatuses() {
		if status == normalized {
			return status, nil
		}
	}
	return "", services.Validation("clustering", "parse proposal status", "unknown proposal status %q", value)
}

// Comparable reports whether duplicate detection considers proposals in this status.
func (s ProposalStatus) Comparable() bool {
	return s != ProposalArchived && s != ProposalRejected
}

// Proposal is a topic proposal, the editorial pitch for a future episode.
type Proposal struct {
	ID                    int64
	ProjectID             int64
	Title                 string
	Hook                  string
	AudienceCareStatement string
	TalkingPoints         []string
	ResearchCitations     []string
	SourceStoryIDs        []int64
	ClusterTheme          string
	Status                ProposalStatus
	LinkedEpisodeID       *int64
	CreatedAt             time.Time
}

// ProposalFilter narrows proposal listings.
type ProposalFilter struct {
	ProjectID int64
	Statuses  []ProposalStatus
	Limit     int
}

// Request is the input to an oracle preview.
type Request struct {
	ProjectID         int64
	AudienceProfileID int64
	Audience          string
	Stories           []Story
}

// Preview is the outcome of clustering one project's recent stories.
type Preview struct {
	Stories     []Story
	Clusters    []Cluster
	Message     string
	GeneratedAt time.Time
	Cached      bool
}

// GenerateRequest asks the oracle to write proposals for the given clusters.
type GenerateRequest struct {
	ProjectID         int64
	AudienceProfileID int64
	Audience          string
	DurationType      string
	DurationSeconds   *int
	ComparisonRegions []string
	Clusters          []Cluster
	Stories           []Story
}

// ProposalCopy is the oracle's copy for one cluster. ClusterID ties it back
// to the cluster whose stories it was written from.
type ProposalCopy struct {
	ClusterID             string
	Title                 string
	Hook                  string
	AudienceCareStatement string
	TalkingPoints         []string
	ResearchCitations     []string
}

func storyIndex(stories []Story) map[int64]Story {
	out := make(map[int64]Story, len(stories))
	for _, s := range stories {
		out[s.ID] = s
	}
	return out
}
