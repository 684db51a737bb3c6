package clustering

import (
	"context"
	"time"
)

// Oracle is the external capability that groups stories and writes proposal
// copy. Implementations must partition the input stories: a story belongs to
// at most one cluster.
type Oracle interface {
	PreviewClusters(ctx context.Context, req Request) (Preview, error)
	GenerateProposals(ctx context.Context, req GenerateRequest) ([]ProposalCopy, error)
}

// StorySource lists flagged stories for a project.
type StorySource interface {
	ListFlaggedStories(ctx context.Context, projectID int64, since time.Time, category string) ([]Story, error)
}

// ProposalSource lists existing proposals for duplicate detection.
type ProposalSource interface {
	ListProposals(ctx context.Context, filter ProposalFilter) ([]Proposal, error)
}

// ProposalSink persists generated proposals, returning them with ids assigned.
type ProposalSink interface {
	CreateProposals(ctx context.Context, proposals []Proposal) ([]Proposal, error)
}
