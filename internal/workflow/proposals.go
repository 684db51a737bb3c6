package workflow

import (
	"context"

	"contentops/internal/clustering"
	"contentops/internal/logging"
	"contentops/internal/notifications"
)

// RecordStory stores a flagged story from the ingestion collaborator and
// drops the project's cached previews.
func (e *Engine) RecordStory(ctx context.Context, story clustering.Story) (clustering.Story, error) {
	stored, err := e.store.CreateStory(ctx, story)
	if err != nil {
		return clustering.Story{}, err
	}
	e.detector.Invalidate(stored.ProjectID)
	logging.Event(e.log(ctx), "story flagged", "story_flagged",
		logging.Int64(logging.FieldProjectID, stored.ProjectID),
		logging.Int64("story_id", stored.ID),
		logging.String("category", stored.Category),
	)
	return stored, nil
}

// PreviewClusters clusters recent flagged stories and flags overlap with
// existing proposals.
func (e *Engine) PreviewClusters(ctx context.Context, opts clustering.PreviewOptions) (clustering.Preview, error) {
	return e.detector.Preview(ctx, opts)
}

// GenerateProposals turns the selected clusters into stored draft proposals.
func (e *Engine) GenerateProposals(ctx context.Context, opts clustering.GenerateOptions) ([]clustering.Proposal, error) {
	proposals, err := e.generator.Generate(ctx, opts)
	if err != nil {
		return nil, err
	}
	e.publish(ctx, notifications.EventProposalsGenerated, notifications.Payload{
		"count":     len(proposals),
		"projectId": opts.ProjectID,
	})
	return proposals, nil
}

// ListProposals returns stored proposals matching filter.
func (e *Engine) ListProposals(ctx context.Context, filter clustering.ProposalFilter) ([]clustering.Proposal, error) {
	return e.store.ListProposals(ctx, filter)
}

// SetProposalStatus records an editorial decision on a proposal. Archived and
// rejected proposals stop counting as duplicates in later previews.
func (e *Engine) SetProposalStatus(ctx context.Context, proposalID int64, status clustering.ProposalStatus) (clustering.Proposal, error) {
	status, err := clustering.ParseProposalStatus(string(status))
	if err != nil {
		return clustering.Proposal{}, err
	}
	current, err := e.store.GetProposal(ctx, proposalID)
	if err != nil {
		return clustering.Proposal{}, err
	}
	if current.Status == status {
		return current, nil
	}
	updated, err := e.store.UpdateProposal(ctx, proposalID, status, nil)
	if err != nil {
		return clustering.Proposal{}, err
	}
	e.detector.Invalidate(updated.ProjectID)
	logging.Event(e.log(ctx), "proposal status changed", "proposal_"+string(status),
		logging.Int64(logging.FieldProjectID, updated.ProjectID),
		logging.Int64("proposal_id", proposalID),
		logging.String("from", string(current.Status)),
	)
	return updated, nil
}
