package daemon

import (
	"net/http"
	"strconv"
	"strings"

	"contentops/internal/api"
	"contentops/internal/clustering"
	"contentops/internal/services"
)

func (s *apiServer) handleRecordStory(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body api.StoryRequest
	if err := decodeJSON(r, &body, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	story, err := s.engine.RecordStory(r.Context(), body.ToStory(projectID))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, api.FromStory(story))
}

func (s *apiServer) handlePreviewClusters(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	audienceID, err := queryInt64(r, "audienceProfileId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	query := r.URL.Query()
	preview, err := s.engine.PreviewClusters(r.Context(), clustering.PreviewOptions{
		ProjectID:         projectID,
		AudienceProfileID: audienceID,
		Audience:          strings.TrimSpace(query.Get("audience")),
		Category:          strings.TrimSpace(query.Get("category")),
		ForceRefresh:      queryBool(r, "refresh"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromPreview(preview))
}

func (s *apiServer) handleGenerateProposals(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body api.GenerateProposalsRequest
	if err := decodeJSON(r, &body, true); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := body.ToOptions(projectID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	proposals, err := s.engine.GenerateProposals(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, api.ProposalListResponse{Proposals: api.FromProposals(proposals)})
}

func (s *apiServer) handleListProposals(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	filter := clustering.ProposalFilter{ProjectID: projectID}
	for _, value := range r.URL.Query()["status"] {
		if strings.TrimSpace(value) == "" {
			continue
		}
		status, err := clustering.ParseProposalStatus(value)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		filter.Statuses = append(filter.Statuses, status)
	}
	if value := strings.TrimSpace(r.URL.Query().Get("limit")); value != "" {
		limit, err := strconv.Atoi(value)
		if err != nil || limit < 0 {
			s.writeError(w, r, services.Validation("api", "parse query", "invalid limit %q", value))
			return
		}
		filter.Limit = limit
	}
	list, err := s.engine.ListProposals(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.ProposalListResponse{Proposals: api.FromProposals(list)})
}

func (s *apiServer) handleProposalStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body api.ProposalStatusRequest
	if err := decodeJSON(r, &body, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	status, err := body.Parse()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	proposal, err := s.engine.SetProposalStatus(r.Context(), id, status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromProposal(proposal))
}
