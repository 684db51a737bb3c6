package daemon

import (
	"net/http"
	"strings"

	"contentops/internal/api"
	"contentops/internal/schedule"
	"contentops/internal/services"
	"contentops/internal/store"
	"contentops/internal/templates"
)

func (s *apiServer) handleTemplates(w http.ResponseWriter, r *http.Request) {
	var timeline templates.TimelineType
	if value := strings.TrimSpace(r.URL.Query().Get("timeline")); value != "" {
		parsed, err := templates.ParseTimelineType(value)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		timeline = parsed
	}
	list, err := s.engine.ListTemplates(r.Context(), timeline)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.TemplateListResponse{Templates: api.FromTemplates(list)})
}

func (s *apiServer) handleTimelinePreview(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	txDate, err := schedule.ParseDate(query.Get("txDate"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var timeline templates.TimelineType
	if value := strings.TrimSpace(query.Get("timeline")); value != "" {
		if timeline, err = templates.ParseTimelineType(value); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	templateID, err := queryInt64(r, "templateId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	entries, err := s.engine.PreviewTimeline(r.Context(), txDate, strings.TrimSpace(query.Get("txTime")), timeline, templateID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"timeline": api.FromTimeline(entries)})
}

func (s *apiServer) handleListEpisodes(w http.ResponseWriter, r *http.Request) {
	projectID, err := queryInt64(r, "projectId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	filter := store.EpisodeFilter{ProjectID: projectID}
	for name, dst := range map[string]*string{"from": &filter.From, "to": &filter.To} {
		value := strings.TrimSpace(r.URL.Query().Get(name))
		if value == "" {
			continue
		}
		date, err := schedule.ParseDate(value)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		*dst = schedule.FormatDate(date)
	}
	list, err := s.engine.ListEpisodes(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.EpisodeListResponse{Episodes: api.FromEpisodes(list)})
}

func (s *apiServer) handleScheduleEpisode(w http.ResponseWriter, r *http.Request) {
	var body api.ScheduleEpisodeRequest
	if err := decodeJSON(r, &body, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := body.ToWorkflow()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := s.engine.ScheduleEpisode(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, api.FromEpisodeView(view))
}

func (s *apiServer) handleGetEpisode(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := s.engine.GetEpisode(services.WithEpisodeID(r.Context(), id), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromEpisodeView(view))
}

func (s *apiServer) handleReschedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body api.RescheduleRequest
	if err := decodeJSON(r, &body, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	txDate, err := body.Date()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view, plan, err := s.engine.RescheduleEpisode(services.WithEpisodeID(r.Context(), id), id, txDate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromReschedule(view, plan))
}

func (s *apiServer) handleListMilestones(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	list, err := s.engine.ListMilestones(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.MilestoneListResponse{Milestones: api.FromMilestoneViews(list)})
}

func (s *apiServer) handleOverdue(w http.ResponseWriter, r *http.Request) {
	list, err := s.engine.ListOverdue(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.MilestoneListResponse{Milestones: api.FromMilestoneViews(list)})
}

func (s *apiServer) handleUpdateMilestone(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body api.MilestoneUpdateRequest
	if err := decodeJSON(r, &body, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	update, err := body.ToUpdate()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := s.engine.UpdateMilestone(r.Context(), id, update)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.MilestoneResponse{Milestone: api.FromMilestoneView(view)})
}

func (s *apiServer) handleCompleteMilestone(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body api.CompleteMilestoneRequest
	if err := decodeJSON(r, &body, true); err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := s.engine.CompleteMilestone(r.Context(), id, body.Notes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.MilestoneResponse{Milestone: api.FromMilestoneView(view)})
}
