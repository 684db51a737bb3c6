package daemon

import (
	"net/http"
	"strconv"

	"contentops/internal/api"
	"contentops/internal/content"
	"contentops/internal/services"
)

// contentTarget resolves the episode id and content type path segments.
func contentTarget(r *http.Request) (int64, content.Type, error) {
	episodeID, err := pathID(r, "id")
	if err != nil {
		return 0, "", err
	}
	contentType, err := content.ParseType(r.PathValue("type"))
	if err != nil {
		return 0, "", err
	}
	return episodeID, contentType, nil
}

func (s *apiServer) handleGetContent(w http.ResponseWriter, r *http.Request) {
	episodeID, contentType, err := contentTarget(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := s.engine.GetEpisodeContent(services.WithEpisodeID(r.Context(), episodeID), episodeID, contentType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromContentView(view))
}

func (s *apiServer) handleSaveVersion(w http.ResponseWriter, r *http.Request) {
	episodeID, contentType, err := contentTarget(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body api.SaveVersionRequest
	if err := decodeJSON(r, &body, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx := services.WithEpisodeID(r.Context(), episodeID)
	c, v, err := s.engine.SaveContentVersion(ctx, identity(r), episodeID, contentType, body.Draft(), body.ExpectedVersion)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, api.SaveVersionResponse{Content: api.FromContent(c), Version: api.FromVersion(v)})
}

func (s *apiServer) handlePreviewVersion(w http.ResponseWriter, r *http.Request) {
	episodeID, contentType, err := contentTarget(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	number := 0
	if value := r.PathValue("n"); value != "latest" {
		if number, err = strconv.Atoi(value); err != nil || number <= 0 {
			s.writeError(w, r, services.Validation("api", "parse path", "invalid version number %q", value))
			return
		}
	}
	v, html, err := s.engine.PreviewVersion(r.Context(), episodeID, contentType, number)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.PreviewResponse{Version: api.FromVersion(v), HTML: html})
}

func (s *apiServer) handleContentAction(w http.ResponseWriter, r *http.Request) {
	episodeID, contentType, err := contentTarget(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	action, err := content.ParseAction(r.PathValue("action"))
	if err != nil {
		s.writeError(w, r, services.Wrap(services.ErrNotFound, "api", "route", err.Error(), nil))
		return
	}
	ctx := services.WithEpisodeID(r.Context(), episodeID)
	auth := identity(r)

	var c content.Content
	if action == content.ActionSubmit {
		var body api.SubmitRequest
		if err := decodeJSON(r, &body, true); err != nil {
			s.writeError(w, r, err)
			return
		}
		c, err = s.engine.Submit(ctx, auth, episodeID, contentType, body.Draft())
	} else {
		c, err = s.engine.Transition(ctx, auth, episodeID, contentType, action)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.ContentStatusResponse{Content: api.FromContent(c)})
}

func (s *apiServer) handleAddFeedback(w http.ResponseWriter, r *http.Request) {
	contentID, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body api.FeedbackRequest
	if err := decodeJSON(r, &body, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	input, err := body.ToInput()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	fb, err := s.engine.AddFeedback(services.WithContentID(r.Context(), contentID), identity(r), contentID, input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, api.FeedbackResponse{Feedback: api.FromFeedback(fb)})
}

func (s *apiServer) handleResolveFeedback(w http.ResponseWriter, r *http.Request) {
	s.setFeedbackResolved(w, r, true)
}

func (s *apiServer) handleUnresolveFeedback(w http.ResponseWriter, r *http.Request) {
	s.setFeedbackResolved(w, r, false)
}

func (s *apiServer) setFeedbackResolved(w http.ResponseWriter, r *http.Request, resolved bool) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	auth := identity(r)
	var fb content.Feedback
	if resolved {
		fb, err = s.engine.ResolveFeedback(r.Context(), auth, id)
	} else {
		fb, err = s.engine.UnresolveFeedback(r.Context(), auth, id)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.FeedbackResponse{Feedback: api.FromFeedback(fb)})
}
