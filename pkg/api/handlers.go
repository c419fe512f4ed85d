package api

import (
	"net/http"

	"github.com/dd0wney/cluso-graphclass/pkg/service"
	"github.com/dd0wney/cluso-graphclass/pkg/validation"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != PathRoot {
		s.respondError(w, http.StatusNotFound, "not found")
		return
	}
	s.NewMethodRouter(w, r).Get(func() {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(RootStatusMessage))
	}).NotAllowed()
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).Post(func() {
		var req validation.PredictRequest
		if s.NewRequestDecoder(w, r).DecodeJSON(&req).RespondError() {
			return
		}

		pred, err := s.service.Predict(r.Context(), &req)
		if err != nil {
			s.respondServiceError(w, r, err, "graph classification")
			return
		}
		s.respondJSON(w, http.StatusOK, pred)
	}).NotAllowed()
}

func (s *Server) handleTraversal(algo service.Algorithm) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.NewMethodRouter(w, r).Post(func() {
			var req validation.TraversalRequest
			if s.NewRequestDecoder(w, r).DecodeJSON(&req).RespondError() {
				return
			}

			t, err := s.service.Traverse(r.Context(), algo, &req)
			if err != nil {
				s.respondServiceError(w, r, err, string(algo)+" traversal")
				return
			}
			s.respondJSON(w, http.StatusOK, TraversalResponse{Order: t.Order, Steps: t.Steps})
		}).NotAllowed()
	}
}

// respondServiceError maps client mistakes to 400 and everything else to a
// sanitized 500.
func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	if service.IsClientError(err) {
		s.respondError(w, http.StatusBadRequest, service.PublicMessage(err))
		return
	}
	s.respondError(w, http.StatusInternalServerError, s.sanitizeError(r, err, operation))
}
