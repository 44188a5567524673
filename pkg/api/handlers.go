package api

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/scenarioflow/pkg/buildinfo"
	"github.com/matzehuels/scenarioflow/pkg/errors"
	"github.com/matzehuels/scenarioflow/pkg/layout"
	"github.com/matzehuels/scenarioflow/pkg/pipeline"
	"github.com/matzehuels/scenarioflow/pkg/scenario"
)

// =============================================================================
// Scenarios
// =============================================================================

func (s *Server) listScenarios(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context(), s.user(r))
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"scenarios": list})
}

func (s *Server) createScenario(w http.ResponseWriter, r *http.Request) {
	sc, err := decodeScenario(w, r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	if f := r.URL.Query().Get("filename"); f != "" {
		sc.Filename = f
	}
	if sc.Filename == "" {
		writeError(w, r, s.logger, errors.New(errors.ErrCodeInvalidFilename, "filename is required"))
		return
	}
	if err := scenario.Validate(sc); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	sc.UserID = s.user(r)
	if err := s.store.Create(r.Context(), sc); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	s.logger.Info("created scenario", "user", sc.UserID, "filename", sc.Filename)

	w.Header().Set("Location", "/api/scenarios/"+url.PathEscape(sc.Filename))
	writeJSON(w, http.StatusCreated, sc)
}

func (s *Server) getScenario(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.load(w, r)
	if !ok {
		return
	}
	if isYAML(r.Header.Get("Accept")) {
		data, err := scenario.Marshal(sc)
		if err != nil {
			writeError(w, r, s.logger, err)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(data)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func (s *Server) updateScenario(w http.ResponseWriter, r *http.Request) {
	sc, err := decodeScenario(w, r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	if err := scenario.Validate(sc); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	sc.UserID = s.user(r)
	sc.Filename = chi.URLParam(r, "filename")
	if err := s.store.Update(r.Context(), sc); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	s.logger.Info("updated scenario", "user", sc.UserID, "filename", sc.Filename)
	writeJSON(w, http.StatusOK, sc)
}

func (s *Server) deleteScenario(w http.ResponseWriter, r *http.Request) {
	user, filename := s.user(r), chi.URLParam(r, "filename")
	if err := s.store.Delete(r.Context(), user, filename); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	s.logger.Info("deleted scenario", "user", user, "filename", filename)
	w.WriteHeader(http.StatusNoContent)
}

// load fetches the scenario named in the URL, writing the error response
// itself when that fails.
func (s *Server) load(w http.ResponseWriter, r *http.Request) (*scenario.Scenario, bool) {
	sc, err := s.store.Get(r.Context(), s.user(r), chi.URLParam(r, "filename"))
	if err != nil {
		writeError(w, r, s.logger, err)
		return nil, false
	}
	return sc, true
}

// =============================================================================
// Layout and diagrams
// =============================================================================

// layoutResponse is a level assignment plus cache status.
type layoutResponse struct {
	*layout.Result
	Depth    int                   `json:"depth"`
	Dangling []scenario.Transition `json:"dangling,omitempty"`
	Cached   bool                  `json:"cached"`
}

func (s *Server) respondLayout(w http.ResponseWriter, r *http.Request, sc *scenario.Scenario) {
	res, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), sc, pipeline.Options{})
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{
		Result:   res,
		Depth:    res.Depth(),
		Dangling: sc.DanglingTransitions(),
		Cached:   hit,
	})
}

func (s *Server) scenarioLayout(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.load(w, r)
	if !ok {
		return
	}
	s.respondLayout(w, r, sc)
}

func (s *Server) adhocLayout(w http.ResponseWriter, r *http.Request) {
	sc, err := decodeScenario(w, r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	for _, st := range sc.States {
		if err := errors.ValidateStateName(st.Name); err != nil {
			writeError(w, r, s.logger, err)
			return
		}
	}
	s.respondLayout(w, r, sc)
}

func (s *Server) scenarioDiagram(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.load(w, r)
	if !ok {
		return
	}
	d, err := s.runner.Diagram(r.Context(), sc, s.diagram)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) renderArtifact(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc, ok := s.load(w, r)
		if !ok {
			return
		}
		d, err := s.runner.Diagram(r.Context(), sc, s.diagram)
		if err != nil {
			writeError(w, r, s.logger, err)
			return
		}
		artifacts, err := s.runner.Render(r.Context(), sc, d, pipeline.Options{
			Formats: []string{format},
			Diagram: s.diagram,
		})
		if err != nil {
			writeError(w, r, s.logger, err)
			return
		}
		w.Header().Set("Content-Type", pipeline.ContentType(format))
		_, _ = w.Write(artifacts[format])
	}
}

// =============================================================================
// Health
// =============================================================================

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}
