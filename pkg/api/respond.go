package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/scenarioflow/pkg/errors"
	"github.com/matzehuels/scenarioflow/pkg/scenario"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// writeError renders err as the error envelope. Errors without a code are
// logged and reported as a generic internal error.
func writeError(w http.ResponseWriter, r *http.Request, logger *log.Logger, err error) {
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if code == "" {
		logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err)
		code = errors.ErrCodeInternal
		msg = "internal server error"
	}
	writeJSON(w, errors.HTTPStatus(code), errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func errNotFound(path string) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s", path)
}

// isYAML reports whether a Content-Type or Accept value names YAML.
func isYAML(header string) bool {
	for _, part := range strings.Split(header, ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if strings.HasSuffix(mt, "yaml") || strings.HasSuffix(mt, "yml") {
			return true
		}
	}
	return false
}

// decodeScenario reads a scenario from a JSON or YAML body.
func decodeScenario(w http.ResponseWriter, r *http.Request) (*scenario.Scenario, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	if isYAML(r.Header.Get("Content-Type")) {
		return scenario.Parse(data)
	}

	var s scenario.Scenario
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScenario, err, "invalid scenario JSON")
	}
	return &s, nil
}
