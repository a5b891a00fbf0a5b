package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	project, err := s.service.AnalyzeProject(r.Context(), r.URL.Query().Get("path"))
	if err != nil {
		writeError(w, "analyzer", err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	result, err := s.service.GetPackageMetadata(r.Context(), name, r.URL.Query().Get("spec"))
	if err != nil {
		writeError(w, "resolver", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	allowPrerelease, _ := strconv.ParseBool(r.URL.Query().Get("prerelease"))
	version, err := s.service.GetLatestVersion(r.Context(), name, allowPrerelease)
	if err != nil {
		writeError(w, "resolver", err)
		return
	}
	writeJSON(w, http.StatusOK, version)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := s.service.SearchPackages(r.Context(), query, limit, r.URL.Query().Get("python_version"))
	if err != nil {
		writeError(w, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

type compatibilityRequest struct {
	Package     string `json:"package"`
	VersionSpec string `json:"version_spec"`
	ProjectPath string `json:"project_path"`
}

func (s *Server) handleCompatibility(w http.ResponseWriter, r *http.Request) {
	var req compatibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "server", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("malformed request body").
			WithCause(err))
		return
	}
	report, err := s.service.CheckPackageCompatibility(r.Context(), req.Package, req.VersionSpec, req.ProjectPath)
	if err != nil {
		writeError(w, "checker", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type errorPayload struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code      string `json:"code"`
	Component string `json:"component"`
	Message   string `json:"message"`
}

func writeError(w http.ResponseWriter, component string, err error) {
	code := errbuilder.CodeOf(err)
	writeJSON(w, statusForCode(code), errorPayload{Error: errorBody{
		Code:      codeName(code),
		Component: component,
		Message:   err.Error(),
	}})
}

func codeName(code errbuilder.ErrCode) string {
	switch code {
	case errbuilder.CodeInvalidArgument:
		return "invalid_argument"
	case errbuilder.CodeNotFound:
		return "not_found"
	case errbuilder.CodeFailedPrecondition:
		return "failed_precondition"
	case errbuilder.CodeUnavailable:
		return "unavailable"
	case errbuilder.CodePermissionDenied:
		return "permission_denied"
	default:
		return "internal"
	}
}

func statusForCode(code errbuilder.ErrCode) int {
	switch code {
	case errbuilder.CodeInvalidArgument:
		return http.StatusBadRequest
	case errbuilder.CodeNotFound:
		return http.StatusNotFound
	case errbuilder.CodeFailedPrecondition:
		return http.StatusConflict
	case errbuilder.CodeUnavailable:
		return http.StatusBadGateway
	case errbuilder.CodePermissionDenied:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}
