package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"placeswipe/internal/app"
	"placeswipe/internal/domain"
	"placeswipe/internal/sheet"
)

// Response is a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidInput        = "INVALID_INPUT"
	ErrCodeInvalidAction       = "INVALID_ACTION"
	ErrCodeRoundComplete       = "ROUND_COMPLETE"
	ErrCodeOriginRequired      = "ORIGIN_REQUIRED"
	ErrCodeLookupInProgress    = "LOOKUP_IN_PROGRESS"
	ErrCodeLookupFailed        = "LOOKUP_FAILED"
	ErrCodeNoResults           = "NO_RESULTS"
	ErrCodeLocationUnavailable = "LOCATION_UNAVAILABLE"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// xlsxContentType is the media type of exported workbooks
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// HealthResponse is the response for health check
type HealthResponse struct {
	Status      string `json:"status"`
	SessionID   string `json:"sessionId"`
	Phase       string `json:"phase"`
	FeedClients int    `json:"feedClients"`
}

// LookupResponse is the response for list-replacing lookups and imports
type LookupResponse struct {
	Count int                  `json:"count"`
	State *domain.SessionState `json:"state"`
}

// LocationResponse is the response for a device location lookup
type LocationResponse struct {
	Coordinate domain.Coordinate    `json:"coordinate"`
	State      *domain.SessionState `json:"state"`
}

// VoteRequest is the body of POST /api/round/vote
type VoteRequest struct {
	Choice string `json:"choice"`
}

// LikesResponse is the response for the likes endpoints
type LikesResponse struct {
	Likes     []string `json:"likes"`
	LikesJSON string   `json:"likesJson"`
	Copied    *bool    `json:"copied,omitempty"`
}

// OverlapRequest is the body of POST /api/overlap. PartnerLikes is the raw
// text the partner pasted.
type OverlapRequest struct {
	PartnerLikes string `json:"partnerLikes"`
}

// OverlapResponse is the response for POST /api/overlap
type OverlapResponse struct {
	Overlap []string `json:"overlap"`
	Count   int      `json:"count"`
	Summary string   `json:"summary"`
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &HealthResponse{
		Status:      "ok",
		SessionID:   s.session.ID(),
		Phase:       string(s.session.GetPhase()),
		FeedClients: s.session.ClientCount(),
	})
}

// handleState handles GET /api/state
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, s.session.Snapshot())
}

// handleUpdateSettings handles PUT /api/settings
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch app.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.sendError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Settings must be a JSON object of strings")
		return
	}

	s.sendSuccess(w, s.session.UpdateSettings(r.Context(), patch))
}

// handleLoadSample handles POST /api/list/sample
func (s *Server) handleLoadSample(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, s.session.LoadSample(r.Context()))
}

// handleImportList handles POST /api/list/import
func (s *Server) handleImportList(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		s.sendError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Expected a multipart upload")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		s.sendError(w, http.StatusBadRequest, ErrCodeInvalidInput, "File is required")
		return
	}
	defer file.Close()

	candidates, err := sheet.ReadCandidates(file)
	if err != nil {
		s.logger.Debug("spreadsheet import failed", "error", err)
		s.sendError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Could not read spreadsheet")
		return
	}

	n, err := s.session.ImportCandidates(r.Context(), candidates)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendSuccess(w, &LookupResponse{Count: n, State: s.session.Snapshot()})
}

// handleFindNearby handles POST /api/places/nearby
func (s *Server) handleFindNearby(w http.ResponseWriter, r *http.Request) {
	n, err := s.session.FindNearby(r.Context())
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendSuccess(w, &LookupResponse{Count: n, State: s.session.Snapshot()})
}

// handleUseLocation handles POST /api/location
func (s *Server) handleUseLocation(w http.ResponseWriter, r *http.Request) {
	coord, err := s.session.UseDeviceLocation(r.Context())
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendSuccess(w, &LocationResponse{Coordinate: coord, State: s.session.Snapshot()})
}

// handleStartRound handles POST /api/round
func (s *Server) handleStartRound(w http.ResponseWriter, r *http.Request) {
	state, err := s.session.StartRound(r.Context())
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendSuccess(w, state)
}

// handleVote handles POST /api/round/vote
func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	var req VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body")
		return
	}

	choice, err := domain.ParseChoice(req.Choice)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	state, err := s.session.Vote(choice)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendSuccess(w, state)
}

// handleResetRound handles POST /api/round/reset
func (s *Server) handleResetRound(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, s.session.ResetRound())
}

// handleLikes handles GET /api/round/likes
func (s *Server) handleLikes(w http.ResponseWriter, r *http.Request) {
	likes := s.session.Likes()
	s.sendSuccess(w, &LikesResponse{
		Likes:     likes,
		LikesJSON: domain.EncodeLikes(likes),
	})
}

// handleLikesSheet handles GET /api/round/likes.xlsx
func (s *Server) handleLikesSheet(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := sheet.WriteLikes(&buf, s.session.LikedCandidates()); err != nil {
		s.logger.Error("failed to export likes", "error", err)
		s.sendError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to export likes")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="likes.xlsx"`)
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	buf.WriteTo(w)
}

// handleCopyLikes handles POST /api/round/likes/copy
func (s *Server) handleCopyLikes(w http.ResponseWriter, r *http.Request) {
	text, copied := s.session.CopyLikes()
	s.sendSuccess(w, &LikesResponse{
		Likes:     s.session.Likes(),
		LikesJSON: text,
		Copied:    &copied,
	})
}

// handleOverlap handles POST /api/overlap
func (s *Server) handleOverlap(w http.ResponseWriter, r *http.Request) {
	var req OverlapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body")
		return
	}

	both, err := s.session.Overlap(req.PartnerLikes)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	summary := "No overlap"
	if len(both) > 0 {
		summary = fmt.Sprintf("Overlap (%d)", len(both))
	}

	s.sendSuccess(w, &OverlapResponse{
		Overlap: both,
		Count:   len(both),
		Summary: summary,
	})
}

// sendDomainError maps a session error to a status and code
func (s *Server) sendDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidPartnerLikes):
		s.sendError(w, http.StatusBadRequest, ErrCodeInvalidInput, "invalid input")
	case errors.Is(err, domain.ErrInvalidChoice):
		s.sendError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Choice must be like or pass")
	case errors.Is(err, domain.ErrOriginRequired):
		s.sendError(w, http.StatusBadRequest, ErrCodeOriginRequired, app.StatusOriginRequired)
	case errors.Is(err, domain.ErrRoundComplete):
		s.sendError(w, http.StatusConflict, ErrCodeRoundComplete, "Round is already complete")
	case errors.Is(err, domain.ErrNoActiveRound), errors.Is(err, domain.ErrInvalidTransition):
		s.sendError(w, http.StatusConflict, ErrCodeInvalidAction, "No round in progress")
	case errors.Is(err, domain.ErrLookupInProgress):
		s.sendError(w, http.StatusConflict, ErrCodeLookupInProgress, "A lookup is already running")
	case errors.Is(err, domain.ErrNoPlacesFound):
		s.sendError(w, http.StatusNotFound, ErrCodeNoResults, app.StatusNoPlaces)
	case errors.Is(err, domain.ErrLookupFailed):
		s.sendError(w, http.StatusBadGateway, ErrCodeLookupFailed, app.StatusLookupFailed)
	case errors.Is(err, domain.ErrLocationUnavailable):
		s.sendError(w, http.StatusServiceUnavailable, ErrCodeLocationUnavailable, app.StatusLocationFailed)
	default:
		s.logger.Error("unhandled session error", "error", err)
		s.sendError(w, http.StatusInternalServerError, ErrCodeInternalError, "Internal server error")
	}
}

// sendSuccess sends a successful JSON response
func (s *Server) sendSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&Response{
		Success: true,
		Data:    data,
	})
}

// sendError sends an error JSON response
func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}
