package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/aquanet-ops/aquanet/pkg/domain/model"
	"github.com/aquanet-ops/aquanet/pkg/domain/types"
	"github.com/aquanet-ops/aquanet/pkg/usecase"
	"github.com/aquanet-ops/aquanet/pkg/utils/errutil"
)

const maxAttachmentSize = 10 << 20 // 10 MiB

// incidentResponse is the JSON shape of one incident
type incidentResponse struct {
	ID              string    `json:"id"`
	OrgID           string    `json:"org_id"`
	Code            string    `json:"code"`
	TypeID          string    `json:"type_id,omitempty"`
	Category        string    `json:"category,omitempty"`
	ZoneID          string    `json:"zone_id,omitempty"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Severity        string    `json:"severity"`
	Status          string    `json:"status"`
	Resolved        bool      `json:"resolved"`
	ReportedByID    string    `json:"reported_by_id,omitempty"`
	AssignedToID    string    `json:"assigned_to_id,omitempty"`
	ResolvedByID    string    `json:"resolved_by_id,omitempty"`
	ResolutionNotes string    `json:"resolution_notes,omitempty"`
	AttachmentURLs  []string  `json:"attachment_urls,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// userSummaryResponse is the JSON shape of one user slot
type userSummaryResponse struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Fallback bool   `json:"fallback"`
}

// enrichedIncidentResponse is an incident plus its three user slots
type enrichedIncidentResponse struct {
	incidentResponse
	Reporter userSummaryResponse `json:"reporter"`
	Assignee userSummaryResponse `json:"assignee"`
	Resolver userSummaryResponse `json:"resolver"`
}

func toIncidentResponse(incident *model.Incident) incidentResponse {
	return incidentResponse{
		ID:              string(incident.ID),
		OrgID:           string(incident.OrgID),
		Code:            incident.Code,
		TypeID:          incident.TypeID,
		Category:        incident.Category,
		ZoneID:          string(incident.ZoneID),
		Title:           incident.Title,
		Description:     incident.Description,
		Severity:        incident.Severity.String(),
		Status:          incident.Status.String(),
		Resolved:        incident.Resolved,
		ReportedByID:    string(incident.ReportedByID),
		AssignedToID:    string(incident.AssignedToID),
		ResolvedByID:    string(incident.ResolvedByID),
		ResolutionNotes: incident.ResolutionNotes,
		AttachmentURLs:  incident.AttachmentURLs,
		CreatedAt:       incident.CreatedAt,
		UpdatedAt:       incident.UpdatedAt,
	}
}

func toUserSummaryResponse(user *model.UserSummary) userSummaryResponse {
	return userSummaryResponse{
		ID:       string(user.ID),
		Code:     user.Code,
		Username: user.Username,
		FullName: user.FullName,
		Role:     user.Role.String(),
		Fallback: user.Fallback,
	}
}

func toEnrichedResponse(enriched *model.EnrichedIncident) enrichedIncidentResponse {
	return enrichedIncidentResponse{
		incidentResponse: toIncidentResponse(&enriched.Incident),
		Reporter:         toUserSummaryResponse(enriched.Reporter),
		Assignee:         toUserSummaryResponse(enriched.Assignee),
		Resolver:         toUserSummaryResponse(enriched.Resolver),
	}
}

func (s *Server) listEnrichedIncidents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var enriched []*model.EnrichedIncident
	var err error
	if orgID := r.URL.Query().Get("org_id"); orgID != "" {
		enriched, err = s.uc.Enrich.EnrichAllByOrg(ctx, types.OrgID(orgID))
	} else {
		enriched, err = s.uc.Enrich.EnrichAll(ctx)
	}
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}

	resp := make([]enrichedIncidentResponse, len(enriched))
	for i, e := range enriched {
		resp[i] = toEnrichedResponse(e)
	}
	respondOK(ctx, w, "incidents enriched", resp)
}

func (s *Server) getEnrichedIncident(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := types.IncidentID(chi.URLParam(r, "id"))

	enriched, err := s.uc.Enrich.EnrichOne(ctx, id)
	if err != nil {
		if errors.Is(err, usecase.ErrIncidentNotFound) {
			errutil.HandleHTTP(ctx, w, err, http.StatusNotFound)
			return
		}
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}

	respondOK(ctx, w, "incident enriched", toEnrichedResponse(enriched))
}

func (s *Server) listIncidents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	incidents, err := s.uc.Incident.List(ctx)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}

	resp := make([]incidentResponse, len(incidents))
	for i, incident := range incidents {
		resp[i] = toIncidentResponse(incident)
	}
	respondOK(ctx, w, "incidents listed", resp)
}

func (s *Server) getIncident(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := types.IncidentID(chi.URLParam(r, "id"))

	incident, err := s.uc.Incident.Get(ctx, id)
	if err != nil {
		if errors.Is(err, usecase.ErrIncidentNotFound) {
			errutil.HandleHTTP(ctx, w, err, http.StatusNotFound)
			return
		}
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}

	respondOK(ctx, w, "incident found", toIncidentResponse(incident))
}

// createIncidentRequest is the JSON body for creating an incident
type createIncidentRequest struct {
	OrgID        string `json:"org_id"`
	TypeID       string `json:"type_id"`
	Category     string `json:"category"`
	ZoneID       string `json:"zone_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Severity     string `json:"severity"`
	ReportedByID string `json:"reported_by_id"`
}

func (s *Server) createIncident(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}
	if req.Title == "" || req.OrgID == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("title and org_id are required"), http.StatusBadRequest)
		return
	}

	var severity types.Severity
	if req.Severity != "" {
		parsed, err := types.ParseSeverity(req.Severity)
		if err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid severity"), http.StatusBadRequest)
			return
		}
		severity = parsed
	}

	incident, err := s.uc.Incident.Create(ctx, usecase.CreateIncidentInput{
		OrgID:        types.OrgID(req.OrgID),
		TypeID:       req.TypeID,
		Category:     req.Category,
		ZoneID:       types.ZoneID(req.ZoneID),
		Title:        req.Title,
		Description:  req.Description,
		Severity:     severity,
		ReportedByID: types.UserID(req.ReportedByID),
	})
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}

	respondCreated(ctx, w, "incident created", toIncidentResponse(incident))
}

type assignIncidentRequest struct {
	UserID string `json:"user_id"`
}

func (s *Server) assignIncident(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := types.IncidentID(chi.URLParam(r, "id"))

	var req assignIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("user_id is required"), http.StatusBadRequest)
		return
	}

	incident, err := s.uc.Incident.Assign(ctx, id, types.UserID(req.UserID))
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusForError(err))
		return
	}

	respondOK(ctx, w, "incident assigned", toIncidentResponse(incident))
}

type resolveIncidentRequest struct {
	UserID string `json:"user_id"`
	Notes  string `json:"notes"`
}

func (s *Server) resolveIncident(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := types.IncidentID(chi.URLParam(r, "id"))

	var req resolveIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("user_id is required"), http.StatusBadRequest)
		return
	}

	incident, err := s.uc.Incident.Resolve(ctx, id, types.UserID(req.UserID), req.Notes)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusForError(err))
		return
	}

	respondOK(ctx, w, "incident resolved", toIncidentResponse(incident))
}

func (s *Server) deleteIncident(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := types.IncidentID(chi.URLParam(r, "id"))

	if err := s.uc.Incident.Delete(ctx, id); err != nil {
		errutil.HandleHTTP(ctx, w, err, statusForError(err))
		return
	}

	respondOK(ctx, w, "incident deleted", nil)
}

func (s *Server) attachPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := types.IncidentID(chi.URLParam(r, "id"))

	if err := r.ParseMultipartForm(maxAttachmentSize); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid multipart form"), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "file field is required"), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxAttachmentSize))
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to read attachment"), http.StatusBadRequest)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	incident, err := s.uc.Incident.AttachPhoto(ctx, id, header.Filename, contentType, data)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusForError(err))
		return
	}

	respondCreated(ctx, w, "attachment stored", toIncidentResponse(incident))
}

// statusForError maps use case sentinels to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, usecase.ErrIncidentNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrIncidentResolved),
		errors.Is(err, usecase.ErrIncidentInactive):
		return http.StatusConflict
	case errors.Is(err, usecase.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
