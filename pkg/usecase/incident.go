package usecase

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/aquanet-ops/aquanet/pkg/domain/interfaces"
	"github.com/aquanet-ops/aquanet/pkg/domain/model"
	"github.com/aquanet-ops/aquanet/pkg/domain/model/config"
	"github.com/aquanet-ops/aquanet/pkg/domain/types"
	"github.com/aquanet-ops/aquanet/pkg/service/notify"
	"github.com/aquanet-ops/aquanet/pkg/service/storage"
	"github.com/aquanet-ops/aquanet/pkg/utils/async"
)

type IncidentUseCase struct {
	repo     interfaces.Repository
	catalog  *config.Catalog
	notifier notify.Service
	storage  storage.Service
}

func NewIncidentUseCase(repo interfaces.Repository, catalog *config.Catalog, notifier notify.Service, store storage.Service) *IncidentUseCase {
	return &IncidentUseCase{
		repo:     repo,
		catalog:  catalog,
		notifier: notifier,
		storage:  store,
	}
}

// CreateIncidentInput carries the caller-supplied fields for a new incident
type CreateIncidentInput struct {
	OrgID        types.OrgID
	TypeID       string
	Category     string
	ZoneID       types.ZoneID
	Title        string
	Description  string
	Severity     types.Severity
	ReportedByID types.UserID
}

func (uc *IncidentUseCase) Create(ctx context.Context, input CreateIncidentInput) (*model.Incident, error) {
	if input.Title == "" {
		return nil, goerr.New("incident title is required")
	}
	if input.OrgID == "" {
		return nil, goerr.New("organization ID is required")
	}
	if input.Severity != "" && !input.Severity.IsValid() {
		return nil, goerr.New("invalid severity", goerr.V("severity", input.Severity))
	}

	if uc.catalog != nil {
		if input.Category != "" && !uc.catalog.HasCategory(input.Category) {
			return nil, goerr.New("unknown incident category", goerr.V("category", input.Category))
		}
		if input.TypeID != "" && !uc.catalog.HasIncidentType(input.TypeID) {
			return nil, goerr.New("unknown incident type", goerr.V("type_id", input.TypeID))
		}
		if input.ZoneID != "" && !uc.catalog.HasZone(string(input.ZoneID)) {
			return nil, goerr.New("unknown zone", goerr.V("zone_id", input.ZoneID))
		}
	}

	severity := input.Severity
	if severity == "" {
		severity = types.SeverityMedium
	}

	incident := &model.Incident{
		OrgID:        input.OrgID,
		Code:         newIncidentCode(),
		TypeID:       input.TypeID,
		Category:     input.Category,
		ZoneID:       input.ZoneID,
		Title:        input.Title,
		Description:  input.Description,
		Severity:     severity,
		Status:       types.IncidentStatusReported,
		ReportedByID: input.ReportedByID,
		RecordStatus: types.RecordStatusActive,
	}

	created, err := uc.repo.Incident().Create(ctx, incident)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create incident")
	}

	return created, nil
}

func (uc *IncidentUseCase) Get(ctx context.Context, id types.IncidentID) (*model.Incident, error) {
	incident, err := uc.repo.Incident().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrIncidentNotFound, "incident not found", goerr.V(IncidentIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get incident", goerr.V(IncidentIDKey, id))
	}

	return incident, nil
}

func (uc *IncidentUseCase) List(ctx context.Context) ([]*model.Incident, error) {
	incidents, err := uc.repo.Incident().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list incidents")
	}

	return incidents, nil
}

// Assign sets the assignee and moves the incident to ASSIGNED.
// Already-resolved and deleted incidents cannot be reassigned.
func (uc *IncidentUseCase) Assign(ctx context.Context, id types.IncidentID, userID types.UserID) (*model.Incident, error) {
	if userID == "" {
		return nil, goerr.New("assignee user ID is required")
	}

	incident, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !incident.IsActive() {
		return nil, goerr.Wrap(ErrIncidentInactive, "cannot assign a deleted incident", goerr.V(IncidentIDKey, id))
	}
	if incident.Resolved {
		return nil, goerr.Wrap(ErrIncidentResolved, "cannot assign a resolved incident", goerr.V(IncidentIDKey, id))
	}

	incident.AssignedToID = userID
	incident.Status = types.IncidentStatusAssigned

	updated, err := uc.repo.Incident().Update(ctx, incident)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update incident",
			goerr.V(IncidentIDKey, id),
			goerr.V(UserIDKey, userID))
	}

	uc.notifyAssigned(ctx, updated)
	return updated, nil
}

// Resolve marks the incident resolved with notes, recording who resolved it
func (uc *IncidentUseCase) Resolve(ctx context.Context, id types.IncidentID, userID types.UserID, notes string) (*model.Incident, error) {
	if userID == "" {
		return nil, goerr.New("resolver user ID is required")
	}

	incident, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !incident.IsActive() {
		return nil, goerr.Wrap(ErrIncidentInactive, "cannot resolve a deleted incident", goerr.V(IncidentIDKey, id))
	}
	if incident.Resolved {
		return nil, goerr.Wrap(ErrIncidentResolved, "incident is already resolved", goerr.V(IncidentIDKey, id))
	}

	incident.Resolved = true
	incident.ResolvedByID = userID
	incident.ResolutionNotes = notes
	incident.Status = types.IncidentStatusResolved

	updated, err := uc.repo.Incident().Update(ctx, incident)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update incident",
			goerr.V(IncidentIDKey, id),
			goerr.V(UserIDKey, userID))
	}

	uc.notifyResolved(ctx, updated)
	return updated, nil
}

// Delete soft-deletes the incident; the record stays in the store
func (uc *IncidentUseCase) Delete(ctx context.Context, id types.IncidentID) error {
	if err := uc.repo.Incident().Delete(ctx, id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return goerr.Wrap(ErrIncidentNotFound, "incident not found", goerr.V(IncidentIDKey, id))
		}
		return goerr.Wrap(err, "failed to delete incident", goerr.V(IncidentIDKey, id))
	}

	return nil
}

// AttachPhoto stores a photo in the attachment bucket and appends its URL
// to the incident.
func (uc *IncidentUseCase) AttachPhoto(ctx context.Context, id types.IncidentID, filename, contentType string, data []byte) (*model.Incident, error) {
	if uc.storage == nil {
		return nil, goerr.Wrap(ErrStorageUnavailable, "cannot attach photo", goerr.V(IncidentIDKey, id))
	}
	if len(data) == 0 {
		return nil, goerr.New("attachment data is empty", goerr.V(IncidentIDKey, id))
	}

	incident, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !incident.IsActive() {
		return nil, goerr.Wrap(ErrIncidentInactive, "cannot attach to a deleted incident", goerr.V(IncidentIDKey, id))
	}

	key := attachmentKey(id, filename)
	url, err := uc.storage.Put(ctx, key, contentType, data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to store attachment", goerr.V(IncidentIDKey, id))
	}

	incident.AttachmentURLs = append(incident.AttachmentURLs, url)
	updated, err := uc.repo.Incident().Update(ctx, incident)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update incident with attachment",
			goerr.V("orphaned_attachment_url", url),
			goerr.V(IncidentIDKey, id))
	}

	return updated, nil
}

// notifyAssigned posts the assignment notification best-effort
func (uc *IncidentUseCase) notifyAssigned(ctx context.Context, incident *model.Incident) {
	if uc.notifier == nil {
		return
	}
	async.Dispatch(ctx, func(ctx context.Context) error {
		return uc.notifier.IncidentAssigned(ctx, incident)
	})
}

// notifyResolved posts the resolution notification best-effort
func (uc *IncidentUseCase) notifyResolved(ctx context.Context, incident *model.Incident) {
	if uc.notifier == nil {
		return
	}
	async.Dispatch(ctx, func(ctx context.Context) error {
		return uc.notifier.IncidentResolved(ctx, incident)
	})
}

func newIncidentCode() string {
	return fmt.Sprintf("INC-%s", strings.Split(uuid.NewString(), "-")[0])
}

func attachmentKey(id types.IncidentID, filename string) string {
	base := path.Base(filename)
	if base == "." || base == "/" || base == "" {
		base = "attachment"
	}
	return fmt.Sprintf("incidents/%s/%s-%s", id, strings.Split(uuid.NewString(), "-")[0], base)
}
