package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/aquanet-ops/aquanet/pkg/domain/interfaces"
	"github.com/aquanet-ops/aquanet/pkg/domain/model"
	"github.com/aquanet-ops/aquanet/pkg/domain/types"
)

type incidentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newIncidentRepository(client *firestore.Client) *incidentRepository {
	return &incidentRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *incidentRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_incidents"
	}
	return "incidents"
}

// incidentDoc is the Firestore document representation of an incident
type incidentDoc struct {
	ID              string    `firestore:"id"`
	OrgID           string    `firestore:"org_id"`
	Code            string    `firestore:"code"`
	TypeID          string    `firestore:"type_id"`
	Category        string    `firestore:"category"`
	ZoneID          string    `firestore:"zone_id"`
	Title           string    `firestore:"title"`
	Description     string    `firestore:"description"`
	Severity        string    `firestore:"severity"`
	Status          string    `firestore:"status"`
	Resolved        bool      `firestore:"resolved"`
	ReportedByID    string    `firestore:"reported_by_id"`
	AssignedToID    string    `firestore:"assigned_to_id"`
	ResolvedByID    string    `firestore:"resolved_by_id"`
	ResolutionNotes string    `firestore:"resolution_notes"`
	AttachmentURLs  []string  `firestore:"attachment_urls"`
	RecordStatus    string    `firestore:"record_status"`
	CreatedAt       time.Time `firestore:"created_at"`
	UpdatedAt       time.Time `firestore:"updated_at"`
}

func toDoc(incident *model.Incident) *incidentDoc {
	return &incidentDoc{
		ID:              string(incident.ID),
		OrgID:           string(incident.OrgID),
		Code:            incident.Code,
		TypeID:          incident.TypeID,
		Category:        incident.Category,
		ZoneID:          string(incident.ZoneID),
		Title:           incident.Title,
		Description:     incident.Description,
		Severity:        string(incident.Severity),
		Status:          string(incident.Status),
		Resolved:        incident.Resolved,
		ReportedByID:    string(incident.ReportedByID),
		AssignedToID:    string(incident.AssignedToID),
		ResolvedByID:    string(incident.ResolvedByID),
		ResolutionNotes: incident.ResolutionNotes,
		AttachmentURLs:  incident.AttachmentURLs,
		RecordStatus:    string(incident.RecordStatus),
		CreatedAt:       incident.CreatedAt,
		UpdatedAt:       incident.UpdatedAt,
	}
}

func (d *incidentDoc) toModel() *model.Incident {
	return &model.Incident{
		ID:              types.IncidentID(d.ID),
		OrgID:           types.OrgID(d.OrgID),
		Code:            d.Code,
		TypeID:          d.TypeID,
		Category:        d.Category,
		ZoneID:          types.ZoneID(d.ZoneID),
		Title:           d.Title,
		Description:     d.Description,
		Severity:        types.Severity(d.Severity),
		Status:          types.IncidentStatus(d.Status),
		Resolved:        d.Resolved,
		ReportedByID:    types.UserID(d.ReportedByID),
		AssignedToID:    types.UserID(d.AssignedToID),
		ResolvedByID:    types.UserID(d.ResolvedByID),
		ResolutionNotes: d.ResolutionNotes,
		AttachmentURLs:  d.AttachmentURLs,
		RecordStatus:    types.RecordStatus(d.RecordStatus),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func (r *incidentRepository) Create(ctx context.Context, incident *model.Incident) (*model.Incident, error) {
	now := time.Now().UTC()
	created := incident.Clone()
	if created.ID == "" {
		created.ID = types.IncidentID(uuid.NewString())
	}
	created.RecordStatus = created.RecordStatus.Normalize()
	created.Status = created.Status.Normalize()
	created.CreatedAt = now
	created.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(string(created.ID))
	if _, err := docRef.Create(ctx, toDoc(created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create incident", goerr.V("id", created.ID))
	}

	return created, nil
}

func (r *incidentRepository) Get(ctx context.Context, id types.IncidentID) (*model.Incident, error) {
	snap, err := r.client.Collection(r.collection()).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "incident not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get incident", goerr.V("id", id))
	}

	var doc incidentDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode incident", goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *incidentRepository) List(ctx context.Context) ([]*model.Incident, error) {
	query := r.client.Collection(r.collection()).
		Where("record_status", "==", string(types.RecordStatusActive)).
		OrderBy("created_at", firestore.Desc)

	return r.runQuery(ctx, query)
}

func (r *incidentRepository) ListByOrg(ctx context.Context, orgID types.OrgID) ([]*model.Incident, error) {
	query := r.client.Collection(r.collection()).
		Where("org_id", "==", string(orgID)).
		Where("record_status", "==", string(types.RecordStatusActive)).
		OrderBy("created_at", firestore.Desc)

	return r.runQuery(ctx, query)
}

func (r *incidentRepository) runQuery(ctx context.Context, query firestore.Query) ([]*model.Incident, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var incidents []*model.Incident
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate incidents")
		}

		var doc incidentDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode incident", goerr.V("doc", snap.Ref.ID))
		}
		incidents = append(incidents, doc.toModel())
	}

	return incidents, nil
}

func (r *incidentRepository) Update(ctx context.Context, incident *model.Incident) (*model.Incident, error) {
	docRef := r.client.Collection(r.collection()).Doc(string(incident.ID))

	updated := incident.Clone()
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(interfaces.ErrNotFound, "incident not found", goerr.V("id", incident.ID))
			}
			return goerr.Wrap(err, "failed to get incident for update")
		}

		var existing incidentDoc
		if err := snap.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to decode incident")
		}

		updated.CreatedAt = existing.CreatedAt
		updated.UpdatedAt = time.Now().UTC()
		return tx.Set(docRef, toDoc(updated))
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *incidentRepository) Delete(ctx context.Context, id types.IncidentID) error {
	docRef := r.client.Collection(r.collection()).Doc(string(id))

	// Soft delete: flip the record status, keep the document
	_, err := docRef.Update(ctx, []firestore.Update{
		{Path: "record_status", Value: string(types.RecordStatusInactive)},
		{Path: "updated_at", Value: time.Now().UTC()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(interfaces.ErrNotFound, "incident not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to soft-delete incident", goerr.V("id", id))
	}

	return nil
}
