package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/aquanet-ops/aquanet/pkg/domain/model"
	"github.com/aquanet-ops/aquanet/pkg/domain/model/config"
	"github.com/aquanet-ops/aquanet/pkg/domain/types"
	"github.com/aquanet-ops/aquanet/pkg/repository/memory"
	"github.com/aquanet-ops/aquanet/pkg/usecase"
)

type stubNotifier struct {
	assigned chan types.IncidentID
	resolved chan types.IncidentID
}

func newStubNotifier() *stubNotifier {
	return &stubNotifier{
		assigned: make(chan types.IncidentID, 8),
		resolved: make(chan types.IncidentID, 8),
	}
}

func (s *stubNotifier) IncidentAssigned(ctx context.Context, incident *model.Incident) error {
	s.assigned <- incident.ID
	return nil
}

func (s *stubNotifier) IncidentResolved(ctx context.Context, incident *model.Incident) error {
	s.resolved <- incident.ID
	return nil
}

func waitForNotify(t *testing.T, ch chan types.IncidentID) types.IncidentID {
	t.Helper()
	select {
	case id := <-ch:
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification")
		return ""
	}
}

type stubStorage struct {
	keys []string
	err  error
}

func (s *stubStorage) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.keys = append(s.keys, key)
	return "https://storage.example.com/" + key, nil
}

func (s *stubStorage) Close() error { return nil }

func testCatalog() *config.Catalog {
	return &config.Catalog{
		Categories:    []config.Category{{ID: "network", Name: "Red de distribución"}},
		IncidentTypes: []config.IncidentType{{ID: "leak", Name: "Fuga"}},
		Zones:         []config.Zone{{ID: "zone-3", Name: "Distrito Centro"}},
	}
}

func TestIncidentCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid input", func(t *testing.T) {
		uc := usecase.New(memory.New(), usecase.WithCatalog(testCatalog()))

		created, err := uc.Incident.Create(ctx, usecase.CreateIncidentInput{
			OrgID:        "org-1",
			TypeID:       "leak",
			Category:     "network",
			ZoneID:       "zone-3",
			Title:        "Fuga en tubería principal",
			Severity:     types.SeverityHigh,
			ReportedByID: "U1",
		})
		gt.NoError(t, err).Required()
		gt.Value(t, created.ID).NotEqual(types.IncidentID(""))
		gt.True(t, strings.HasPrefix(created.Code, "INC-"))
		gt.Value(t, created.Status).Equal(types.IncidentStatusReported)
		gt.Value(t, created.RecordStatus).Equal(types.RecordStatusActive)
		gt.Value(t, created.Resolved).Equal(false)
	})

	t.Run("severity defaults to medium", func(t *testing.T) {
		uc := usecase.New(memory.New())

		created, err := uc.Incident.Create(ctx, usecase.CreateIncidentInput{
			OrgID: "org-1",
			Title: "Presión baja",
		})
		gt.NoError(t, err).Required()
		gt.Value(t, created.Severity).Equal(types.SeverityMedium)
	})

	t.Run("missing title", func(t *testing.T) {
		uc := usecase.New(memory.New())

		_, err := uc.Incident.Create(ctx, usecase.CreateIncidentInput{OrgID: "org-1"})
		gt.Value(t, err).NotNil()
	})

	t.Run("unknown category rejected", func(t *testing.T) {
		uc := usecase.New(memory.New(), usecase.WithCatalog(testCatalog()))

		_, err := uc.Incident.Create(ctx, usecase.CreateIncidentInput{
			OrgID:    "org-1",
			Title:    "Fuga",
			Category: "no-such-category",
		})
		gt.Value(t, err).NotNil()
	})

	t.Run("invalid severity rejected", func(t *testing.T) {
		uc := usecase.New(memory.New())

		_, err := uc.Incident.Create(ctx, usecase.CreateIncidentInput{
			OrgID:    "org-1",
			Title:    "Fuga",
			Severity: "EXTREME",
		})
		gt.Value(t, err).NotNil()
	})
}

func TestIncidentAssign(t *testing.T) {
	ctx := context.Background()
	notifier := newStubNotifier()
	uc := usecase.New(memory.New(), usecase.WithNotifier(notifier))

	created, err := uc.Incident.Create(ctx, usecase.CreateIncidentInput{
		OrgID: "org-1",
		Title: "Corte de suministro",
	})
	gt.NoError(t, err).Required()

	updated, err := uc.Incident.Assign(ctx, created.ID, "U2")
	gt.NoError(t, err).Required()
	gt.Value(t, updated.AssignedToID).Equal(types.UserID("U2"))
	gt.Value(t, updated.Status).Equal(types.IncidentStatusAssigned)

	gt.Value(t, waitForNotify(t, notifier.assigned)).Equal(created.ID)

	t.Run("empty assignee rejected", func(t *testing.T) {
		_, err := uc.Incident.Assign(ctx, created.ID, "")
		gt.Value(t, err).NotNil()
	})

	t.Run("unknown incident", func(t *testing.T) {
		_, err := uc.Incident.Assign(ctx, "no-such-id", "U2")
		gt.True(t, errors.Is(err, usecase.ErrIncidentNotFound))
	})
}

func TestIncidentResolve(t *testing.T) {
	ctx := context.Background()
	notifier := newStubNotifier()
	uc := usecase.New(memory.New(), usecase.WithNotifier(notifier))

	created, err := uc.Incident.Create(ctx, usecase.CreateIncidentInput{
		OrgID: "org-1",
		Title: "Contador averiado",
	})
	gt.NoError(t, err).Required()

	updated, err := uc.Incident.Resolve(ctx, created.ID, "U3", "Contador sustituido")
	gt.NoError(t, err).Required()
	gt.Value(t, updated.Resolved).Equal(true)
	gt.Value(t, updated.ResolvedByID).Equal(types.UserID("U3"))
	gt.Value(t, updated.ResolutionNotes).Equal("Contador sustituido")
	gt.Value(t, updated.Status).Equal(types.IncidentStatusResolved)

	gt.Value(t, waitForNotify(t, notifier.resolved)).Equal(created.ID)

	t.Run("already resolved", func(t *testing.T) {
		_, err := uc.Incident.Resolve(ctx, created.ID, "U3", "otra vez")
		gt.True(t, errors.Is(err, usecase.ErrIncidentResolved))
	})

	t.Run("resolved incident cannot be reassigned", func(t *testing.T) {
		_, err := uc.Incident.Assign(ctx, created.ID, "U2")
		gt.True(t, errors.Is(err, usecase.ErrIncidentResolved))
	})
}

func TestIncidentDelete(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	uc := usecase.New(repo)

	created, err := uc.Incident.Create(ctx, usecase.CreateIncidentInput{
		OrgID: "org-1",
		Title: "Duplicada",
	})
	gt.NoError(t, err).Required()

	gt.NoError(t, uc.Incident.Delete(ctx, created.ID)).Required()

	t.Run("deleted incident leaves listings", func(t *testing.T) {
		listed, err := uc.Incident.List(ctx)
		gt.NoError(t, err).Required()
		for _, incident := range listed {
			gt.Value(t, incident.ID).NotEqual(created.ID)
		}
	})

	t.Run("deleted incident cannot be assigned", func(t *testing.T) {
		_, err := uc.Incident.Assign(ctx, created.ID, "U2")
		gt.True(t, errors.Is(err, usecase.ErrIncidentInactive))
	})

	t.Run("unknown incident", func(t *testing.T) {
		err := uc.Incident.Delete(ctx, "no-such-id")
		gt.True(t, errors.Is(err, usecase.ErrIncidentNotFound))
	})
}

func TestIncidentAttachPhoto(t *testing.T) {
	ctx := context.Background()

	t.Run("stores and appends URL", func(t *testing.T) {
		store := &stubStorage{}
		uc := usecase.New(memory.New(), usecase.WithStorage(store))

		created, err := uc.Incident.Create(ctx, usecase.CreateIncidentInput{
			OrgID: "org-1",
			Title: "Fuga con foto",
		})
		gt.NoError(t, err).Required()

		updated, err := uc.Incident.AttachPhoto(ctx, created.ID, "fuga.jpg", "image/jpeg", []byte("jpeg-bytes"))
		gt.NoError(t, err).Required()
		gt.Number(t, len(updated.AttachmentURLs)).Equal(1)
		gt.True(t, strings.Contains(updated.AttachmentURLs[0], "fuga.jpg"))
		gt.Number(t, len(store.keys)).Equal(1)
		gt.True(t, strings.HasPrefix(store.keys[0], "incidents/"+string(created.ID)+"/"))
	})

	t.Run("no storage configured", func(t *testing.T) {
		uc := usecase.New(memory.New())

		created, err := uc.Incident.Create(ctx, usecase.CreateIncidentInput{
			OrgID: "org-1",
			Title: "Sin almacenamiento",
		})
		gt.NoError(t, err).Required()

		_, err = uc.Incident.AttachPhoto(ctx, created.ID, "foto.jpg", "image/jpeg", []byte("x"))
		gt.True(t, errors.Is(err, usecase.ErrStorageUnavailable))
	})

	t.Run("empty payload rejected", func(t *testing.T) {
		uc := usecase.New(memory.New(), usecase.WithStorage(&stubStorage{}))

		created, err := uc.Incident.Create(ctx, usecase.CreateIncidentInput{
			OrgID: "org-1",
			Title: "Adjunto vacío",
		})
		gt.NoError(t, err).Required()

		_, err = uc.Incident.AttachPhoto(ctx, created.ID, "foto.jpg", "image/jpeg", nil)
		gt.Value(t, err).NotNil()
	})
}
