package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/aquanet-ops/aquanet/pkg/domain/interfaces"
	"github.com/aquanet-ops/aquanet/pkg/domain/model"
	"github.com/aquanet-ops/aquanet/pkg/domain/types"
	"github.com/aquanet-ops/aquanet/pkg/repository/memory"
	"github.com/aquanet-ops/aquanet/pkg/usecase"
)

// staticRepo serves a fixed incident slice, defects included
type staticRepo struct {
	incidents []*model.Incident
}

func (r *staticRepo) Incident() interfaces.IncidentRepository { return &staticIncidentRepo{repo: r} }
func (r *staticRepo) Close() error                            { return nil }

type staticIncidentRepo struct {
	interfaces.IncidentRepository
	repo *staticRepo
}

func (r *staticIncidentRepo) List(ctx context.Context) ([]*model.Incident, error) {
	return r.repo.incidents, nil
}

// stubDirectory is a scriptable UserDirectory for tests
type stubDirectory struct {
	mu      sync.Mutex
	users   map[types.UserID]*model.UserSummary
	failing map[types.UserID]bool
	panics  map[types.UserID]bool
	calls   []types.UserID
}

func newStubDirectory() *stubDirectory {
	return &stubDirectory{
		users:   make(map[types.UserID]*model.UserSummary),
		failing: make(map[types.UserID]bool),
		panics:  make(map[types.UserID]bool),
	}
}

func (s *stubDirectory) addUser(id types.UserID, fullName string) {
	s.users[id] = &model.UserSummary{
		ID:       id,
		Code:     "EMP-" + string(id),
		Username: string(id),
		FullName: fullName,
	}
}

func (s *stubDirectory) GetUser(ctx context.Context, userID types.UserID, orgID types.OrgID) (*model.UserSummary, error) {
	s.mu.Lock()
	s.calls = append(s.calls, userID)
	s.mu.Unlock()

	if s.panics[userID] {
		panic("stub directory defect")
	}
	if s.failing[userID] {
		return nil, goerr.New("user service unavailable", goerr.V("user_id", userID))
	}
	if user, ok := s.users[userID]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, goerr.New("user not found", goerr.V("user_id", userID))
}

func (s *stubDirectory) lookupCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func testIncident(id string) *model.Incident {
	return &model.Incident{
		ID:           types.IncidentID(id),
		OrgID:        "org-1",
		Code:         "INC-" + id,
		TypeID:       "leak",
		Category:     "network",
		ZoneID:       "zone-3",
		Title:        "Fuga en tubería principal",
		Description:  "Fuga detectada en la calle mayor",
		Severity:     types.SeverityHigh,
		Status:       types.IncidentStatusReported,
		RecordStatus: types.RecordStatusActive,
	}
}

func TestEnrich_AllLookupsSucceed(t *testing.T) {
	dir := newStubDirectory()
	dir.addUser("U1", "Ana Lopez")
	dir.addUser("U2", "Luis Marin")
	dir.addUser("U3", "Sara Gil")

	uc := usecase.NewEnrichmentUseCase(memory.New(), dir)

	incident := testIncident("INC1")
	incident.ReportedByID = "U1"
	incident.AssignedToID = "U2"
	incident.ResolvedByID = "U3"

	enriched := uc.Enrich(context.Background(), incident)

	gt.Value(t, enriched.Reporter).NotNil()
	gt.Value(t, enriched.Reporter.FullName).Equal("Ana Lopez")
	gt.Value(t, enriched.Reporter.Role).Equal(types.RoleReporter)
	gt.Value(t, enriched.Reporter.Fallback).Equal(false)
	gt.Value(t, enriched.Assignee.FullName).Equal("Luis Marin")
	gt.Value(t, enriched.Assignee.Role).Equal(types.RoleAssignee)
	gt.Value(t, enriched.Resolver.FullName).Equal("Sara Gil")
	gt.Value(t, enriched.Resolver.Role).Equal(types.RoleResolver)
}

func TestEnrich_FieldCopyFidelity(t *testing.T) {
	dir := newStubDirectory()
	uc := usecase.NewEnrichmentUseCase(memory.New(), dir)

	incident := testIncident("INC2")
	incident.Resolved = true
	incident.ResolutionNotes = "Válvula sustituida"
	incident.AttachmentURLs = []string{"https://example.com/a.jpg"}

	enriched := uc.Enrich(context.Background(), incident)

	gt.Value(t, enriched.ID).Equal(incident.ID)
	gt.Value(t, enriched.OrgID).Equal(incident.OrgID)
	gt.Value(t, enriched.Code).Equal(incident.Code)
	gt.Value(t, enriched.TypeID).Equal(incident.TypeID)
	gt.Value(t, enriched.Category).Equal(incident.Category)
	gt.Value(t, enriched.ZoneID).Equal(incident.ZoneID)
	gt.Value(t, enriched.Title).Equal(incident.Title)
	gt.Value(t, enriched.Description).Equal(incident.Description)
	gt.Value(t, enriched.Severity).Equal(incident.Severity)
	gt.Value(t, enriched.Status).Equal(incident.Status)
	gt.Value(t, enriched.Resolved).Equal(incident.Resolved)
	gt.Value(t, enriched.ResolutionNotes).Equal(incident.ResolutionNotes)
	gt.Value(t, enriched.AttachmentURLs).Equal(incident.AttachmentURLs)
}

func TestEnrich_AbsentIDSkipsLookup(t *testing.T) {
	dir := newStubDirectory()
	uc := usecase.NewEnrichmentUseCase(memory.New(), dir)

	incident := testIncident("INC3") // no user IDs at all
	enriched := uc.Enrich(context.Background(), incident)

	// No identifier means no lookup is attempted
	gt.Number(t, dir.lookupCount()).Equal(0)

	want := model.NewFallbackUser("", types.RoleReporter)
	gt.Value(t, enriched.Reporter).Equal(want)
	gt.Value(t, enriched.Reporter.ID).Equal(types.UnknownUserID)
	gt.Value(t, enriched.Assignee.FullName).Equal("No asignado")
	gt.Value(t, enriched.Resolver.FullName).Equal("No resuelto")
}

func TestEnrich_LookupFailureDegradesSlot(t *testing.T) {
	dir := newStubDirectory()
	dir.addUser("U1", "Ana Lopez")
	dir.failing["U9"] = true

	uc := usecase.NewEnrichmentUseCase(memory.New(), dir)

	incident := testIncident("INC4")
	incident.ReportedByID = "U1"
	incident.AssignedToID = "U9"

	enriched := uc.Enrich(context.Background(), incident)

	// Failed slot degrades to its fallback, keeping the original ID
	gt.Value(t, enriched.Assignee).Equal(model.NewFallbackUser("U9", types.RoleAssignee))
	// Other slots are unaffected
	gt.Value(t, enriched.Reporter.FullName).Equal("Ana Lopez")
	gt.Value(t, enriched.Reporter.Fallback).Equal(false)
}

func TestEnrich_EndToEndExample(t *testing.T) {
	// Incident {reporter:U1, assignee:absent, resolver:U2} where U1 resolves
	// and U2 times out.
	dir := newStubDirectory()
	dir.addUser("U1", "Ana Lopez")
	dir.failing["U2"] = true

	uc := usecase.NewEnrichmentUseCase(memory.New(), dir)

	incident := testIncident("INC1")
	incident.ReportedByID = "U1"
	incident.AssignedToID = ""
	incident.ResolvedByID = "U2"

	enriched := uc.Enrich(context.Background(), incident)

	gt.Value(t, enriched.Reporter.FullName).Equal("Ana Lopez")
	gt.Value(t, enriched.Assignee.FullName).Equal("No asignado")
	gt.Value(t, enriched.Assignee.ID).Equal(types.UnknownUserID)
	gt.Value(t, enriched.Resolver).Equal(model.NewFallbackUser("U2", types.RoleResolver))
}

func TestEnrichAll_CompletenessAndOrder(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	dir := newStubDirectory()
	dir.addUser("U1", "Ana Lopez")

	var created []*model.Incident
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		incident := testIncident(id)
		incident.ID = ""
		incident.Title = "Incidencia " + id
		incident.ReportedByID = "U1"
		stored, err := repo.Incident().Create(ctx, incident)
		gt.NoError(t, err).Required()
		created = append(created, stored)
		time.Sleep(2 * time.Millisecond) // keep creation timestamps distinct for ordering
	}

	uc := usecase.NewEnrichmentUseCase(repo, dir)
	enriched, err := uc.EnrichAll(ctx)
	gt.NoError(t, err).Required()

	// One output per input, in repository order, nothing dropped
	gt.Number(t, len(enriched)).Equal(len(created))

	listed, err := repo.Incident().List(ctx)
	gt.NoError(t, err).Required()
	for i, e := range enriched {
		gt.Value(t, e.ID).Equal(listed[i].ID)
		gt.Value(t, e.Reporter).NotNil()
		gt.Value(t, e.Assignee).NotNil()
		gt.Value(t, e.Resolver).NotNil()
	}
}

func TestEnrichAll_TotalOutageStillCompletes(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	dir := newStubDirectory()
	dir.failing["U1"] = true
	dir.failing["U2"] = true

	for i := 0; i < 3; i++ {
		incident := testIncident("x")
		incident.ID = ""
		incident.ReportedByID = "U1"
		incident.AssignedToID = "U2"
		_, err := repo.Incident().Create(ctx, incident)
		gt.NoError(t, err).Required()
	}

	uc := usecase.NewEnrichmentUseCase(repo, dir)
	enriched, err := uc.EnrichAll(ctx)
	gt.NoError(t, err).Required()

	gt.Number(t, len(enriched)).Equal(3)
	for _, e := range enriched {
		gt.Value(t, e.Reporter.Fallback).Equal(true)
		gt.Value(t, e.Reporter.FullName).Equal("Usuario desconocido")
		gt.Value(t, e.Assignee.Fallback).Equal(true)
		gt.Value(t, e.Assignee.FullName).Equal("No asignado")
	}
}

func TestEnrich_PanickingLookupDegradesSlot(t *testing.T) {
	dir := newStubDirectory()
	dir.addUser("U1", "Ana Lopez")
	dir.panics["BOOM"] = true

	uc := usecase.NewEnrichmentUseCase(memory.New(), dir)

	incident := testIncident("INC6")
	incident.ReportedByID = "U1"
	incident.AssignedToID = "BOOM"

	enriched := uc.Enrich(context.Background(), incident)

	// The panicking slot degrades to its fallback; nothing else is touched
	gt.Value(t, enriched.Assignee).Equal(model.NewFallbackUser("BOOM", types.RoleAssignee))
	gt.Value(t, enriched.Reporter.FullName).Equal("Ana Lopez")
	gt.Value(t, enriched.Reporter.Fallback).Equal(false)
	gt.Value(t, enriched.Title).Equal(incident.Title)
}

func TestEnrichAll_PanickingLookupKeepsBatchAlive(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	dir := newStubDirectory()
	dir.addUser("U1", "Ana Lopez")
	dir.panics["BOOM"] = true

	var defective types.IncidentID
	for i := 0; i < 4; i++ {
		incident := testIncident("x")
		incident.ID = ""
		incident.ReportedByID = "U1"
		if i == 2 {
			incident.ReportedByID = "BOOM"
		}
		stored, err := repo.Incident().Create(ctx, incident)
		gt.NoError(t, err).Required()
		if i == 2 {
			defective = stored.ID
		}
	}

	uc := usecase.NewEnrichmentUseCase(repo, dir)
	enriched, err := uc.EnrichAll(ctx)
	gt.NoError(t, err).Required()

	// All four come back; the defective one carries a fallback reporter
	gt.Number(t, len(enriched)).Equal(4)
	for _, e := range enriched {
		gt.Value(t, e.Reporter).NotNil()
		gt.Value(t, e.Assignee).NotNil()
		gt.Value(t, e.Resolver).NotNil()
		if e.ID == defective {
			gt.Value(t, e.Reporter.Fallback).Equal(true)
			gt.Value(t, e.Reporter.ID).Equal(types.UserID("BOOM"))
		} else {
			gt.Value(t, e.Reporter.Fallback).Equal(false)
			gt.Value(t, e.Reporter.FullName).Equal("Ana Lopez")
		}
	}
}

func TestEnrichAll_NilRecordDegradesToBasicProjection(t *testing.T) {
	ctx := context.Background()

	dir := newStubDirectory()
	dir.addUser("U1", "Ana Lopez")

	first := testIncident("INC7")
	first.ReportedByID = "U1"
	second := testIncident("INC8")
	second.ReportedByID = "U1"

	// A nil record panics during assembly, outside the slot goroutines;
	// the per-incident guard replaces it with the basic projection.
	repo := &staticRepo{incidents: []*model.Incident{first, nil, second}}

	uc := usecase.NewEnrichmentUseCase(repo, dir)
	enriched, err := uc.EnrichAll(ctx)
	gt.NoError(t, err).Required()

	gt.Number(t, len(enriched)).Equal(3)
	gt.Value(t, enriched[0].Reporter.FullName).Equal("Ana Lopez")
	gt.Value(t, enriched[2].Reporter.FullName).Equal("Ana Lopez")

	basic := enriched[1]
	gt.Value(t, basic).NotNil()
	gt.Value(t, basic.Reporter).Equal(model.NewFallbackUser("", types.RoleReporter))
	gt.Value(t, basic.Assignee).Equal(model.NewFallbackUser("", types.RoleAssignee))
	gt.Value(t, basic.Resolver).Equal(model.NewFallbackUser("", types.RoleResolver))
}

func TestEnrichAllByOrg(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	dir := newStubDirectory()
	dir.addUser("U1", "Ana Lopez")

	for i := 0; i < 2; i++ {
		incident := testIncident("x")
		incident.ID = ""
		incident.ReportedByID = "U1"
		_, err := repo.Incident().Create(ctx, incident)
		gt.NoError(t, err).Required()
	}
	other := testIncident("x")
	other.ID = ""
	other.OrgID = "org-2"
	other.ReportedByID = "U1"
	_, err := repo.Incident().Create(ctx, other)
	gt.NoError(t, err).Required()

	uc := usecase.NewEnrichmentUseCase(repo, dir)

	enriched, err := uc.EnrichAllByOrg(ctx, "org-1")
	gt.NoError(t, err).Required()
	gt.Number(t, len(enriched)).Equal(2)
	for _, e := range enriched {
		gt.Value(t, e.OrgID).Equal(types.OrgID("org-1"))
		gt.Value(t, e.Reporter.FullName).Equal("Ana Lopez")
	}

	empty, err := uc.EnrichAllByOrg(ctx, "org-9")
	gt.NoError(t, err).Required()
	gt.Number(t, len(empty)).Equal(0)
}

func TestEnrichOne(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	dir := newStubDirectory()
	dir.addUser("U1", "Ana Lopez")

	incident := testIncident("x")
	incident.ID = ""
	incident.ReportedByID = "U1"
	stored, err := repo.Incident().Create(ctx, incident)
	gt.NoError(t, err).Required()

	uc := usecase.NewEnrichmentUseCase(repo, dir)

	t.Run("known id", func(t *testing.T) {
		enriched, err := uc.EnrichOne(ctx, stored.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, enriched.ID).Equal(stored.ID)
		gt.Value(t, enriched.Reporter.FullName).Equal("Ana Lopez")
	})

	t.Run("unknown id surfaces not-found", func(t *testing.T) {
		_, err := uc.EnrichOne(ctx, "no-such-incident")
		gt.Value(t, err).NotNil()
		gt.True(t, errors.Is(err, usecase.ErrIncidentNotFound))
	})
}

func TestEnrich_NoDirectoryConfigured(t *testing.T) {
	uc := usecase.NewEnrichmentUseCase(memory.New(), nil)

	incident := testIncident("INC5")
	incident.ReportedByID = "U1"

	enriched := uc.Enrich(context.Background(), incident)
	gt.Value(t, enriched.Reporter).Equal(model.NewFallbackUser("U1", types.RoleReporter))
}
