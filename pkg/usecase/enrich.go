package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/aquanet-ops/aquanet/pkg/domain/interfaces"
	"github.com/aquanet-ops/aquanet/pkg/domain/model"
	"github.com/aquanet-ops/aquanet/pkg/domain/types"
	"github.com/aquanet-ops/aquanet/pkg/utils/logging"
)

// DefaultBatchLimit bounds how many incidents are enriched concurrently in
// one batch. Each incident adds up to three user lookups, so the effective
// fan-out against the user service is 3x this value.
const DefaultBatchLimit = 8

// EnrichmentUseCase composes incident records with user summaries fetched
// from the external user service. Lookup failures never escape: each role
// slot degrades independently to a fallback summary, and a defect while
// assembling one incident degrades only that incident.
type EnrichmentUseCase struct {
	repo       interfaces.Repository
	users      interfaces.UserDirectory
	batchLimit int
}

func NewEnrichmentUseCase(repo interfaces.Repository, users interfaces.UserDirectory) *EnrichmentUseCase {
	return &EnrichmentUseCase{
		repo:       repo,
		users:      users,
		batchLimit: DefaultBatchLimit,
	}
}

// Enrich builds the enriched projection for one incident. It always
// completes: the three role lookups run concurrently and each one settles
// as either a genuine summary or a fallback.
func (uc *EnrichmentUseCase) Enrich(ctx context.Context, incident *model.Incident) *model.EnrichedIncident {
	enriched := model.NewEnrichedIncident(incident)

	// Read the slot identifiers before spawning goroutines so a defective
	// record panics in this goroutine, where enrichSafe can catch it.
	reporterID := incident.ReportedByID
	assigneeID := incident.AssignedToID
	resolverID := incident.ResolvedByID
	orgID := incident.OrgID

	var reporter, assignee, resolver *model.UserSummary

	var eg errgroup.Group
	eg.Go(func() error {
		reporter = uc.resolveSlot(ctx, reporterID, orgID, types.RoleReporter)
		return nil
	})
	eg.Go(func() error {
		assignee = uc.resolveSlot(ctx, assigneeID, orgID, types.RoleAssignee)
		return nil
	})
	eg.Go(func() error {
		resolver = uc.resolveSlot(ctx, resolverID, orgID, types.RoleResolver)
		return nil
	})
	_ = eg.Wait() // slot resolvers never return errors

	enriched.Reporter = reporter
	enriched.Assignee = assignee
	enriched.Resolver = resolver
	return enriched
}

// resolveSlot settles one role slot: no identifier means an immediate
// fallback with no lookup; a failed lookup becomes a fallback for that
// identifier. No retries, so latency stays bounded by a single attempt.
// The recover runs in the slot's own goroutine, so a panicking directory
// implementation degrades this slot instead of killing the process.
func (uc *EnrichmentUseCase) resolveSlot(ctx context.Context, userID types.UserID, orgID types.OrgID, role types.UserRole) (out *model.UserSummary) {
	defer func() {
		if r := recover(); r != nil {
			logging.From(ctx).Warn("user lookup panicked, using fallback",
				UserIDKey, userID,
				"org_id", orgID,
				"role", role,
				"panic", r,
			)
			out = model.NewFallbackUser(userID, role)
		}
	}()

	if userID == "" {
		return model.NewFallbackUser("", role)
	}
	if uc.users == nil {
		return model.NewFallbackUser(userID, role)
	}

	user, err := uc.users.GetUser(ctx, userID, orgID)
	if err != nil {
		logging.From(ctx).Warn("user lookup failed, using fallback",
			UserIDKey, userID,
			"org_id", orgID,
			"role", role,
			"error", err.Error(),
		)
		return model.NewFallbackUser(userID, role)
	}

	user.Role = role
	return user
}

// EnrichAll loads every active incident and enriches each one. The output
// matches the input in count and order; a defect in one incident's
// enrichment replaces only that incident with its basic projection.
func (uc *EnrichmentUseCase) EnrichAll(ctx context.Context) ([]*model.EnrichedIncident, error) {
	incidents, err := uc.repo.Incident().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list incidents for enrichment")
	}

	return uc.enrichBatch(ctx, incidents), nil
}

// EnrichAllByOrg is EnrichAll scoped to one organization
func (uc *EnrichmentUseCase) EnrichAllByOrg(ctx context.Context, orgID types.OrgID) ([]*model.EnrichedIncident, error) {
	incidents, err := uc.repo.Incident().ListByOrg(ctx, orgID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list incidents for enrichment", goerr.V("org_id", orgID))
	}

	return uc.enrichBatch(ctx, incidents), nil
}

// EnrichOne enriches a single incident by ID. Unknown IDs surface as
// ErrIncidentNotFound; every other failure mode degrades instead.
func (uc *EnrichmentUseCase) EnrichOne(ctx context.Context, id types.IncidentID) (*model.EnrichedIncident, error) {
	incident, err := uc.repo.Incident().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrIncidentNotFound, "incident not found", goerr.V(IncidentIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get incident", goerr.V(IncidentIDKey, id))
	}

	return uc.enrichSafe(ctx, incident), nil
}

// enrichBatch fans enrichment out over the batch with a fixed concurrency
// bound. Results keep the input order regardless of completion order.
func (uc *EnrichmentUseCase) enrichBatch(ctx context.Context, incidents []*model.Incident) []*model.EnrichedIncident {
	enriched := make([]*model.EnrichedIncident, len(incidents))

	var eg errgroup.Group
	eg.SetLimit(uc.batchLimit)
	for i, incident := range incidents {
		eg.Go(func() error {
			enriched[i] = uc.enrichSafe(ctx, incident)
			return nil
		})
	}
	_ = eg.Wait() // enrichSafe never returns errors

	return enriched
}

// enrichSafe guards one incident's enrichment against defects. A panic in
// the copy/assembly path is logged as a warning and replaced by the basic
// projection, so a batch never aborts because of one bad record. Slot
// lookup panics are already handled one level down, in resolveSlot.
func (uc *EnrichmentUseCase) enrichSafe(ctx context.Context, incident *model.Incident) (out *model.EnrichedIncident) {
	defer func() {
		if r := recover(); r != nil {
			var id types.IncidentID
			if incident != nil {
				id = incident.ID
			}
			logging.From(ctx).Warn("incident enrichment failed, returning basic projection",
				IncidentIDKey, id,
				"panic", r,
			)
			out = model.NewBasicEnrichedIncident(incident)
		}
	}()

	return uc.Enrich(ctx, incident)
}
