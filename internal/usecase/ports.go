package usecase

import (
	"context"

	"github.com/gocollective/collective-server/internal/domain"
)

// CollectiveRepository defines persistence for collectives and memberships.
type CollectiveRepository interface {
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, draft domain.CollectiveDraft) (domain.Collective, error)
	GrantRole(ctx context.Context, collectiveID int64, actor domain.Actor, role string) error
	AttachHost(ctx context.Context, collectiveID int64, host domain.Host, actor domain.Actor, preApproved bool) error
	GetBySlug(ctx context.Context, slug string) (domain.Collective, error)
}

// HostRepository resolves a host reference to a collective acting as host.
// Missing hosts yield domain.ErrNotFound; capability validation is the
// orchestrator's responsibility.
type HostRepository interface {
	Resolve(ctx context.Context, ref domain.HostRef) (domain.Host, error)
}

// AccountRepository defines lookups owned by the identity context.
type AccountRepository interface {
	GetConnectedAccount(ctx context.Context, collectiveID int64, service string) (*domain.ConnectedAccount, error)
	GetUserCollective(ctx context.Context, collectiveID int64) (domain.Collective, error)
}

// GithubGateway performs the one-shot external eligibility check. The
// returned error message is user facing.
type GithubGateway interface {
	VerifyClaim(ctx context.Context, handle string, token string) error
}

// CachePurger invalidates externally cached page representations. Purge is
// best-effort: callers log the returned error and never propagate it.
type CachePurger interface {
	Purge(ctx context.Context, path string) error
}

// ActivityRepository records audit activities. Record is best-effort: callers
// log the returned error and never propagate it.
type ActivityRepository interface {
	Record(ctx context.Context, activity domain.Activity) error
}
