package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/gocollective/collective-server/internal/domain"
)

var tracer = otel.Tracer("usecase/collective")

// Config carries the platform-level knobs the orchestrator needs.
type Config struct {
	// OpenSourceHostSlug designates the single host eligible for the GitHub
	// automated approval path.
	OpenSourceHostSlug string
}

// CollectiveInput is the draft payload supplied by the caller.
type CollectiveInput struct {
	Name         string   `json:"name"`
	Slug         string   `json:"slug"`
	Description  string   `json:"description,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	GithubHandle string   `json:"githubHandle,omitempty"`
}

// CreateCollectiveInput is the validated input for creating a collective.
type CreateCollectiveInput struct {
	Collective                 CollectiveInput
	Host                       *domain.HostRef
	AutomateApprovalWithGithub bool
	Actor                      *domain.Actor
}

type CollectiveUsecase struct {
	collectives CollectiveRepository
	hosts       HostRepository
	accounts    AccountRepository
	github      GithubGateway
	purger      CachePurger
	activities  ActivityRepository
	conf        Config
	logger      *zap.SugaredLogger
}

func NewCollectiveUsecase(
	collectives CollectiveRepository,
	hosts HostRepository,
	accounts AccountRepository,
	github GithubGateway,
	purger CachePurger,
	activities ActivityRepository,
	conf Config,
	logger *zap.SugaredLogger,
) *CollectiveUsecase {
	return &CollectiveUsecase{
		collectives: collectives,
		hosts:       hosts,
		accounts:    accounts,
		github:      github,
		purger:      purger,
		activities:  activities,
		conf:        conf,
		logger:      logger,
	}
}

// Create runs the collective creation workflow: validation, the conditional
// GitHub fast-track decision, persistence, role grant, host attachment and
// activity emission. Validation failures abort with zero side effects.
// Failures after the collective row exists are not rolled back.
func (uc *CollectiveUsecase) Create(ctx context.Context, input CreateCollectiveInput) (domain.Collective, error) {
	ctx, span := tracer.Start(ctx, "Collective.Usecase.Create")
	defer span.End()

	if input.Actor == nil {
		return domain.Collective{}, domain.UnauthorizedError{Message: "you need to be logged in to create a collective"}
	}
	actor := *input.Actor

	draft := domain.CollectiveDraft{
		Name:            input.Collective.Name,
		Slug:            strings.ToLower(input.Collective.Slug),
		Description:     input.Collective.Description,
		Tags:            append([]string(nil), input.Collective.Tags...),
		Settings:        domain.DefaultSettings(),
		IsActive:        false,
		CreatedByUserID: actor.ID,
	}

	taken, err := uc.collectives.ExistsBySlug(ctx, draft.Slug)
	if err != nil {
		span.RecordError(err)
		return domain.Collective{}, errors.Wrap(err, "slug lookup failed")
	}
	if taken {
		return domain.Collective{}, domain.ConflictError{
			Message: fmt.Sprintf("the slug %s is already taken, please use another slug for your collective", draft.Slug),
		}
	}

	var host *domain.Host
	if input.Host != nil {
		resolved, err := uc.hosts.Resolve(ctx, *input.Host)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.Collective{}, domain.NotFoundError{Resource: "host"}
			}
			span.RecordError(err)
			return domain.Collective{}, errors.Wrap(err, "host resolution failed")
		}
		if !resolved.IsHostAccount {
			return domain.Collective{}, domain.ValidationError{Message: "host account is not activated as host"}
		}
		host = &resolved
	}

	// GitHub automated approval is gated to the designated open source host.
	// Any other host falls through to a normal attachment.
	shouldAutomaticallyApprove := false
	if host != nil && input.AutomateApprovalWithGithub && input.Collective.GithubHandle != "" &&
		host.Slug == uc.conf.OpenSourceHostSlug {

		account, err := uc.accounts.GetConnectedAccount(ctx, actor.CollectiveID, domain.ServiceGithub)
		if err != nil {
			span.RecordError(err)
			return domain.Collective{}, errors.Wrap(err, "connected account lookup failed")
		}
		if account == nil {
			return domain.Collective{}, domain.ValidationError{Message: "you must have a connected GitHub account to claim a collective"}
		}

		if err := uc.github.VerifyClaim(ctx, input.Collective.GithubHandle, account.Token); err != nil {
			span.RecordError(err)
			return domain.Collective{}, domain.ValidationError{Message: err.Error()}
		}

		shouldAutomaticallyApprove = true
		draft = draft.
			WithGithubSettings(input.Collective.GithubHandle).
			WithTag(domain.TagOpenSource)
	}

	collective, err := uc.collectives.Create(ctx, draft)
	if err != nil {
		// Two requests may both pass the guard and race at insert; the
		// storage unique index is the authoritative check.
		if errors.Is(err, domain.ErrConflict) {
			return domain.Collective{}, err
		}
		span.RecordError(err)
		return domain.Collective{}, errors.Wrap(err, "collective creation failed")
	}

	if err := uc.collectives.GrantRole(ctx, collective.ID, actor, domain.RoleAdmin); err != nil {
		uc.logger.Errorw("admin role grant failed after collective creation",
			"slug", collective.Slug, "user", actor.ID, "error", err)
		span.RecordError(err)
		return domain.Collective{}, errors.Wrap(err, "admin role grant failed")
	}

	if host != nil {
		if err := uc.collectives.AttachHost(ctx, collective.ID, *host, actor, shouldAutomaticallyApprove); err != nil {
			uc.logger.Errorw("host attachment failed after collective creation",
				"slug", collective.Slug, "host", host.Slug, "error", err)
			span.RecordError(err)
			return domain.Collective{}, errors.Wrap(err, "host attachment failed")
		}
		collective.HostID = &host.ID
		if shouldAutomaticallyApprove {
			now := time.Now()
			collective.ApprovedAt = &now
		}

		if err := uc.purger.Purge(ctx, "/"+host.Slug); err != nil {
			uc.logger.Warnw("host page cache purge failed",
				"path", "/"+host.Slug, "error", err)
		}
	}

	uc.emitCreated(ctx, collective, host, actor)

	return collective, nil
}

// Get fetches a collective by its slug.
func (uc *CollectiveUsecase) Get(ctx context.Context, slug string) (domain.Collective, error) {
	return uc.collectives.GetBySlug(ctx, strings.ToLower(slug))
}

func (uc *CollectiveUsecase) emitCreated(ctx context.Context, collective domain.Collective, host *domain.Host, actor domain.Actor) {
	user := domain.ActivityUserData{Email: actor.Email}
	userCollective, err := uc.accounts.GetUserCollective(ctx, actor.CollectiveID)
	if err != nil {
		uc.logger.Warnw("user collective lookup failed for activity snapshot",
			"user", actor.ID, "error", err)
	} else {
		user.Collective = &userCollective
	}

	activity := domain.Activity{
		Type:   domain.ActivityCollectiveCreated,
		UserID: actor.ID,
		Data: domain.ActivityData{
			Collective: &collective,
			Host:       host,
			User:       &user,
		},
	}
	if host != nil {
		activity.CollectiveID = &host.ID
	}

	if err := uc.activities.Record(ctx, activity); err != nil {
		uc.logger.Warnw("activity record failed",
			"type", activity.Type, "slug", collective.Slug, "error", err)
	}
}
