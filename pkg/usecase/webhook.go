package usecase

import (
	"context"
	"encoding/json"

	"github.com/google/go-github/v68/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/autoslack/pkg/domain/interfaces"
	"github.com/m-mizutani/autoslack/pkg/domain/model"
	"github.com/m-mizutani/autoslack/pkg/utils/async"
)

// Dispatcher runs handler outside of the webhook request
type Dispatcher func(ctx context.Context, handler func(ctx context.Context) error)

type webhookUseCase struct {
	releaseUC interfaces.ReleaseUseCase
	dispatch  Dispatcher
}

// WebhookOption is a functional option for the webhook use case
type WebhookOption func(*webhookUseCase)

// WithDispatcher replaces async.Dispatch
func WithDispatcher(d Dispatcher) WebhookOption {
	return func(uc *webhookUseCase) {
		uc.dispatch = d
	}
}

// NewWebhook creates a new instance of WebhookUseCase
func NewWebhook(releaseUC interfaces.ReleaseUseCase, opts ...WebhookOption) interfaces.WebhookUseCase {
	uc := &webhookUseCase{
		releaseUC: releaseUC,
		dispatch:  async.Dispatch,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ProcessEvent processes a webhook event. Released events are handed to the
// release use case asynchronously, everything else is logged and ignored.
func (uc *webhookUseCase) ProcessEvent(ctx context.Context, event *model.WebhookEvent) error {
	logger := ctxlog.From(ctx)

	logger.Info("Processing webhook event",
		"id", event.ID,
		"type", event.Type,
		"action", event.Action,
		"repository", event.Repository,
		"sender", event.Sender,
		"supported", event.IsSupportedEvent(),
	)

	if !event.IsSupportedEvent() {
		logger.Debug("Ignoring unsupported event",
			"type", event.Type,
			"action", event.Action,
		)
		return nil
	}

	var releaseEvent github.ReleaseEvent
	if err := json.Unmarshal(event.RawPayload, &releaseEvent); err != nil {
		return goerr.Wrap(err, "failed to unmarshal release event", goerr.V("id", event.ID))
	}

	info, err := extractReleaseInfo(&releaseEvent)
	if err != nil {
		return goerr.Wrap(err, "invalid release event", goerr.V("id", event.ID))
	}

	uc.dispatch(ctx, func(ctx context.Context) error {
		return uc.releaseUC.ProcessRelease(ctx, info)
	})

	return nil
}

// extractReleaseInfo extracts release information from a GitHub release event
func extractReleaseInfo(event *github.ReleaseEvent) (*model.ReleaseInfo, error) {
	if event.Repo == nil {
		return nil, goerr.New("missing repository information in release event")
	}
	if event.Release == nil {
		return nil, goerr.New("missing release information in release event")
	}

	// Use Get*() helper methods for concise and nil-safe field access
	owner := event.GetRepo().GetOwner().GetLogin()
	repo := event.GetRepo().GetName()
	tagName := event.GetRelease().GetTagName()

	if owner == "" || repo == "" || tagName == "" {
		return nil, goerr.New("missing required fields",
			goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("tag_name", tagName))
	}

	return &model.ReleaseInfo{
		Owner:       owner,
		Repo:        repo,
		TagName:     tagName,
		ReleaseName: event.GetRelease().GetName(),
		Body:        event.GetRelease().GetBody(),
	}, nil
}
