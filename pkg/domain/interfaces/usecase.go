package interfaces

import (
	"context"

	"github.com/m-mizutani/autoslack/pkg/domain/model"
)

// WebhookUseCase defines the interface for webhook event processing
type WebhookUseCase interface {
	// ProcessEvent processes a webhook event
	ProcessEvent(ctx context.Context, event *model.WebhookEvent) error
}

// ReleaseUseCase defines operations for release event processing
type ReleaseUseCase interface {
	// ProcessRelease builds a release event and runs the AfterRelease hook for it
	ProcessRelease(ctx context.Context, info *model.ReleaseInfo) error
}
