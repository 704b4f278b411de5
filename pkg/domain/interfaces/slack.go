package interfaces

import (
	"context"

	"github.com/m-mizutani/autoslack/pkg/domain/model"
)

// SlackClient sends a rendered message to a webhook endpoint. endpoint
// already carries the token query parameter.
type SlackClient interface {
	PostWebhook(ctx context.Context, endpoint string, msg *model.SlackMessage) error
}
