package slack

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/m-mizutani/autoslack/pkg/domain/interfaces"
	"github.com/m-mizutani/autoslack/pkg/domain/model"
)

// DefaultTimeout bounds a single webhook POST
const DefaultTimeout = 10 * time.Second

// Client posts messages to Slack incoming webhooks
type Client struct {
	httpClient *http.Client
}

var _ interfaces.SlackClient = (*Client)(nil)

// Option is a functional option for Client configuration
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for webhook calls
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a new webhook client
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PostWebhook sends msg to endpoint. Non-2xx responses are returned as errors.
func (c *Client) PostWebhook(ctx context.Context, endpoint string, msg *model.SlackMessage) error {
	webhookMsg := &slack.WebhookMessage{
		Username:    msg.Username,
		Text:        msg.Text,
		Attachments: toAttachments(msg.Links),
	}

	if err := slack.PostWebhookCustomHTTPContext(ctx, endpoint, c.httpClient, webhookMsg); err != nil {
		return goerr.Wrap(stripQuery(err), "failed to post slack webhook")
	}
	return nil
}

// stripQuery drops the query string, which carries the Slack token, from the
// request URL that net/http embeds in transport errors
func stripQuery(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}

	redacted := *urlErr
	redacted.URL = "(invalid URL)"
	if u, perr := url.Parse(urlErr.URL); perr == nil {
		u.RawQuery = ""
		u.ForceQuery = false
		redacted.URL = u.String()
	}
	return &redacted
}

func toAttachments(links []*model.ReleaseLink) []slack.Attachment {
	if len(links) == 0 {
		return nil
	}

	attachments := make([]slack.Attachment, 0, len(links))
	for _, link := range links {
		attachments = append(attachments, slack.Attachment{
			Title:     link.Title,
			TitleLink: link.URL,
		})
	}
	return attachments
}
