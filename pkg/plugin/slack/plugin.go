package slack

import (
	"context"
	"net/url"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/autoslack/pkg/domain/interfaces"
	"github.com/m-mizutani/autoslack/pkg/domain/model"
	"github.com/m-mizutani/autoslack/pkg/domain/types"
	slackinfra "github.com/m-mizutani/autoslack/pkg/infra/slack"
)

const (
	// PluginName is the tap name registered on the host hooks
	PluginName = "Slack"

	DefaultAtTarget = "channel"
	DefaultUsername = "Auto"
)

// ErrMissingURL is returned when neither the configuration nor the
// environment provides a webhook URL
var ErrMissingURL = goerr.New("slack webhook URL is not configured")

// Config is the plugin configuration. It is not modified after New.
type Config struct {
	URL      string `toml:"url"`
	AtTarget string `toml:"at_target"`
	Username string `toml:"username"`
}

type options struct {
	client interfaces.SlackClient
	env    types.EnvLookup
}

// Option customizes the plugin
type Option func(*options)

// WithClient replaces the client used to send messages
func WithClient(client interfaces.SlackClient) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithEnv replaces the environment lookup, os.Getenv by default
func WithEnv(env types.EnvLookup) Option {
	return func(o *options) {
		o.env = env
	}
}

// Plugin posts release notes to Slack after a release
type Plugin struct {
	cfg    Config
	client interfaces.SlackClient
	env    types.EnvLookup
}

var _ interfaces.Plugin = (*Plugin)(nil)

// New creates a plugin from cfg. An empty URL is resolved from
// SLACK_WEBHOOK_URL when a message is sent.
func New(cfg Config, opts ...Option) *Plugin {
	o := &options{
		env: os.Getenv,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.client == nil {
		o.client = slackinfra.New()
	}

	if cfg.AtTarget == "" {
		cfg.AtTarget = DefaultAtTarget
	}
	if cfg.Username == "" {
		cfg.Username = DefaultUsername
	}

	return &Plugin{
		cfg:    cfg,
		client: o.client,
		env:    o.env,
	}
}

// NewWithURL creates a plugin that posts to webhookURL with default settings
func NewWithURL(webhookURL string, opts ...Option) *Plugin {
	return New(Config{URL: webhookURL}, opts...)
}

// Name returns the plugin name
func (p *Plugin) Name() string { return PluginName }

// Config returns the effective configuration
func (p *Plugin) Config() Config { return p.cfg }

// Apply taps the AfterRelease hook of host
func (p *Plugin) Apply(host interfaces.Host) {
	host.Hooks().AfterRelease.Tap(PluginName, func(ctx context.Context, ev *model.ReleaseEvent) error {
		if reason := skipReason(host, ev); reason != "" {
			ctxlog.From(ctx).Debug("Skip posting release notes to slack", "reason", reason)
			return nil
		}

		return p.PostToSlack(ctx, host, ev.NewVersion, ev.ReleaseNotes)
	})
}

func skipReason(host interfaces.Host, ev *model.ReleaseEvent) string {
	if ev == nil || ev.NewVersion == "" {
		return "no new version"
	}
	if host.DryRun() {
		return "dry run"
	}
	if len(ev.Commits) == 0 {
		return "no commits"
	}

	skipLabels := host.SkipReleaseLabels()
	for _, commit := range ev.Commits {
		if commit.HasAnyLabel(skipLabels) {
			return "skip release label"
		}
	}

	return ""
}

// PostToSlack renders the release notes and sends them with a single POST.
// A missing token only produces a warning; a missing URL is an error.
func (p *Plugin) PostToSlack(ctx context.Context, host interfaces.Host, newVersion, releaseNotes string) error {
	logger := ctxlog.From(ctx)
	logger.Info("Posting release notes to slack", "version", newVersion)

	token := p.env(types.EnvSlackToken)
	if token == "" {
		logger.Warn("Slack may need a token to send a message", "env", types.EnvSlackToken)
	}

	webhookURL := p.cfg.URL
	if webhookURL == "" {
		webhookURL = p.env(types.EnvSlackWebhookURL)
	}
	if webhookURL == "" {
		return goerr.Wrap(ErrMissingURL, "cannot post release notes",
			goerr.V("env", types.EnvSlackWebhookURL))
	}

	endpoint, err := withToken(webhookURL, token)
	if err != nil {
		return err
	}

	repo := host.Repository()
	msg := p.Render(repo, newVersion, releaseNotes)

	if err := p.client.PostWebhook(ctx, endpoint, msg); err != nil {
		return goerr.Wrap(err, "failed to post release notes to slack",
			goerr.V("version", newVersion),
			goerr.V("repository", repo.FullName()))
	}

	logger.Info("Posted release notes to slack",
		"version", newVersion,
		"links", len(msg.Links),
	)
	return nil
}

// Render builds the message that PostToSlack would send
func (p *Plugin) Render(repo model.Repository, newVersion, releaseNotes string) *model.SlackMessage {
	return buildMessage(p.cfg, repo, newVersion, releaseNotes)
}

// withToken appends the token query parameter, present even when empty.
// Any query already in webhookURL is kept as written.
func withToken(webhookURL, token string) (string, error) {
	u, err := url.Parse(webhookURL)
	if err != nil {
		return "", goerr.Wrap(err, "invalid slack webhook URL")
	}

	query := "token=" + url.QueryEscape(token)
	if u.RawQuery != "" {
		query = u.RawQuery + "&" + query
	}
	u.RawQuery = query
	u.ForceQuery = false
	return u.String(), nil
}
