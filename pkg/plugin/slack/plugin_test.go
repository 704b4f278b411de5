package slack_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/autoslack/pkg/domain/model"
	"github.com/m-mizutani/autoslack/pkg/hook"
	"github.com/m-mizutani/autoslack/pkg/plugin/slack"
)

type mockSlackClient struct {
	calls []mockPostCall
	err   error
}

type mockPostCall struct {
	Endpoint string
	Message  *model.SlackMessage
}

func (m *mockSlackClient) PostWebhook(ctx context.Context, endpoint string, msg *model.SlackMessage) error {
	m.calls = append(m.calls, mockPostCall{Endpoint: endpoint, Message: msg})
	return m.err
}

type mockHost struct {
	hooks      *hook.Hooks
	dryRun     bool
	skipLabels []string
}

func newMockHost() *mockHost {
	return &mockHost{hooks: hook.New()}
}

func (h *mockHost) Hooks() *hook.Hooks { return h.hooks }
func (h *mockHost) DryRun() bool { return h.dryRun }
func (h *mockHost) SkipReleaseLabels() []string { return h.skipLabels }
func (h *mockHost) Repository() model.Repository {
	return model.Repository{Owner: "adierkens", Name: "test", BaseURL: "https://github.custom.com"}
}

func envOf(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func patchCommit() *model.Commit {
	return &model.Commit{SHA: "1a2b3c", Subject: "a patch", Labels: []string{"patch"}}
}

const notes = "# My Notes\n- PR [some link](google.com)"

func TestPlugin_Guards(t *testing.T) {
	tests := []struct {
		name  string
		event *model.ReleaseEvent
		setup func(h *mockHost)
	}{
		{
			name: "no new version",
			event: &model.ReleaseEvent{
				LastRelease:  "0.1.0",
				Commits:      []*model.Commit{patchCommit()},
				ReleaseNotes: "# My Notes",
			},
		},
		{
			name: "dry run",
			event: &model.ReleaseEvent{
				NewVersion:   "1.0.0",
				LastRelease:  "0.1.0",
				Commits:      []*model.Commit{patchCommit()},
				ReleaseNotes: "# My Notes",
			},
			setup: func(h *mockHost) { h.dryRun = true },
		},
		{
			name: "no commits",
			event: &model.ReleaseEvent{
				NewVersion:   "1.0.0",
				LastRelease:  "0.1.0",
				ReleaseNotes: "# My Notes",
			},
		},
		{
			name: "skip release label",
			event: &model.ReleaseEvent{
				NewVersion:  "1.0.0",
				LastRelease: "0.1.0",
				Commits: []*model.Commit{
					patchCommit(),
					{SHA: "4d5e6f", Subject: "skipped", Labels: []string{"skip-release"}},
				},
				ReleaseNotes: "# My Notes",
			},
			setup: func(h *mockHost) { h.skipLabels = []string{"skip-release"} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockSlackClient{}
			plugin := slack.NewWithURL("https://custom-slack-url",
				slack.WithClient(client),
				slack.WithEnv(envOf(map[string]string{"SLACK_TOKEN": "MY_TOKEN"})),
			)

			host := newMockHost()
			if tt.setup != nil {
				tt.setup(host)
			}
			plugin.Apply(host)

			gt.NoError(t, host.Hooks().AfterRelease.Promise(context.Background(), tt.event))
			gt.Number(t, len(client.calls)).Equal(0)
		})
	}
}

func TestPlugin_Apply_Posts(t *testing.T) {
	client := &mockSlackClient{}
	plugin := slack.New(slack.Config{URL: "https://custom-slack-url"},
		slack.WithClient(client),
		slack.WithEnv(envOf(map[string]string{"SLACK_TOKEN": "MY_TOKEN"})),
	)

	host := newMockHost()
	host.skipLabels = []string{"skip-release"}
	plugin.Apply(host)
	gt.Value(t, host.Hooks().AfterRelease.Taps()).Equal([]string{"Slack"})

	err := host.Hooks().AfterRelease.Promise(context.Background(), &model.ReleaseEvent{
		NewVersion:   "1.0.0",
		LastRelease:  "0.1.0",
		Commits:      []*model.Commit{patchCommit()},
		ReleaseNotes: notes,
	})
	gt.NoError(t, err)

	gt.Number(t, len(client.calls)).Equal(1)
	call := client.calls[0]
	gt.Value(t, call.Endpoint).Equal("https://custom-slack-url?token=MY_TOKEN")
	gt.Value(t, call.Message.Username).Equal("Auto")
	gt.True(t, strings.Contains(call.Message.Text, "https://github.custom.com/adierkens/test/releases/tag/1.0.0"))
	gt.True(t, strings.Contains(call.Message.Text, "1.0.0"))
	gt.True(t, strings.HasPrefix(call.Message.Text, "@channel: "))
	gt.Number(t, len(call.Message.Links)).Equal(1)
	gt.Value(t, call.Message.Links[0].Title).Equal("some link")
	gt.Value(t, call.Message.Links[0].URL).Equal("google.com")
}

func TestPlugin_AtTarget(t *testing.T) {
	client := &mockSlackClient{}
	plugin := slack.New(slack.Config{URL: "https://custom-slack-url", AtTarget: "here"},
		slack.WithClient(client),
		slack.WithEnv(envOf(map[string]string{"SLACK_TOKEN": "MY_TOKEN"})),
	)

	host := newMockHost()
	plugin.Apply(host)

	err := host.Hooks().AfterRelease.Promise(context.Background(), &model.ReleaseEvent{
		NewVersion:   "1.0.0",
		LastRelease:  "0.1.0",
		Commits:      []*model.Commit{patchCommit()},
		ReleaseNotes: notes,
	})
	gt.NoError(t, err)

	gt.Number(t, len(client.calls)).Equal(1)
	gt.True(t, strings.Contains(client.calls[0].Message.Text, "@here"))
	gt.False(t, strings.Contains(client.calls[0].Message.Text, "@channel"))
}

func TestPlugin_MissingURL(t *testing.T) {
	client := &mockSlackClient{}
	plugin := slack.New(slack.Config{},
		slack.WithClient(client),
		slack.WithEnv(envOf(map[string]string{"SLACK_TOKEN": "MY_TOKEN"})),
	)

	t.Run("hook rejects", func(t *testing.T) {
		host := newMockHost()
		plugin.Apply(host)

		err := host.Hooks().AfterRelease.Promise(context.Background(), &model.ReleaseEvent{
			NewVersion:   "1.0.0",
			LastRelease:  "0.1.0",
			Commits:      []*model.Commit{patchCommit()},
			ReleaseNotes: "# My Notes",
		})
		gt.True(t, errors.Is(err, slack.ErrMissingURL))
	})

	t.Run("send rejects before network call", func(t *testing.T) {
		err := plugin.PostToSlack(context.Background(), newMockHost(), "1.0.0", notes)
		gt.True(t, errors.Is(err, slack.ErrMissingURL))
	})

	gt.Number(t, len(client.calls)).Equal(0)
}

func TestPlugin_URLFromEnv(t *testing.T) {
	client := &mockSlackClient{}
	plugin := slack.New(slack.Config{},
		slack.WithClient(client),
		slack.WithEnv(envOf(map[string]string{
			"SLACK_WEBHOOK_URL": "https://env-slack-url",
			"SLACK_TOKEN":       "ENV_TOKEN",
		})),
	)

	gt.NoError(t, plugin.PostToSlack(context.Background(), newMockHost(), "1.0.0", notes))
	gt.Number(t, len(client.calls)).Equal(1)
	gt.Value(t, client.calls[0].Endpoint).Equal("https://env-slack-url?token=ENV_TOKEN")
}

func TestPlugin_PostToSlack_NoToken(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx := ctxlog.With(context.Background(), logger)

	client := &mockSlackClient{}
	plugin := slack.NewWithURL("https://custom-slack-url",
		slack.WithClient(client),
		slack.WithEnv(envOf(map[string]string{"SLACK_TOKEN": ""})),
	)

	gt.NoError(t, plugin.PostToSlack(ctx, newMockHost(), "1.0.0", notes))

	gt.True(t, strings.Contains(buf.String(), "level=WARN"))
	gt.True(t, strings.Contains(buf.String(), "SLACK_TOKEN"))
	gt.Number(t, len(client.calls)).Equal(1)
	gt.Value(t, client.calls[0].Endpoint).Equal("https://custom-slack-url?token=")
}

func TestPlugin_PostToSlack_DeliveryFailure(t *testing.T) {
	errDelivery := errors.New("connection refused")
	client := &mockSlackClient{err: errDelivery}
	plugin := slack.NewWithURL("https://custom-slack-url",
		slack.WithClient(client),
		slack.WithEnv(envOf(map[string]string{"SLACK_TOKEN": "MY_TOKEN"})),
	)

	host := newMockHost()
	plugin.Apply(host)

	err := host.Hooks().AfterRelease.Promise(context.Background(), &model.ReleaseEvent{
		NewVersion:   "1.0.0",
		Commits:      []*model.Commit{patchCommit()},
		ReleaseNotes: notes,
	})
	gt.True(t, errors.Is(err, errDelivery))
	gt.Number(t, len(client.calls)).Equal(1)
}

func TestPlugin_PostToSlack_KeepsExistingQuery(t *testing.T) {
	testCases := map[string]struct {
		url   string
		token string
		want  string
	}{
		"order kept": {
			url:   "https://hooks.example.com/x?z=1&a=2",
			token: "T",
			want:  "https://hooks.example.com/x?z=1&a=2&token=T",
		},
		"token escaped": {
			url:   "https://hooks.example.com/x",
			token: "a b&c",
			want:  "https://hooks.example.com/x?token=a+b%26c",
		},
		"trailing question mark": {
			url:   "https://hooks.example.com/x?",
			token: "T",
			want:  "https://hooks.example.com/x?token=T",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			client := &mockSlackClient{}
			plugin := slack.NewWithURL(tc.url,
				slack.WithClient(client),
				slack.WithEnv(envOf(map[string]string{"SLACK_TOKEN": tc.token})),
			)

			gt.NoError(t, plugin.PostToSlack(context.Background(), newMockHost(), "1.0.0", notes))
			gt.Number(t, len(client.calls)).Equal(1)
			gt.Value(t, client.calls[0].Endpoint).Equal(tc.want)
		})
	}
}

func TestPlugin_PostToSlack_TokenNotInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	plugin := slack.NewWithURL(endpoint,
		slack.WithEnv(envOf(map[string]string{"SLACK_TOKEN": "SECRET123"})),
	)

	err := plugin.PostToSlack(context.Background(), newMockHost(), "1.0.0", notes)
	gt.Error(t, err)
	gt.False(t, strings.Contains(err.Error(), "SECRET123"))
}

func TestPlugin_Defaults(t *testing.T) {
	plugin := slack.NewWithURL("https://custom-slack-url", slack.WithClient(&mockSlackClient{}))

	gt.Value(t, plugin.Name()).Equal("Slack")
	gt.Value(t, plugin.Config().AtTarget).Equal("channel")
	gt.Value(t, plugin.Config().Username).Equal("Auto")
	gt.Value(t, plugin.Config().URL).Equal("https://custom-slack-url")
}
