package types

// EnvLookup reads a process-wide setting by key. An empty string means unset.
type EnvLookup func(key string) string

const (
	// EnvSlackWebhookURL is consulted when no endpoint URL is configured.
	EnvSlackWebhookURL = "SLACK_WEBHOOK_URL"
	// EnvSlackToken is appended to the endpoint URL as the token query parameter.
	EnvSlackToken = "SLACK_TOKEN"
)
