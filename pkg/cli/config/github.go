package config

import (
	"net/http"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/autoslack/pkg/domain/interfaces"
	githubinfra "github.com/m-mizutani/autoslack/pkg/infra/github"
)

// GitHub holds GitHub configuration
type GitHub struct {
	WebhookSecret string
	Token         string
	APIURL        string
	WebURL        string
}

// WebhookFlags returns CLI flags needed to receive webhooks
func (c *GitHub) WebhookFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-webhook-secret",
			Usage:       "GitHub webhook secret",
			Required:    true,
			Destination: &c.WebhookSecret,
			Sources:     cli.EnvVars("AUTOSLACK_GITHUB_WEBHOOK_SECRET"),
		},
	}
}

// Flags returns CLI flags for GitHub API access
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub token used to list releases, commits and pull request labels",
			Destination: &c.Token,
			Sources:     cli.EnvVars("AUTOSLACK_GITHUB_TOKEN", "GITHUB_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "github-api-url",
			Usage:       "GitHub API base URL (set for GitHub Enterprise)",
			Destination: &c.APIURL,
			Sources:     cli.EnvVars("AUTOSLACK_GITHUB_API_URL"),
		},
		&cli.StringFlag{
			Name:        "github-web-url",
			Usage:       "GitHub web base URL used for release links",
			Value:       "https://github.com",
			Destination: &c.WebURL,
			Sources:     cli.EnvVars("AUTOSLACK_GITHUB_WEB_URL"),
		},
	}
}

// NewClient builds a GitHub API client from the configuration
func (c *GitHub) NewClient() (interfaces.GitHubClient, error) {
	var opts []githubinfra.Option
	if c.APIURL != "" {
		opts = append(opts, githubinfra.WithAPIURL(c.APIURL))
	}
	return githubinfra.NewClient(c.Token, &http.Client{Timeout: 30 * time.Second}, opts...)
}
