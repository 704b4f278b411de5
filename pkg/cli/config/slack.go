package config

import (
	"github.com/urfave/cli/v3"

	slackplugin "github.com/m-mizutani/autoslack/pkg/plugin/slack"
)

// Slack holds Slack plugin configuration given on the command line
type Slack struct {
	URL      string
	AtTarget string
	Username string
}

// Flags returns CLI flags for Slack configuration. The webhook URL may also be
// left empty and provided by SLACK_WEBHOOK_URL at send time.
func (c *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-url",
			Usage:       "Slack webhook URL (falls back to SLACK_WEBHOOK_URL when sending)",
			Destination: &c.URL,
			Sources:     cli.EnvVars("AUTOSLACK_SLACK_URL"),
		},
		&cli.StringFlag{
			Name:        "slack-at-target",
			Usage:       "Mention target, e.g. channel or here",
			Destination: &c.AtTarget,
			Sources:     cli.EnvVars("AUTOSLACK_SLACK_AT_TARGET"),
		},
		&cli.StringFlag{
			Name:        "slack-username",
			Usage:       "Username the message is posted as",
			Destination: &c.Username,
			Sources:     cli.EnvVars("AUTOSLACK_SLACK_USERNAME"),
		},
	}
}

// PluginConfig merges the flags over the [slack] section of file
func (c *Slack) PluginConfig(file *File) slackplugin.Config {
	cfg := file.Slack
	if c.URL != "" {
		cfg.URL = c.URL
	}
	if c.AtTarget != "" {
		cfg.AtTarget = c.AtTarget
	}
	if c.Username != "" {
		cfg.Username = c.Username
	}
	return cfg
}
