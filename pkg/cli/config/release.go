package config

import (
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/autoslack/pkg/usecase"
)

// Release holds host settings for release cycles
type Release struct {
	ConfigPath        string
	DryRun            bool
	SkipReleaseLabels []string
}

// Flags returns CLI flags for release configuration
func (c *Release) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to TOML configuration file",
			Destination: &c.ConfigPath,
			Sources:     cli.EnvVars("AUTOSLACK_CONFIG"),
		},
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Run release hooks without posting anything",
			Destination: &c.DryRun,
			Sources:     cli.EnvVars("AUTOSLACK_DRY_RUN"),
		},
		&cli.StringSliceFlag{
			Name:        "skip-release-label",
			Usage:       "Commit label that suppresses a release (repeatable)",
			Destination: &c.SkipReleaseLabels,
			Sources:     cli.EnvVars("AUTOSLACK_SKIP_RELEASE_LABELS"),
		},
	}
}

// ReleaseConfig merges the flags over the [release] section of file
func (c *Release) ReleaseConfig(file *File, webURL string) usecase.ReleaseConfig {
	cfg := usecase.ReleaseConfig{
		WebBaseURL:        webURL,
		DryRun:            c.DryRun || file.Release.DryRun,
		SkipReleaseLabels: file.Release.SkipReleaseLabels,
	}
	if len(c.SkipReleaseLabels) > 0 {
		cfg.SkipReleaseLabels = c.SkipReleaseLabels
	}
	return cfg
}
