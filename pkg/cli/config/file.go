package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"

	slackplugin "github.com/m-mizutani/autoslack/pkg/plugin/slack"
)

// File is the optional TOML configuration file. Flags take precedence over
// values from the file.
type File struct {
	Slack   slackplugin.Config `toml:"slack"`
	Release ReleaseFile        `toml:"release"`
}

// ReleaseFile is the [release] section of the configuration file
type ReleaseFile struct {
	DryRun            bool     `toml:"dry_run"`
	SkipReleaseLabels []string `toml:"skip_release_labels"`
}

// LoadFile reads a configuration file. An empty path yields an empty File.
func LoadFile(path string) (*File, error) {
	var f File
	if path == "" {
		return &f, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	if err := toml.Unmarshal(raw, &f); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file", goerr.V("path", path))
	}

	return &f, nil
}
