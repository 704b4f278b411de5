package cli

import (
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/autoslack/pkg/domain/model"
)

// releaseTarget identifies a single release given on the command line
type releaseTarget struct {
	Owner       string
	Repo        string
	Version     string
	LastRelease string
	NotesFile   string
}

func (t *releaseTarget) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "owner",
			Usage:       "Repository owner",
			Required:    true,
			Destination: &t.Owner,
			Sources:     cli.EnvVars("AUTOSLACK_OWNER"),
		},
		&cli.StringFlag{
			Name:        "repo",
			Usage:       "Repository name",
			Required:    true,
			Destination: &t.Repo,
			Sources:     cli.EnvVars("AUTOSLACK_REPO"),
		},
		&cli.StringFlag{
			Name:        "tag",
			Usage:       "Released version (tag name)",
			Required:    true,
			Destination: &t.Version,
		},
		&cli.StringFlag{
			Name:        "last-release",
			Usage:       "Previous release tag, looked up on GitHub when omitted",
			Destination: &t.LastRelease,
		},
		&cli.StringFlag{
			Name:        "notes",
			Usage:       "Path to release notes in markdown, '-' for stdin",
			Value:       "-",
			Destination: &t.NotesFile,
		},
	}
}

func (t *releaseTarget) readNotes(stdin io.Reader) (string, error) {
	if t.NotesFile == "-" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return "", goerr.Wrap(err, "failed to read release notes from stdin")
		}
		return string(raw), nil
	}

	raw, err := os.ReadFile(t.NotesFile)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read release notes", goerr.V("path", t.NotesFile))
	}
	return string(raw), nil
}

func (t *releaseTarget) releaseInfo(notes string) *model.ReleaseInfo {
	return &model.ReleaseInfo{
		Owner:       t.Owner,
		Repo:        t.Repo,
		TagName:     t.Version,
		Body:        notes,
		LastRelease: t.LastRelease,
	}
}
