package model

import (
	"slices"
	"strings"
)

// ReleaseInfo represents information extracted from a GitHub release
type ReleaseInfo struct {
	Owner       string // Repository owner
	Repo        string // Repository name
	TagName     string // Release tag name
	ReleaseName string // Release name
	Body        string // Release notes in markdown
	LastRelease string // Previous release tag, resolved from GitHub when empty
}

// Commit is a commit included in a release. Only labels are used for skip
// decisions.
type Commit struct {
	SHA     string
	Subject string
	Labels  []string
}

// HasAnyLabel reports whether the commit carries one of labels.
func (c *Commit) HasAnyLabel(labels []string) bool {
	for _, l := range c.Labels {
		if slices.Contains(labels, l) {
			return true
		}
	}
	return false
}

// ReleaseEvent is the payload of the AfterRelease hook. An empty NewVersion
// means no release happened in this cycle.
type ReleaseEvent struct {
	NewVersion   string
	LastRelease  string
	Commits      []*Commit
	ReleaseNotes string
}

// Repository identifies the project a release belongs to.
type Repository struct {
	Owner   string
	Name    string
	BaseURL string // Web base URL, e.g. https://github.com
}

// URL returns the repository web URL.
func (r Repository) URL() string {
	return strings.TrimSuffix(r.BaseURL, "/") + "/" + r.Owner + "/" + r.Name
}

// ReleaseURL returns the web URL of the release tagged with version.
func (r Repository) ReleaseURL(version string) string {
	return r.URL() + "/releases/tag/" + version
}

// FullName returns "owner/name".
func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}
