package interfaces

import (
	"context"

	"github.com/m-mizutani/autoslack/pkg/domain/model"
)

// GitHubClient defines operations for interacting with GitHub API
type GitHubClient interface {
	// PreviousRelease returns the tag of the release published before tag, or
	// an empty string if tag is the first release
	PreviousRelease(ctx context.Context, owner, repo, tag string) (string, error)

	// ListReleaseCommits lists commits in base...head with the labels of
	// their associated pull requests
	ListReleaseCommits(ctx context.Context, owner, repo, base, head string) ([]*model.Commit, error)
}
