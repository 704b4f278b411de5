package github

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v68/github"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/autoslack/pkg/domain/interfaces"
	"github.com/m-mizutani/autoslack/pkg/domain/model"
)

const perPage = 100

type client struct {
	githubClient *github.Client
}

// Option is a functional option for the GitHub client
type Option func(*github.Client) error

// WithAPIURL points the client at a GitHub Enterprise or test API endpoint
func WithAPIURL(apiURL string) Option {
	return func(c *github.Client) error {
		u, err := url.Parse(strings.TrimSuffix(apiURL, "/") + "/")
		if err != nil {
			return goerr.Wrap(err, "invalid GitHub API URL", goerr.V("url", apiURL))
		}
		c.BaseURL = u
		return nil
	}
}

// NewClient creates a new GitHub client authenticated with token. An empty
// token makes unauthenticated requests.
func NewClient(token string, httpClient *http.Client, opts ...Option) (interfaces.GitHubClient, error) {
	githubClient := github.NewClient(httpClient)
	if token != "" {
		githubClient = githubClient.WithAuthToken(token)
	}

	for _, opt := range opts {
		if err := opt(githubClient); err != nil {
			return nil, err
		}
	}

	return &client{
		githubClient: githubClient,
	}, nil
}

// PreviousRelease walks published releases (newest first) and returns the
// one following tag
func (c *client) PreviousRelease(ctx context.Context, owner, repo, tag string) (string, error) {
	opts := &github.ListOptions{PerPage: perPage}
	found := false

	for {
		releases, resp, err := c.githubClient.Repositories.ListReleases(ctx, owner, repo, opts)
		if err != nil {
			return "", goerr.Wrap(err, "failed to list releases",
				goerr.V("owner", owner), goerr.V("repo", repo))
		}

		for _, release := range releases {
			if release.GetDraft() || release.GetPrerelease() {
				continue
			}
			if found {
				return release.GetTagName(), nil
			}
			if release.GetTagName() == tag {
				found = true
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return "", nil
}

// ListReleaseCommits lists commits between base and head and collects the
// labels of the pull requests each commit belongs to
func (c *client) ListReleaseCommits(ctx context.Context, owner, repo, base, head string) ([]*model.Commit, error) {
	opts := &github.ListOptions{PerPage: perPage}
	var commits []*model.Commit

	for {
		comparison, resp, err := c.githubClient.Repositories.CompareCommits(ctx, owner, repo, base, head, opts)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to compare commits",
				goerr.V("owner", owner), goerr.V("repo", repo),
				goerr.V("base", base), goerr.V("head", head))
		}

		for _, rc := range comparison.Commits {
			labels, err := c.commitLabels(ctx, owner, repo, rc.GetSHA())
			if err != nil {
				return nil, err
			}

			commits = append(commits, &model.Commit{
				SHA:     rc.GetSHA(),
				Subject: subjectOf(rc.GetCommit().GetMessage()),
				Labels:  labels,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return commits, nil
}

func (c *client) commitLabels(ctx context.Context, owner, repo, sha string) ([]string, error) {
	prs, _, err := c.githubClient.PullRequests.ListPullRequestsWithCommit(ctx, owner, repo, sha, &github.ListOptions{PerPage: perPage})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list pull requests for commit",
			goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("sha", sha))
	}

	var labels []string
	seen := make(map[string]struct{})
	for _, pr := range prs {
		for _, label := range pr.Labels {
			name := label.GetName()
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			labels = append(labels, name)
		}
	}
	return labels, nil
}

func subjectOf(message string) string {
	subject, _, _ := strings.Cut(message, "\n")
	return strings.TrimSpace(subject)
}
