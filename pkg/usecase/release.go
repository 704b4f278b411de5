package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/autoslack/pkg/domain/interfaces"
	"github.com/m-mizutani/autoslack/pkg/domain/model"
)

// ReleaseConfig holds host settings shared by every release cycle
type ReleaseConfig struct {
	WebBaseURL        string
	DryRun            bool
	SkipReleaseLabels []string
}

type releaseUseCase struct {
	githubClient interfaces.GitHubClient
	plugins      []interfaces.Plugin
	cfg          ReleaseConfig
}

// NewRelease creates a new instance of ReleaseUseCase
func NewRelease(githubClient interfaces.GitHubClient, cfg ReleaseConfig, plugins ...interfaces.Plugin) interfaces.ReleaseUseCase {
	if cfg.WebBaseURL == "" {
		cfg.WebBaseURL = "https://github.com"
	}
	return &releaseUseCase{
		githubClient: githubClient,
		plugins:      plugins,
		cfg:          cfg,
	}
}

// ProcessRelease builds the release event for info, applies every plugin to a
// fresh host and awaits the AfterRelease hook
func (uc *releaseUseCase) ProcessRelease(ctx context.Context, info *model.ReleaseInfo) error {
	logger := ctxlog.From(ctx)

	logger.Info("Processing release",
		"owner", info.Owner,
		"repo", info.Repo,
		"tag_name", info.TagName,
		"release_name", info.ReleaseName,
	)

	lastRelease := info.LastRelease
	if lastRelease == "" {
		prev, err := uc.githubClient.PreviousRelease(ctx, info.Owner, info.Repo, info.TagName)
		if err != nil {
			return goerr.Wrap(err, "failed to resolve previous release",
				goerr.V("owner", info.Owner), goerr.V("repo", info.Repo), goerr.V("tag", info.TagName))
		}
		lastRelease = prev
	}

	var commits []*model.Commit
	if lastRelease != "" {
		c, err := uc.githubClient.ListReleaseCommits(ctx, info.Owner, info.Repo, lastRelease, info.TagName)
		if err != nil {
			return goerr.Wrap(err, "failed to list release commits",
				goerr.V("owner", info.Owner), goerr.V("repo", info.Repo),
				goerr.V("base", lastRelease), goerr.V("head", info.TagName))
		}
		commits = c
	} else {
		logger.Info("No previous release found", "tag_name", info.TagName)
	}

	event := &model.ReleaseEvent{
		NewVersion:   info.TagName,
		LastRelease:  lastRelease,
		Commits:      commits,
		ReleaseNotes: info.Body,
	}

	hostOpts := []HostOption{WithDryRun(uc.cfg.DryRun)}
	if len(uc.cfg.SkipReleaseLabels) > 0 {
		hostOpts = append(hostOpts, WithSkipReleaseLabels(uc.cfg.SkipReleaseLabels))
	}
	host := NewHost(model.Repository{
		Owner:   info.Owner,
		Name:    info.Repo,
		BaseURL: uc.cfg.WebBaseURL,
	}, hostOpts...)

	for _, plugin := range uc.plugins {
		plugin.Apply(host)
	}

	logger.Debug("Running AfterRelease hook",
		"taps", host.Hooks().AfterRelease.Taps(),
		"last_release", lastRelease,
		"commit_count", len(commits),
	)

	if err := host.Hooks().AfterRelease.Promise(ctx, event); err != nil {
		return goerr.Wrap(err, "AfterRelease hook failed",
			goerr.V("owner", info.Owner), goerr.V("repo", info.Repo), goerr.V("tag", info.TagName))
	}

	logger.Info("Release processed",
		"owner", info.Owner,
		"repo", info.Repo,
		"tag_name", info.TagName,
	)
	return nil
}
