package usecase

import (
	"slices"

	"github.com/m-mizutani/autoslack/pkg/domain/interfaces"
	"github.com/m-mizutani/autoslack/pkg/domain/model"
	"github.com/m-mizutani/autoslack/pkg/hook"
)

// DefaultSkipReleaseLabels is used when no skip-release labels are configured
var DefaultSkipReleaseLabels = []string{"skip-release"}

type host struct {
	hooks      *hook.Hooks
	repo       model.Repository
	dryRun     bool
	skipLabels []string
}

// HostOption is a functional option for the release host
type HostOption func(*host)

// WithDryRun marks the release cycle as a dry run
func WithDryRun(dryRun bool) HostOption {
	return func(h *host) {
		h.dryRun = dryRun
	}
}

// WithSkipReleaseLabels replaces the skip-release label set
func WithSkipReleaseLabels(labels []string) HostOption {
	return func(h *host) {
		h.skipLabels = slices.Clone(labels)
	}
}

// NewHost creates a host for a single release cycle of repo
func NewHost(repo model.Repository, opts ...HostOption) interfaces.Host {
	h := &host{
		hooks:      hook.New(),
		repo:       repo,
		skipLabels: slices.Clone(DefaultSkipReleaseLabels),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *host) Hooks() *hook.Hooks { return h.hooks }
func (h *host) DryRun() bool { return h.dryRun }
func (h *host) Repository() model.Repository { return h.repo }
func (h *host) SkipReleaseLabels() []string { return slices.Clone(h.skipLabels) }
