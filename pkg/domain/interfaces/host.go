package interfaces

import (
	"github.com/m-mizutani/autoslack/pkg/domain/model"
	"github.com/m-mizutani/autoslack/pkg/hook"
)

// Host is the release orchestrator plugins attach to. Query methods are
// read-only.
type Host interface {
	Hooks() *hook.Hooks
	DryRun() bool
	SkipReleaseLabels() []string
	Repository() model.Repository
}

// Plugin subscribes handlers to a host's hooks
type Plugin interface {
	Name() string
	Apply(host Host)
}
