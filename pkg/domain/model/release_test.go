package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/autoslack/pkg/domain/model"
)

func TestRepository_ReleaseURL(t *testing.T) {
	t.Run("default base URL", func(t *testing.T) {
		repo := model.Repository{Owner: "adierkens", Name: "test", BaseURL: "https://github.com"}
		gt.Value(t, repo.ReleaseURL("1.0.0")).Equal("https://github.com/adierkens/test/releases/tag/1.0.0")
		gt.Value(t, repo.FullName()).Equal("adierkens/test")
	})

	t.Run("trailing slash in base URL", func(t *testing.T) {
		repo := model.Repository{Owner: "adierkens", Name: "test", BaseURL: "https://github.custom.com/"}
		gt.Value(t, repo.URL()).Equal("https://github.custom.com/adierkens/test")
	})
}

func TestCommit_HasAnyLabel(t *testing.T) {
	commit := &model.Commit{SHA: "abc123", Labels: []string{"patch", "skip-release"}}

	gt.True(t, commit.HasAnyLabel([]string{"skip-release"}))
	gt.False(t, commit.HasAnyLabel([]string{"no-release"}))
	gt.False(t, commit.HasAnyLabel(nil))
	gt.False(t, (&model.Commit{}).HasAnyLabel([]string{"skip-release"}))
}
