package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/autoslack/pkg/cli/config"
	slackplugin "github.com/m-mizutani/autoslack/pkg/plugin/slack"
	"github.com/m-mizutani/autoslack/pkg/usecase"
)

func cmdNotify() *cli.Command {
	var (
		target     releaseTarget
		githubCfg  config.GitHub
		slackCfg   config.Slack
		releaseCfg config.Release
	)

	flags := append(target.Flags(), githubCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, releaseCfg.Flags()...)

	return &cli.Command{
		Name:  "notify",
		Usage: "Run the after-release hook once for a given release",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			file, err := config.LoadFile(releaseCfg.ConfigPath)
			if err != nil {
				return err
			}

			notes, err := target.readNotes(os.Stdin)
			if err != nil {
				return err
			}

			githubClient, err := githubCfg.NewClient()
			if err != nil {
				return goerr.Wrap(err, "failed to create GitHub client")
			}

			plugin := slackplugin.New(slackCfg.PluginConfig(file))
			releaseUC := usecase.NewRelease(githubClient, releaseCfg.ReleaseConfig(file, githubCfg.WebURL), plugin)

			return releaseUC.ProcessRelease(ctx, target.releaseInfo(notes))
		},
	}
}
