package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/autoslack/pkg/cli/config"
	"github.com/m-mizutani/autoslack/pkg/domain/model"
	slackplugin "github.com/m-mizutani/autoslack/pkg/plugin/slack"
)

func cmdPreview() *cli.Command {
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
		Name:  "preview",
		Usage: "Print the Slack message for a release without sending it",
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

			plugin := slackplugin.New(slackCfg.PluginConfig(file))
			msg := plugin.Render(model.Repository{
				Owner:   target.Owner,
				Name:    target.Repo,
				BaseURL: githubCfg.WebURL,
			}, target.Version, notes)

			printMessage(c.Root().Writer, msg)
			return nil
		},
	}
}

func printMessage(w io.Writer, msg *model.SlackMessage) {
	if w == nil {
		w = os.Stdout
	}
	label := color.New(color.FgCyan, color.Bold)

	label.Fprintln(w, "username:")
	fmt.Fprintln(w, msg.Username)
	label.Fprintln(w, "text:")
	fmt.Fprintln(w, msg.Text)
	label.Fprintf(w, "attachments (%d):\n", len(msg.Links))
	for _, link := range msg.Links {
		fmt.Fprintf(w, "  - %s %s\n", color.YellowString(link.Title), link.URL)
	}
}
