package slack

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/m-mizutani/autoslack/pkg/domain/model"
)

var (
	bulletLinkPattern = regexp.MustCompile(`^\s*[-*+]\s+.*?\[([^\]]+)\]\(([^)\s]+)\)`)
	headingPattern    = regexp.MustCompile(`^#{1,6}\s+(.+?)\s*#*\s*$`)
	boldPattern       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	linkPattern       = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
)

// ParseReleaseLinks extracts one link per bullet line of the form
// "- PR [title](url)". Only the first link of a line is taken, order follows
// the notes.
func ParseReleaseLinks(notes string) []*model.ReleaseLink {
	var links []*model.ReleaseLink
	for _, line := range strings.Split(notes, "\n") {
		m := bulletLinkPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		links = append(links, &model.ReleaseLink{Title: m[1], URL: m[2]})
	}
	return links
}

// ToMrkdwn converts GitHub flavored markdown into Slack mrkdwn. Only
// headings, bold text and inline links are rewritten.
func ToMrkdwn(notes string) string {
	lines := strings.Split(strings.TrimSpace(notes), "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		line = boldPattern.ReplaceAllString(line, "*$1*")
		line = linkPattern.ReplaceAllString(line, "<$2|$1>")
		if m := headingPattern.FindStringSubmatch(line); m != nil {
			line = "*" + m[1] + "*"
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// Mention renders the addressing directive for target, e.g. "@channel"
func Mention(target string) string {
	return "@" + strings.TrimPrefix(target, "@")
}

func buildMessage(cfg Config, repo model.Repository, version, notes string) *model.SlackMessage {
	heading := fmt.Sprintf("%s: New release *<%s|%s %s>*",
		Mention(cfg.AtTarget), repo.ReleaseURL(version), repo.FullName(), version)

	text := heading
	if body := ToMrkdwn(notes); body != "" {
		text += "\n" + body
	}

	return &model.SlackMessage{
		Text:     text,
		Username: cfg.Username,
		Links:    ParseReleaseLinks(notes),
	}
}
