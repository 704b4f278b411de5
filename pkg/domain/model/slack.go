package model

// ReleaseLink is a (title, url) pair extracted from a release notes bullet.
type ReleaseLink struct {
	Title string
	URL   string
}

// SlackMessage is the rendered notification, built fresh for every send.
type SlackMessage struct {
	Text     string
	Username string
	Links    []*ReleaseLink
}
