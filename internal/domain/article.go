package domain

import (
	"fmt"
	"strings"
)

// GeneratedArticle is the parsed output of one generation request.
type GeneratedArticle struct {
	Title string
	Body  string
}

// Complete reports whether both title and body carry text.
func (a GeneratedArticle) Complete() bool {
	return strings.TrimSpace(a.Title) != "" && strings.TrimSpace(a.Body) != ""
}

// PostStatus mirrors the publication state on the content backend.
type PostStatus string

const (
	StatusDraft   PostStatus = "draft"
	StatusPublish PostStatus = "publish"
)

// ParsePostStatus maps a config value to a PostStatus, defaulting to publish.
func ParsePostStatus(value string) (PostStatus, error) {
	switch PostStatus(strings.ToLower(strings.TrimSpace(value))) {
	case "", StatusPublish:
		return StatusPublish, nil
	case StatusDraft:
		return StatusDraft, nil
	default:
		return "", fmt.Errorf("unknown post status %q", value)
	}
}

// RemoteRecord is a post as returned by the content backend.
type RemoteRecord struct {
	ID            int64
	Title         string
	RenderedBody  string
	Status        PostStatus
	FeaturedMedia int64
	Link          string
}

// PostInput is the write payload for create and update calls.
// Zero Status and FeaturedMedia are omitted from the request.
type PostInput struct {
	Title         string
	Content       string
	Status        PostStatus
	FeaturedMedia int64
}
