// Package parser extracts channel and video references from YouTube URLs.
package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// RefKind identifies which kind of reference a URL points at.
type RefKind string

const (
	// KindChannelID is a canonical channel URL (youtube.com/channel/UC...).
	KindChannelID RefKind = "channel_id"
	// KindUsername is a legacy custom or user URL (youtube.com/c/Name, youtube.com/user/name).
	KindUsername RefKind = "username"
	// KindHandle is a handle URL (youtube.com/@name).
	KindHandle RefKind = "handle"
	// KindVideo is a single-video URL (youtube.com/watch?v=..., youtu.be/...).
	KindVideo RefKind = "video"
)

// Ref is the parsed identity carried by a YouTube URL.
type Ref struct {
	Kind RefKind
	ID   string
}

var ErrInvalidURL = errors.New("invalid YouTube URL")

var (
	channelIDPattern = regexp.MustCompile(`youtube\.com/channel/([a-zA-Z0-9_-]+)`)
	usernamePattern  = regexp.MustCompile(`youtube\.com/(?:c|user)/([a-zA-Z0-9_-]+)`)
	handlePattern    = regexp.MustCompile(`youtube\.com/@([a-zA-Z0-9_-]+)`)
	videoPattern     = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([a-zA-Z0-9_-]{11})`)
)

// Parse classifies a YouTube URL and extracts its identifier. Patterns are
// tried in order of specificity; channel id URLs win over everything else.
func Parse(rawURL string) (Ref, error) {
	url := strings.TrimSpace(rawURL)
	if url == "" {
		return Ref{}, fmt.Errorf("%w: empty URL", ErrInvalidURL)
	}

	if m := channelIDPattern.FindStringSubmatch(url); m != nil {
		return Ref{Kind: KindChannelID, ID: m[1]}, nil
	}
	if m := usernamePattern.FindStringSubmatch(url); m != nil {
		return Ref{Kind: KindUsername, ID: m[1]}, nil
	}
	if m := handlePattern.FindStringSubmatch(url); m != nil {
		return Ref{Kind: KindHandle, ID: m[1]}, nil
	}
	if m := videoPattern.FindStringSubmatch(url); m != nil {
		return Ref{Kind: KindVideo, ID: m[1]}, nil
	}

	return Ref{}, fmt.Errorf("%w: %s", ErrInvalidURL, url)
}

// IsYouTubeURL reports whether the string looks like any YouTube URL at all.
func IsYouTubeURL(rawURL string) bool {
	url := strings.TrimSpace(rawURL)
	if url == "" {
		return false
	}
	return strings.Contains(url, "youtube.com") || strings.Contains(url, "youtu.be")
}
