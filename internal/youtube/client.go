// Package youtube wraps the YouTube Data API v3 for channel analysis.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/channel-insights/youtube-analytics-ingestion-go/pkg/logger"

	"go.uber.org/zap"
)

// ErrChannelNotFound is returned when a lookup resolves to zero channels.
var ErrChannelNotFound = errors.New("channel not found")

// Page guards cap pagination loops so a bad or hostile feed cannot spin the
// sync forever. Search is much more expensive per page than playlist reads.
const (
	maxPlaylistPages = 1000
	maxCommentPages  = 1000
	maxSearchPages   = 10
)

// APIError wraps a transport or API failure from YouTube.
type APIError struct {
	Op  string
	Err error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("youtube api %s: %v", e.Op, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// ChannelInfo is the subset of channel metadata the sync pipeline consumes.
type ChannelInfo struct {
	ChannelID         string
	Title             string
	Description       string
	ThumbnailURL      string
	SubscriberCount   int64
	ViewCount         int64
	VideoCount        int64
	UploadsPlaylistID string
}

// VideoInfo is the subset of video metadata the sync pipeline consumes.
type VideoInfo struct {
	VideoID         string
	ChannelID       string
	Title           string
	Description     string
	ThumbnailURL    string
	DurationSeconds int64
	ViewCount       int64
	LikeCount       int64
	CommentCount    int64
	PublishedAt     *time.Time
}

// CommentInfo is a flattened comment thread entry. Replies carry the id of
// their top-level comment in ParentCommentID.
type CommentInfo struct {
	CommentID       string
	VideoID         string
	ParentCommentID *string
	AuthorName      string
	AuthorAvatar    string
	Text            string
	LikeCount       int64
	PublishedAt     *time.Time
}

// Client wraps the YouTube Data API v3 client.
type Client struct {
	service     *youtube.Service
	quotaBuffer int64
}

// Option configures a Client.
type Option func(*options)

type options struct {
	endpoint    string
	quotaBuffer int64
}

// WithEndpoint overrides the API base URL. Used to point the client at a
// local test server.
func WithEndpoint(endpoint string) Option {
	return func(o *options) { o.endpoint = endpoint }
}

// WithQuotaBuffer sets the per-operation cost allowance consulted by
// HasQuotaBuffer.
func WithQuotaBuffer(units int64) Option {
	return func(o *options) { o.quotaBuffer = units }
}

// NewClient creates a new YouTube API client.
func NewClient(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("YouTube API key is required")
	}

	o := options{quotaBuffer: 100}
	for _, opt := range opts {
		opt(&o)
	}

	clientOpts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if o.endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(o.endpoint))
	}

	service, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &Client{service: service, quotaBuffer: o.quotaBuffer}, nil
}

// GetChannelByID resolves a channel by its canonical id.
func (c *Client) GetChannelByID(ctx context.Context, channelID string) (*ChannelInfo, error) {
	call := c.service.Channels.List(channelParts()).Id(channelID).Context(ctx)
	return c.resolveChannel(call, "get channel by id")
}

// GetChannelByHandle resolves a channel by its @handle. The leading @ is
// added when missing.
func (c *Client) GetChannelByHandle(ctx context.Context, handle string) (*ChannelInfo, error) {
	if !strings.HasPrefix(handle, "@") {
		handle = "@" + handle
	}
	call := c.service.Channels.List(channelParts()).ForHandle(handle).Context(ctx)
	return c.resolveChannel(call, "get channel by handle")
}

// GetChannelByUsername resolves a channel by legacy username.
func (c *Client) GetChannelByUsername(ctx context.Context, username string) (*ChannelInfo, error) {
	call := c.service.Channels.List(channelParts()).ForUsername(username).Context(ctx)
	return c.resolveChannel(call, "get channel by username")
}

func (c *Client) resolveChannel(call *youtube.ChannelsListCall, op string) (*ChannelInfo, error) {
	response, err := call.Do()
	if err != nil {
		return nil, &APIError{Op: op, Err: err}
	}
	if len(response.Items) == 0 {
		return nil, ErrChannelNotFound
	}
	return mapChannel(response.Items[0]), nil
}

// ListUploadVideoIDs walks the uploads playlist and returns video ids in feed
// order, newest first. A maxVideos of zero or less means unlimited.
func (c *Client) ListUploadVideoIDs(ctx context.Context, uploadsPlaylistID string, maxVideos int) ([]string, error) {
	if uploadsPlaylistID == "" {
		return nil, nil
	}

	var videoIDs []string
	pageToken := ""
	for page := 0; page < maxPlaylistPages; page++ {
		call := c.service.PlaylistItems.List([]string{"contentDetails"}).
			PlaylistId(uploadsPlaylistID).
			MaxResults(50).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		response, err := call.Do()
		if err != nil {
			return nil, &APIError{Op: "list playlist items", Err: err}
		}

		for _, item := range response.Items {
			if item.ContentDetails != nil && item.ContentDetails.VideoId != "" {
				videoIDs = append(videoIDs, item.ContentDetails.VideoId)
			}
		}

		if maxVideos > 0 && len(videoIDs) >= maxVideos {
			return videoIDs[:maxVideos], nil
		}

		pageToken = response.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return videoIDs, nil
}

// SearchVideoIDs finds a channel's most recent video ids via the search
// endpoint. Used as a fallback when the uploads playlist is unavailable.
func (c *Client) SearchVideoIDs(ctx context.Context, channelID string, maxResults int) ([]string, error) {
	if maxResults < 1 {
		maxResults = 1
	}

	var videoIDs []string
	pageToken := ""
	for page := 0; page < maxSearchPages && len(videoIDs) < maxResults; page++ {
		requestSize := maxResults - len(videoIDs)
		if requestSize > 50 {
			requestSize = 50
		}

		call := c.service.Search.List([]string{"id"}).
			ChannelId(channelID).
			MaxResults(int64(requestSize)).
			Order("date").
			Type("video").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		response, err := call.Do()
		if err != nil {
			return nil, &APIError{Op: "search videos", Err: err}
		}

		for _, item := range response.Items {
			if item.Id != nil && item.Id.VideoId != "" {
				videoIDs = append(videoIDs, item.Id.VideoId)
			}
		}

		pageToken = response.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return videoIDs, nil
}

// GetVideosByIDs fetches full details for the given video ids in request
// batches of 50, preserving the input order across batch boundaries.
func (c *Client) GetVideosByIDs(ctx context.Context, videoIDs []string) ([]*VideoInfo, error) {
	var videos []*VideoInfo
	for start := 0; start < len(videoIDs); start += 50 {
		end := start + 50
		if end > len(videoIDs) {
			end = len(videoIDs)
		}

		call := c.service.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
			Id(videoIDs[start:end]...).
			Context(ctx)

		response, err := call.Do()
		if err != nil {
			return nil, &APIError{Op: "get videos", Err: err}
		}

		for _, item := range response.Items {
			videos = append(videos, mapVideo(item))
		}
	}

	return videos, nil
}

// GetComments fetches up to maxComments comments for a video, flattening
// replies into the stream after their parent. A maxComments of zero returns
// nothing without touching the API; negative means unlimited.
func (c *Client) GetComments(ctx context.Context, videoID string, maxComments int) ([]*CommentInfo, error) {
	if maxComments == 0 {
		return nil, nil
	}

	var comments []*CommentInfo
	pageToken := ""
	for page := 0; page < maxCommentPages; page++ {
		call := c.service.CommentThreads.List([]string{"snippet", "replies"}).
			VideoId(videoID).
			MaxResults(50).
			TextFormat("plainText").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		response, err := call.Do()
		if err != nil {
			return nil, &APIError{Op: "list comment threads", Err: err}
		}

		for _, item := range response.Items {
			if item.Snippet == nil || item.Snippet.TopLevelComment == nil {
				continue
			}
			top := item.Snippet.TopLevelComment
			if top.Id == "" {
				continue
			}
			comments = append(comments, mapComment(videoID, top.Id, nil, top.Snippet))

			if item.Replies != nil {
				for _, reply := range item.Replies.Comments {
					if reply.Id == "" {
						continue
					}
					parentID := top.Id
					comments = append(comments, mapComment(videoID, reply.Id, &parentID, reply.Snippet))
				}
			}
		}

		if maxComments > 0 && len(comments) >= maxComments {
			return comments[:maxComments], nil
		}

		pageToken = response.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return comments, nil
}

// HasQuotaBuffer reports whether an operation of the estimated cost is
// within the configured allowance. Daily usage is not tracked, so this
// screens the cost of a single operation only.
func (c *Client) HasQuotaBuffer(estimatedCost int64) bool {
	return estimatedCost <= c.quotaBuffer
}

func channelParts() []string {
	return []string{"snippet", "statistics", "contentDetails"}
}

func mapChannel(channel *youtube.Channel) *ChannelInfo {
	info := &ChannelInfo{ChannelID: channel.Id}

	if channel.Snippet != nil {
		info.Title = channel.Snippet.Title
		info.Description = channel.Snippet.Description
		info.ThumbnailURL = pickThumbnail(channel.Snippet.Thumbnails)
	}
	if channel.Statistics != nil {
		info.SubscriberCount = int64(channel.Statistics.SubscriberCount)
		info.ViewCount = int64(channel.Statistics.ViewCount)
		info.VideoCount = int64(channel.Statistics.VideoCount)
	}
	if channel.ContentDetails != nil && channel.ContentDetails.RelatedPlaylists != nil {
		info.UploadsPlaylistID = channel.ContentDetails.RelatedPlaylists.Uploads
	}

	return info
}

func mapVideo(video *youtube.Video) *VideoInfo {
	info := &VideoInfo{VideoID: video.Id}

	if video.Snippet != nil {
		info.ChannelID = video.Snippet.ChannelId
		info.Title = video.Snippet.Title
		info.Description = video.Snippet.Description
		info.ThumbnailURL = pickThumbnail(video.Snippet.Thumbnails)
		if t, err := parseAPITime(video.Snippet.PublishedAt); err == nil {
			info.PublishedAt = &t
		}
	}
	if video.Statistics != nil {
		info.ViewCount = int64(video.Statistics.ViewCount)
		info.LikeCount = int64(video.Statistics.LikeCount)
		info.CommentCount = int64(video.Statistics.CommentCount)
	}
	if video.ContentDetails != nil && video.ContentDetails.Duration != "" {
		seconds, err := ParseVideoDuration(video.ContentDetails.Duration)
		if err != nil {
			logger.Log.Debug("unparseable video duration",
				zap.String("video_id", video.Id),
				zap.String("duration", video.ContentDetails.Duration))
		} else {
			info.DurationSeconds = int64(seconds)
		}
	}

	return info
}

func mapComment(videoID, commentID string, parentID *string, snippet *youtube.CommentSnippet) *CommentInfo {
	info := &CommentInfo{
		CommentID:       commentID,
		VideoID:         videoID,
		ParentCommentID: parentID,
	}
	if snippet == nil {
		return info
	}

	info.AuthorName = snippet.AuthorDisplayName
	info.AuthorAvatar = snippet.AuthorProfileImageUrl
	info.Text = snippet.TextDisplay
	info.LikeCount = snippet.LikeCount
	if t, err := parseAPITime(snippet.PublishedAt); err == nil {
		info.PublishedAt = &t
	}

	return info
}

func pickThumbnail(thumbnails *youtube.ThumbnailDetails) string {
	if thumbnails == nil {
		return ""
	}
	if thumbnails.High != nil {
		return thumbnails.High.Url
	}
	if thumbnails.Default != nil {
		return thumbnails.Default.Url
	}
	return ""
}

// parseAPITime parses RFC3339 timestamps from the API.
func parseAPITime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	return time.Parse(time.RFC3339, s)
}

// ParseVideoDuration converts an ISO 8601 duration to seconds.
// Example: "PT4M13S" -> 253 seconds.
func ParseVideoDuration(duration string) (int, error) {
	if !strings.HasPrefix(duration, "PT") {
		return 0, fmt.Errorf("invalid duration format: %s", duration)
	}

	duration = strings.TrimPrefix(duration, "PT")

	var hours, minutes, seconds int

	if hIdx := strings.Index(duration, "H"); hIdx != -1 {
		h, err := strconv.Atoi(duration[:hIdx])
		if err != nil {
			return 0, err
		}
		hours = h
		duration = duration[hIdx+1:]
	}

	if mIdx := strings.Index(duration, "M"); mIdx != -1 {
		m, err := strconv.Atoi(duration[:mIdx])
		if err != nil {
			return 0, err
		}
		minutes = m
		duration = duration[mIdx+1:]
	}

	if sIdx := strings.Index(duration, "S"); sIdx != -1 {
		s, err := strconv.Atoi(duration[:sIdx])
		if err != nil {
			return 0, err
		}
		seconds = s
	}

	return hours*3600 + minutes*60 + seconds, nil
}
