package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/config"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db/models"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db/repository"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/metrics"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/parser"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/youtube"
	"github.com/channel-insights/youtube-analytics-ingestion-go/pkg/logger"
)

// YouTubeAPI is the slice of the YouTube client the sync engine depends on.
type YouTubeAPI interface {
	GetChannelByID(ctx context.Context, channelID string) (*youtube.ChannelInfo, error)
	GetChannelByHandle(ctx context.Context, handle string) (*youtube.ChannelInfo, error)
	GetChannelByUsername(ctx context.Context, username string) (*youtube.ChannelInfo, error)
	ListUploadVideoIDs(ctx context.Context, uploadsPlaylistID string, maxVideos int) ([]string, error)
	SearchVideoIDs(ctx context.Context, channelID string, maxResults int) ([]string, error)
	GetVideosByIDs(ctx context.Context, videoIDs []string) ([]*youtube.VideoInfo, error)
	GetComments(ctx context.Context, videoID string, maxComments int) ([]*youtube.CommentInfo, error)
}

// EventPublisher emits a sync-completed event to the message broker.
type EventPublisher interface {
	PublishSyncCompleted(ctx context.Context, event *SyncEvent) error
}

// SyncResult summarizes a completed channel sync.
type SyncResult struct {
	ChannelInternalID int64
	ChannelID         string
	ChannelName       string
	VideoCount        int
	Message           string
}

// SyncService drives the full ingestion of a channel: resolution, video and
// comment upserts, the daily snapshot, and the per-video stat history.
type SyncService struct {
	api         YouTubeAPI
	channelRepo repository.ChannelRepository
	videoRepo   repository.VideoRepository
	commentRepo repository.CommentRepository
	snapRepo    repository.SnapshotRepository
	history     *HistoryService
	publisher   EventPublisher
	cfg         config.SyncConfig
}

// NewSyncService creates a SyncService. publisher may be nil, which disables
// sync-completed events.
func NewSyncService(
	api YouTubeAPI,
	channelRepo repository.ChannelRepository,
	videoRepo repository.VideoRepository,
	commentRepo repository.CommentRepository,
	snapRepo repository.SnapshotRepository,
	history *HistoryService,
	publisher EventPublisher,
	cfg config.SyncConfig,
) *SyncService {
	return &SyncService{
		api:         api,
		channelRepo: channelRepo,
		videoRepo:   videoRepo,
		commentRepo: commentRepo,
		snapRepo:    snapRepo,
		history:     history,
		publisher:   publisher,
		cfg:         cfg,
	}
}

// AnalyzeURL resolves a channel URL, ingests the channel, and returns a
// summary. This is the operation an analyze job executes.
func (s *SyncService) AnalyzeURL(ctx context.Context, userID int64, url string) (*SyncResult, error) {
	ref, err := parser.Parse(url)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid YouTube URL: %s", db.ErrInvalidInput, url)
	}

	var info *youtube.ChannelInfo
	switch ref.Kind {
	case parser.KindChannelID:
		info, err = s.api.GetChannelByID(ctx, ref.ID)
	case parser.KindHandle:
		info, err = s.api.GetChannelByHandle(ctx, ref.ID)
	case parser.KindUsername:
		info, err = s.api.GetChannelByUsername(ctx, ref.ID)
	case parser.KindVideo:
		return nil, fmt.Errorf("%w: video URLs are not supported, paste a channel URL", db.ErrInvalidInput)
	default:
		return nil, fmt.Errorf("%w: unsupported YouTube URL: %s", db.ErrInvalidInput, url)
	}
	if err != nil {
		return nil, err
	}

	channel, err := s.upsertChannel(ctx, userID, info)
	if err != nil {
		return nil, err
	}

	videoCount, err := s.syncChannelData(ctx, channel, info, s.cfg.FetchCommentsOnSync)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Channel synced",
		zap.String("channel_id", info.ChannelID),
		zap.Int("videos", videoCount))

	return &SyncResult{
		ChannelInternalID: channel.ID,
		ChannelID:         channel.ChannelID,
		ChannelName:       channel.ChannelName,
		VideoCount:        videoCount,
		Message:           "Channel data synced successfully",
	}, nil
}

// RefreshChannel re-ingests an already tracked channel. Used by the nightly
// sweep.
func (s *SyncService) RefreshChannel(ctx context.Context, channel *models.Channel, includeComments bool) error {
	info, err := s.api.GetChannelByID(ctx, channel.ChannelID)
	if err != nil {
		return err
	}

	channel, err = s.upsertChannel(ctx, channel.UserID, info)
	if err != nil {
		return err
	}

	_, err = s.syncChannelData(ctx, channel, info, includeComments)
	return err
}

func (s *SyncService) upsertChannel(ctx context.Context, userID int64, info *youtube.ChannelInfo) (*models.Channel, error) {
	channel := models.NewChannel(info.ChannelID, userID, info.Title)
	channel.Description = info.Description
	channel.AvatarURL = info.ThumbnailURL
	channel.SubscriberCount = info.SubscriberCount
	channel.ViewCount = info.ViewCount
	channel.VideoCount = info.VideoCount
	channel.UploadsPlaylistID = info.UploadsPlaylistID

	if err := s.channelRepo.UpsertChannel(ctx, channel); err != nil {
		return nil, fmt.Errorf("upsert channel %s: %w", info.ChannelID, err)
	}
	return channel, nil
}

func (s *SyncService) syncChannelData(ctx context.Context, channel *models.Channel, info *youtube.ChannelInfo, includeComments bool) (int, error) {
	start := time.Now()

	infos, err := s.fetchChannelVideos(ctx, info)
	if err != nil {
		return 0, err
	}

	videos, err := s.storeVideos(ctx, channel, infos)
	if err != nil {
		return 0, err
	}
	metrics.VideosUpserted.Add(float64(len(videos)))

	if includeComments && s.cfg.CommentsPerVideo != 0 {
		s.syncComments(ctx, videos)
	}

	if err := s.updateSnapshot(ctx, channel, info, infos); err != nil {
		return 0, err
	}

	if err := s.channelRepo.UpdateAggregates(ctx, channel.ID, info.ViewCount, info.SubscriberCount, info.VideoCount); err != nil {
		return 0, fmt.Errorf("update channel aggregates: %w", err)
	}

	if err := s.history.RecordSnapshots(ctx, videos); err != nil {
		return 0, fmt.Errorf("record video stat history: %w", err)
	}

	metrics.SyncDuration.Observe(time.Since(start).Seconds())

	if s.publisher != nil {
		event := NewSyncEvent(channel.ChannelID, len(videos))
		if err := s.publisher.PublishSyncCompleted(ctx, event); err != nil {
			logger.Log.Warn("Failed to publish sync event",
				zap.String("channel_id", channel.ChannelID),
				zap.Error(err))
		}
	}

	return len(videos), nil
}

// fetchChannelVideos prefers the uploads playlist; channels without one fall
// back to the far more quota-expensive search endpoint.
func (s *SyncService) fetchChannelVideos(ctx context.Context, info *youtube.ChannelInfo) ([]*youtube.VideoInfo, error) {
	var (
		videoIDs []string
		err      error
	)

	if info.UploadsPlaylistID != "" {
		videoIDs, err = s.api.ListUploadVideoIDs(ctx, info.UploadsPlaylistID, s.cfg.MaxVideos)
	} else {
		limit := s.cfg.MaxVideos
		if limit <= 0 {
			limit = 50
		}
		videoIDs, err = s.api.SearchVideoIDs(ctx, info.ChannelID, limit)
	}
	if err != nil {
		return nil, err
	}

	return s.api.GetVideosByIDs(ctx, videoIDs)
}

func (s *SyncService) storeVideos(ctx context.Context, channel *models.Channel, infos []*youtube.VideoInfo) ([]*models.Video, error) {
	videos := make([]*models.Video, 0, len(infos))
	for _, info := range infos {
		video := &models.Video{
			VideoID:         info.VideoID,
			ChannelID:       channel.ID,
			Title:           info.Title,
			Description:     info.Description,
			ThumbnailURL:    info.ThumbnailURL,
			DurationSeconds: info.DurationSeconds,
			ViewCount:       info.ViewCount,
			LikeCount:       info.LikeCount,
			CommentCount:    info.CommentCount,
			PublishedAt:     info.PublishedAt,
		}
		if err := s.videoRepo.UpsertVideo(ctx, video); err != nil {
			return nil, fmt.Errorf("upsert video %s: %w", info.VideoID, err)
		}
		videos = append(videos, video)
	}
	return videos, nil
}

// syncComments ingests comments video by video. A failure on one video is
// logged and skipped; the remaining videos still get their comments.
func (s *SyncService) syncComments(ctx context.Context, videos []*models.Video) {
	for _, video := range videos {
		comments, err := s.api.GetComments(ctx, video.VideoID, s.cfg.CommentsPerVideo)
		if err != nil {
			logger.Log.Warn("Failed to fetch comments",
				zap.String("video_id", video.VideoID),
				zap.Error(err))
			continue
		}

		for _, info := range comments {
			exists, err := s.commentRepo.ExistsByCommentID(ctx, info.CommentID)
			if err != nil {
				logger.Log.Warn("Failed to check comment existence",
					zap.String("comment_id", info.CommentID),
					zap.Error(err))
				continue
			}
			if exists {
				continue
			}

			comment := &models.Comment{
				CommentID:       info.CommentID,
				VideoID:         video.ID,
				ParentCommentID: info.ParentCommentID,
				AuthorName:      info.AuthorName,
				AuthorAvatar:    info.AuthorAvatar,
				Content:         info.Text,
				LikeCount:       info.LikeCount,
				PublishedAt:     info.PublishedAt,
			}
			if err := s.commentRepo.Create(ctx, comment); err != nil {
				logger.Log.Warn("Failed to store comment",
					zap.String("comment_id", info.CommentID),
					zap.Error(err))
				continue
			}
			metrics.CommentsIngested.Inc()
		}
	}
}

// updateSnapshot writes the day's cumulative totals. Channel-level counters
// are preferred; likes are always summed from the fetched videos because the
// API has no channel-level like counter.
func (s *SyncService) updateSnapshot(ctx context.Context, channel *models.Channel, info *youtube.ChannelInfo, videos []*youtube.VideoInfo) error {
	var videoViews, videoLikes, videoComments int64
	for _, v := range videos {
		videoViews += v.ViewCount
		videoLikes += v.LikeCount
		videoComments += v.CommentCount
	}

	totalViews := info.ViewCount
	if totalViews == 0 {
		totalViews = videoViews
	}

	snapshot := &models.Snapshot{
		ChannelID:       channel.ID,
		Date:            truncateToDay(time.Now()),
		ViewCount:       totalViews,
		LikeCount:       videoLikes,
		CommentCount:    videoComments,
		SubscriberCount: info.SubscriberCount,
		VideoCount:      info.VideoCount,
	}
	if err := s.snapRepo.Upsert(ctx, snapshot); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

func truncateToDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
