package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db/models"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db/repository"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/youtube"
)

// In-memory repository fakes. They model just enough behavior for the
// services under test; persistence semantics live in the repository
// integration tests.

type fakeChannelRepo struct {
	channels map[string]*models.Channel
	nextID   int64

	aggregates struct {
		id          int64
		views       int64
		subscribers int64
		videos      int64
		called      bool
	}
	listErr error
}

func newFakeChannelRepo() *fakeChannelRepo {
	return &fakeChannelRepo{channels: make(map[string]*models.Channel)}
}

func (f *fakeChannelRepo) UpsertChannel(ctx context.Context, channel *models.Channel) error {
	if existing, ok := f.channels[channel.ChannelID]; ok {
		channel.ID = existing.ID
		channel.CreatedAt = existing.CreatedAt
	} else {
		f.nextID++
		channel.ID = f.nextID
		channel.CreatedAt = time.Now()
	}
	channel.UpdatedAt = time.Now()
	stored := *channel
	f.channels[channel.ChannelID] = &stored
	return nil
}

func (f *fakeChannelRepo) GetByChannelID(ctx context.Context, channelID string) (*models.Channel, error) {
	channel, ok := f.channels[channelID]
	if !ok {
		return nil, db.WrapError(db.ErrNotFound, "get channel")
	}
	copied := *channel
	return &copied, nil
}

func (f *fakeChannelRepo) GetByID(ctx context.Context, id int64) (*models.Channel, error) {
	for _, channel := range f.channels {
		if channel.ID == id {
			copied := *channel
			return &copied, nil
		}
	}
	return nil, db.WrapError(db.ErrNotFound, "get channel")
}

func (f *fakeChannelRepo) GetLatestForUser(ctx context.Context, userID int64) (*models.Channel, error) {
	var latest *models.Channel
	for _, channel := range f.channels {
		if channel.UserID != userID {
			continue
		}
		if latest == nil || channel.UpdatedAt.After(latest.UpdatedAt) {
			latest = channel
		}
	}
	if latest == nil {
		return nil, db.WrapError(db.ErrNotFound, "get latest channel")
	}
	copied := *latest
	return &copied, nil
}

func (f *fakeChannelRepo) ListAll(ctx context.Context) ([]*models.Channel, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*models.Channel, 0, len(f.channels))
	for _, channel := range f.channels {
		copied := *channel
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeChannelRepo) UpdateAggregates(ctx context.Context, id int64, viewCount, subscriberCount, videoCount int64) error {
	f.aggregates.id = id
	f.aggregates.views = viewCount
	f.aggregates.subscribers = subscriberCount
	f.aggregates.videos = videoCount
	f.aggregates.called = true
	for _, channel := range f.channels {
		if channel.ID == id {
			now := time.Now()
			channel.ViewCount = viewCount
			channel.SubscriberCount = subscriberCount
			channel.VideoCount = videoCount
			channel.LastSyncedAt = &now
		}
	}
	return nil
}

type fakeVideoRepo struct {
	videos map[string]*models.Video
	nextID int64

	topEngaging []*models.Video
	topLimit    int
	sumViews    int64
	sumLikes    int64
	sumComments int64
	count       int64
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{videos: make(map[string]*models.Video)}
}

func (f *fakeVideoRepo) UpsertVideo(ctx context.Context, video *models.Video) error {
	if existing, ok := f.videos[video.VideoID]; ok {
		video.ID = existing.ID
	} else {
		f.nextID++
		video.ID = f.nextID
	}
	stored := *video
	f.videos[video.VideoID] = &stored
	return nil
}

func (f *fakeVideoRepo) GetByVideoID(ctx context.Context, videoID string) (*models.Video, error) {
	video, ok := f.videos[videoID]
	if !ok {
		return nil, db.WrapError(db.ErrNotFound, "get video")
	}
	copied := *video
	return &copied, nil
}

func (f *fakeVideoRepo) ListByChannel(ctx context.Context, channelID int64, limit int) ([]*models.Video, error) {
	var out []*models.Video
	for _, video := range f.videos {
		if video.ChannelID == channelID {
			copied := *video
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeVideoRepo) TopEngaging(ctx context.Context, channelID int64, limit int) ([]*models.Video, error) {
	f.topLimit = limit
	return f.topEngaging, nil
}

func (f *fakeVideoRepo) SumCounts(ctx context.Context, channelID int64) (int64, int64, int64, error) {
	return f.sumViews, f.sumLikes, f.sumComments, nil
}

func (f *fakeVideoRepo) CountByChannel(ctx context.Context, channelID int64) (int64, error) {
	return f.count, nil
}

type fakeSyncCommentRepo struct {
	created       []*models.Comment
	existing      map[string]bool
	counts        map[string]int64
	emotionCounts map[string]int64
	totalCount    int64

	labeled      []*repository.CommentWithVideo
	labeledTotal int64
	gotLabel     string
	gotLimit     int
	gotOffset    int
}

func newFakeSyncCommentRepo() *fakeSyncCommentRepo {
	return &fakeSyncCommentRepo{existing: make(map[string]bool)}
}

func (f *fakeSyncCommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	f.created = append(f.created, comment)
	f.existing[comment.CommentID] = true
	return nil
}

func (f *fakeSyncCommentRepo) ExistsByCommentID(ctx context.Context, commentID string) (bool, error) {
	return f.existing[commentID], nil
}

func (f *fakeSyncCommentRepo) ListUnanalyzed(ctx context.Context, limit int) ([]*models.Comment, error) {
	return nil, nil
}

func (f *fakeSyncCommentRepo) UpdateAnalysis(ctx context.Context, comment *models.Comment) error {
	return nil
}

func (f *fakeSyncCommentRepo) CountByChannel(ctx context.Context, channelID int64) (int64, error) {
	return f.totalCount, nil
}

func (f *fakeSyncCommentRepo) SentimentCountsByChannel(ctx context.Context, channelID int64) (map[string]int64, error) {
	return f.counts, nil
}

func (f *fakeSyncCommentRepo) EmotionCountsByChannel(ctx context.Context, channelID int64) (map[string]int64, error) {
	return f.emotionCounts, nil
}

func (f *fakeSyncCommentRepo) ListBySentiment(ctx context.Context, channelID int64, sentiment string, limit, offset int) ([]*repository.CommentWithVideo, int64, error) {
	f.gotLabel = sentiment
	f.gotLimit = limit
	f.gotOffset = offset
	return f.labeled, f.labeledTotal, nil
}

func (f *fakeSyncCommentRepo) ListByEmotion(ctx context.Context, channelID int64, emotion string, limit, offset int) ([]*repository.CommentWithVideo, int64, error) {
	f.gotLabel = emotion
	f.gotLimit = limit
	f.gotOffset = offset
	return f.labeled, f.labeledTotal, nil
}

type fakeSnapshotRepo struct {
	upserted []*models.Snapshot
	first    *models.Snapshot
	latest   *models.Snapshot
	byRange  []*models.Snapshot
}

func (f *fakeSnapshotRepo) Upsert(ctx context.Context, snapshot *models.Snapshot) error {
	snapshot.ID = int64(len(f.upserted) + 1)
	f.upserted = append(f.upserted, snapshot)
	return nil
}

func (f *fakeSnapshotRepo) GetRange(ctx context.Context, channelID int64, from, to time.Time) ([]*models.Snapshot, error) {
	var out []*models.Snapshot
	for _, snapshot := range f.byRange {
		if snapshot.Date.Before(from) || snapshot.Date.After(to) {
			continue
		}
		out = append(out, snapshot)
	}
	return out, nil
}

func (f *fakeSnapshotRepo) GetFirst(ctx context.Context, channelID int64) (*models.Snapshot, error) {
	if f.first == nil {
		return nil, db.WrapError(db.ErrNotFound, "get first snapshot")
	}
	return f.first, nil
}

func (f *fakeSnapshotRepo) GetLatestBefore(ctx context.Context, channelID int64, date time.Time) (*models.Snapshot, error) {
	if f.latest == nil {
		return nil, db.WrapError(db.ErrNotFound, "get latest snapshot")
	}
	return f.latest, nil
}

type fakeJobRepo struct {
	pending []*models.AnalyzeJob
	updated []*models.AnalyzeJob
}

func (f *fakeJobRepo) Create(ctx context.Context, job *models.AnalyzeJob) error {
	f.pending = append(f.pending, job)
	return nil
}

func (f *fakeJobRepo) GetByIDForUser(ctx context.Context, id uuid.UUID, userID int64) (*models.AnalyzeJob, error) {
	for _, job := range f.pending {
		if job.ID == id && job.UserID == userID {
			return job, nil
		}
	}
	return nil, db.WrapError(db.ErrNotFound, "get job")
}

func (f *fakeJobRepo) ClaimNextPending(ctx context.Context) (*models.AnalyzeJob, error) {
	for _, job := range f.pending {
		if job.Status == models.JobStatusPending {
			job.MarkRunning()
			return job, nil
		}
	}
	return nil, db.WrapError(db.ErrNotFound, "claim job")
}

func (f *fakeJobRepo) Update(ctx context.Context, job *models.AnalyzeJob) error {
	f.updated = append(f.updated, job)
	return nil
}

type fakeVideoStatRepo struct {
	inserted []*models.VideoStatHistory
	deleted  int64
	cutoff   time.Time
}

func (f *fakeVideoStatRepo) InsertBatch(ctx context.Context, stats []*models.VideoStatHistory) error {
	f.inserted = append(f.inserted, stats...)
	return nil
}

func (f *fakeVideoStatRepo) ListByVideo(ctx context.Context, videoID int64, since time.Time) ([]*models.VideoStatHistory, error) {
	return nil, nil
}

func (f *fakeVideoStatRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.deleted, nil
}

// fakeYouTubeAPI serves canned channel, video and comment data.
type fakeYouTubeAPI struct {
	channels      map[string]*youtube.ChannelInfo
	byHandle      map[string]*youtube.ChannelInfo
	byUsername    map[string]*youtube.ChannelInfo
	uploads       map[string][]string
	searchResults []string
	videos        map[string]*youtube.VideoInfo
	comments      map[string][]*youtube.CommentInfo
	commentErr    map[string]error

	searchCalled  bool
	commentLimits []int
}

func newFakeYouTubeAPI() *fakeYouTubeAPI {
	return &fakeYouTubeAPI{
		channels:   make(map[string]*youtube.ChannelInfo),
		byHandle:   make(map[string]*youtube.ChannelInfo),
		byUsername: make(map[string]*youtube.ChannelInfo),
		uploads:    make(map[string][]string),
		videos:     make(map[string]*youtube.VideoInfo),
		comments:   make(map[string][]*youtube.CommentInfo),
		commentErr: make(map[string]error),
	}
}

func (f *fakeYouTubeAPI) GetChannelByID(ctx context.Context, channelID string) (*youtube.ChannelInfo, error) {
	info, ok := f.channels[channelID]
	if !ok {
		return nil, youtube.ErrChannelNotFound
	}
	return info, nil
}

func (f *fakeYouTubeAPI) GetChannelByHandle(ctx context.Context, handle string) (*youtube.ChannelInfo, error) {
	info, ok := f.byHandle[handle]
	if !ok {
		return nil, youtube.ErrChannelNotFound
	}
	return info, nil
}

func (f *fakeYouTubeAPI) GetChannelByUsername(ctx context.Context, username string) (*youtube.ChannelInfo, error) {
	info, ok := f.byUsername[username]
	if !ok {
		return nil, youtube.ErrChannelNotFound
	}
	return info, nil
}

func (f *fakeYouTubeAPI) ListUploadVideoIDs(ctx context.Context, uploadsPlaylistID string, maxVideos int) ([]string, error) {
	return f.uploads[uploadsPlaylistID], nil
}

func (f *fakeYouTubeAPI) SearchVideoIDs(ctx context.Context, channelID string, maxResults int) ([]string, error) {
	f.searchCalled = true
	return f.searchResults, nil
}

func (f *fakeYouTubeAPI) GetVideosByIDs(ctx context.Context, videoIDs []string) ([]*youtube.VideoInfo, error) {
	out := make([]*youtube.VideoInfo, 0, len(videoIDs))
	for _, id := range videoIDs {
		if info, ok := f.videos[id]; ok {
			out = append(out, info)
		}
	}
	return out, nil
}

func (f *fakeYouTubeAPI) GetComments(ctx context.Context, videoID string, maxComments int) ([]*youtube.CommentInfo, error) {
	f.commentLimits = append(f.commentLimits, maxComments)
	if err := f.commentErr[videoID]; err != nil {
		return nil, err
	}
	return f.comments[videoID], nil
}

type fakePublisher struct {
	events []*SyncEvent
	err    error
}

func (f *fakePublisher) PublishSyncCompleted(ctx context.Context, event *SyncEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}
