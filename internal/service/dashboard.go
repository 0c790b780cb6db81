package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db/models"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db/repository"
)

// DashboardService serves read-side analytics: metrics with comparisons,
// trend series, top videos, and sentiment summaries.
type DashboardService struct {
	channelRepo repository.ChannelRepository
	videoRepo   repository.VideoRepository
	commentRepo repository.CommentRepository
	snapRepo    repository.SnapshotRepository
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(
	channelRepo repository.ChannelRepository,
	videoRepo repository.VideoRepository,
	commentRepo repository.CommentRepository,
	snapRepo repository.SnapshotRepository,
) *DashboardService {
	return &DashboardService{
		channelRepo: channelRepo,
		videoRepo:   videoRepo,
		commentRepo: commentRepo,
		snapRepo:    snapRepo,
	}
}

// MetricsComparison compares a current metric value against the most recent
// prior snapshot.
type MetricsComparison struct {
	CurrentValue     int64    `json:"current_value"`
	PreviousValue    *int64   `json:"previous_value"`
	Change           *int64   `json:"change"`
	ChangePercentage *float64 `json:"change_percentage"`
	Trend            string   `json:"trend"`
	DaysSinceLast    *int64   `json:"days_since_last_sync"`
}

// DashboardMetrics is the headline metrics payload.
type DashboardMetrics struct {
	ChannelInternalID  int64             `json:"channel_internal_id"`
	ChannelID          string            `json:"channel_id"`
	ChannelName        string            `json:"channel_name"`
	AvatarURL          string            `json:"avatar_url,omitempty"`
	SubscriberCount    int64             `json:"subscriber_count"`
	LastSyncedAt       *time.Time        `json:"last_synced_at,omitempty"`
	TotalVideos        int64             `json:"total_videos"`
	TotalViews         int64             `json:"total_views"`
	TotalLikes         int64             `json:"total_likes"`
	TotalComments      int64             `json:"total_comments"`
	ViewsComparison    MetricsComparison `json:"views_comparison"`
	LikesComparison    MetricsComparison `json:"likes_comparison"`
	CommentsComparison MetricsComparison `json:"comments_comparison"`
	VideosComparison   MetricsComparison `json:"videos_comparison"`
	PreviousSyncDate   *time.Time        `json:"previous_sync_date,omitempty"`
}

// TrendPoint is one day of a delta series.
type TrendPoint struct {
	Date     string `json:"date"`
	Views    int64  `json:"views"`
	Likes    int64  `json:"likes"`
	Comments int64  `json:"comments"`
}

// TrendSeries is a per-day delta series over an inclusive date range.
type TrendSeries struct {
	ChannelID string       `json:"channel_id"`
	StartDate string       `json:"start_date"`
	EndDate   string       `json:"end_date"`
	Points    []TrendPoint `json:"points"`
}

// TopVideo is one entry of the engagement ranking.
type TopVideo struct {
	ID           int64      `json:"id"`
	VideoID      string     `json:"video_id"`
	Title        string     `json:"title"`
	ThumbnailURL string     `json:"thumbnail_url,omitempty"`
	ViewCount    int64      `json:"view_count"`
	LikeCount    int64      `json:"like_count"`
	CommentCount int64      `json:"comment_count"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
}

// SentimentSummary aggregates classified comments for a channel.
type SentimentSummary struct {
	TotalComments int64   `json:"total_comments"`
	PositiveCount int64   `json:"positive_count"`
	NegativeCount int64   `json:"negative_count"`
	NeutralCount  int64   `json:"neutral_count"`
	PositiveRatio float64 `json:"positive_ratio"`
	NegativeRatio float64 `json:"negative_ratio"`
	NeutralRatio  float64 `json:"neutral_ratio"`
}

// GrowthPoint is one day of the view growth series.
type GrowthPoint struct {
	Date       string  `json:"date"`
	ViewGrowth int64   `json:"view_growth"`
	GrowthRate float64 `json:"growth_rate"`
}

// ViewGrowth is the per-day view delta series with growth rates.
type ViewGrowth struct {
	ChannelID string        `json:"channel_id"`
	Period    string        `json:"period"`
	StartDate string        `json:"start_date"`
	EndDate   string        `json:"end_date"`
	Points    []GrowthPoint `json:"points"`
}

// InteractionPoint is one day of a single-metric delta series.
type InteractionPoint struct {
	Date  string `json:"date"`
	Value int64  `json:"value"`
}

// Interactions is a delta series filtered to one metric.
type Interactions struct {
	ChannelID string             `json:"channel_id"`
	Type      string             `json:"type"`
	StartDate string             `json:"start_date"`
	EndDate   string             `json:"end_date"`
	Points    []InteractionPoint `json:"points"`
}

// PostingRecommendation is one suggested publish slot.
type PostingRecommendation struct {
	Time               string  `json:"time"`
	Reason             string  `json:"reason"`
	ExpectedEngagement float64 `json:"expected_engagement"`
}

// OptimalPostingTime ranks publish hours and weekdays by the engagement of
// the videos published in them.
type OptimalPostingTime struct {
	ChannelID       string                  `json:"channel_id"`
	OptimalHours    []int                   `json:"optimal_hours"`
	OptimalDays     []string                `json:"optimal_days"`
	Recommendations []PostingRecommendation `json:"recommendations"`
}

// CommentVideoInfo is the video display context of a browsed comment.
type CommentVideoInfo struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// CommentView is one comment in a browsing page.
type CommentView struct {
	ID           int64            `json:"id"`
	AuthorName   string           `json:"author_name,omitempty"`
	AuthorAvatar string           `json:"author_avatar,omitempty"`
	Content      string           `json:"content"`
	LikeCount    int64            `json:"like_count"`
	Sentiment    *string          `json:"sentiment,omitempty"`
	Emotion      *string          `json:"emotion,omitempty"`
	PublishedAt  *time.Time       `json:"published_at,omitempty"`
	Video        CommentVideoInfo `json:"video"`
}

// CommentPage is a page of comments filtered by classification label.
type CommentPage struct {
	Items  []CommentView `json:"items"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// EmotionChart carries classified-comment counts per sentiment and per
// emotion label for chart rendering.
type EmotionChart struct {
	Sentiment map[string]int64 `json:"sentiment"`
	Emotion   map[string]int64 `json:"emotion"`
}

// ResolveChannel finds the channel a request refers to. An explicit
// identifier looks up by external channel id; empty falls back to the user's
// most recently updated channel. Channels owned by other users resolve to
// not found.
func (s *DashboardService) ResolveChannel(ctx context.Context, userID int64, identifier string) (*models.Channel, error) {
	var (
		channel *models.Channel
		err     error
	)

	identifier = strings.TrimSpace(identifier)
	if identifier != "" {
		channel, err = s.channelRepo.GetByChannelID(ctx, identifier)
	} else {
		channel, err = s.channelRepo.GetLatestForUser(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	if channel.UserID != userID {
		return nil, db.WrapError(db.ErrNotFound, "resolve channel")
	}
	return channel, nil
}

// GetMetrics returns headline totals with comparisons against the most
// recent snapshot before today.
func (s *DashboardService) GetMetrics(ctx context.Context, userID int64, identifier string) (*DashboardMetrics, error) {
	channel, err := s.ResolveChannel(ctx, userID, identifier)
	if err != nil {
		return nil, err
	}

	totalVideos := channel.VideoCount
	if totalVideos == 0 {
		totalVideos, err = s.videoRepo.CountByChannel(ctx, channel.ID)
		if err != nil {
			return nil, err
		}
	}

	sumViews, sumLikes, sumComments, err := s.videoRepo.SumCounts(ctx, channel.ID)
	if err != nil {
		return nil, err
	}

	totalViews := channel.ViewCount
	if totalViews == 0 {
		totalViews = sumViews
	}
	totalLikes := sumLikes
	totalComments := sumComments
	if totalComments == 0 {
		totalComments, err = s.commentRepo.CountByChannel(ctx, channel.ID)
		if err != nil {
			return nil, err
		}
	}

	metrics := &DashboardMetrics{
		ChannelInternalID: channel.ID,
		ChannelID:         channel.ChannelID,
		ChannelName:       channel.ChannelName,
		AvatarURL:         channel.AvatarURL,
		SubscriberCount:   channel.SubscriberCount,
		LastSyncedAt:      channel.LastSyncedAt,
		TotalVideos:       totalVideos,
		TotalViews:        totalViews,
		TotalLikes:        totalLikes,
		TotalComments:     totalComments,
	}

	previous, err := s.snapRepo.GetLatestBefore(ctx, channel.ID, truncateToDay(time.Now()))
	if err != nil {
		if !db.IsNotFound(err) {
			return nil, err
		}
		metrics.ViewsComparison = compareAgainst(totalViews, nil, nil)
		metrics.LikesComparison = compareAgainst(totalLikes, nil, nil)
		metrics.CommentsComparison = compareAgainst(totalComments, nil, nil)
		metrics.VideosComparison = compareAgainst(totalVideos, nil, nil)
		return metrics, nil
	}

	metrics.ViewsComparison = compareAgainst(totalViews, &previous.ViewCount, &previous.Date)
	metrics.LikesComparison = compareAgainst(totalLikes, &previous.LikeCount, &previous.Date)
	metrics.CommentsComparison = compareAgainst(totalComments, &previous.CommentCount, &previous.Date)
	metrics.VideosComparison = compareAgainst(totalVideos, &previous.VideoCount, &previous.Date)
	metrics.PreviousSyncDate = &previous.CreatedAt

	return metrics, nil
}

func compareAgainst(current int64, previous *int64, previousDate *time.Time) MetricsComparison {
	if previous == nil || previousDate == nil {
		return MetricsComparison{CurrentValue: current, Trend: "stable"}
	}

	change := current - *previous
	var pct float64
	if *previous > 0 {
		pct = float64(change) / float64(*previous) * 100.0
	} else if change > 0 {
		pct = 100.0
	}
	pct = math.Round(pct*100) / 100

	trend := "stable"
	if change > 0 {
		trend = "up"
	} else if change < 0 {
		trend = "down"
	}

	days := int64(time.Since(truncateToDay(*previousDate)).Hours() / 24)

	return MetricsComparison{
		CurrentValue:     current,
		PreviousValue:    previous,
		Change:           &change,
		ChangePercentage: &pct,
		Trend:            trend,
		DaysSinceLast:    &days,
	}
}

// GetTrends builds the per-day delta series for a channel. Days without a
// snapshot carry zero cumulative values; deltas are clamped at zero so a
// shrinking counter never produces a negative bar.
func (s *DashboardService) GetTrends(ctx context.Context, userID int64, identifier string, startDate, endDate *time.Time) (*TrendSeries, error) {
	channel, err := s.ResolveChannel(ctx, userID, identifier)
	if err != nil {
		return nil, err
	}

	end := truncateToDay(time.Now())
	if endDate != nil {
		end = truncateToDay(*endDate)
	}

	var start time.Time
	switch {
	case startDate != nil:
		start = truncateToDay(*startDate)
	default:
		first, err := s.snapRepo.GetFirst(ctx, channel.ID)
		switch {
		case err == nil:
			start = truncateToDay(first.Date)
		case db.IsNotFound(err):
			if !channel.CreatedAt.IsZero() {
				start = truncateToDay(channel.CreatedAt)
			} else {
				start = end.AddDate(0, 0, -29)
			}
		default:
			return nil, err
		}
	}

	if start.After(end) {
		start, end = end, start
	}

	snapshots, err := s.snapRepo.GetRange(ctx, channel.ID, start, end)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]*models.Snapshot, len(snapshots))
	for _, snapshot := range snapshots {
		key := dateKey(snapshot.Date)
		if _, ok := byDate[key]; !ok {
			byDate[key] = snapshot
		}
	}

	var points []TrendPoint
	for cursor := start; !cursor.After(end); cursor = cursor.AddDate(0, 0, 1) {
		point := TrendPoint{Date: dateKey(cursor)}
		if snapshot, ok := byDate[point.Date]; ok {
			point.Views = snapshot.ViewCount
			point.Likes = snapshot.LikeCount
			point.Comments = snapshot.CommentCount
		}
		points = append(points, point)
	}

	var prevViews, prevLikes, prevComments int64
	for i := range points {
		cumViews, cumLikes, cumComments := points[i].Views, points[i].Likes, points[i].Comments

		points[i].Views = clampDelta(cumViews - prevViews)
		points[i].Likes = clampDelta(cumLikes - prevLikes)
		points[i].Comments = clampDelta(cumComments - prevComments)

		prevViews, prevLikes, prevComments = cumViews, cumLikes, cumComments
	}

	return &TrendSeries{
		ChannelID: channel.ChannelID,
		StartDate: dateKey(start),
		EndDate:   dateKey(end),
		Points:    points,
	}, nil
}

// GetTopVideos ranks a channel's videos by likes plus comments, ties broken
// by raw views. The limit is clamped to [1, 20].
func (s *DashboardService) GetTopVideos(ctx context.Context, userID int64, identifier string, limit int) ([]TopVideo, error) {
	channel, err := s.ResolveChannel(ctx, userID, identifier)
	if err != nil {
		return nil, err
	}

	if limit < 1 {
		limit = 1
	}
	if limit > 20 {
		limit = 20
	}

	videos, err := s.videoRepo.TopEngaging(ctx, channel.ID, limit)
	if err != nil {
		return nil, err
	}

	out := make([]TopVideo, 0, len(videos))
	for _, video := range videos {
		out = append(out, TopVideo{
			ID:           video.ID,
			VideoID:      video.VideoID,
			Title:        video.Title,
			ThumbnailURL: video.ThumbnailURL,
			ViewCount:    video.ViewCount,
			LikeCount:    video.LikeCount,
			CommentCount: video.CommentCount,
			PublishedAt:  video.PublishedAt,
		})
	}
	return out, nil
}

// GetSentimentSummary aggregates sentiment counts and ratios for a channel.
// Ratios are over all stored comments, not just analyzed ones, rounded to
// three decimals.
func (s *DashboardService) GetSentimentSummary(ctx context.Context, userID int64, identifier string) (*SentimentSummary, error) {
	channel, err := s.ResolveChannel(ctx, userID, identifier)
	if err != nil {
		return nil, err
	}

	total, err := s.commentRepo.CountByChannel(ctx, channel.ID)
	if err != nil {
		return nil, err
	}

	counts, err := s.commentRepo.SentimentCountsByChannel(ctx, channel.ID)
	if err != nil {
		return nil, err
	}

	summary := &SentimentSummary{TotalComments: total}
	for label, count := range counts {
		switch strings.ToLower(label) {
		case "positive":
			summary.PositiveCount += count
		case "negative":
			summary.NegativeCount += count
		case "neutral":
			summary.NeutralCount += count
		}
	}

	denominator := float64(total)
	if total == 0 {
		denominator = 1
	}
	summary.PositiveRatio = roundRatio(float64(summary.PositiveCount) / denominator)
	summary.NegativeRatio = roundRatio(float64(summary.NegativeCount) / denominator)
	summary.NeutralRatio = roundRatio(float64(summary.NeutralCount) / denominator)

	return summary, nil
}

// GetViewGrowth derives daily view growth and growth rate from the trend
// series over the channel's full history.
func (s *DashboardService) GetViewGrowth(ctx context.Context, userID int64, identifier, period string) (*ViewGrowth, error) {
	trends, err := s.GetTrends(ctx, userID, identifier, nil, nil)
	if err != nil {
		return nil, err
	}

	if period == "" {
		period = "daily"
	}

	var previous int64
	points := make([]GrowthPoint, 0, len(trends.Points))
	for _, trendPoint := range trends.Points {
		growth := trendPoint.Views - previous

		var rate float64
		if previous > 0 {
			rate = float64(growth) / float64(previous) * 100.0
		} else if growth > 0 {
			rate = 100.0
		}

		points = append(points, GrowthPoint{
			Date:       trendPoint.Date,
			ViewGrowth: clampDelta(growth),
			GrowthRate: math.Round(rate*100) / 100,
		})
		previous = trendPoint.Views
	}

	return &ViewGrowth{
		ChannelID: trends.ChannelID,
		Period:    period,
		StartDate: trends.StartDate,
		EndDate:   trends.EndDate,
		Points:    points,
	}, nil
}

// GetInteractions filters the trend series to a single metric. Unknown
// types yield zero-valued points.
func (s *DashboardService) GetInteractions(ctx context.Context, userID int64, identifier, interactionType string, startDate, endDate *time.Time) (*Interactions, error) {
	trends, err := s.GetTrends(ctx, userID, identifier, startDate, endDate)
	if err != nil {
		return nil, err
	}

	normalized := strings.ToLower(strings.TrimSpace(interactionType))
	if normalized == "" {
		normalized = "view"
	}

	points := make([]InteractionPoint, 0, len(trends.Points))
	for _, trendPoint := range trends.Points {
		var value int64
		switch normalized {
		case "view":
			value = trendPoint.Views
		case "like":
			value = trendPoint.Likes
		case "comment":
			value = trendPoint.Comments
		}
		points = append(points, InteractionPoint{Date: trendPoint.Date, Value: value})
	}

	return &Interactions{
		ChannelID: trends.ChannelID,
		Type:      normalized,
		StartDate: trends.StartDate,
		EndDate:   trends.EndDate,
		Points:    points,
	}, nil
}

// GetOptimalPostingTime scores each publish hour and weekday by the total
// engagement (views + likes*10 + comments*5) of the videos published in it,
// and derives up to five recommended slots from the top three of each.
func (s *DashboardService) GetOptimalPostingTime(ctx context.Context, userID int64, identifier string) (*OptimalPostingTime, error) {
	channel, err := s.ResolveChannel(ctx, userID, identifier)
	if err != nil {
		return nil, err
	}

	result := &OptimalPostingTime{
		ChannelID:       channel.ChannelID,
		OptimalHours:    []int{},
		OptimalDays:     []string{},
		Recommendations: []PostingRecommendation{},
	}

	videos, err := s.videoRepo.ListByChannel(ctx, channel.ID, 0)
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return result, nil
	}

	hourEngagement := make(map[int]int64)
	dayEngagement := make(map[time.Weekday]int64)
	for _, video := range videos {
		if video.PublishedAt == nil {
			continue
		}
		publishedAt := video.PublishedAt.UTC()
		engagement := video.ViewCount + video.LikeCount*10 + video.CommentCount*5
		hourEngagement[publishedAt.Hour()] += engagement
		dayEngagement[publishedAt.Weekday()] += engagement
	}

	result.OptimalHours = topHours(hourEngagement)
	optimalDays := topDays(dayEngagement)
	for _, day := range optimalDays {
		result.OptimalDays = append(result.OptimalDays, day.String())
	}

	var maxEngagement int64 = 1
	for _, engagement := range hourEngagement {
		if engagement > maxEngagement {
			maxEngagement = engagement
		}
	}

	for _, day := range optimalDays {
		for _, hour := range result.OptimalHours {
			total := hourEngagement[hour] + dayEngagement[day]
			expected := float64(total) / (float64(maxEngagement) * 2)
			if expected > 1 {
				expected = 1
			}
			result.Recommendations = append(result.Recommendations, PostingRecommendation{
				Time:               fmt.Sprintf("%s %02d:00", day, hour),
				Reason:             "High engagement at this time based on the channel's video history",
				ExpectedEngagement: math.Round(expected*100) / 100,
			})
		}
	}

	sort.SliceStable(result.Recommendations, func(i, j int) bool {
		return result.Recommendations[i].ExpectedEngagement > result.Recommendations[j].ExpectedEngagement
	})
	if len(result.Recommendations) > 5 {
		result.Recommendations = result.Recommendations[:5]
	}

	return result, nil
}

// topHours picks the three highest-engagement hours, reported in ascending
// clock order.
func topHours(engagement map[int]int64) []int {
	hours := make([]int, 0, len(engagement))
	for hour := range engagement {
		hours = append(hours, hour)
	}
	sort.Slice(hours, func(i, j int) bool {
		if engagement[hours[i]] != engagement[hours[j]] {
			return engagement[hours[i]] > engagement[hours[j]]
		}
		return hours[i] < hours[j]
	})
	if len(hours) > 3 {
		hours = hours[:3]
	}
	sort.Ints(hours)
	return hours
}

// topDays picks the three highest-engagement weekdays in rank order.
func topDays(engagement map[time.Weekday]int64) []time.Weekday {
	days := make([]time.Weekday, 0, len(engagement))
	for day := range engagement {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool {
		if engagement[days[i]] != engagement[days[j]] {
			return engagement[days[i]] > engagement[days[j]]
		}
		return days[i] < days[j]
	})
	if len(days) > 3 {
		days = days[:3]
	}
	return days
}

// GetCommentsBySentiment pages a channel's comments carrying the given
// sentiment label, newest first.
func (s *DashboardService) GetCommentsBySentiment(ctx context.Context, userID int64, identifier, sentiment string, limit, offset int) (*CommentPage, error) {
	return s.browseComments(ctx, userID, identifier, limit, offset,
		func(ctx context.Context, channelID int64, limit, offset int) ([]*repository.CommentWithVideo, int64, error) {
			return s.commentRepo.ListBySentiment(ctx, channelID, sentiment, limit, offset)
		})
}

// GetCommentsByEmotion pages a channel's comments carrying the given emotion
// label, newest first.
func (s *DashboardService) GetCommentsByEmotion(ctx context.Context, userID int64, identifier, emotion string, limit, offset int) (*CommentPage, error) {
	return s.browseComments(ctx, userID, identifier, limit, offset,
		func(ctx context.Context, channelID int64, limit, offset int) ([]*repository.CommentWithVideo, int64, error) {
			return s.commentRepo.ListByEmotion(ctx, channelID, emotion, limit, offset)
		})
}

func (s *DashboardService) browseComments(
	ctx context.Context,
	userID int64,
	identifier string,
	limit, offset int,
	list func(ctx context.Context, channelID int64, limit, offset int) ([]*repository.CommentWithVideo, int64, error),
) (*CommentPage, error) {
	channel, err := s.ResolveChannel(ctx, userID, identifier)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, total, err := list(ctx, channel.ID, limit, offset)
	if err != nil {
		return nil, err
	}

	page := &CommentPage{
		Items:  make([]CommentView, 0, len(rows)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for _, row := range rows {
		page.Items = append(page.Items, CommentView{
			ID:           row.Comment.ID,
			AuthorName:   row.Comment.AuthorName,
			AuthorAvatar: row.Comment.AuthorAvatar,
			Content:      row.Comment.Content,
			LikeCount:    row.Comment.LikeCount,
			Sentiment:    row.Comment.Sentiment,
			Emotion:      row.Comment.Emotion,
			PublishedAt:  row.Comment.PublishedAt,
			Video: CommentVideoInfo{
				ID:           row.Comment.VideoID,
				Title:        row.VideoTitle,
				ThumbnailURL: row.VideoThumbnailURL,
			},
		})
	}
	return page, nil
}

// GetEmotionChart returns classified-comment counts grouped by sentiment and
// by emotion label.
func (s *DashboardService) GetEmotionChart(ctx context.Context, userID int64, identifier string) (*EmotionChart, error) {
	channel, err := s.ResolveChannel(ctx, userID, identifier)
	if err != nil {
		return nil, err
	}

	sentiments, err := s.commentRepo.SentimentCountsByChannel(ctx, channel.ID)
	if err != nil {
		return nil, err
	}
	emotions, err := s.commentRepo.EmotionCountsByChannel(ctx, channel.ID)
	if err != nil {
		return nil, err
	}

	return &EmotionChart{Sentiment: sentiments, Emotion: emotions}, nil
}

func clampDelta(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

func dateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func roundRatio(v float64) float64 {
	return math.Round(v*1000) / 1000
}
