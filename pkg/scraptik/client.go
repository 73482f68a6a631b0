package scraptik

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/eldorado-p2p/influencer-api/internal/config"
	"github.com/eldorado-p2p/influencer-api/internal/domain"
)

// Client wraps the ScrapTik API: username lookup, bounded post fetches and
// sponsorship filtering. Lookup failures are logged and reported as absent
// results, never as errors, so a flaky provider cannot fail a sync batch.
type Client struct {
	http     *resty.Client
	mention  string
	pageSize int
	region   string
	logger   *slog.Logger
}

// NewClient creates a ScrapTik client from configuration.
func NewClient(cfg config.ScrapTikConfig, sync config.SyncConfig, logger *slog.Logger) *Client {
	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("X-RapidAPI-Host", cfg.Host).
		SetHeader("X-RapidAPI-Key", cfg.APIKey)

	return &Client{
		http:     rc,
		mention:  sync.Mention,
		pageSize: sync.PageSize,
		region:   cfg.Region,
		logger:   logger,
	}
}

// accountLookup covers the envelope shapes the provider has been seen to
// return for username-to-id. Ids are FlexID: 19-digit uids overflow
// float64, so they must never pass through an untyped decode.
type accountLookup struct {
	UID    FlexID `json:"uid"`
	UserID FlexID `json:"user_id"`
	ID     FlexID `json:"id"`
	Data   struct {
		UserID FlexID `json:"user_id"`
	} `json:"data"`
}

func (l *accountLookup) accountID() string {
	for _, id := range []FlexID{l.UID, l.UserID, l.Data.UserID, l.ID} {
		if id != "" {
			return id.String()
		}
	}
	return ""
}

// AccountID converts a TikTok username into the durable numeric account id.
// Returns "" when the lookup fails or the response shape is unrecognized.
func (c *Client) AccountID(ctx context.Context, username string) string {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")

	var result accountLookup
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("username", username).
		SetResult(&result).
		Get("/username-to-id")
	if err != nil {
		c.logger.Warn("username lookup failed", "username", username, "error", err)
		return ""
	}
	if resp.IsError() {
		c.logger.Warn("username lookup rejected", "username", username, "status", resp.StatusCode())
		return ""
	}

	id := result.accountID()
	if id == "" {
		c.logger.Warn("unexpected username lookup response shape", "username", username)
	}
	return id
}

// RecentPosts fetches a single bounded page of the account's latest posts.
// Returns nil on any failure.
func (c *Client) RecentPosts(ctx context.Context, accountID string, count int) *PostBatch {
	if count <= 0 {
		count = c.pageSize
	}

	var batch PostBatch
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"user_id": accountID,
			"count":   fmt.Sprintf("%d", count),
			"region":  c.region,
		}).
		SetResult(&batch).
		Get("/user-posts")
	if err != nil {
		c.logger.Warn("post fetch failed", "account_id", accountID, "error", err)
		return nil
	}
	if resp.IsError() {
		c.logger.Warn("post fetch rejected", "account_id", accountID, "status", resp.StatusCode())
		return nil
	}

	return &batch
}

// FilterSponsored keeps posts whose caption mentions the configured sponsor
// marker and maps them to drafts. Posts without a parseable id are skipped
// with a warning.
func (c *Client) FilterSponsored(batch *PostBatch) []domain.VideoDraft {
	if batch == nil {
		return nil
	}

	mention := strings.ToLower(c.mention)
	drafts := make([]domain.VideoDraft, 0)

	for _, post := range batch.Posts() {
		if !strings.Contains(strings.ToLower(post.Desc), mention) {
			continue
		}

		videoID := post.VideoID()
		if videoID == "" {
			c.logger.Warn("sponsored post has no parseable video id", "desc", truncate(post.Desc, 60))
			continue
		}

		draft := domain.VideoDraft{
			TikTokVideoID: videoID,
			Description:   post.Desc,
			ViewCount:     post.Statistics.PlayCount,
			LikeCount:     post.Statistics.DiggCount,
			CommentCount:  post.Statistics.CommentCount,
			ShareCount:    post.Statistics.ShareCount,
		}

		if post.CreateTime > 0 {
			published := time.Unix(post.CreateTime, 0).UTC()
			draft.PublishedAt = &published
		}

		draft.PublicVideoURL = post.ShareURL
		if draft.PublicVideoURL == "" {
			draft.PublicVideoURL = fmt.Sprintf("https://www.tiktok.com/@%s/video/%s", post.Author.UniqueID, videoID)
		}

		draft.WatermarkFreeURL, draft.WatermarkFreeURLAlt1, draft.WatermarkFreeURLAlt2 = post.downloadURLs()

		drafts = append(drafts, draft)
	}

	return drafts
}

// SponsoredVideos composes the lookup, fetch and filter into one pipeline.
// Any absent intermediate short-circuits to an empty list.
func (c *Client) SponsoredVideos(ctx context.Context, username string) []domain.VideoDraft {
	accountID := c.AccountID(ctx, username)
	if accountID == "" {
		return nil
	}

	batch := c.RecentPosts(ctx, accountID, c.pageSize)
	if batch == nil {
		return nil
	}

	return c.FilterSponsored(batch)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
