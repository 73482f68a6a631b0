package service

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eldorado-p2p/influencer-api/internal/domain"
	"github.com/eldorado-p2p/influencer-api/internal/repository"
)

func TestExportService_Export(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seedOwner(t, db, "samuel")
	seedInfluencer(t, db, "andyflores", "samuel", "andy.tt")

	published := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&domain.SponsoredVideo{
		Handle:         "andyflores",
		TikTokUsername: "andy.tt",
		TikTokVideoID:  "111",
		Description:    "promo @El Dorado P2P",
		ViewCount:      1000,
		LikeCount:      80,
		CommentCount:   15,
		ShareCount:     5,
		PublicVideoURL: "https://www.tiktok.com/@andy.tt/video/111",
		Transcript:     "compra cripto",
		PublishedAt:    &published,
	}).Error)

	svc := NewExportService(
		repository.NewInfluencerRepository(db),
		repository.NewVideoRepository(db),
		repository.NewAnalyticsRepository(db),
		testLogger(),
	)

	var buf bytes.Buffer
	summary, err := svc.Export(ctx, &buf)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Influencers)
	assert.Equal(t, 1, summary.Videos)
	assert.Equal(t, int64(1000), summary.TotalViews)

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	files := map[string][]byte{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		files[f.Name] = data
	}
	require.Contains(t, files, "influencers.csv")
	require.Contains(t, files, "videos.csv")
	require.Contains(t, files, "summary.json")

	rows, err := csv.NewReader(bytes.NewReader(files["videos.csv"])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2, "header plus one video")
	assert.Equal(t, "111", rows[1][0])
	assert.Equal(t, "andyflores", rows[1][1])
	assert.Equal(t, "10.00", rows[1][8], "engagement = (80+15+5)/1000*100")
	assert.Equal(t, "true", rows[1][10], "video has a transcript")

	var parsed ExportSummary
	require.NoError(t, json.Unmarshal(files["summary.json"], &parsed))
	assert.Equal(t, 1, parsed.Videos)
}

func TestExportService_Export_EmptyDatabase(t *testing.T) {
	db := setupTestDB(t)
	svc := NewExportService(
		repository.NewInfluencerRepository(db),
		repository.NewVideoRepository(db),
		repository.NewAnalyticsRepository(db),
		testLogger(),
	)

	var buf bytes.Buffer
	summary, err := svc.Export(context.Background(), &buf)
	require.NoError(t, err)

	assert.Zero(t, summary.Influencers)
	assert.Zero(t, summary.Videos)

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Len(t, zr.File, 3, "archive always carries all three entries")
}
