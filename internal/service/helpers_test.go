package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/eldorado-p2p/influencer-api/internal/domain"
	"github.com/eldorado-p2p/influencer-api/internal/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	return db
}

func seedOwner(t *testing.T, db *gorm.DB, name string) {
	t.Helper()
	require.NoError(t, repository.NewOwnerRepository(db).Create(context.Background(), &domain.Owner{
		Name:        name,
		DisplayName: name,
		IsActive:    true,
	}))
}

func seedInfluencer(t *testing.T, db *gorm.DB, handle, owner, tiktokUsername string) {
	t.Helper()
	require.NoError(t, repository.NewInfluencerRepository(db).Create(context.Background(), &domain.Influencer{
		FirstName: handle,
		Handle:    handle,
		OwnerName: owner,
		Status:    domain.InfluencerActive,
	}, tiktokUsername))
}

// fakeProvider returns canned drafts per username and records calls.
type fakeProvider struct {
	accountIDs map[string]string
	drafts     map[string][]domain.VideoDraft
	idCalls    []string
	videoCalls []string
}

func (f *fakeProvider) AccountID(ctx context.Context, username string) string {
	f.idCalls = append(f.idCalls, username)
	return f.accountIDs[username]
}

func (f *fakeProvider) SponsoredVideos(ctx context.Context, username string) []domain.VideoDraft {
	f.videoCalls = append(f.videoCalls, username)
	return f.drafts[username]
}

func testLogger() *slog.Logger { return slog.Default() }
