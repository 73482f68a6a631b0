package repository

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/eldorado-p2p/influencer-api/internal/domain"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	return db
}

func seedOwner(t *testing.T, db *gorm.DB, name string) {
	t.Helper()
	require.NoError(t, NewOwnerRepository(db).Create(context.Background(), &domain.Owner{
		Name:        name,
		DisplayName: name,
		IsActive:    true,
	}))
}

func seedInfluencer(t *testing.T, db *gorm.DB, handle, owner, tiktokUsername string) {
	t.Helper()
	require.NoError(t, NewInfluencerRepository(db).Create(context.Background(), &domain.Influencer{
		FirstName: handle,
		Handle:    handle,
		OwnerName: owner,
		Status:    domain.InfluencerActive,
	}, tiktokUsername))
}

func seedVideo(t *testing.T, db *gorm.DB, video domain.SponsoredVideo) {
	t.Helper()
	require.NoError(t, db.Create(&video).Error)
}

func timePtr(v time.Time) *time.Time { return &v }
