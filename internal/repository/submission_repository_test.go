package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"feedback-assist-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Submission{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestSubmissionRepository_CreateAssignsIDAndUTCTimestamp(t *testing.T) {
	repo := NewSubmissionRepository(newTestDB(t))
	ctx := context.Background()

	first := &model.Submission{Rating: 4, Review: "Nice", AIResponse: "thanks", AISummary: "ok"}
	second := &model.Submission{Rating: 2, Review: "Meh", AIResponse: "sorry", AISummary: "meh"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	assert.NotZero(t, first.ID)
	assert.Greater(t, second.ID, first.ID)
	assert.False(t, first.CreatedAt.IsZero())
	assert.Equal(t, time.UTC, first.CreatedAt.Location())
}

func TestSubmissionRepository_FindAllOrdered(t *testing.T) {
	db := newTestDB(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := []time.Time{base, base.Add(2 * time.Minute), base.Add(time.Minute), base.Add(2 * time.Minute)}
	repo := &submissionRepository{db: db, now: func() time.Time {
		next := clock[0]
		clock = clock[1:]
		return next
	}}
	ctx := context.Background()

	for i, review := range []string{"oldest", "tie-first", "middle", "tie-second"} {
		require.NoError(t, repo.Create(ctx, &model.Submission{Rating: i + 1, Review: review}))
	}

	subs, err := repo.FindAllOrdered(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 4)

	var reviews []string
	for _, s := range subs {
		reviews = append(reviews, s.Review)
	}
	assert.Equal(t, []string{"tie-second", "tie-first", "middle", "oldest"}, reviews)
}

func TestSubmissionRepository_Aggregate(t *testing.T) {
	repo := NewSubmissionRepository(newTestDB(t))
	ctx := context.Background()

	stats, err := repo.Aggregate(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionStats{Total: 0, AvgRating: 0}, stats)

	require.NoError(t, repo.Create(ctx, &model.Submission{Rating: 4, Review: "good"}))
	require.NoError(t, repo.Create(ctx, &model.Submission{Rating: 5, Review: "great"}))

	stats, err = repo.Aggregate(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, 4.5, stats.AvgRating)
}

func TestSubmissionRepository_AggregateRoundsToTwoDecimals(t *testing.T) {
	repo := NewSubmissionRepository(newTestDB(t))
	ctx := context.Background()
	for _, r := range []int{5, 4, 4} {
		require.NoError(t, repo.Create(ctx, &model.Submission{Rating: r, Review: "x"}))
	}

	stats, err := repo.Aggregate(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, 4.33, stats.AvgRating)
}
