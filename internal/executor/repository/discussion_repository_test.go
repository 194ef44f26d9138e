package repository

import (
	"context"
	"errors"
	"testing"

	"golang-idea-radar/internal/entity"
	"golang-idea-radar/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func ingest(t *testing.T, repo DiscussionRepository, sourceID uint, url string, upvotes int) *entity.Discussion {
	t.Helper()
	d := &entity.Discussion{SourceID: sourceID, URL: url, Title: "title " + url, Content: "body", Upvotes: upvotes}
	created, err := repo.Ingest(context.Background(), d)
	require.NoError(t, err)
	require.True(t, created)
	return d
}

func TestDiscussionIngest_Idempotent(t *testing.T) {
	db := testutil.NewDB(t)
	src := testutil.SeedSource(t, db, "reddit-saas", entity.SourceTypeReddit)
	repo := NewDiscussionRepository(db)
	ctx := context.Background()

	first := &entity.Discussion{SourceID: src.ID, URL: "https://www.Reddit.com/r/SaaS/comments/abc/?utm_source=share#top", Title: "  Original   title ", Upvotes: 5}
	created, err := repo.Ingest(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "https://reddit.com/r/SaaS/comments/abc", first.URL)
	assert.Equal(t, "Original title", first.Title)

	dup := &entity.Discussion{SourceID: src.ID, URL: "https://reddit.com/r/SaaS/comments/abc", Title: "Changed", Upvotes: 99}
	created, err = repo.Ingest(ctx, dup)
	require.NoError(t, err)
	assert.False(t, created)

	var count int64
	require.NoError(t, db.Model(&entity.Discussion{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	stored, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original title", stored.Title)
	assert.Equal(t, 5, stored.Upvotes)
}

func TestDiscussionIngest_InvalidURL(t *testing.T) {
	db := testutil.NewDB(t)
	src := testutil.SeedSource(t, db, "hn", entity.SourceTypeHackerNews)
	repo := NewDiscussionRepository(db)

	_, err := repo.Ingest(context.Background(), &entity.Discussion{SourceID: src.ID, URL: "not a url", Title: "x"})
	assert.Error(t, err)
}

func TestMarkFiltered(t *testing.T) {
	db := testutil.NewDB(t)
	src := testutil.SeedSource(t, db, "reddit-saas", entity.SourceTypeReddit)
	repo := NewDiscussionRepository(db)
	ctx := context.Background()

	d := ingest(t, repo, src.ID, "https://reddit.com/r/SaaS/1", 1)

	require.NoError(t, repo.MarkFiltered(ctx, d.ID, true))
	// same verdict again is a no-op
	require.NoError(t, repo.MarkFiltered(ctx, d.ID, true))

	err := repo.MarkFiltered(ctx, d.ID, false)
	assert.True(t, errors.Is(err, entity.ErrFilterConflict))

	stored, err := repo.FindByID(ctx, d.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PassedFilter)
	assert.True(t, *stored.PassedFilter)
	assert.False(t, stored.IsAnalyzed)
	assert.True(t, stored.FilteredAt.Valid)
}

func TestMarkFiltered_RejectionIsTerminal(t *testing.T) {
	db := testutil.NewDB(t)
	src := testutil.SeedSource(t, db, "reddit-saas", entity.SourceTypeReddit)
	repo := NewDiscussionRepository(db)
	ctx := context.Background()

	d := ingest(t, repo, src.ID, "https://reddit.com/r/SaaS/2", 1)
	require.NoError(t, repo.MarkFiltered(ctx, d.ID, false))

	stored, err := repo.FindByID(ctx, d.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PassedFilter)
	assert.False(t, *stored.PassedFilter)
	assert.True(t, stored.IsAnalyzed)

	assert.True(t, errors.Is(repo.MarkFiltered(ctx, d.ID, true), entity.ErrFilterConflict))
	assert.True(t, errors.Is(repo.MarkFiltered(ctx, 9999, true), entity.ErrNotFound))
}

func TestFindPendingBySource(t *testing.T) {
	db := testutil.NewDB(t)
	src := testutil.SeedSource(t, db, "reddit-saas", entity.SourceTypeReddit)
	other := testutil.SeedSource(t, db, "hn", entity.SourceTypeHackerNews)
	repo := NewDiscussionRepository(db)
	ctx := context.Background()

	unfiltered := ingest(t, repo, src.ID, "https://reddit.com/r/SaaS/a", 5)
	passed := ingest(t, repo, src.ID, "https://reddit.com/r/SaaS/b", 10)
	rejected := ingest(t, repo, src.ID, "https://reddit.com/r/SaaS/c", 50)
	analyzed := ingest(t, repo, src.ID, "https://reddit.com/r/SaaS/d", 60)
	ingest(t, repo, other.ID, "https://news.ycombinator.com/item?id=1", 100)

	require.NoError(t, repo.MarkFiltered(ctx, passed.ID, true))
	require.NoError(t, repo.MarkFiltered(ctx, rejected.ID, false))
	require.NoError(t, repo.MarkFiltered(ctx, analyzed.ID, true))
	require.NoError(t, repo.MarkAnalyzed(ctx, analyzed.ID))

	pending, err := repo.FindPendingBySource(ctx, src.ID, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, passed.ID, pending[0].ID)
	assert.Equal(t, unfiltered.ID, pending[1].ID)

	limited, err := repo.FindPendingBySource(ctx, src.ID, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestMarkAnalyzed_Missing(t *testing.T) {
	repo := NewDiscussionRepository(testutil.NewDB(t))
	err := repo.MarkAnalyzed(context.Background(), 42)
	assert.True(t, errors.Is(err, entity.ErrNotFound))
	assert.False(t, errors.Is(err, gorm.ErrRecordNotFound))
}
