package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paayo-backend/internal/domain"
)

type fakeMediaRepo struct {
	orphans    []domain.OrphanMedia
	seenCutoff time.Time
	deletedIDs [][]uuid.UUID
}

func (f *fakeMediaRepo) InsertMedia(_ context.Context, m domain.Media) (domain.Media, error) {
	return m, nil
}

func (f *fakeMediaRepo) GetMedia(context.Context, uuid.UUID) (domain.Media, error) {
	return domain.Media{}, domain.ErrNotFound
}

func (f *fakeMediaRepo) ListMedia(context.Context, int, int) ([]domain.Media, int64, error) {
	return nil, 0, nil
}

func (f *fakeMediaRepo) DeleteMedia(_ context.Context, ids []uuid.UUID) (int64, error) {
	f.deletedIDs = append(f.deletedIDs, ids)
	return int64(len(ids)), nil
}

func (f *fakeMediaRepo) FindOrphans(_ context.Context, olderThan time.Time) ([]domain.OrphanMedia, error) {
	f.seenCutoff = olderThan
	return f.orphans, nil
}

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
}

func TestReclaimerRun(t *testing.T) {
	t.Run("dry run reports without deleting", func(t *testing.T) {
		dir := t.TempDir()
		repo := &fakeMediaRepo{orphans: []domain.OrphanMedia{
			{ID: uuid.New(), Filename: "a.avif", ThumbnailFilename: "a_thumb.avif"},
		}}
		touch(t, dir, "a.avif")

		r := NewReclaimer(repo, dir, time.Hour, 24*time.Hour, zerolog.Nop())
		report, err := r.Run(context.Background(), true, 24*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, 1, report.OrphansFound)
		assert.Zero(t, report.OrphansDeleted)
		assert.True(t, report.DryRun)
		assert.Empty(t, repo.deletedIDs)
		assert.FileExists(t, filepath.Join(dir, "a.avif"))
	})

	t.Run("deletes rows and files", func(t *testing.T) {
		dir := t.TempDir()
		repo := &fakeMediaRepo{orphans: []domain.OrphanMedia{
			{ID: uuid.New(), Filename: "a.avif", ThumbnailFilename: "a_thumb.avif"},
			{ID: uuid.New(), Filename: "b.avif", ThumbnailFilename: "b_thumb.avif"},
		}}
		touch(t, dir, "a.avif")
		touch(t, dir, "a_thumb.avif")
		touch(t, dir, "b.avif")
		// b_thumb.avif is already gone; that must not count as an error.

		r := NewReclaimer(repo, dir, time.Hour, 24*time.Hour, zerolog.Nop())
		report, err := r.Run(context.Background(), false, 24*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, 2, report.OrphansFound)
		assert.Equal(t, 2, report.OrphansDeleted)
		assert.Equal(t, 3, report.FilesDeleted)
		assert.Empty(t, report.Errors)
		assert.NoFileExists(t, filepath.Join(dir, "a.avif"))
	})

	t.Run("batches large orphan sets", func(t *testing.T) {
		repo := &fakeMediaRepo{}
		for i := 0; i < reclaimBatch+5; i++ {
			repo.orphans = append(repo.orphans, domain.OrphanMedia{ID: uuid.New()})
		}
		r := NewReclaimer(repo, t.TempDir(), time.Hour, 24*time.Hour, zerolog.Nop())
		report, err := r.Run(context.Background(), false, 24*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, reclaimBatch+5, report.OrphansDeleted)
		require.Len(t, repo.deletedIDs, 2)
		assert.Len(t, repo.deletedIDs[0], reclaimBatch)
		assert.Len(t, repo.deletedIDs[1], 5)
	})

	t.Run("grace has a one hour floor", func(t *testing.T) {
		repo := &fakeMediaRepo{}
		r := NewReclaimer(repo, t.TempDir(), time.Hour, 24*time.Hour, zerolog.Nop())
		_, err := r.Run(context.Background(), true, time.Minute)
		require.NoError(t, err)
		assert.True(t, repo.seenCutoff.Before(time.Now().Add(-time.Hour).Add(time.Minute)))
	})
}

func TestUploadValidation(t *testing.T) {
	svc := NewService(&fakeMediaRepo{}, NewProcessor(), t.TempDir(), zerolog.Nop())

	_, err := svc.Upload(context.Background(), nil, "x.jpg", []byte{1})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	actor := &domain.AuthenticatedUser{ID: "u1", Role: domain.RoleEditor}
	_, err = svc.Upload(context.Background(), actor, "x.jpg", nil)
	assert.Error(t, err)

	_, err = svc.Upload(context.Background(), actor, "x.jpg", []byte("not an image"))
	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.KindImage, derr.Kind)
}
