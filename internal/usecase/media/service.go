package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"paayo-backend/internal/domain"
)

// Service stores processed uploads: artifacts on disk, metadata in the
// media table.
type Service struct {
	repo      domain.MediaRepo
	processor *Processor
	uploadDir string
	log       zerolog.Logger
}

// NewService wires the upload path.
func NewService(repo domain.MediaRepo, processor *Processor, uploadDir string, logger zerolog.Logger) *Service {
	return &Service{repo: repo, processor: processor, uploadDir: uploadDir, log: logger}
}

// Upload transcodes one image and persists both artifacts plus the row.
// Disk writes precede the insert; a failed insert unlinks the files so
// they never become unreferenced from birth.
func (s *Service) Upload(ctx context.Context, actor *domain.AuthenticatedUser, originalName string, data []byte) (domain.Media, error) {
	if actor == nil {
		return domain.Media{}, domain.ErrUnauthorized
	}
	if len(data) == 0 {
		return domain.Media{}, domain.ValidationError("empty upload")
	}

	img, err := s.processor.Process(ctx, data)
	if err != nil {
		return domain.Media{}, err
	}

	mainPath := filepath.Join(s.uploadDir, img.Filename)
	thumbPath := filepath.Join(s.uploadDir, img.ThumbnailFilename)
	if err := os.WriteFile(mainPath, img.Data, 0o644); err != nil {
		return domain.Media{}, fmt.Errorf("write image: %w", err)
	}
	if err := os.WriteFile(thumbPath, img.ThumbnailData, 0o644); err != nil {
		_ = os.Remove(mainPath)
		return domain.Media{}, fmt.Errorf("write thumbnail: %w", err)
	}

	stored, err := s.repo.InsertMedia(ctx, domain.Media{
		ID:                uuid.New(),
		Filename:          img.Filename,
		OriginalName:      originalName,
		Mime:              img.Mime,
		Size:              img.Size,
		Width:             img.Width,
		Height:            img.Height,
		BlurHash:          img.BlurHash,
		ThumbnailFilename: img.ThumbnailFilename,
		UploadedBy:        actor.ID,
		CreatedAt:         time.Now().UTC(),
	})
	if err != nil {
		_ = os.Remove(mainPath)
		_ = os.Remove(thumbPath)
		return domain.Media{}, fmt.Errorf("insert media: %w", err)
	}
	return stored, nil
}

// ListMedia pages upload metadata, newest first.
func (s *Service) ListMedia(ctx context.Context, limit, offset int) ([]domain.Media, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListMedia(ctx, limit, offset)
}

// DeleteMedia removes rows and their on-disk artifacts. File unlink
// failures are logged, not fatal: the reclaimer sweep catches strays.
func (s *Service) DeleteMedia(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, domain.ValidationError("no media ids given")
	}
	var files []string
	for _, id := range ids {
		m, err := s.repo.GetMedia(ctx, id)
		if err != nil {
			continue
		}
		files = append(files, m.Filename, m.ThumbnailFilename)
	}
	deleted, err := s.repo.DeleteMedia(ctx, ids)
	if err != nil {
		return 0, err
	}
	for _, f := range files {
		if f == "" {
			continue
		}
		if err := os.Remove(filepath.Join(s.uploadDir, f)); err != nil && !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("file", f).Msg("media: file unlink failed")
		}
	}
	return deleted, nil
}
