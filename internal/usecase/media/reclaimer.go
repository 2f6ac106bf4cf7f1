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
	"paayo-backend/internal/infra/metrics"
)

const reclaimBatch = 100

// Reclaimer periodically deletes media rows and files that no content
// references. The grace period keeps an upload alive between the moment
// it lands and the moment an editor saves the row that embeds it.
type Reclaimer struct {
	repo      domain.MediaRepo
	uploadDir string
	interval  time.Duration
	grace     time.Duration
	log       zerolog.Logger
}

// NewReclaimer wires the background sweep.
func NewReclaimer(repo domain.MediaRepo, uploadDir string, interval, grace time.Duration, logger zerolog.Logger) *Reclaimer {
	return &Reclaimer{repo: repo, uploadDir: uploadDir, interval: interval, grace: grace, log: logger}
}

// Start runs sweeps until ctx is done. The first sweep waits a full
// interval so deploy restarts do not stampede the database.
func (r *Reclaimer) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report, err := r.Run(ctx, false, r.grace)
			if err != nil {
				r.log.Error().Err(err).Msg("media: reclaim sweep failed")
				continue
			}
			r.log.Info().
				Int("found", report.OrphansFound).
				Int("deleted", report.OrphansDeleted).
				Int("files", report.FilesDeleted).
				Msg("media: reclaim sweep done")
		}
	}
}

// Run executes one reclamation pass. Dry runs report what would be
// deleted without touching anything; the admin endpoint uses that to
// preview a sweep.
func (r *Reclaimer) Run(ctx context.Context, dryRun bool, grace time.Duration) (domain.CleanupReport, error) {
	if grace < time.Hour {
		grace = time.Hour
	}
	orphans, err := r.repo.FindOrphans(ctx, time.Now().Add(-grace))
	if err != nil {
		return domain.CleanupReport{}, fmt.Errorf("find orphans: %w", err)
	}

	report := domain.CleanupReport{OrphansFound: len(orphans), DryRun: dryRun}
	if dryRun || len(orphans) == 0 {
		return report, nil
	}

	for start := 0; start < len(orphans); start += reclaimBatch {
		end := start + reclaimBatch
		if end > len(orphans) {
			end = len(orphans)
		}
		batch := orphans[start:end]

		ids := make([]uuid.UUID, len(batch))
		for i, o := range batch {
			ids[i] = o.ID
		}
		deleted, err := r.repo.DeleteMedia(ctx, ids)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("delete batch: %v", err))
			continue
		}
		report.OrphansDeleted += int(deleted)
		metrics.OrphansReclaimed.Add(float64(deleted))

		// Rows first, files second: a row without a file is an error
		// log, a file without a row is invisible garbage forever.
		for _, o := range batch {
			for _, f := range []string{o.Filename, o.ThumbnailFilename} {
				if f == "" {
					continue
				}
				err := os.Remove(filepath.Join(r.uploadDir, f))
				switch {
				case err == nil:
					report.FilesDeleted++
				case os.IsNotExist(err):
				default:
					report.Errors = append(report.Errors, fmt.Sprintf("unlink %s: %v", f, err))
				}
			}
		}
	}
	return report, nil
}
