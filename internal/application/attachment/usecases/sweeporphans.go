package usecases

import (
	"context"
	"time"

	"github.com/customerly-inc/customerly/internal/domain/attachment"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

const (
	DefaultOrphanGrace = 24 * time.Hour
	orphanBatchSize    = 100
)

// SweepOrphansUseCase reclaims staged uploads that never made it into a
// message, for example after a failed send whose rollback also failed.
type SweepOrphansUseCase struct {
	attachmentRepo attachment.Repository
	blobs          BlobStore
	grace          time.Duration
	logger         logger.Interface
}

func NewSweepOrphansUseCase(attachmentRepo attachment.Repository, blobs BlobStore, grace time.Duration, logger logger.Interface) *SweepOrphansUseCase {
	if grace <= 0 {
		grace = DefaultOrphanGrace
	}
	return &SweepOrphansUseCase{
		attachmentRepo: attachmentRepo,
		blobs:          blobs,
		grace:          grace,
		logger:         logger,
	}
}

// Execute removes up to one batch of orphans and reports how many went.
func (uc *SweepOrphansUseCase) Execute(ctx context.Context, now time.Time) (int, error) {
	orphans, err := uc.attachmentRepo.ListOrphans(ctx, now.Add(-uc.grace), orphanBatchSize)
	if err != nil {
		uc.logger.Errorw("failed to list orphan attachments", "error", err)
		return 0, asAppError(err, "failed to list orphan attachments")
	}

	removed := 0
	for _, a := range orphans {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if err := uc.blobs.Delete(ctx, a.StoragePath()); err != nil {
			uc.logger.Warnw("failed to delete orphan content", "path", a.StoragePath(), "error", err)
			continue
		}
		if err := uc.attachmentRepo.Delete(ctx, a.ID()); err != nil {
			uc.logger.Warnw("failed to delete orphan record", "attachment_id", a.ID(), "error", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		uc.logger.Infow("orphan attachments removed", "count", removed)
	}
	return removed, nil
}
