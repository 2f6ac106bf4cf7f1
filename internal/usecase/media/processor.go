package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"runtime"
	"time"

	"github.com/buckket/go-blurhash"
	"github.com/disintegration/imaging"
	"github.com/gen2brain/avif"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"paayo-backend/internal/domain"
	"paayo-backend/internal/infra/metrics"
)

const (
	maxDimension  = 1920
	thumbSize     = 400
	avifQuality   = 75
	avifSpeed     = 8
	blurhashXComp = 4
	blurhashYComp = 3
)

// Processor transcodes uploads to AVIF. The CPU-heavy stages run on
// worker goroutines gated by a weighted semaphore so a burst of uploads
// cannot starve request handling.
type Processor struct {
	sem *semaphore.Weighted
}

// NewProcessor sizes the worker pool to the machine.
func NewProcessor() *Processor {
	return &Processor{sem: semaphore.NewWeighted(int64(runtime.NumCPU()))}
}

// Process decodes src, resizes it to fit the dimension cap, computes a
// blurhash placeholder and encodes the main and thumbnail AVIF variants.
// The caller does all file and database I/O; Process only burns CPU.
func (p *Processor) Process(ctx context.Context, src []byte) (domain.ProcessedImage, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return domain.ProcessedImage{}, err
	}
	defer p.sem.Release(1)

	start := time.Now()
	out, err := transcode(src)
	metrics.ImageProcessSeconds.Observe(time.Since(start).Seconds())
	return out, err
}

func transcode(src []byte) (domain.ProcessedImage, error) {
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return domain.ProcessedImage{}, domain.ImageError("unsupported or corrupt image")
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxDimension || bounds.Dy() > maxDimension {
		// Fit never upscales; small images keep their native size.
		img = imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
		bounds = img.Bounds()
	}

	hash, err := blurhashFor(img)
	if err != nil {
		return domain.ProcessedImage{}, fmt.Errorf("blurhash: %w", err)
	}

	main, err := encodeAVIF(img)
	if err != nil {
		return domain.ProcessedImage{}, fmt.Errorf("encode main: %w", err)
	}
	thumb, err := encodeAVIF(imaging.Fit(img, thumbSize, thumbSize, imaging.Lanczos))
	if err != nil {
		return domain.ProcessedImage{}, fmt.Errorf("encode thumbnail: %w", err)
	}

	id := uuid.NewString()
	return domain.ProcessedImage{
		Filename:          id + ".avif",
		ThumbnailFilename: id + "_thumb.avif",
		Mime:              "image/avif",
		Size:              int64(len(main)),
		Width:             int32(bounds.Dx()),
		Height:            int32(bounds.Dy()),
		BlurHash:          hash,
		Data:              main,
		ThumbnailData:     thumb,
	}, nil
}

// blurhashFor hashes a 32px downscale. Hashing the full image would
// dominate the pipeline for no visual gain in a placeholder.
func blurhashFor(img image.Image) (string, error) {
	small := imaging.Fit(img, 32, 32, imaging.NearestNeighbor)
	return blurhash.Encode(blurhashXComp, blurhashYComp, small)
}

func encodeAVIF(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	err := avif.Encode(&buf, img, avif.Options{Quality: avifQuality, Speed: avifSpeed})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
