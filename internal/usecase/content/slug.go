package content

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/gosimple/slug"

	"paayo-backend/internal/domain"
)

const slugAttempts = 5

// newSlug builds a URL slug from the title plus a short random suffix.
// The suffix keeps common titles from colliding on the first try.
func newSlug(title string) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = "untitled"
	}
	if len(base) > 80 {
		base = base[:80]
	}
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("slug suffix: %w", err)
	}
	return base + "-" + hex.EncodeToString(buf[:]), nil
}

// saveWithSlugRetry runs save with fresh slugs until one sticks or the
// attempt budget runs out. Same shape as bounded referral-code generation:
// collisions are possible but each retry re-rolls the random part. Both
// inserts and rename updates go through here.
func saveWithSlugRetry[T any](ctx context.Context, title string, save func(ctx context.Context, slug string) (T, error)) (T, error) {
	var zero T
	for attempt := 0; attempt < slugAttempts; attempt++ {
		s, err := newSlug(title)
		if err != nil {
			return zero, err
		}
		out, err := save(ctx, s)
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, domain.ErrSlugTaken) {
			return zero, err
		}
	}
	return zero, domain.ConflictError("could not allocate a unique slug")
}
