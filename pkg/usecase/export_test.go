package usecase

import "time"

// SetTagMoveBackoffForTest shortens the retry backoff and returns a
// restore function.
func SetTagMoveBackoffForTest(d time.Duration) func() {
	prev := tagMoveBackoff
	tagMoveBackoff = d
	return func() { tagMoveBackoff = prev }
}
