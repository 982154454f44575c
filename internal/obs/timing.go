package obs

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

type ctxKey string

const BuildIDKey ctxKey = "build_id"

// WithBuildID tags ctx with a fresh build id and returns both.
func WithBuildID(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	return context.WithValue(ctx, BuildIDKey, id), id
}

// BuildID returns the build id carried by ctx, or "".
func BuildID(ctx context.Context) string {
	id, _ := ctx.Value(BuildIDKey).(string)
	return id
}

// Time logs the duration of op when the returned func runs, including the error
// it points at.
func Time(ctx context.Context, op string) func(errp *error) {
	start := time.Now()
	id := BuildID(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Printf("build_id=%s op=%s dur=%dms err=%v", id, op, dur.Milliseconds(), *errp)
			return
		}
		log.Printf("build_id=%s op=%s dur=%dms", id, op, dur.Milliseconds())
	}
}
