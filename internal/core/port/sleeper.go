package port

import (
	"context"
	"time"
)

// Sleeper pauses the orchestrator between sources. Sleep returns ctx.Err()
// when ctx is cancelled first.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}
