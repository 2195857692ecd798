package core

import (
	"context"
)

// ShutdownFunc is a cleanup function executed during graceful shutdown.
// The context carries the shutdown deadline; implementations should abandon
// slow work when it is cancelled.
//
// Implementations are registered with the shutdown manager and run in
// priority order (HTTP drain, history flush, database close, log sync).
type ShutdownFunc func(ctx context.Context) error
