// Package ports defines the interfaces the application services depend
// on, implemented by the adapters.
package ports

import (
	"context"

	"audival/domain/core"
)

// RunArchive records completed analysis runs for audit and retrieval.
type RunArchive interface {
	Create(ctx context.Context, run *core.Run) error
	GetByID(ctx context.Context, id core.RunID) (*core.Run, error)
	List(ctx context.Context, kind core.RunKind, limit int) ([]*core.Run, error)
}
