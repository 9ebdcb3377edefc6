// Package vectorutils is the vector store utility package
package vectorutils

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/papercomputeco/namematch/pkg/vector"
	"github.com/papercomputeco/namematch/pkg/vector/chroma"
	"github.com/papercomputeco/namematch/pkg/vector/pgvector"
	"github.com/papercomputeco/namematch/pkg/vector/qdrant"
	"github.com/papercomputeco/namematch/pkg/vector/sqlitevec"
)

type NewStoreOpts struct {
	ProviderType string
	Path         string
	TargetURL    string
	Dimensions   uint
	Logger       *slog.Logger
}

func NewStore(ctx context.Context, o *NewStoreOpts) (vector.Store, error) {
	switch o.ProviderType {
	case "sqlite":
		return sqlitevec.NewStore(sqlitevec.Config{
			DBPath:     o.Path,
			Dimensions: o.Dimensions,
		}, o.Logger)
	case "chroma":
		return chroma.NewStore(chroma.Config{
			URL: o.TargetURL,
		}, o.Logger)
	case "qdrant":
		c, err := qdrant.ParseTarget(o.TargetURL)
		if err != nil {
			return nil, err
		}
		c.Dimensions = o.Dimensions
		return qdrant.NewStore(c, o.Logger)
	case "pgvector":
		return pgvector.NewStore(ctx, pgvector.Config{
			DSN:        o.TargetURL,
			Dimensions: o.Dimensions,
		}, o.Logger)
	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", o.ProviderType)
	}
}
