package task

import (
	"context"
	"fmt"

	"github.com/example/taskflow/config"
	domain "github.com/example/taskflow/domain/task"
)

// OpenStore opens the backend selected by cfg.StoreDriver and prepares its
// schema.
func OpenStore(ctx context.Context, cfg config.Config, clock *domain.Clock) (Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return NewMemoryRepository(clock), nil

	case config.DriverSQLite:
		db, err := OpenSQLite(cfg.DBPath, cfg.DBDebug)
		if err != nil {
			return nil, err
		}
		repo := NewGormRepository(db, clock)
		if err := repo.Migrate(); err != nil {
			_ = repo.Close()
			return nil, err
		}
		return repo, nil

	case config.DriverPostgres:
		pool, err := OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		repo := NewPostgresRepository(pool, clock)
		if err := repo.Migrate(ctx); err != nil {
			_ = repo.Close()
			return nil, err
		}
		return repo, nil
	}

	return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}
