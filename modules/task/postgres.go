package task

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/example/taskflow/domain/task"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id          UUID PRIMARY KEY,
	title       VARCHAR(100) NOT NULL,
	description VARCHAR(500) NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT 'Pending' CHECK (status IN ('Pending', 'Completed')),
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks (created_at DESC);
`

const taskColumns = `id::text, title, description, status, created_at, updated_at`

// PostgresRepository stores tasks in PostgreSQL through a pgx pool.
type PostgresRepository struct {
	pool  *pgxpool.Pool
	clock *domain.Clock
}

var _ Store = (*PostgresRepository)(nil)

// OpenPostgres connects to databaseURL and verifies the connection.
func OpenPostgres(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// NewPostgresRepository creates a PostgreSQL task repository.
func NewPostgresRepository(pool *pgxpool.Pool, clock *domain.Clock) *PostgresRepository {
	return &PostgresRepository{pool: pool, clock: clock}
}

// Migrate creates the tasks table if it does not exist.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// ListAll returns all tasks, newest first.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]domain.Task, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list tasks: %w", domain.ErrStorage, err)
	}

	tasks, err := pgx.CollectRows(rows, scanTask)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to scan tasks: %w", domain.ErrStorage, err)
	}
	return tasks, nil
}

// Create stores a new task built from draft.
func (r *PostgresRepository) Create(ctx context.Context, draft domain.Task) (domain.Task, error) {
	t, err := domain.Materialize(draft, r.clock)
	if err != nil {
		return domain.Task{}, err
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO tasks (id, title, description, status, created_at, updated_at)
		 VALUES ($1::uuid, $2, $3, $4, $5, $6)`,
		t.ID, t.Title, t.Description, string(t.Status), t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return domain.Task{}, fmt.Errorf("%w: failed to create task: %w", domain.ErrStorage, err)
	}
	return t, nil
}

// UpdateByID merges in into the task with the given id. The row is locked for
// the duration of the transaction.
func (r *PostgresRepository) UpdateByID(ctx context.Context, id string, in domain.Input) (domain.Task, error) {
	id, err := domain.ParseID(id)
	if err != nil {
		return domain.Task{}, err
	}

	var updated domain.Task
	err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		current, err := lockTask(ctx, tx, id)
		if err != nil {
			return err
		}

		next, err := domain.Merge(current, in, r.clock)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE tasks SET title = $2, description = $3, status = $4, updated_at = $5
			 WHERE id = $1::uuid`,
			next.ID, next.Title, next.Description, string(next.Status), next.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("%w: failed to update task: %w", domain.ErrStorage, err)
		}
		updated = next
		return nil
	})
	if err != nil {
		return domain.Task{}, storageError("update task", err)
	}
	return updated, nil
}

// DeleteByID removes the task with the given id and returns it.
func (r *PostgresRepository) DeleteByID(ctx context.Context, id string) (domain.Task, error) {
	id, err := domain.ParseID(id)
	if err != nil {
		return domain.Task{}, err
	}

	rows, err := r.pool.Query(ctx, `DELETE FROM tasks WHERE id = $1::uuid RETURNING `+taskColumns, id)
	if err != nil {
		return domain.Task{}, fmt.Errorf("%w: failed to delete task: %w", domain.ErrStorage, err)
	}

	deleted, err := pgx.CollectExactlyOneRow(rows, scanTask)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Task{}, domain.ErrNotFound
		}
		return domain.Task{}, fmt.Errorf("%w: failed to delete task: %w", domain.ErrStorage, err)
	}
	return deleted, nil
}

// Ping checks the database connection.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the connection pool.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

func lockTask(ctx context.Context, tx pgx.Tx, id string) (domain.Task, error) {
	rows, err := tx.Query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1::uuid FOR UPDATE`, id)
	if err != nil {
		return domain.Task{}, fmt.Errorf("%w: failed to find task: %w", domain.ErrStorage, err)
	}

	t, err := pgx.CollectExactlyOneRow(rows, scanTask)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Task{}, domain.ErrNotFound
		}
		return domain.Task{}, fmt.Errorf("%w: failed to find task: %w", domain.ErrStorage, err)
	}
	return t, nil
}

func scanTask(row pgx.CollectableRow) (domain.Task, error) {
	var (
		t      domain.Task
		status string
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return domain.Task{}, err
	}
	t.Status = domain.Status(status)
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return t, nil
}
