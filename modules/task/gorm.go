package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/example/taskflow/domain/task"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// taskRecord is the GORM model for the tasks table. Timestamps are managed by
// domain.Clock, not by GORM.
type taskRecord struct {
	ID          string    `gorm:"primarykey;size:36"`
	Title       string    `gorm:"size:100;not null"`
	Description string    `gorm:"size:500;not null"`
	Status      string    `gorm:"size:16;not null;index"`
	CreatedAt   time.Time `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime:false"`
}

// TableName returns the table name for the task model.
func (taskRecord) TableName() string {
	return "tasks"
}

func (r taskRecord) toDomain() domain.Task {
	return domain.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      domain.Status(r.Status),
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

func fromDomain(t domain.Task) *taskRecord {
	return &taskRecord{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// GormRepository stores tasks through GORM (SQLite by default).
type GormRepository struct {
	db    *gorm.DB
	clock *domain.Clock
}

var _ Store = (*GormRepository)(nil)

// OpenSQLite opens (or creates) the SQLite database at path.
func OpenSQLite(path string, debug bool) (*gorm.DB, error) {
	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite allows one writer; a single connection also keeps ":memory:"
	// databases from splitting across pool connections.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

// NewGormRepository creates a GORM task repository.
func NewGormRepository(db *gorm.DB, clock *domain.Clock) *GormRepository {
	return &GormRepository{db: db, clock: clock}
}

// Migrate creates or updates the tasks table.
func (r *GormRepository) Migrate() error {
	if err := r.db.AutoMigrate(&taskRecord{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// ListAll returns all tasks, newest first.
func (r *GormRepository) ListAll(ctx context.Context) ([]domain.Task, error) {
	var records []taskRecord
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to list tasks: %w", domain.ErrStorage, err)
	}

	tasks := make([]domain.Task, 0, len(records))
	for _, rec := range records {
		tasks = append(tasks, rec.toDomain())
	}
	return tasks, nil
}

// Create stores a new task built from draft.
func (r *GormRepository) Create(ctx context.Context, draft domain.Task) (domain.Task, error) {
	t, err := domain.Materialize(draft, r.clock)
	if err != nil {
		return domain.Task{}, err
	}

	if err := r.db.WithContext(ctx).Create(fromDomain(t)).Error; err != nil {
		return domain.Task{}, fmt.Errorf("%w: failed to create task: %w", domain.ErrStorage, err)
	}
	return t, nil
}

// UpdateByID merges in into the task with the given id. Lookup and write run
// in one transaction.
func (r *GormRepository) UpdateByID(ctx context.Context, id string, in domain.Input) (domain.Task, error) {
	id, err := domain.ParseID(id)
	if err != nil {
		return domain.Task{}, err
	}

	var updated domain.Task
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findRecord(tx, id)
		if err != nil {
			return err
		}

		next, err := domain.Merge(current.toDomain(), in, r.clock)
		if err != nil {
			return err
		}

		if err := tx.Save(fromDomain(next)).Error; err != nil {
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
func (r *GormRepository) DeleteByID(ctx context.Context, id string) (domain.Task, error) {
	id, err := domain.ParseID(id)
	if err != nil {
		return domain.Task{}, err
	}

	var deleted domain.Task
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findRecord(tx, id)
		if err != nil {
			return err
		}

		result := tx.Delete(&taskRecord{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("%w: failed to delete task: %w", domain.ErrStorage, result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		deleted = current.toDomain()
		return nil
	})
	if err != nil {
		return domain.Task{}, storageError("delete task", err)
	}
	return deleted, nil
}

// Ping checks the database connection.
func (r *GormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection.
func (r *GormRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

func findRecord(tx *gorm.DB, id string) (*taskRecord, error) {
	var rec taskRecord
	if err := tx.First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: failed to find task: %w", domain.ErrStorage, err)
	}
	return &rec, nil
}

// storageError keeps classified errors and wraps anything else as a storage
// fault.
func storageError(op string, err error) error {
	if domain.KindOf(err) != domain.KindStorageFault || errors.Is(err, domain.ErrStorage) {
		return err
	}
	return fmt.Errorf("%w: failed to %s: %w", domain.ErrStorage, op, err)
}
