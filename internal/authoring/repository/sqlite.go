package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"precast-bim/internal/authoring/models"
)

// ============================================================
// SQLite Repository
// ============================================================

//go:embed migrations/*.sql
var migrations embed.FS

var ErrNotFound = errors.New("document not found")

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init применяет встроенные миграции по порядку имен файлов.
func (r *Repository) Init(ctx context.Context) error {
	if err := r.runMigrations(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

func (r *Repository) Insert(ctx context.Context, rec *models.DocumentRecord) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO documents (id, kind, name, path, entity_count, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `, rec.ID, rec.Kind, rec.Name, rec.Path, rec.EntityCount, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert document %s: %w", rec.ID, err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*models.DocumentRecord, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, kind, name, path, entity_count, created_at
        FROM documents
        WHERE id = ?
    `, id)

	var d models.DocumentRecord
	if err := row.Scan(&d.ID, &d.Kind, &d.Name, &d.Path, &d.EntityCount, &d.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// List returns documents newest first. An empty kind lists every kind.
func (r *Repository) List(ctx context.Context, kind string) ([]models.DocumentRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, kind, name, path, entity_count, created_at
        FROM documents
        WHERE ? = '' OR kind = ?
        ORDER BY created_at DESC, id
    `, kind, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.DocumentRecord{}
	for rows.Next() {
		var d models.DocumentRecord
		if err := rows.Scan(&d.ID, &d.Kind, &d.Name, &d.Path, &d.EntityCount, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Ping проверяет доступность базы (readiness).
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ============================================================
// Migrations
// ============================================================

func (r *Repository) runMigrations(ctx context.Context) error {
	entries, err := migrations.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	// ReadDir returns entries sorted by name
	for _, entry := range entries {
		data, err := migrations.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
