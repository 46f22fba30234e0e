// Copyright 2026 © The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

package content

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/inkwell-cms/inkwell/pkg/errors"

	_ "modernc.org/sqlite"
)

const (
	postTable     = "posts"
	tagTable      = "post_tags"
	categoryTable = "post_categories"
)

// SQLiteStore persists posts in a SQLite database. Post types are held in
// memory: they are code-registered at boot, not data.
type SQLiteStore struct {
	db    *sql.DB
	types *TypeSet
}

// NewSQLiteStore creates a SQLite-backed content store and ensures schema.
func NewSQLiteStore(db *sql.DB, types *TypeSet) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	if types == nil {
		types = NewTypeSet(GenericType())
	}
	if err := ensureSQLiteSchema(db); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db, types: types}, nil
}

// OpenSQLiteStore opens (or creates) the database at path and builds a store
// over it.
func OpenSQLiteStore(path string, types *TypeSet) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return NewSQLiteStore(db, types)
}

func ensureSQLiteSchema(db *sql.DB) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			post_type TEXT NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			excerpt TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);`, postTable),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_type_status ON %s(post_type, status);`, postTable, postTable),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_updated ON %s(updated_at);`, postTable, postTable),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			post_id INTEGER NOT NULL,
			tag TEXT NOT NULL,
			PRIMARY KEY(post_id, tag)
		);`, tagTable),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			post_id INTEGER NOT NULL,
			category_id INTEGER NOT NULL,
			PRIMARY KEY(post_id, category_id)
		);`, categoryTable),
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// CreateResource inserts a post and its category assignments in one
// transaction.
func (s *SQLiteStore) CreateResource(ctx context.Context, post NewPost) (int64, error) {
	now := time.Now().UTC().UnixMilli()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, storeFailure("begin create", err)
	}
	result, err := tx.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (post_type, title, content, excerpt, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)", postTable),
		post.Type, post.Title, post.Content, post.Excerpt, string(post.Status), now, now)
	if err != nil {
		_ = tx.Rollback()
		return 0, storeFailure("insert post", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return 0, storeFailure("insert post", err)
	}
	for _, categoryID := range post.Categories {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf("INSERT OR IGNORE INTO %s (post_id, category_id) VALUES (?, ?)", categoryTable),
			id, categoryID); err != nil {
			_ = tx.Rollback()
			return 0, storeFailure("assign category", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, storeFailure("commit create", err)
	}
	return id, nil
}

// UpdateResource applies a partial update. Absent fields keep their stored
// values byte for byte.
func (s *SQLiteStore) UpdateResource(ctx context.Context, id int64, patch PostPatch) error {
	if patch.Empty() {
		return nil
	}

	var sets []string
	var args []any
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *patch.Content)
	}
	if patch.Excerpt != nil {
		sets = append(sets, "excerpt = ?")
		args = append(args, *patch.Excerpt)
	}
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*patch.Status))
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC().UnixMilli())
	args = append(args, id)

	result, err := s.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", postTable, strings.Join(sets, ", ")),
		args...)
	if err != nil {
		return storeFailure("update post", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storeFailure("update post", err)
	}
	if affected == 0 {
		return notFound(id)
	}
	return nil
}

// GetResource loads a post with its category and tag assignments.
func (s *SQLiteStore) GetResource(ctx context.Context, id int64) (*Post, error) {
	var post Post
	var status string
	var createdAt, updatedAt int64
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT id, post_type, title, content, excerpt, status, created_at, updated_at FROM %s WHERE id = ?", postTable),
		id).Scan(&post.ID, &post.Type, &post.Title, &post.Content, &post.Excerpt, &status, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound(id)
		}
		return nil, storeFailure("load post", err)
	}
	post.Status = Status(status)
	post.CreatedAt = time.UnixMilli(createdAt).UTC()
	post.UpdatedAt = time.UnixMilli(updatedAt).UTC()

	if post.Categories, err = s.loadCategories(ctx, id); err != nil {
		return nil, err
	}
	if post.Tags, err = s.loadTags(ctx, id); err != nil {
		return nil, err
	}
	return &post, nil
}

// QueryResources selects posts matching the query, ordered and limited at
// the store level. Capability filtering is the caller's concern.
func (s *SQLiteStore) QueryResources(ctx context.Context, q Query) ([]*Post, error) {
	clauses := []string{"post_type = ?", "status = ?"}
	args := []any{q.Type, string(q.Status)}
	if q.Search != "" {
		clauses = append(clauses, "(title LIKE ? OR content LIKE ?)")
		pattern := "%" + q.Search + "%"
		args = append(args, pattern, pattern)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}
	args = append(args, limit)

	query := fmt.Sprintf("SELECT id FROM %s WHERE %s ORDER BY %s %s LIMIT ?",
		postTable, strings.Join(clauses, " AND "), orderColumn(q.OrderBy), orderDirection(q.Order))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeFailure("query posts", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, storeFailure("query posts", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storeFailure("query posts", err)
	}

	out := make([]*Post, 0, len(ids))
	for _, id := range ids {
		post, err := s.GetResource(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, post)
	}
	return out, nil
}

// SetTags replaces a post's tag assignments.
func (s *SQLiteStore) SetTags(ctx context.Context, id int64, tags []string) error {
	if _, err := s.GetResource(ctx, id); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeFailure("begin set tags", err)
	}
	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE post_id = ?", tagTable), id); err != nil {
		_ = tx.Rollback()
		return storeFailure("clear tags", err)
	}
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf("INSERT OR IGNORE INTO %s (post_id, tag) VALUES (?, ?)", tagTable),
			id, tag); err != nil {
			_ = tx.Rollback()
			return storeFailure("assign tag", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return storeFailure("commit set tags", err)
	}
	return nil
}

// ResolveType returns the descriptor registered for slug.
func (s *SQLiteStore) ResolveType(slug string) (*TypeDescriptor, error) {
	return s.types.Resolve(slug)
}

// RegisterType adds a post type descriptor. Boot-phase only.
func (s *SQLiteStore) RegisterType(td TypeDescriptor) {
	s.types.Register(td)
}

func (s *SQLiteStore) loadCategories(ctx context.Context, id int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT category_id FROM %s WHERE post_id = ? ORDER BY category_id ASC", categoryTable), id)
	if err != nil {
		return nil, storeFailure("load categories", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var categoryID int64
		if err := rows.Scan(&categoryID); err != nil {
			return nil, storeFailure("load categories", err)
		}
		out = append(out, categoryID)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) loadTags(ctx context.Context, id int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT tag FROM %s WHERE post_id = ? ORDER BY tag ASC", tagTable), id)
	if err != nil {
		return nil, storeFailure("load tags", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, storeFailure("load tags", err)
		}
		out = append(out, tag)
	}
	return out, rows.Err()
}

func orderColumn(orderBy string) string {
	switch orderBy {
	case "title":
		return "title"
	case "id":
		return "id"
	case "modified":
		return "updated_at"
	default:
		return "created_at"
	}
}

func orderDirection(order string) string {
	if strings.EqualFold(order, "ASC") {
		return "ASC"
	}
	return "DESC"
}

func notFound(id int64) error {
	return errors.New(errors.CodeResourceNotFound,
		fmt.Sprintf("post %d not found", id), nil)
}

func storeFailure(op string, err error) error {
	return errors.New(errors.CodeStoreError, op+" failed", err)
}

var _ Store = (*SQLiteStore)(nil)
