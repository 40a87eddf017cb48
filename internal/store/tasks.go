package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const selectTask = `
	SELECT id, custom_id, category,
	       COALESCE(name, '') AS name,
	       COALESCE(description, '') AS description,
	       status,
	       COALESCE(comment, '') AS comment,
	       created_at, updated_at
	FROM tasks`

const upsertTask = `
	INSERT INTO tasks (custom_id, category, name, description, status, comment, created_at, updated_at)
	VALUES (?, ?, NULLIF(?, ''), NULLIF(?, ''), ?, NULLIF(?, ''), ?, ?)
	ON CONFLICT(custom_id, category) DO UPDATE SET
		name = excluded.name,
		description = excluded.description,
		status = excluded.status,
		comment = excluded.comment,
		updated_at = excluded.updated_at;`

// UpsertBatch applies items to category in input order inside a single
// transaction: an existing (customId, category) row is overwritten in
// place, a new one is inserted. The whole batch is all-or-nothing; a
// duplicate customId within one batch is last-write-wins. Returns the
// number of items applied.
func (s *Store) UpsertBatch(ctx context.Context, category string, items []Item) (int, error) {
	if strings.TrimSpace(category) == "" {
		return 0, fmt.Errorf("%w: category is required", ErrInvalid)
	}
	if len(items) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin upsert tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := timeNow().Unix()
	for _, it := range items {
		if _, err := tx.ExecContext(ctx, upsertTask,
			it.CustomID, category, it.Name, it.Description, it.Status, it.Comment, now, now,
		); err != nil {
			return 0, fmt.Errorf("upsert task %q: %w", it.CustomID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit upsert tx: %w", err)
	}
	s.log.WithField("count", len(items)).Debug("batch upserted")
	return len(items), nil
}

// ResolveAndFetch returns the single task in category denoted by
// identifier. A string of digits with value > 0 is tried as the numeric id
// first and falls back to the literal custom id; anything else matches the
// custom id only.
func (s *Store) ResolveAndFetch(ctx context.Context, category, identifier string) (Task, error) {
	n, isID := ParseNumericID(identifier)
	if isID {
		var t Task
		err := s.db.GetContext(ctx, &t, selectTask+` WHERE category = ? AND id = ?`, category, n)
		if err == nil {
			return t, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return Task{}, fmt.Errorf("get task by id: %w", err)
		}
	}

	var t Task
	err := s.db.GetContext(ctx, &t, selectTask+` WHERE category = ? AND custom_id = ?`, category, identifier)
	if errors.Is(err, sql.ErrNoRows) {
		if isID {
			return Task{}, fmt.Errorf("%w: no task with id %d or custom id %q in category %q", ErrNotFound, n, identifier, category)
		}
		return Task{}, fmt.Errorf("%w: task %q in category %q", ErrNotFound, identifier, category)
	}
	if err != nil {
		return Task{}, fmt.Errorf("get task by custom id: %w", err)
	}
	return t, nil
}

// ListByCategory returns every task in category in insertion order.
func (s *Store) ListByCategory(ctx context.Context, category string) ([]Task, error) {
	var out []Task
	if err := s.db.SelectContext(ctx, &out, selectTask+` WHERE category = ? ORDER BY id`, category); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return out, nil
}

// ListByCategoryAndStatus returns the tasks in category with the given
// status, in insertion order.
func (s *Store) ListByCategoryAndStatus(ctx context.Context, category, status string) ([]Task, error) {
	if status != StatusWIP && status != StatusDone {
		return nil, fmt.Errorf("%w: status must be %q or %q", ErrInvalid, StatusWIP, StatusDone)
	}
	var out []Task
	if err := s.db.SelectContext(ctx, &out, selectTask+` WHERE category = ? AND status = ? ORDER BY id`, category, status); err != nil {
		return nil, fmt.Errorf("list tasks by status: %w", err)
	}
	return out, nil
}

// SetStatus updates the single row matched by (category, id): status,
// comment (an empty or omitted comment clears the stored one) and
// updated_at. rawID must satisfy the strict numeric-id rule.
func (s *Store) SetStatus(ctx context.Context, category, rawID, status, comment string) (Task, error) {
	if status != StatusWIP && status != StatusDone {
		return Task{}, fmt.Errorf("%w: status must be %q or %q", ErrInvalid, StatusWIP, StatusDone)
	}
	id, ok := ParseNumericID(rawID)
	if !ok {
		return Task{}, fmt.Errorf("%w: %q is not a positive integer id", ErrInvalidID, rawID)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks
		SET status = ?, comment = NULLIF(?, ''), updated_at = ?
		WHERE category = ? AND id = ?`,
		status, comment, timeNow().Unix(), category, id,
	)
	if err != nil {
		return Task{}, fmt.Errorf("update task status: %w", err)
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return Task{}, fmt.Errorf("%w: task %d in category %q", ErrNotFound, id, category)
	}

	var t Task
	if err := s.db.GetContext(ctx, &t, selectTask+` WHERE category = ? AND id = ?`, category, id); err != nil {
		return Task{}, fmt.Errorf("reload task: %w", err)
	}
	return t, nil
}

// Delete removes the single row matched by (category, id). rawID must
// satisfy the strict numeric-id rule.
func (s *Store) Delete(ctx context.Context, category, rawID string) error {
	id, ok := ParseNumericID(rawID)
	if !ok {
		return fmt.Errorf("%w: %q is not a positive integer id", ErrInvalidID, rawID)
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE category = ? AND id = ?`, category, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return fmt.Errorf("%w: task %d in category %q", ErrNotFound, id, category)
	}
	return nil
}

// Search returns the tasks in category whose custom id, name or description
// contains query as a substring. Matching is case-insensitive for ASCII
// (SQLite's default LIKE). Wildcard metacharacters in query are escaped, so
// a literal % or _ matches only itself; an empty query matches every row.
func (s *Store) Search(ctx context.Context, category, query string) ([]Task, error) {
	pattern := "%" + escapeLike(query) + "%"
	var out []Task
	err := s.db.SelectContext(ctx, &out, selectTask+`
		WHERE category = ?
		  AND (custom_id LIKE ? ESCAPE '\'
		    OR COALESCE(name, '') LIKE ? ESCAPE '\'
		    OR COALESCE(description, '') LIKE ? ESCAPE '\')
		ORDER BY id`,
		category, pattern, pattern, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("search tasks: %w", err)
	}
	return out, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// StatusSummary returns wip/done counts for every category in the store,
// ordered by category. Zero counts are reported, not omitted; an empty
// store yields an empty slice.
func (s *Store) StatusSummary(ctx context.Context) ([]CategorySummary, error) {
	var out []CategorySummary
	err := s.db.SelectContext(ctx, &out, `
		SELECT category,
		       SUM(CASE WHEN status = 'wip' THEN 1 ELSE 0 END) AS wip,
		       SUM(CASE WHEN status = 'done' THEN 1 ELSE 0 END) AS done
		FROM tasks
		GROUP BY category
		ORDER BY category`,
	)
	if err != nil {
		return nil, fmt.Errorf("status summary: %w", err)
	}
	return out, nil
}
