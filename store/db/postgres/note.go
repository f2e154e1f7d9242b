package postgres

import (
	"context"
	"fmt"

	"github.com/defterly/defterly/store"
)

func (db *DB) CreateNote(ctx context.Context, create *store.Note) (*store.Note, error) {
	query := `
		INSERT INTO note (uid, title, content)
		VALUES ($1, $2, $3)
		RETURNING id, uid, title, content, created_ts, updated_ts
	`
	var note store.Note
	err := db.db.QueryRowContext(ctx, query,
		create.UID,
		create.Title,
		create.Content,
	).Scan(
		&note.ID,
		&note.UID,
		&note.Title,
		&note.Content,
		&note.CreatedTs,
		&note.UpdatedTs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	return &note, nil
}

func (db *DB) ListNotes(ctx context.Context, find *store.FindNote) ([]*store.Note, error) {
	query := `
		SELECT id, uid, title, content, created_ts, updated_ts
		FROM note
		WHERE 1=1
	`
	var args []any
	argIndex := 1

	if find.ID != nil {
		query += fmt.Sprintf(" AND id = $%d", argIndex)
		args = append(args, *find.ID)
		argIndex++
	}
	if find.UID != nil {
		query += fmt.Sprintf(" AND uid = $%d", argIndex)
		args = append(args, *find.UID)
		argIndex++
	}

	query += " ORDER BY created_ts DESC, id DESC"

	if find.Limit != nil {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, *find.Limit)
		argIndex++
	}
	if find.Offset != nil {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, *find.Offset)
	}

	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []*store.Note
	for rows.Next() {
		var note store.Note
		if err := rows.Scan(
			&note.ID,
			&note.UID,
			&note.Title,
			&note.Content,
			&note.CreatedTs,
			&note.UpdatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, &note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

func (db *DB) UpdateNote(ctx context.Context, update *store.UpdateNote) (*store.Note, error) {
	sets := []string{}
	args := []any{}
	argIndex := 1

	if update.Title != nil {
		sets = append(sets, fmt.Sprintf("title = $%d", argIndex))
		args = append(args, *update.Title)
		argIndex++
	}
	if update.Content != nil {
		sets = append(sets, fmt.Sprintf("content = $%d", argIndex))
		args = append(args, *update.Content)
		argIndex++
	}

	if len(sets) == 0 {
		// Nothing to change; return the current row.
		notes, err := db.ListNotes(ctx, &store.FindNote{ID: &update.ID})
		if err != nil {
			return nil, err
		}
		if len(notes) == 0 {
			return nil, nil
		}
		return notes[0], nil
	}

	sets = append(sets, "updated_ts = EXTRACT(EPOCH FROM NOW())::BIGINT")

	query := "UPDATE note SET "
	for i, set := range sets {
		if i > 0 {
			query += ", "
		}
		query += set
	}
	query += fmt.Sprintf(" WHERE id = $%d RETURNING id, uid, title, content, created_ts, updated_ts", argIndex)
	args = append(args, update.ID)

	var note store.Note
	err := db.db.QueryRowContext(ctx, query, args...).Scan(
		&note.ID,
		&note.UID,
		&note.Title,
		&note.Content,
		&note.CreatedTs,
		&note.UpdatedTs,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	return &note, nil
}

func (db *DB) DeleteNote(ctx context.Context, delete *store.DeleteNote) error {
	query := `DELETE FROM note WHERE id = $1`
	if _, err := db.db.ExecContext(ctx, query, delete.ID); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}
