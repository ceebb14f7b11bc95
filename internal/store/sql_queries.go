package store

import (
	"fmt"
	"time"

	"github.com/MKhiriev/sticky-chain/models"
	sq "github.com/Masterminds/squirrel"
)

const (
	notesTable         = "notes"
	snapshotNotesTable = "snapshot_notes"
	snapshotMetaTable  = "snapshot_meta"
)

var noteColumns = []string{"seq", "id", "content", "x", "y", "color", "author", "receipt", "created_at"}

var snapshotColumns = []string{"position", "id", "content", "x", "y", "color", "author", "timestamp", "receipt"}

func buildListNotesQuery(b sq.StatementBuilderType) (string, []any, error) {
	query, args, err := b.Select(noteColumns...).
		From(notesTable).
		OrderBy("seq ASC").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildInsertNoteQuery(b sq.StatementBuilderType, r models.NoteRecord) (string, []any, error) {
	query, args, err := b.Insert(notesTable).
		Columns("id", "content", "x", "y", "color", "author", "receipt", "created_at").
		Values(r.ID, r.Content, r.X, r.Y, r.Color, r.Author, r.Receipt, r.Timestamp).
		Suffix("RETURNING seq").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildMoveNoteQuery(b sq.StatementBuilderType, id string, to models.Point) (string, []any, error) {
	query, args, err := b.Update(notesTable).
		Set("x", to.X).
		Set("y", to.Y).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildDeleteNoteQuery(b sq.StatementBuilderType, id string) (string, []any, error) {
	query, args, err := b.Delete(notesTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildInsertSnapshotQuery renders one multi-row insert for notes.
func buildInsertSnapshotQuery(b sq.StatementBuilderType, notes []models.Note) (string, []any, error) {
	insert := b.Insert(snapshotNotesTable).Columns(snapshotColumns...)
	for i, n := range notes {
		insert = insert.Values(i, n.ID, n.Content, n.Position.X, n.Position.Y, string(n.Color), n.Author, n.Timestamp.UTC(), string(n.Receipt))
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSelectSnapshotQuery(b sq.StatementBuilderType) (string, []any, error) {
	query, args, err := b.Select(snapshotColumns...).
		From(snapshotNotesTable).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildUpsertSnapshotMetaQuery(b sq.StatementBuilderType, savedAt time.Time) (string, []any, error) {
	query, args, err := b.Insert(snapshotMetaTable).
		Columns("id", "saved_at").
		Values(1, savedAt.UTC()).
		Suffix("ON CONFLICT (id) DO UPDATE SET saved_at = excluded.saved_at").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
