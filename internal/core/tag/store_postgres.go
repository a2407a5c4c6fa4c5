package tag

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tagmi/tagmi/internal/platform/database/schema"
	"github.com/tagmi/tagmi/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) ListByGroup(context context.Context, groupID string) ([]*Tag, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1 ORDER BY %s ASC`,
		schema.Tag.ID, schema.Tag.Name, schema.Tag.GroupID, schema.Tag.CreatedAt,
		schema.Tag.Table, schema.Tag.GroupID, schema.Tag.Name)

	rows, err := repository.db.Query(context, query, groupID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_group_tags")
	}
	defer rows.Close()

	tags := make([]*Tag, 0)
	for rows.Next() {
		t := &Tag{}
		if err := rows.Scan(&t.ID, &t.Name, &t.GroupID, &t.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_tag")
		}
		tags = append(tags, t)
	}

	return tags, nil
}

func (repository *PostgresRepository) FindByName(context context.Context, groupID, name string) (*Tag, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s FROM %s
		WHERE %s = $1 AND LOWER(%s) = LOWER($2)
	`,
		schema.Tag.ID, schema.Tag.Name, schema.Tag.GroupID, schema.Tag.CreatedAt,
		schema.Tag.Table, schema.Tag.GroupID, schema.Tag.Name)

	t := &Tag{}
	err := repository.db.QueryRow(context, query, groupID, name).Scan(&t.ID, &t.Name, &t.GroupID, &t.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "find_tag_by_name")
	}
	return t, nil
}

func (repository *PostgresRepository) FindInGroup(context context.Context, groupID, tagID string) (*Tag, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s FROM %s
		WHERE %s = $1 AND %s = $2
	`,
		schema.Tag.ID, schema.Tag.Name, schema.Tag.GroupID, schema.Tag.CreatedAt,
		schema.Tag.Table, schema.Tag.GroupID, schema.Tag.ID)

	t := &Tag{}
	err := repository.db.QueryRow(context, query, groupID, tagID).Scan(&t.ID, &t.Name, &t.GroupID, &t.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "find_tag_in_group")
	}
	return t, nil
}

func (repository *PostgresRepository) ResolveInGroup(context context.Context, groupID string, tagIDs []string) ([]*Tag, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s FROM %s
		WHERE %s = $1 AND %s = ANY($2)
	`,
		schema.Tag.ID, schema.Tag.Name, schema.Tag.GroupID, schema.Tag.CreatedAt,
		schema.Tag.Table, schema.Tag.GroupID, schema.Tag.ID)

	rows, err := repository.db.Query(context, query, groupID, tagIDs)
	if err != nil {
		return nil, dberr.Wrap(err, "resolve_group_tags")
	}
	defer rows.Close()

	tags := make([]*Tag, 0, len(tagIDs))
	for rows.Next() {
		t := &Tag{}
		if err := rows.Scan(&t.ID, &t.Name, &t.GroupID, &t.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_resolved_tag")
		}
		tags = append(tags, t)
	}

	return tags, nil
}

func (repository *PostgresRepository) Create(context context.Context, tag *Tag) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, NOW())
		RETURNING %s
	`,
		schema.Tag.Table, schema.Tag.ID, schema.Tag.Name, schema.Tag.GroupID, schema.Tag.CreatedAt,
		schema.Tag.CreatedAt)

	err := repository.db.QueryRow(context, query, tag.ID, tag.Name, tag.GroupID).Scan(&tag.CreatedAt)
	return dberr.Wrap(err, "create_tag")
}

func (repository *PostgresRepository) Delete(context context.Context, tagID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Tag.Table, schema.Tag.ID)
	_, err := repository.db.Exec(context, query, tagID)
	return dberr.Wrap(err, "delete_tag")
}
