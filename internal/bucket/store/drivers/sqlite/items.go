package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/anurag24-26/openup/internal/bucket/domain"
)

type itemsRepo struct {
	db dbtx
}

// Items are always read with the owner's name joined in, so responses never
// carry a stale name copy.
const itemSelect = `
	SELECT i.id, i.text, i.description, i.image, i.owner_id, u.username,
	       i.completed, i.created_at, i.updated_at
	FROM items i
	JOIN users u ON u.id = i.owner_id`

func (r *itemsRepo) CreateItem(ctx context.Context, it domain.Item) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO items (id, text, description, image, owner_id, completed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		it.ID, it.Text, it.Description, it.Image, it.OwnerID, it.Completed, it.CreatedAt, it.UpdatedAt,
	)
	return err
}

func (r *itemsRepo) GetItemByID(ctx context.Context, id string) (domain.Item, error) {
	row := r.db.QueryRowContext(ctx, itemSelect+` WHERE i.id = ?`, id)
	return scanItem(row)
}

func (r *itemsRepo) ListItems(ctx context.Context) ([]domain.Item, error) {
	rows, err := r.db.QueryContext(ctx, itemSelect+` ORDER BY i.id DESC`)
	if err != nil {
		return nil, err
	}
	return collectItems(rows)
}

func (r *itemsRepo) ListItemsByOwner(ctx context.Context, ownerID string) ([]domain.Item, error) {
	rows, err := r.db.QueryContext(ctx,
		itemSelect+` WHERE i.owner_id = ? ORDER BY i.id DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	return collectItems(rows)
}

func (r *itemsRepo) MarkItemCompleted(ctx context.Context, id string) error {
	// One-way transition; re-completing is a no-op rather than an error so
	// repeated calls stay idempotent.
	_, err := r.db.ExecContext(ctx,
		`UPDATE items SET completed = 1, updated_at = ? WHERE id = ? AND completed = 0`,
		time.Now().UTC(), id,
	)
	return err
}

func scanItem(row *sql.Row) (domain.Item, error) {
	var it domain.Item
	err := row.Scan(
		&it.ID, &it.Text, &it.Description, &it.Image, &it.OwnerID,
		&it.CreatedBy, &it.Completed, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return domain.Item{}, mapNotFound(err)
	}
	return it, nil
}

func collectItems(rows *sql.Rows) ([]domain.Item, error) {
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(
			&it.ID, &it.Text, &it.Description, &it.Image, &it.OwnerID,
			&it.CreatedBy, &it.Completed, &it.CreatedAt, &it.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
