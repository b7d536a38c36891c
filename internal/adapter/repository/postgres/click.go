package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/entity"
)

type clickDB struct {
	ID        string    `db:"id"`
	LinkID    string    `db:"link_id"`
	OwnerID   string    `db:"owner_id"`
	ClickedAt time.Time `db:"clicked_at"`
	ClickDate string    `db:"click_date"`
}

func (c *clickDB) toEntity() *entity.Click {
	return &entity.Click{
		ID:        c.ID,
		LinkID:    c.LinkID,
		OwnerID:   c.OwnerID,
		Timestamp: c.ClickedAt.UTC(),
		Date:      c.ClickDate,
	}
}

type ClickRepository struct {
	db *sqlx.DB
}

func NewClickRepository(db *sqlx.DB) *ClickRepository {
	return &ClickRepository{db: db}
}

func (r *ClickRepository) Save(ctx context.Context, click *entity.Click) (*entity.Click, error) {
	const op = "adapter.repository.postgres.ClickRepository.Save"
	const query = `INSERT INTO clicks(link_id, owner_id, clicked_at, click_date) VALUES ($1, $2, $3, $4) RETURNING *`

	var saved clickDB

	if err := r.db.GetContext(ctx, &saved, query, click.LinkID, click.OwnerID, click.Timestamp, click.Date); err != nil {
		return nil, unavailable(op, "failed to insert into clicks table", err)
	}

	return saved.toEntity(), nil
}

func (r *ClickRepository) ListByLink(ctx context.Context, linkID string, ordered bool) ([]*entity.Click, error) {
	const op = "adapter.repository.postgres.ClickRepository.ListByLink"

	query := `SELECT * FROM clicks WHERE link_id = $1`
	if ordered {
		query += ` ORDER BY clicked_at DESC`
	}

	var rows []clickDB

	if err := r.db.SelectContext(ctx, &rows, query, linkID); err != nil {
		return nil, listError(op, "failed to select from clicks table", ordered, err)
	}

	clicks := make([]*entity.Click, 0, len(rows))
	for i := range rows {
		clicks = append(clicks, rows[i].toEntity())
	}

	return clicks, nil
}

func (r *ClickRepository) Remove(ctx context.Context, id string) error {
	const op = "adapter.repository.postgres.ClickRepository.Remove"
	const query = `DELETE FROM clicks WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return unavailable(op, "failed to delete from clicks table", err)
	}

	return nil
}
