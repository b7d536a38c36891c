package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/entity"
)

type linkDB struct {
	ID          string         `db:"id"`
	ShortCode   string         `db:"short_code"`
	OriginalURL string         `db:"original_url"`
	OwnerID     string         `db:"owner_id"`
	CustomAlias sql.NullString `db:"custom_alias"`
	ClickCount  int64          `db:"click_count"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (l *linkDB) toEntity() *entity.Link {
	return &entity.Link{
		ID:          l.ID,
		ShortCode:   l.ShortCode,
		OriginalURL: l.OriginalURL,
		OwnerID:     l.OwnerID,
		CustomAlias: l.CustomAlias.String,
		ClickCount:  l.ClickCount,
		CreatedAt:   l.CreatedAt,
	}
}

type LinkRepository struct {
	db *sqlx.DB
}

func NewLinkRepository(db *sqlx.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

func (r *LinkRepository) Save(ctx context.Context, link *entity.Link) (*entity.Link, error) {
	const op = "adapter.repository.postgres.LinkRepository.Save"
	const query = `INSERT INTO links(short_code, original_url, owner_id, custom_alias) VALUES ($1, $2, $3, $4) RETURNING *`

	var saved linkDB
	alias := sql.NullString{String: link.CustomAlias, Valid: link.CustomAlias != ""}

	if err := r.db.GetContext(ctx, &saved, query, link.ShortCode, link.OriginalURL, link.OwnerID, alias); err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrShortCodeExists)
		}

		return nil, unavailable(op, "failed to insert into links table", err)
	}

	return saved.toEntity(), nil
}

func (r *LinkRepository) RetrieveByID(ctx context.Context, id string) (*entity.Link, error) {
	const op = "adapter.repository.postgres.LinkRepository.RetrieveByID"
	const query = `SELECT * FROM links WHERE id = $1`

	return r.retrieve(ctx, op, query, id)
}

func (r *LinkRepository) RetrieveByShortCode(ctx context.Context, shortCode string) (*entity.Link, error) {
	const op = "adapter.repository.postgres.LinkRepository.RetrieveByShortCode"
	const query = `SELECT * FROM links WHERE short_code = $1`

	return r.retrieve(ctx, op, query, shortCode)
}

func (r *LinkRepository) retrieve(ctx context.Context, op, query string, arg any) (*entity.Link, error) {
	var link linkDB

	if err := r.db.GetContext(ctx, &link, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
		}

		return nil, unavailable(op, "failed to get row from links table", err)
	}

	return link.toEntity(), nil
}

func (r *LinkRepository) ExistsByShortCode(ctx context.Context, shortCode string) (bool, error) {
	const op = "adapter.repository.postgres.LinkRepository.ExistsByShortCode"
	const query = `SELECT EXISTS(SELECT 1 FROM links WHERE short_code = $1)`

	var exists bool

	if err := r.db.GetContext(ctx, &exists, query, shortCode); err != nil {
		return false, unavailable(op, "failed to check links table", err)
	}

	return exists, nil
}

func (r *LinkRepository) ListByOwner(ctx context.Context, ownerID string, ordered bool) ([]*entity.Link, error) {
	const op = "adapter.repository.postgres.LinkRepository.ListByOwner"

	query := `SELECT * FROM links WHERE owner_id = $1`
	if ordered {
		query += ` ORDER BY created_at DESC`
	}

	var rows []linkDB

	if err := r.db.SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, listError(op, "failed to select from links table", ordered, err)
	}

	links := make([]*entity.Link, 0, len(rows))
	for i := range rows {
		links = append(links, rows[i].toEntity())
	}

	return links, nil
}

// IncrementClickCount adds delta to the click count in a single statement,
// so concurrent increments are never lost.
func (r *LinkRepository) IncrementClickCount(ctx context.Context, id string, delta int64) error {
	const op = "adapter.repository.postgres.LinkRepository.IncrementClickCount"
	const query = `UPDATE links SET click_count = click_count + $1 WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, delta, id)
	if err != nil {
		return unavailable(op, "failed to update links table row", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return unavailable(op, "failed to get number of affected rows", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	}

	return nil
}

func (r *LinkRepository) Remove(ctx context.Context, id string) error {
	const op = "adapter.repository.postgres.LinkRepository.Remove"
	const query = `DELETE FROM links WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return unavailable(op, "failed to delete from links table", err)
	}

	return nil
}
