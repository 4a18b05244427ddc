package plant

import (
	"context"
	"database/sql"

	"plantcare-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetByUserID(ctx context.Context, userID uint) ([]*Plant, error)
	GetByID(ctx context.Context, id uint) (*Plant, error)
	Create(ctx context.Context, p *Plant) error
	Update(ctx context.Context, p *Plant) error
	Delete(ctx context.Context, id uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByUserID(ctx context.Context, userID uint) ([]*Plant, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Plant"),
		zap.String("method", "GetByUserID"),
		zap.Uint("user_id", userID),
	)

	const q = `
		SELECT id, user_id, name, type, location, description, created_at, updated_at
		FROM plants
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var res []*Plant
	for rows.Next() {
		var p Plant
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.Name, &p.Type,
			&p.Location, &p.Description, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			log.Error("scan failed", zap.Error(err))
			return nil, err
		}
		res = append(res, &p)
	}

	return res, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Plant, error) {
	const q = `
		SELECT id, user_id, name, type, location, description, created_at, updated_at
		FROM plants
		WHERE id = $1
		LIMIT 1
	`

	var p Plant
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &p.UserID, &p.Name, &p.Type,
		&p.Location, &p.Description, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) Create(ctx context.Context, p *Plant) error {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Plant"),
		zap.String("method", "Create"),
		zap.Uint("user_id", p.UserID),
	)

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO plants (user_id, name, type, location, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, p.UserID, p.Name, p.Type, p.Location, p.Description).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		log.Error("insert failed", zap.Error(err))
	}
	return err
}

func (r *repository) Update(ctx context.Context, p *Plant) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE plants
		SET name = $1, type = $2, location = $3, description = $4, updated_at = NOW()
		WHERE id = $5
	`, p.Name, p.Type, p.Location, p.Description, p.ID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plants WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
