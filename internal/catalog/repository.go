package catalog

import (
	"context"
	"database/sql"

	"plantcare-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	List(ctx context.Context, activeOnly bool) ([]*CareService, error)
	GetByID(ctx context.Context, id uint) (*CareService, error)
	Create(ctx context.Context, svc *CareService) error
	Update(ctx context.Context, svc *CareService) error
	Deactivate(ctx context.Context, id uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, activeOnly bool) ([]*CareService, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Catalog"),
		zap.String("method", "List"),
	)

	q := `
		SELECT id, name, price, duration_minutes, active, created_at, updated_at
		FROM services
	`
	if activeOnly {
		q += ` WHERE active = TRUE`
	}
	q += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var res []*CareService
	for rows.Next() {
		var s CareService
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Price, &s.Duration, &s.Active,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			log.Error("scan failed", zap.Error(err))
			return nil, err
		}
		res = append(res, &s)
	}

	return res, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id uint) (*CareService, error) {
	var s CareService
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, price, duration_minutes, active, created_at, updated_at
		FROM services
		WHERE id = $1
	`, id).Scan(&s.ID, &s.Name, &s.Price, &s.Duration, &s.Active, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) Create(ctx context.Context, svc *CareService) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO services (name, price, duration_minutes, active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING id, active, created_at, updated_at
	`, svc.Name, svc.Price, svc.Duration).
		Scan(&svc.ID, &svc.Active, &svc.CreatedAt, &svc.UpdatedAt)
}

func (r *repository) Update(ctx context.Context, svc *CareService) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE services
		SET name = $1, price = $2, duration_minutes = $3, active = $4, updated_at = NOW()
		WHERE id = $5
	`, svc.Name, svc.Price, svc.Duration, svc.Active, svc.ID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repository) Deactivate(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE services SET active = FALSE, updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
