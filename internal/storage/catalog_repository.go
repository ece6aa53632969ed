package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/barberbook/barberbook/internal/booking"
	"github.com/barberbook/barberbook/libs/db"
)

// CatalogRepository owns barber and service rows. It backs both the engine's
// weak-reference lookups and the admin/catalog endpoints.
type CatalogRepository struct {
	pool *db.Pool
}

func NewCatalogRepository(pool *db.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) GetBarber(ctx context.Context, id string) (booking.Barber, bool, error) {
	var b booking.Barber
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, name, active
		FROM barbers
		WHERE id::text = $1
	`, id).Scan(&b.ID, &b.Name, &b.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return booking.Barber{}, false, nil
		}
		return booking.Barber{}, false, err
	}
	return b, true, nil
}

func (r *CatalogRepository) GetService(ctx context.Context, id string) (booking.Service, bool, error) {
	var s booking.Service
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, code, name, duration_min, price_cents, active
		FROM services
		WHERE id::text = $1
	`, id).Scan(&s.ID, &s.Code, &s.Name, &s.DurationMin, &s.PriceCents, &s.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return booking.Service{}, false, nil
		}
		return booking.Service{}, false, err
	}
	return s, true, nil
}

func (r *CatalogRepository) ListActiveBarbers(ctx context.Context) ([]booking.Barber, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, name, active
		FROM barbers
		WHERE active
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var barbers []booking.Barber
	for rows.Next() {
		var b booking.Barber
		if err := rows.Scan(&b.ID, &b.Name, &b.Active); err != nil {
			return nil, err
		}
		barbers = append(barbers, b)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return barbers, nil
}

func (r *CatalogRepository) ListActiveServices(ctx context.Context) ([]booking.Service, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, code, name, duration_min, price_cents, active
		FROM services
		WHERE active
		ORDER BY duration_min ASC, name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []booking.Service
	for rows.Next() {
		var s booking.Service
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.DurationMin, &s.PriceCents, &s.Active); err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return services, nil
}

func (r *CatalogRepository) CreateBarber(ctx context.Context, name string) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO barbers (name, active)
		VALUES ($1, true)
		RETURNING id::text
	`, name).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *CatalogRepository) CreateService(ctx context.Context, svc booking.Service) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO services (code, name, duration_min, price_cents, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id::text
	`, svc.Code, svc.Name, svc.DurationMin, svc.PriceCents, svc.Active).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}
