package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/hotel-staff-service/internal/domain"
	"github.com/spec-kit/hotel-staff-service/internal/persistence"
)

// ProfileRepository handles persistence for profile rows.
type ProfileRepository interface {
	// GetByEmail fetches a profile by exact email match.
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	// InsertStaff writes a staff profile row. It runs under the service
	// role, which is what allows writing a row belonging to a tenant
	// other than the caller's session.
	InsertStaff(ctx context.Context, profile *domain.Profile) error
}

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository instantiates the repository. It requires the
// elevated ServiceRole capability; there is no constructor taking a
// plain session-scoped connection.
func NewProfileRepository(role persistence.ServiceRole) ProfileRepository {
	return &profileRepository{pool: role.Handle()}
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	if r.pool == nil {
		return nil, persistence.ErrNotConfigured
	}

	const query = `
        SELECT id, email, role, full_name, hotel_id, created_at, updated_at
        FROM profiles WHERE email=$1`

	var profile domain.Profile
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&profile.ID,
		&profile.Email,
		&profile.Role,
		&profile.FullName,
		&profile.HotelID,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) InsertStaff(ctx context.Context, profile *domain.Profile) error {
	if r.pool == nil {
		return persistence.ErrNotConfigured
	}

	const query = `
        INSERT INTO profiles (id, email, role, full_name, hotel_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		profile.ID,
		profile.Email,
		profile.Role,
		profile.FullName,
		profile.HotelID,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
}
