package registry

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrGymNotFound     = errors.New("gym not found")
	ErrNotOwner        = errors.New("caller is not the gym owner")
	ErrDuplicateMember = errors.New("caller is already a member of this gym")
)

// Repository is the Postgres-backed Store. Mutations that depend on the
// current gym row run inside a transaction with the row locked, so two
// interleaved requests on the same gym cannot race each other's
// read-modify-write.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateGym(ctx context.Context, gym Gym) (*Gym, error) {
	query := `
		INSERT INTO gyms (id, owner, name, image_url, location, description, email)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, owner, name, image_url, location, description, email, created_at, updated_at
	`

	var created Gym
	err := r.db.GetContext(ctx, &created, query,
		gym.ID, gym.Owner, gym.Name, gym.ImageURL, gym.Location, gym.Description, gym.Email)
	if err != nil {
		return nil, err
	}

	created.Members = []Membership{}
	created.Services = []GymService{}
	return &created, nil
}

func (r *Repository) GetGymByID(ctx context.Context, id string) (*Gym, error) {
	query := `
		SELECT id, owner, name, image_url, location, description, email, created_at, updated_at
		FROM gyms
		WHERE id = $1
	`

	var gym Gym
	err := r.db.GetContext(ctx, &gym, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGymNotFound
	}
	if err != nil {
		return nil, err
	}

	if gym.Members, err = r.ListMemberships(ctx, id); err != nil {
		return nil, err
	}
	if gym.Services, err = r.ListServices(ctx, id); err != nil {
		return nil, err
	}
	return &gym, nil
}

func (r *Repository) ListGyms(ctx context.Context) ([]Gym, error) {
	query := `
		SELECT id, owner, name, image_url, location, description, email, created_at, updated_at
		FROM gyms
		ORDER BY created_at DESC
	`

	gyms := []Gym{}
	if err := r.db.SelectContext(ctx, &gyms, query); err != nil {
		return nil, err
	}

	for i := range gyms {
		members, err := r.ListMemberships(ctx, gyms[i].ID)
		if err != nil {
			return nil, err
		}
		services, err := r.ListServices(ctx, gyms[i].ID)
		if err != nil {
			return nil, err
		}
		gyms[i].Members = members
		gyms[i].Services = services
	}
	return gyms, nil
}

// lockGym loads and row-locks a gym inside tx. Returns ErrGymNotFound if the
// id is absent.
func lockGym(ctx context.Context, tx *sqlx.Tx, id string) (*Gym, error) {
	var gym Gym
	err := tx.QueryRowxContext(ctx, `
		SELECT id, owner, name, image_url, location, description, email, created_at, updated_at
		FROM gyms
		WHERE id = $1
		FOR UPDATE
	`, id).StructScan(&gym)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGymNotFound
	}
	if err != nil {
		return nil, err
	}
	return &gym, nil
}

func (r *Repository) UpdateGym(ctx context.Context, id, owner string, p GymPayload) (*Gym, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	gym, err := lockGym(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if gym.Owner != owner {
		return nil, ErrNotOwner
	}

	// Owner is deliberately absent from the SET list; it can never change.
	var updated Gym
	err = tx.QueryRowxContext(ctx, `
		UPDATE gyms
		SET name = $1, image_url = $2, location = $3, description = $4, email = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING id, owner, name, image_url, location, description, email, created_at, updated_at
	`, p.Name, p.ImageURL, p.Location, p.Description, p.Email, id).StructScan(&updated)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	if updated.Members, err = r.ListMemberships(ctx, id); err != nil {
		return nil, err
	}
	if updated.Services, err = r.ListServices(ctx, id); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *Repository) DeleteGym(ctx context.Context, id, owner string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	gym, err := lockGym(ctx, tx, id)
	if err != nil {
		return err
	}
	if gym.Owner != owner {
		return ErrNotOwner
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM gyms WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Repository) AddMembership(ctx context.Context, m Membership) (*Membership, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := lockGym(ctx, tx, m.GymID); err != nil {
		return nil, err
	}

	var exists bool
	err = tx.QueryRowxContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM memberships WHERE gym_id = $1 AND user_id = $2)`,
		m.GymID, m.UserID,
	).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateMember
	}

	var created Membership
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO memberships (gym_id, user_id, user_name, full_name, email_address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, gym_id, user_id, user_name, full_name, email_address, created_at
	`, m.GymID, m.UserID, m.UserName, m.FullName, m.EmailAddress).StructScan(&created)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *Repository) ListMemberships(ctx context.Context, gymID string) ([]Membership, error) {
	members := []Membership{}
	err := r.db.SelectContext(ctx, &members, `
		SELECT id, gym_id, user_id, user_name, full_name, email_address, created_at
		FROM memberships
		WHERE gym_id = $1
		ORDER BY id ASC
	`, gymID)
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *Repository) AddService(ctx context.Context, s GymService) (*GymService, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := lockGym(ctx, tx, s.GymID); err != nil {
		return nil, err
	}

	var created GymService
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO gym_services (gym_id, service_name, service_description, operating_days_start, operating_days_end)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, gym_id, service_name, service_description, operating_days_start, operating_days_end, created_at
	`, s.GymID, s.ServiceName, s.ServiceDescription, s.OperatingDaysStart, s.OperatingDaysEnd).StructScan(&created)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *Repository) ListServices(ctx context.Context, gymID string) ([]GymService, error) {
	services := []GymService{}
	err := r.db.SelectContext(ctx, &services, `
		SELECT id, gym_id, service_name, service_description, operating_days_start, operating_days_end, created_at
		FROM gym_services
		WHERE gym_id = $1
		ORDER BY id ASC
	`, gymID)
	if err != nil {
		return nil, err
	}
	return services, nil
}
