package repository

import (
	"context"

	"github.com/cmuseum/catalog/common/db"
	"github.com/cmuseum/catalog/common/models"
	"github.com/jackc/pgx/v5"
)

// UserRepository handles database operations for signed-in users
type UserRepository struct {
	db *db.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *db.DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.UserID,
		&u.Email,
		&u.DisplayName,
		&u.PhotoURL,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Upsert records a sign-in. Profile fields are refreshed; an existing role is kept.
func (r *UserRepository) Upsert(ctx context.Context, u *models.User) (*models.User, error) {
	query := `
		INSERT INTO app_user (user_id, email, display_name, photo_url, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			email = EXCLUDED.email,
			display_name = EXCLUDED.display_name,
			photo_url = EXCLUDED.photo_url,
			updated_at = NOW()
		RETURNING user_id, email, display_name, photo_url, role, created_at, updated_at
	`

	saved, err := scanUser(r.db.QueryRow(ctx, query, u.UserID, u.Email, u.DisplayName, u.PhotoURL, u.Role))
	if err != nil {
		return nil, storeError("upsert user", err)
	}
	return saved, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT user_id, email, display_name, photo_url, role, created_at, updated_at
		FROM app_user
		WHERE user_id = $1
	`

	u, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, storeError("get user", err)
	}
	return u, nil
}

// List returns all users ordered by display name
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	query := `
		SELECT user_id, email, display_name, photo_url, role, created_at, updated_at
		FROM app_user
		ORDER BY display_name ASC, user_id ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, storeError("list users", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, storeError("scan user", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate users", err)
	}
	return users, nil
}

// SetRole changes a user's role
func (r *UserRepository) SetRole(ctx context.Context, id string, role models.Role) error {
	tag, err := r.db.Exec(ctx, `UPDATE app_user SET role = $2, updated_at = NOW() WHERE user_id = $1`, id, role)
	if err != nil {
		return storeError("set user role", err)
	}
	if tag.RowsAffected() == 0 {
		return storeError("set user role", pgx.ErrNoRows)
	}
	return nil
}
