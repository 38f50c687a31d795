package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"medhaven/internal/domain"
	apperrors "medhaven/pkg/errors"
	"medhaven/pkg/logger"
)

// UserRepository reads accounts owned by the account service. Create exists for seeding.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)
}

type userRepository struct {
	db  DB
	log logger.Logger
}

func NewUserRepository(db DB, log logger.Logger) UserRepository {
	return &userRepository{db: db, log: log}
}

const userColumns = `id, first_name, last_name, email, phone, gender, role, doctor_department, password_hash, created_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, first_name, last_name, email, phone, gender, role, doctor_department, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	err := r.db.QueryRow(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Email, user.Phone, user.Gender,
		string(user.Role), user.DoctorDepartment, user.PasswordHash,
	).Scan(&user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			r.log.Warn("User already exists (unique violation)", "email", user.Email, "constraint", pgErr.ConstraintName)
			return apperrors.Validation("user with this email already exists")
		}
		r.log.Error("Failed to create user", "error", err, "email", user.Email)
		return apperrors.Storage("create user", err)
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user not found")
		}
		r.log.Error("Failed to get user by ID", "error", err)
		return nil, apperrors.Storage("get user", err)
	}
	return user, nil
}

// GetByIDs batch-fetches the given accounts. Unknown ids are skipped.
func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	if len(ids) == 0 {
		return []*domain.User{}, nil
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1)`

	users, err := r.list(ctx, query, ids)
	if err != nil {
		r.log.Error("Failed to get users by IDs", "error", err, "count", len(ids))
		return nil, apperrors.Storage("get users", err)
	}
	return users, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user not found")
		}
		r.log.Error("Failed to get user by email", "error", err, "email", email)
		return nil, apperrors.Storage("get user", err)
	}
	return user, nil
}

func (r *userRepository) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY first_name, last_name, id`

	users, err := r.list(ctx, query, string(role))
	if err != nil {
		r.log.Error("Failed to list users by role", "error", err, "role", role)
		return nil, apperrors.Storage("list users", err)
	}
	return users, nil
}

func (r *userRepository) list(ctx context.Context, query string, args ...any) ([]*domain.User, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func scanUser(row pgx.Row) (*domain.User, error) {
	user := &domain.User{}
	var role string
	err := row.Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.Phone, &user.Gender,
		&role, &user.DoctorDepartment, &user.PasswordHash, &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Role = domain.Role(role)
	return user, nil
}
