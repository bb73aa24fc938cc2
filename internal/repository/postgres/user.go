package postgres

import (
	"context"
	"database/sql"
	"time"

	"cheque-ledger-backend/internal/domain"
	"cheque-ledger-backend/internal/logger"
	"cheque-ledger-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, username, email, password_hash, role, active, created_on, updated_on`

func scanUser(row interface{ Scan(...any) error }, u *domain.User) error {
	return row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.Active, &u.CreatedOn, &u.UpdatedOn)
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (username, email, password_hash, role, active, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	now := time.Now().UTC()
	u.CreatedOn = now
	u.UpdatedOn = now
	logger.DatabaseCall("users.insert", query, "username", u.Username)
	err := r.db.QueryRowContext(ctx, query, u.Username, u.Email, u.PasswordHash, string(u.Role), u.Active, u.CreatedOn, u.UpdatedOn).Scan(&u.ID)
	logger.DatabaseResult("users.insert", 1, err, "username", u.Username)
	return translateError(err)
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := scanUser(r.db.QueryRowContext(ctx, query, id), u); err != nil {
		return nil, translateError(err)
	}
	return u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(username) = LOWER($1)`
	if err := scanUser(r.db.QueryRowContext(ctx, query, username), u); err != nil {
		return nil, translateError(err)
	}
	return u, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var u domain.User
		if err := scanUser(rows, &u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET email=$1, role=$2, active=$3, updated_on=$4 WHERE id=$5`
	u.UpdatedOn = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, u.Email, string(u.Role), u.Active, u.UpdatedOn, u.ID)
	if err != nil {
		return translateError(err)
	}
	return rowsAffectedOrNotFound(res)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int32, passwordHash string) error {
	query := `UPDATE users SET password_hash=$1, updated_on=$2 WHERE id=$3`
	res, err := r.db.ExecContext(ctx, query, passwordHash, time.Now().UTC(), id)
	if err != nil {
		return translateError(err)
	}
	return rowsAffectedOrNotFound(res)
}

func (r *userRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}
	return rowsAffectedOrNotFound(res)
}

func (r *userRepository) Count(ctx context.Context) (int32, error) {
	var n int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM users`).Scan(&n)
	return n, translateError(err)
}
