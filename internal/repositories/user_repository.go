package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"estateBack/internal/models"
)

type UserRepository struct {
	DB     *sql.DB
	Driver string
}

const userColumns = `id, username, email, password, avatar, is_admin, created_at, updated_at`

func (r *UserRepository) q(query string) string {
	return rebind(r.Driver, query)
}

func (r *UserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	_, err := r.DB.ExecContext(ctx,
		r.q(`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		user.ID, user.Username, user.Email, user.Password, user.Avatar, user.IsAdmin, user.CreatedAt, nullTime(user.UpdatedAt),
	)
	if isDuplicateKeyError(err) {
		return models.User{}, models.ErrDuplicateEmail
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (models.User, error) {
	user, err := scanUser(r.DB.QueryRowContext(ctx, r.q(`SELECT `+userColumns+` FROM users WHERE id = ?`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("%w: %s", models.ErrUserNotFound, id)
	}
	return user, err
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := scanUser(r.DB.QueryRowContext(ctx, r.q(`SELECT `+userColumns+` FROM users WHERE email = ?`), email))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrUserNotFound
	}
	return user, err
}

func (r *UserRepository) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id ASC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, max(offset, 0))
	}
	rows, err := r.DB.QueryContext(ctx, r.q(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	updatedAt := time.Now().UTC()
	user.UpdatedAt = &updatedAt
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	res, err := r.DB.ExecContext(ctx,
		r.q(`UPDATE users SET username = ?, email = ?, password = ?, avatar = ?, is_admin = ?, updated_at = ? WHERE id = ?`),
		user.Username, user.Email, user.Password, user.Avatar, user.IsAdmin, updatedAt, user.ID,
	)
	if isDuplicateKeyError(err) {
		return models.User{}, models.ErrDuplicateEmail
	}
	if err != nil {
		return models.User{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.User{}, err
	}
	if n == 0 {
		return models.User{}, fmt.Errorf("%w: %s", models.ErrUserNotFound, user.ID)
	}
	return user, nil
}

// DeleteUser removes the account and every listing it owns in one
// transaction and returns how many listings went with it.
func (r *UserRepository) DeleteUser(ctx context.Context, id string) (int64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx, r.q(`DELETE FROM listings WHERE user_ref = ?`), id)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	listings, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	res, err = tx.ExecContext(ctx, r.q(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	if n == 0 {
		tx.Rollback()
		return 0, fmt.Errorf("%w: %s", models.ErrUserNotFound, id)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return listings, nil
}

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	var avatar sql.NullString
	var updatedAt sql.NullTime
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &avatar, &u.IsAdmin, &u.CreatedAt, &updatedAt); err != nil {
		return models.User{}, err
	}
	u.Avatar = avatar.String
	if updatedAt.Valid {
		u.UpdatedAt = &updatedAt.Time
	}
	return u, nil
}
