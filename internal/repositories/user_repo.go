package repositories

import (
	"context"
	"strings"

	intdb "travelbook/internal/db"
	"travelbook/internal/domain/models"
)

type UserRepo struct {
	Q Querier
}

const userColumns = `id, name, username, email, COALESCE(phone, ''), password_hash, role, status, created_at`

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.Status, &u.CreatedAt)
	return u, err
}

func (r UserRepo) Create(ctx context.Context, u models.User) error {
	_, err := r.Q.ExecContext(ctx, `
		INSERT INTO users (id, name, username, email, phone, password_hash, role, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.Name, u.Username, u.Email, intdb.NullIfEmpty(u.Phone), u.PasswordHash, u.Role, u.Status, u.CreatedAt)
	return classify(err)
}

func (r UserRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	u, err := scanUser(r.Q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ? LIMIT 1`, id))
	if err != nil {
		return models.User{}, classify(err)
	}
	return u, nil
}

func (r UserRepo) GetByLogin(ctx context.Context, login string) (models.User, error) {
	login = strings.TrimSpace(login)
	u, err := scanUser(r.Q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ? OR username = ? LIMIT 1`, login, login))
	if err != nil {
		return models.User{}, classify(err)
	}
	return u, nil
}
