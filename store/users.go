package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/mattn/go-sqlite3"
)

// CreateUser inserts a new user with the given password hash. Uniqueness
// of usernames is enforced by the store itself, a duplicate insert fails
// with UserAlreadyExists regardless of how many callers race on the same
// name.
func (s *Store) CreateUser(ctx context.Context, username string, passwordHash string) (User, error) {
	u := User{Username: username, PasswordHash: passwordHash}
	err := s.db.QueryRowContext(ctx, `insert into users (username, username_hash64, password_hash) values (?, ?, ?) returning user_id`,
		username, hash64(username), passwordHash).Scan(&u.ID)
	var serr sqlite3.Error
	if errors.As(err, &serr) && serr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return User{}, UserAlreadyExists{Username: username}
	} else if err != nil {
		return User{}, fmt.Errorf("unable to create user %v, cause %w", username, err)
	}
	return u, nil
}

// FindUserByUsername loads a user record, failing with UserNotFound when
// the username was never registered.
func (s *Store) FindUserByUsername(ctx context.Context, username string) (User, error) {
	u := User{Username: username}
	err := s.db.QueryRowContext(ctx, `select user_id, password_hash from users where username_hash64 = ? and username = ?`,
		hash64(username), username).Scan(&u.ID, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, UserNotFound{Username: username}
	} else if err != nil {
		return User{}, fmt.Errorf("unable to load user %v, cause %w", username, err)
	}
	return u, nil
}

func hash64(username string) int64 {
	return int64(xxhash.Sum64String(username))
}
