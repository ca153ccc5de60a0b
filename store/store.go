package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type (
	Store struct {
		db *sql.DB
	}

	User struct {
		ID           int64
		Username     string
		PasswordHash string
	}

	Task struct {
		ID       int64  `json:"id"`
		Text     string `json:"text"`
		Status   string `json:"status"`
		Priority string `json:"priority"`
		OwnerID  int64  `json:"userId"`
	}
)

const (
	DefaultStatus   = "pending"
	DefaultPriority = "medium"
)

// Open opens the task store located at path, creating the file and the
// schema when missing.
//
// Open may return a non-nil Store alongside a non-nil error: the
// underlying handle is lazy, so callers are free to log the failure and
// keep the store around, in which case individual operations will keep
// retrying the connection.
func Open(ctx context.Context, path string) (*Store, error) {
	connstr := fmt.Sprintf("file:%v?_journal=wal&_fk=on&mode=rwc", path)
	conn, err := sql.Open("sqlite3", connstr)
	if err != nil {
		return nil, fmt.Errorf("unable to open store at %v, cause %w", path, err)
	}
	s := &Store{db: conn}
	if err := conn.PingContext(ctx); err != nil {
		return s, fmt.Errorf("unable to ping store at %v, cause %w", path, err)
	}
	if err := s.init(ctx); err != nil {
		return s, fmt.Errorf("unable to init store at %v, cause %w", path, err)
	}
	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	for _, cmd := range []string{
		`create table if not exists users(
			user_id integer primary key autoincrement,
			username text not null unique,
			username_hash64 integer not null,
			password_hash text not null
		)`,
		`create index if not exists idx_users_username_hash64
			on users(username_hash64)
		`,
		`create table if not exists tasks(
			task_id integer primary key autoincrement,
			owner_id integer not null,
			text text not null,
			status text not null,
			priority text not null,
			foreign key (owner_id) references users(user_id)
		)`,
		`create index if not exists idx_tasks_owner_id
			on tasks(owner_id)
		`,
	} {
		_, err := s.db.ExecContext(ctx, cmd)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
