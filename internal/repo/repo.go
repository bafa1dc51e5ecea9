package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no user matches the lookup.
var ErrNotFound = errors.New("user not found")

type User struct {
	ID       int    `db:"id" json:"id"`
	Login    string `db:"login" json:"login"`
	Email    string `db:"email" json:"email"`
	Password string `db:"password" json:"-"`
}

type Repository interface {
	CreateUser(ctx context.Context, login, email, password string) (int, error)
	GetByLogin(ctx context.Context, login string) (User, error)
	GetByID(ctx context.Context, id int) (User, error)
}

type UserRepository struct {
	db *sqlx.DB
}

var schemas = map[string]string{
	"postgres": `
	CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		login TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL,
		password TEXT NOT NULL
	);`,
	"sqlite": `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		login TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL,
		password TEXT NOT NULL
	);`,
}

// Open connects to the user database and creates the schema if needed.
// driver is "postgres" or "sqlite".
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	schema, ok := schemas[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if driver == "postgres" {
		dsn = withSSLMode(dsn)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if driver == "sqlite" {
		// one writer
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func withSSLMode(connStr string) string {
	if connStr == "" {
		connStr = "user=postgres dbname=postgres password=password sslmode=disable"
	}
	if strings.Contains(connStr, "sslmode=") {
		return connStr
	}
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		if strings.Contains(connStr, "?") {
			return connStr + "&sslmode=require"
		}
		return connStr + "?sslmode=require"
	}
	return connStr + " sslmode=require"
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := r.db.Rebind("INSERT INTO users (login, email, password) VALUES (?, ?, ?) RETURNING id")
	err := r.db.QueryRowxContext(ctx, query, login, email, password).Scan(&id)
	return id, err
}

func (r *UserRepository) GetByLogin(ctx context.Context, login string) (User, error) {
	return r.getOne(ctx, "SELECT id, login, email, password FROM users WHERE login = ?", login)
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (User, error) {
	return r.getOne(ctx, "SELECT id, login, email, password FROM users WHERE id = ?", id)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg interface{}) (User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, r.db.Rebind(query), arg)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}
