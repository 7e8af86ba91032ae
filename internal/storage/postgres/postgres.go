// Package postgres implements storage.Storage on PostgreSQL through a
// pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aanand-mishra/alunos-api/internal/storage"
	"github.com/aanand-mishra/alunos-api/internal/types"
)

const schema = `
	CREATE TABLE IF NOT EXISTS alunos (
		registro          TEXT PRIMARY KEY,
		primeiro_nome     TEXT NOT NULL,
		sobrenome         TEXT NOT NULL,
		documento         TEXT NOT NULL,
		data_da_matricula DATE NOT NULL,
		materia_preferida TEXT NOT NULL DEFAULT '',
		apelido           TEXT NOT NULL DEFAULT ''
	)
`

const columns = "registro, primeiro_nome, sobrenome, documento, data_da_matricula, materia_preferida, apelido"

// Postgres is the PostgreSQL implementation of storage.Storage.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ storage.Storage = (*Postgres)(nil)

// New connects to the database described by dsn, verifies the connection
// and creates the alunos table if needed. maxConns <= 0 keeps the pgx
// default pool size.
func New(ctx context.Context, dsn string, maxConns int32) (*Postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse dsn: %w", err)
	}

	if maxConns > 0 {
		poolConfig.MaxConns = maxConns
	}
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: create table: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Close releases every pooled connection.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func (p *Postgres) CreateStudent(ctx context.Context, student types.Student) (types.Student, error) {
	_, err := p.pool.Exec(ctx,
		"INSERT INTO alunos ("+columns+") VALUES ($1, $2, $3, $4, $5, $6, $7)",
		student.Registration,
		student.Person.FirstName,
		student.Person.LastName,
		student.Person.Document,
		student.EnrollmentDate.Time,
		student.FavoriteSubject,
		student.Nickname,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: exec: %w", err)
	}
	return student, nil
}

func (p *Postgres) FindByID(ctx context.Context, registration string) (types.Student, error) {
	return p.findOne(ctx, "FindByID",
		"SELECT "+columns+" FROM alunos WHERE registro = $1 LIMIT 1", registration)
}

func (p *Postgres) FindByNickname(ctx context.Context, nickname string) (types.Student, error) {
	return p.findOne(ctx, "FindByNickname",
		"SELECT "+columns+" FROM alunos WHERE apelido = $1 LIMIT 1", nickname)
}

func (p *Postgres) FindAllByFavoriteSubject(ctx context.Context, subject string) ([]types.Student, error) {
	return p.findMany(ctx, "FindAllByFavoriteSubject",
		"SELECT "+columns+" FROM alunos WHERE materia_preferida = $1", subject)
}

func (p *Postgres) FindAllByFavoriteSubjectAndNickname(ctx context.Context, subject, nickname string) ([]types.Student, error) {
	return p.findMany(ctx, "FindAllByFavoriteSubjectAndNickname",
		"SELECT "+columns+" FROM alunos WHERE materia_preferida = $1 AND apelido = $2", subject, nickname)
}

func (p *Postgres) FindAllByEnrollmentDateAfter(ctx context.Context, date types.Date) ([]types.Student, error) {
	return p.findMany(ctx, "FindAllByEnrollmentDateAfter",
		"SELECT "+columns+" FROM alunos WHERE data_da_matricula > $1", date.Time)
}

func (p *Postgres) findOne(ctx context.Context, op, query string, args ...any) (types.Student, error) {
	student, err := scanStudent(p.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Student{}, storage.ErrNotFound
		}
		return types.Student{}, fmt.Errorf("%s: scan: %w", op, err)
	}
	return student, nil
}

func (p *Postgres) findMany(ctx context.Context, op, query string, args ...any) ([]types.Student, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}
	defer rows.Close()

	students := make([]types.Student, 0)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration: %w", op, err)
	}

	return students, nil
}

func scanStudent(row pgx.Row) (types.Student, error) {
	var (
		student    types.Student
		enrolledOn time.Time
	)

	err := row.Scan(
		&student.Registration,
		&student.Person.FirstName,
		&student.Person.LastName,
		&student.Person.Document,
		&enrolledOn,
		&student.FavoriteSubject,
		&student.Nickname,
	)
	if err != nil {
		return types.Student{}, err
	}

	student.EnrollmentDate = types.NewDate(enrolledOn)
	return student, nil
}
