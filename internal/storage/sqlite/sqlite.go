// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// SQLite stores everything in a single file on disk: no network, no
// separate server process, nothing to install beyond the driver.
//
// Enrollment dates are stored as ISO-8601 TEXT ("2024-02-01"), which
// sorts and compares correctly as a plain string.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aanand-mishra/alunos-api/internal/storage"
	"github.com/aanand-mishra/alunos-api/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
	CREATE TABLE IF NOT EXISTS alunos (
		registro          TEXT PRIMARY KEY,
		primeiro_nome     TEXT NOT NULL,
		sobrenome         TEXT NOT NULL,
		documento         TEXT NOT NULL,
		data_da_matricula TEXT NOT NULL,
		materia_preferida TEXT NOT NULL DEFAULT '',
		apelido           TEXT NOT NULL DEFAULT ''
	)
`

// columns is the SELECT list shared by every lookup. scanStudent reads
// them in this exact order.
const columns = "registro, primeiro_nome, sobrenome, documento, data_da_matricula, materia_preferida, apelido"

// SQLite is the concrete implementation of storage.Storage.
// A single *sql.DB is a connection pool, safe for concurrent use.
type SQLite struct {
	Db *sql.DB
}

var _ storage.Storage = (*SQLite)(nil)

// New opens the SQLite database at path and creates the alunos table if it
// does not already exist.
func New(path string) (*SQLite, error) {
	// sql.Open only validates the driver name and DSN; the first real
	// connection happens on the first query.
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	s, err := NewWithDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB wraps an already open *sql.DB and ensures the schema exists.
func NewWithDB(db *sql.DB) (*SQLite, error) {
	// CREATE TABLE IF NOT EXISTS is idempotent: safe on every startup.
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}
	return &SQLite{Db: db}, nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// CreateStudent inserts a new row into the alunos table. Values are bound
// through ? placeholders, never concatenated into the SQL.
func (s *SQLite) CreateStudent(ctx context.Context, student types.Student) (types.Student, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"INSERT INTO alunos ("+columns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: prepare: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx,
		student.Registration,
		student.Person.FirstName,
		student.Person.LastName,
		student.Person.Document,
		student.EnrollmentDate.String(),
		student.FavoriteSubject,
		student.Nickname,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: exec: %w", err)
	}

	return student, nil
}

func (s *SQLite) FindByID(ctx context.Context, registration string) (types.Student, error) {
	return s.findOne(ctx, "FindByID",
		"SELECT "+columns+" FROM alunos WHERE registro = ? LIMIT 1", registration)
}

func (s *SQLite) FindByNickname(ctx context.Context, nickname string) (types.Student, error) {
	return s.findOne(ctx, "FindByNickname",
		"SELECT "+columns+" FROM alunos WHERE apelido = ? LIMIT 1", nickname)
}

func (s *SQLite) FindAllByFavoriteSubject(ctx context.Context, subject string) ([]types.Student, error) {
	return s.findMany(ctx, "FindAllByFavoriteSubject",
		"SELECT "+columns+" FROM alunos WHERE materia_preferida = ?", subject)
}

func (s *SQLite) FindAllByFavoriteSubjectAndNickname(ctx context.Context, subject, nickname string) ([]types.Student, error) {
	return s.findMany(ctx, "FindAllByFavoriteSubjectAndNickname",
		"SELECT "+columns+" FROM alunos WHERE materia_preferida = ? AND apelido = ?", subject, nickname)
}

func (s *SQLite) FindAllByEnrollmentDateAfter(ctx context.Context, date types.Date) ([]types.Student, error) {
	return s.findMany(ctx, "FindAllByEnrollmentDateAfter",
		"SELECT "+columns+" FROM alunos WHERE data_da_matricula > ?", date.String())
}

// findOne runs a query expected to match at most one row.
// QueryRow never returns nil; sql.ErrNoRows surfaces from Scan.
func (s *SQLite) findOne(ctx context.Context, op, query string, args ...any) (types.Student, error) {
	stmt, err := s.Db.PrepareContext(ctx, query)
	if err != nil {
		return types.Student{}, fmt.Errorf("%s: prepare: %w", op, err)
	}
	defer stmt.Close()

	student, err := scanStudent(stmt.QueryRowContext(ctx, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, storage.ErrNotFound
		}
		return types.Student{}, fmt.Errorf("%s: scan: %w", op, err)
	}

	return student, nil
}

// findMany iterates the cursor returned by Query. It always returns a
// non-nil slice on success so handlers encode [] rather than null.
func (s *SQLite) findMany(ctx context.Context, op, query string, args ...any) ([]types.Student, error) {
	stmt, err := s.Db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: prepare: %w", op, err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, args...)
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

type scanner interface {
	Scan(dest ...any) error
}

func scanStudent(row scanner) (types.Student, error) {
	var (
		student    types.Student
		enrolledOn string
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

	if enrolledOn != "" {
		if student.EnrollmentDate, err = types.ParseDate(enrolledOn); err != nil {
			return types.Student{}, err
		}
	}

	return student, nil
}
