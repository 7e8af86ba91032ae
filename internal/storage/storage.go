// Package storage defines the Storage interface: the contract any
// database backend must satisfy to hold students.
//
// Handlers and the registration use case depend only on this interface,
// so switching databases means implementing it for the new DB and
// changing one line in main.go. Tests pass a fake that satisfies it.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/alunos-api/internal/types"
)

// ErrNotFound is returned by the single-result lookups when no student
// matches.
var ErrNotFound = errors.New("student not found")

// Storage is the database contract.
//
// Single-result lookups return ErrNotFound when nothing matches.
// Multi-result lookups return an empty (non-nil) slice when nothing
// matches. No ordering is guaranteed.
type Storage interface {
	// CreateStudent inserts a student whose Registration is already
	// assigned and returns the stored record.
	CreateStudent(ctx context.Context, student types.Student) (types.Student, error)

	FindByID(ctx context.Context, registration string) (types.Student, error)

	FindByNickname(ctx context.Context, nickname string) (types.Student, error)

	FindAllByFavoriteSubject(ctx context.Context, subject string) ([]types.Student, error)

	FindAllByFavoriteSubjectAndNickname(ctx context.Context, subject, nickname string) ([]types.Student, error)

	// FindAllByEnrollmentDateAfter returns students enrolled strictly after
	// the given date.
	FindAllByEnrollmentDateAfter(ctx context.Context, date types.Date) ([]types.Student, error)
}
