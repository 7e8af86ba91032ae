// Package registration holds the "register student" use case: the only
// write path of the application.
package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/aanand-mishra/alunos-api/internal/storage"
	"github.com/aanand-mishra/alunos-api/internal/types"
)

// RegisterStudent assigns the identifiers a new student needs and stores it.
type RegisterStudent struct {
	storage     storage.Storage
	newID       func() string
	newDocument func() string
	today       func() types.Date
}

// Option customises a RegisterStudent, mostly for tests.
type Option func(*RegisterStudent)

// WithIDGenerator replaces the registration id generator.
func WithIDGenerator(fn func() string) Option {
	return func(r *RegisterStudent) { r.newID = fn }
}

// WithDocumentGenerator replaces the document id generator.
func WithDocumentGenerator(fn func() string) Option {
	return func(r *RegisterStudent) { r.newDocument = fn }
}

// WithClock replaces the source of the default enrollment date.
func WithClock(fn func() types.Date) Option {
	return func(r *RegisterStudent) { r.today = fn }
}

func New(storage storage.Storage, opts ...Option) *RegisterStudent {
	r := &RegisterStudent{
		storage:     storage,
		newID:       uuid.NewString,
		newDocument: newDocument,
		today:       types.Today,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Execute registers student and returns the stored record.
//
// An empty Registration gets a fresh UUID, an empty Document gets a
// generated document id and a zero EnrollmentDate becomes today.
func (r *RegisterStudent) Execute(ctx context.Context, student types.Student) (types.Student, error) {
	if strings.TrimSpace(student.Person.FirstName) == "" || strings.TrimSpace(student.Person.LastName) == "" {
		return types.Student{}, types.ErrIncompleteName
	}

	if student.Registration == "" {
		student.Registration = r.newID()
	}
	if student.Person.Document == "" {
		student.Person.Document = r.newDocument()
	}
	if student.EnrollmentDate.IsZero() {
		student.EnrollmentDate = r.today()
	}

	stored, err := r.storage.CreateStudent(ctx, student)
	if err != nil {
		return types.Student{}, fmt.Errorf("register student: %w", err)
	}
	return stored, nil
}

// IsInvalid reports whether err was caused by the student data rather than
// by the store.
func IsInvalid(err error) bool {
	return errors.Is(err, types.ErrIncompleteName)
}

// newDocument derives a short document id, e.g. "DOC-1F0C9A7B2D4E".
func newDocument() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "DOC-" + strings.ToUpper(id[:12])
}
