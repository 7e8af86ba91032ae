// Package storagetest provides a storage.Storage fake that records every
// call, for handler and use-case tests.
package storagetest

import (
	"context"
	"sync"

	"github.com/aanand-mishra/alunos-api/internal/storage"
	"github.com/aanand-mishra/alunos-api/internal/types"
)

// Call is one recorded Storage invocation.
type Call struct {
	Method string
	Args   []any
}

// Fake is an in-memory storage.Storage. Err, when set, is returned by
// every method. Lookups scan Students linearly.
type Fake struct {
	mu       sync.Mutex
	Students []types.Student
	Calls    []Call
	Err      error
}

var _ storage.Storage = (*Fake)(nil)

func (f *Fake) record(method string, args ...any) {
	f.Calls = append(f.Calls, Call{Method: method, Args: args})
}

// Recorded returns a copy of the calls made so far.
func (f *Fake) Recorded() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.Calls...)
}

// Stored returns a copy of the students held by the fake.
func (f *Fake) Stored() []types.Student {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.Student(nil), f.Students...)
}

// SetErr makes every following call fail with err.
func (f *Fake) SetErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Err = err
}

func (f *Fake) CreateStudent(_ context.Context, student types.Student) (types.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.record("CreateStudent", student)
	if f.Err != nil {
		return types.Student{}, f.Err
	}
	f.Students = append(f.Students, student)
	return student, nil
}

func (f *Fake) FindByID(_ context.Context, registration string) (types.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.record("FindByID", registration)
	return f.first(func(s types.Student) bool { return s.Registration == registration })
}

func (f *Fake) FindByNickname(_ context.Context, nickname string) (types.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.record("FindByNickname", nickname)
	return f.first(func(s types.Student) bool { return s.Nickname == nickname })
}

func (f *Fake) FindAllByFavoriteSubject(_ context.Context, subject string) ([]types.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.record("FindAllByFavoriteSubject", subject)
	return f.all(func(s types.Student) bool { return s.FavoriteSubject == subject })
}

func (f *Fake) FindAllByFavoriteSubjectAndNickname(_ context.Context, subject, nickname string) ([]types.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.record("FindAllByFavoriteSubjectAndNickname", subject, nickname)
	return f.all(func(s types.Student) bool {
		return s.FavoriteSubject == subject && s.Nickname == nickname
	})
}

func (f *Fake) FindAllByEnrollmentDateAfter(_ context.Context, date types.Date) ([]types.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.record("FindAllByEnrollmentDateAfter", date)
	return f.all(func(s types.Student) bool { return s.EnrollmentDate.After(date.Time) })
}

func (f *Fake) first(match func(types.Student) bool) (types.Student, error) {
	if f.Err != nil {
		return types.Student{}, f.Err
	}
	for _, s := range f.Students {
		if match(s) {
			return s, nil
		}
	}
	return types.Student{}, storage.ErrNotFound
}

func (f *Fake) all(match func(types.Student) bool) ([]types.Student, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	out := make([]types.Student, 0)
	for _, s := range f.Students {
		if match(s) {
			out = append(out, s)
		}
	}
	return out, nil
}
