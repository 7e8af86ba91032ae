package registration

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/alunos-api/internal/storage/storagetest"
	"github.com/aanand-mishra/alunos-api/internal/types"
)

func TestExecuteAssignsIdentifiers(t *testing.T) {
	store := &storagetest.Fake{}
	uc := New(store)

	got, err := uc.Execute(context.Background(),
		types.NewStudent(types.NewPerson("Ada", "Lovelace", ""), types.Date{}))
	require.NoError(t, err)

	_, err = uuid.Parse(got.Registration)
	assert.NoError(t, err, "registration should be a UUID")
	assert.True(t, strings.HasPrefix(got.Person.Document, "DOC-"))
	assert.Len(t, got.Person.Document, len("DOC-")+12)
	assert.Equal(t, types.Today(), got.EnrollmentDate)

	require.Len(t, store.Students, 1)
	assert.Equal(t, got, store.Students[0])
}

func TestExecuteKeepsProvidedValues(t *testing.T) {
	store := &storagetest.Fake{}
	enrolled, err := types.ParseDate("2020-03-02")
	require.NoError(t, err)

	uc := New(store,
		WithIDGenerator(func() string { return "unused" }),
		WithDocumentGenerator(func() string { return "unused" }),
	)

	in := types.Student{
		Registration:   "r-42",
		Person:         types.NewPerson("Ada", "Lovelace", "123.456.789-00"),
		EnrollmentDate: enrolled,
	}
	got, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestExecuteUsesGenerators(t *testing.T) {
	store := &storagetest.Fake{}
	day, err := types.ParseDate("2026-01-05")
	require.NoError(t, err)

	uc := New(store,
		WithIDGenerator(func() string { return "r-1" }),
		WithDocumentGenerator(func() string { return "DOC-1" }),
		WithClock(func() types.Date { return day }),
	)

	got, err := uc.Execute(context.Background(),
		types.NewStudent(types.NewPerson("Alan", "Turing", ""), types.Date{}))
	require.NoError(t, err)
	assert.Equal(t, "r-1", got.Registration)
	assert.Equal(t, "DOC-1", got.Person.Document)
	assert.Equal(t, day, got.EnrollmentDate)
}

func TestExecuteRejectsIncompleteName(t *testing.T) {
	store := &storagetest.Fake{}
	uc := New(store)

	_, err := uc.Execute(context.Background(),
		types.NewStudent(types.NewPerson("Ada", " ", ""), types.Today()))
	require.Error(t, err)
	assert.True(t, IsInvalid(err))
	assert.Empty(t, store.Recorded(), "storage must not be touched")
}

func TestExecuteWrapsStorageErrors(t *testing.T) {
	boom := errors.New("connection refused")
	uc := New(&storagetest.Fake{Err: boom})

	_, err := uc.Execute(context.Background(),
		types.NewStudent(types.NewPerson("Ada", "Lovelace", ""), types.Today()))
	assert.ErrorIs(t, err, boom)
	assert.False(t, IsInvalid(err))
}
