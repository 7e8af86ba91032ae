package sqlite

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/alunos-api/internal/storage"
	"github.com/aanand-mishra/alunos-api/internal/types"
)

var columnNames = []string{
	"registro", "primeiro_nome", "sobrenome", "documento",
	"data_da_matricula", "materia_preferida", "apelido",
}

func newMock(t *testing.T) (*SQLite, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS alunos").
		WillReturnResult(sqlmock.NewResult(0, 0))

	s, err := NewWithDB(db)
	require.NoError(t, err)
	return s, mock
}

func TestCreateStudentBindsEveryColumn(t *testing.T) {
	s, mock := newMock(t)
	enrolled, err := types.ParseDate("2024-02-01")
	require.NoError(t, err)

	student := types.Student{
		Registration:    "r-1",
		Person:          types.NewPerson("Ada", "Lovelace", "DOC-1"),
		EnrollmentDate:  enrolled,
		FavoriteSubject: "matematica",
		Nickname:        "ada",
	}

	mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO alunos (" + columns + ")")).
		ExpectExec().
		WithArgs("r-1", "Ada", "Lovelace", "DOC-1", "2024-02-01", "matematica", "ada").
		WillReturnResult(sqlmock.NewResult(1, 1))

	got, err := s.CreateStudent(context.Background(), student)
	require.NoError(t, err)
	assert.Equal(t, student, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByNicknameQueriesNicknameColumn(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectPrepare(regexp.QuoteMeta("FROM alunos WHERE apelido = ? LIMIT 1")).
		ExpectQuery().
		WithArgs("ada").
		WillReturnRows(sqlmock.NewRows(columnNames).
			AddRow("r-1", "Ada", "Lovelace", "DOC-1", "2024-02-01", "matematica", "ada"))

	got, err := s.FindByNickname(context.Background(), "ada")
	require.NoError(t, err)
	assert.Equal(t, "r-1", got.Registration)
	assert.Equal(t, "2024-02-01", got.EnrollmentDate.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDNotFound(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectPrepare(regexp.QuoteMeta("FROM alunos WHERE registro = ? LIMIT 1")).
		ExpectQuery().
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(columnNames))

	_, err := s.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAllPassesArgumentsThrough(t *testing.T) {
	ctx := context.Background()
	s, mock := newMock(t)

	mock.ExpectPrepare(regexp.QuoteMeta("WHERE materia_preferida = ? AND apelido = ?")).
		ExpectQuery().
		WithArgs("Física", "").
		WillReturnRows(sqlmock.NewRows(columnNames))

	got, err := s.FindAllByFavoriteSubjectAndNickname(ctx, "Física", "")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	mock.ExpectPrepare(regexp.QuoteMeta("WHERE data_da_matricula > ?")).
		ExpectQuery().
		WithArgs("2023-12-31").
		WillReturnRows(sqlmock.NewRows(columnNames).
			AddRow("r-1", "Ada", "Lovelace", "DOC-1", "2024-02-01", "", "").
			AddRow("r-2", "Alan", "Turing", "DOC-2", "2024-03-01", "", ""))

	after, err := types.ParseDate("2023-12-31")
	require.NoError(t, err)
	got, err = s.FindAllByEnrollmentDateAfter(ctx, after)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryErrorsAreWrapped(t *testing.T) {
	s, mock := newMock(t)
	boom := errors.New("disk I/O error")

	mock.ExpectPrepare(regexp.QuoteMeta("WHERE materia_preferida = ?")).
		ExpectQuery().
		WithArgs("historia").
		WillReturnError(boom)

	_, err := s.FindAllByFavoriteSubject(context.Background(), "historia")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "FindAllByFavoriteSubject: query")
}
