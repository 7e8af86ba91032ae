package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFullName(t *testing.T) {
	cases := []struct {
		in          string
		first, last string
	}{
		{"Ada Lovelace", "Ada", "Lovelace"},
		{"  Alan   Turing ", "Alan", "Turing"},
		{"Grace\tHopper", "Grace", "Hopper"},
		{"Maria da Silva", "Maria", "da Silva"},
	}

	for _, tc := range cases {
		first, last, err := SplitFullName(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.first, first, tc.in)
		assert.Equal(t, tc.last, last, tc.in)
	}
}

func TestSplitFullNameRejectsSingleWord(t *testing.T) {
	for _, in := range []string{"", "   ", "Ada"} {
		_, _, err := SplitFullName(in)
		assert.ErrorIs(t, err, ErrIncompleteName, "input %q", in)
	}
}

func TestEmptyStudentJSON(t *testing.T) {
	out, err := json.Marshal(Student{})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"registro": "",
		"pessoa": {"primeiroNome": "", "sobrenome": "", "documento": ""},
		"dataDaMatricula": null,
		"materiaPreferida": "",
		"apelido": ""
	}`, string(out))
}

func TestDateJSON(t *testing.T) {
	d := NewDate(time.Date(2024, time.February, 1, 15, 30, 0, 0, time.FixedZone("BRT", -3*3600)))

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-02-01"`, string(out))

	var back Date
	require.NoError(t, json.Unmarshal(out, &back))
	assert.True(t, back.Equal(d.Time))

	require.NoError(t, json.Unmarshal([]byte("null"), &back))
	assert.True(t, back.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`"01/02/2024"`), &back))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2023-08-15")
	require.NoError(t, err)
	assert.Equal(t, "2023-08-15", d.String())

	_, err = ParseDate("2023-13-01")
	assert.Error(t, err)
}

func TestNewStudentResponse(t *testing.T) {
	s := NewStudent(NewPerson("Ada", "Lovelace", "DOC-1"), Today())
	s.Registration = "r-1"

	assert.Equal(t, StudentResponse{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Document:     "DOC-1",
		Registration: "r-1",
	}, NewStudentResponse(s))
}
