// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// handlers, storage, the registration use case and utils can all import
// types without depending on each other.
//
// Go field names are English; the JSON names keep the public API's
// Portuguese vocabulary (aluno, pessoa, registro, apelido...).
package types

import (
	"errors"
	"strings"
)

// ErrIncompleteName is returned when a full name does not contain at least
// a first name and a last name.
var ErrIncompleteName = errors.New("full name must contain a first and a last name")

// Person holds the name and document attributes of a Student.
// A Person has no lifecycle of its own: it is owned by exactly one Student.
type Person struct {
	FirstName string `json:"primeiroNome"`
	LastName  string `json:"sobrenome"`
	Document  string `json:"documento"`
}

// NewPerson builds a Person from its required fields.
func NewPerson(firstName, lastName, document string) Person {
	return Person{
		FirstName: firstName,
		LastName:  lastName,
		Document:  document,
	}
}

// Student ("Aluno") is the only entity of the system.
//
// Registration is assigned once at creation and never changes.
// FavoriteSubject and Nickname are optional.
type Student struct {
	Registration    string `json:"registro"`
	Person          Person `json:"pessoa"`
	EnrollmentDate  Date   `json:"dataDaMatricula"`
	FavoriteSubject string `json:"materiaPreferida"`
	Nickname        string `json:"apelido"`
}

// NewStudent builds an unregistered Student enrolled on the given date.
func NewStudent(person Person, enrolledOn Date) Student {
	return Student{
		Person:         person,
		EnrollmentDate: enrolledOn,
	}
}

// CreateStudentRequest is the body of POST /aluno/fiap/{classroomId}.
//
// validate:"..." tags are checked by the validation package; "fullname"
// is a custom rule that requires at least two whitespace-separated words.
type CreateStudentRequest struct {
	FullName        string `json:"nomeCompleto" validate:"required,fullname"`
	FavoriteSubject string `json:"materiaPreferida,omitempty"`
	Nickname        string `json:"apelido,omitempty"`
}

// StudentResponse is returned after a student has been registered.
type StudentResponse struct {
	FirstName    string `json:"primeiroNome"`
	LastName     string `json:"sobrenome"`
	Document     string `json:"documento"`
	Registration string `json:"registro"`
}

// NewStudentResponse maps a registered Student to its API response.
func NewStudentResponse(s Student) StudentResponse {
	return StudentResponse{
		FirstName:    s.Person.FirstName,
		LastName:     s.Person.LastName,
		Document:     s.Person.Document,
		Registration: s.Registration,
	}
}

// NamePatch is the body of PATCH /aluno/fiap/{studentId}/nome.
type NamePatch struct {
	NewName string `json:"newName" validate:"required,notblank"`
}

// SplitFullName splits a full name on whitespace. The first word is the
// first name; every remaining word, joined by a single space, is the last
// name. "Ada Lovelace" gives ("Ada", "Lovelace").
func SplitFullName(fullName string) (firstName, lastName string, err error) {
	words := strings.Fields(fullName)
	if len(words) < 2 {
		return "", "", ErrIncompleteName
	}
	return words[0], strings.Join(words[1:], " "), nil
}
