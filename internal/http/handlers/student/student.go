// Package student contains all HTTP handlers for the Student ("aluno")
// resource.
//
// HANDLER PATTERN — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────
// The router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// To inject dependencies each factory accepts them (storage, the
// registration use case) and returns a function with exactly that
// signature. The factory runs ONCE at startup; the returned closure runs
// on EVERY request:
//
//	r.Get("/{studentId}", student.GetByID(storage))
//
// Several endpoints are placeholders: they acknowledge the request with a
// fixed text. The lookups among them still run their storage query.
package student

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aanand-mishra/alunos-api/internal/registration"
	"github.com/aanand-mishra/alunos-api/internal/storage"
	"github.com/aanand-mishra/alunos-api/internal/types"
	"github.com/aanand-mishra/alunos-api/internal/utils/response"
	"github.com/aanand-mishra/alunos-api/internal/validation"
)

// Fixed acknowledgements returned by the placeholder endpoints.
const (
	MsgClassroom            = "Rota para consultar sala"
	MsgByID                 = "Aluno Id"
	MsgByNickname           = "Apelido"
	MsgByFavoriteSubject    = "Materia Preferida"
	MsgBySubjectAndNickname = "Materia Preferida e apelido"
	MsgByEnrollmentDate     = "Data sugerida"
)

// Registrar is the "register student" use case as seen by the handler.
type Registrar interface {
	Execute(ctx context.Context, student types.Student) (types.Student, error)
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByClassroom handles GET /aluno/fiap?sala=2tds&sala=3tds
// The sala filter is optional and may also be comma separated
// (?sala=2tds,3tds). Listing is not implemented yet.
// ─────────────────────────────────────────────────────────────────────────────
func GetByClassroom() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		classrooms := classroomFilter(r)
		slog.Info("listing students by classroom", slog.Any("classrooms", classrooms))

		response.WriteText(w, http.StatusOK, MsgClassroom)
	}
}

func classroomFilter(r *http.Request) []string {
	var classrooms []string
	for _, raw := range r.URL.Query()["sala"] {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				classrooms = append(classrooms, c)
			}
		}
	}
	return classrooms
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByClassroomAndID handles GET /aluno/fiap/{classroomId}/{studentId}/nome
// Not implemented yet: always answers with an empty student.
// ─────────────────────────────────────────────────────────────────────────────
func GetByClassroomAndID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting a student name",
			slog.String("classroomId", chi.URLParam(r, "classroomId")),
			slog.String("studentId", chi.URLParam(r, "studentId")))

		response.WriteJSON(w, http.StatusOK, types.Student{})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /aluno/fiap/{classroomId}
// Registers a student from a full name.
//
// Request body (JSON):
//
//	{ "nomeCompleto": "Ada Lovelace", "materiaPreferida": "matematica", "apelido": "ada" }
//
// Success response (200 OK):
//
//	{ "primeiroNome": "Ada", "sobrenome": "Lovelace", "documento": "DOC-…", "registro": "…" }
//
// Error responses:
//
//	400 Bad Request  — empty body, malformed JSON, or failed validation
//	500 Internal     — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func New(registrar Registrar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		classroomID := chi.URLParam(r, "classroomId")
		slog.Info("creating a student", slog.String("classroomId", classroomID))

		var req types.CreateStudentRequest
		if !decode(w, r, &req) {
			return
		}

		// Validation runs before anything touches the use case or storage.
		if violations := validation.Check(req); len(violations) > 0 {
			response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(violations))
			return
		}

		firstName, lastName, err := types.SplitFullName(req.FullName)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		student := types.NewStudent(types.NewPerson(firstName, lastName, ""), types.Today())
		student.FavoriteSubject = req.FavoriteSubject
		student.Nickname = req.Nickname

		registered, err := registrar.Execute(r.Context(), student)
		if err != nil {
			if registration.IsInvalid(err) {
				response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
				return
			}
			slog.Error("error registering student",
				slog.String("classroomId", classroomID),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		slog.Info("student registered",
			slog.String("classroomId", classroomID),
			slog.String("registro", registered.Registration))

		response.WriteJSON(w, http.StatusOK, types.NewStudentResponse(registered))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// PatchName handles PATCH /aluno/fiap/{studentId}/nome
// Not implemented yet: the validated payload is echoed back unchanged and
// nothing is stored.
// ─────────────────────────────────────────────────────────────────────────────
func PatchName() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("patching a student name", slog.String("studentId", chi.URLParam(r, "studentId")))

		var patch types.NamePatch
		if !decode(w, r, &patch) {
			return
		}

		if violations := validation.Check(patch); len(violations) > 0 {
			response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(violations))
			return
		}

		response.WriteJSON(w, http.StatusOK, patch)
	}
}

// GetByID handles GET /aluno/fiap/{studentId}
func GetByID(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "studentId")
		slog.Info("getting a student", slog.String("studentId", id))

		_, err := storage.FindByID(r.Context(), id)
		acknowledge(w, err, MsgByID)
	}
}

// GetByNickname handles GET /aluno/fiap/apelido/{apelido}
func GetByNickname(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nickname := chi.URLParam(r, "apelido")
		slog.Info("getting a student by nickname", slog.String("apelido", nickname))

		_, err := storage.FindByNickname(r.Context(), nickname)
		acknowledge(w, err, MsgByNickname)
	}
}

// GetByFavoriteSubject handles GET /aluno/fiap/materia-preferida/{materia}
func GetByFavoriteSubject(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject := chi.URLParam(r, "materia")
		slog.Info("getting students by favorite subject", slog.String("materia", subject))

		_, err := storage.FindAllByFavoriteSubject(r.Context(), subject)
		acknowledge(w, err, MsgByFavoriteSubject)
	}
}

// GetByFavoriteSubjectAndNickname handles
// GET /aluno/fiap/materia-preferida-apelido/{materia}/apelido?apelido=...
// A missing apelido query is passed on as "".
func GetByFavoriteSubjectAndNickname(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject := chi.URLParam(r, "materia")
		nickname := r.URL.Query().Get("apelido")
		slog.Info("getting students by favorite subject and nickname",
			slog.String("materia", subject),
			slog.String("apelido", nickname))

		_, err := storage.FindAllByFavoriteSubjectAndNickname(r.Context(), subject, nickname)
		acknowledge(w, err, MsgBySubjectAndNickname)
	}
}

// GetByEnrollmentDate handles GET /aluno/fiap/data/{dataDaMatricula}
// The date must be ISO-8601 (2024-02-01); anything else is a 400.
func GetByEnrollmentDate(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "dataDaMatricula")
		slog.Info("getting students enrolled after", slog.String("dataDaMatricula", raw))

		date, err := types.ParseDate(raw)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		_, err = storage.FindAllByEnrollmentDateAfter(r.Context(), date)
		acknowledge(w, err, MsgByEnrollmentDate)
	}
}

// acknowledge answers a placeholder lookup. The lookup result is not part
// of the response; a missing student is not an error, any other storage
// failure is a 500.
func acknowledge(w http.ResponseWriter, err error, msg string) {
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		slog.Error("lookup failed", slog.String("error", err.Error()))
		response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
		return
	}
	response.WriteText(w, http.StatusOK, msg)
}

// decode reads a JSON body into v. It writes the 400 itself and returns
// false when the body is empty or malformed.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("request body is empty")))
		return false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return false
	}
	return true
}
