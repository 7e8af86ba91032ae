// Package router is the route table of the API: every (method, path)
// pair the server answers and the handler behind it.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/aanand-mishra/alunos-api/internal/http/handlers/student"
	"github.com/aanand-mishra/alunos-api/internal/http/middleware"
	"github.com/aanand-mishra/alunos-api/internal/storage"
	"github.com/aanand-mishra/alunos-api/internal/utils/response"
)

// BasePath prefixes every student route.
const BasePath = "/aluno/fiap"

// New builds the router.
//
// Route table (all under /aluno/fiap):
//
//	GET    /                                           → list by classroom (?sala=...)
//	GET    /{classroomId}/{studentId}/nome             → empty student
//	POST   /{classroomId}                              → register a student
//	PATCH  /{studentId}/nome                           → echo name patch
//	GET    /{studentId}                                → lookup by id
//	GET    /apelido/{apelido}                          → lookup by nickname
//	GET    /materia-preferida/{materia}                → lookup by favorite subject
//	GET    /materia-preferida-apelido/{materia}/apelido → lookup by subject + ?apelido=
//	GET    /data/{dataDaMatricula}                     → lookup by enrollment date after
//
// plus GET /healthz and GET /metrics at the root.
func New(log *slog.Logger, storage storage.Storage, registrar student.Registrar, metrics *middleware.Metrics) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(log))
	r.Use(metrics.Instrument)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": response.StatusOK})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route(BasePath, func(r chi.Router) {
		r.Get("/", student.GetByClassroom())
		r.Get("/{classroomId}/{studentId}/nome", student.GetByClassroomAndID())
		r.Post("/{classroomId}", student.New(registrar))
		r.Patch("/{studentId}/nome", student.PatchName())
		r.Get("/{studentId}", student.GetByID(storage))
		r.Get("/apelido/{apelido}", student.GetByNickname(storage))
		r.Get("/materia-preferida/{materia}", student.GetByFavoriteSubject(storage))
		r.Get("/materia-preferida-apelido/{materia}/apelido", student.GetByFavoriteSubjectAndNickname(storage))
		r.Get("/data/{dataDaMatricula}", student.GetByEnrollmentDate(storage))
	})

	return r
}
