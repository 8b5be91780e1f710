package notes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/evgeniy-krivenko/notes-query/internal/api/notes/converter"
	"github.com/evgeniy-krivenko/notes-query/internal/entity"
	"github.com/evgeniy-krivenko/notes-query/internal/query"
	notesuc "github.com/evgeniy-krivenko/notes-query/internal/usecase/notes"
	"github.com/evgeniy-krivenko/notes-query/pkg/gwserver"
	"github.com/evgeniy-krivenko/notes-query/pkg/logger/slogx"
)

const maxBodyBytes = 1 << 20

type notesUsecase interface {
	ListNotes(ctx context.Context, params query.Params) (notesuc.NotePage, error)
	CategoryStats(ctx context.Context) ([]entity.CategoryCount, error)
	Categories(ctx context.Context) ([]string, error)
	CreateNote(ctx context.Context, in entity.NoteInput) (entity.Note, error)
	GetNote(ctx context.Context, id string) (entity.Note, error)
	UpdateNote(ctx context.Context, id string, patch entity.NotePatch) (entity.Note, error)
	DeleteNote(ctx context.Context, id string) error
}

//go:generate go run github.com/kazhuravlev/options-gen/cmd/options-gen@v0.55.3 -out-filename=service_options.gen.go -from-struct=Options
type Options struct {
	usecase notesUsecase `option:"mandatory" validate:"required"`
}

type Service struct {
	Options
}

func New(opts Options) (*Service, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("validate notes service options: %v", err)
	}

	return &Service{Options: opts}, nil
}

// Register mounts the note routes at /notes and /api/notes.
func (s *Service) Register(mux *http.ServeMux) {
	for _, prefix := range []string{"/notes", "/api/notes"} {
		mux.HandleFunc("GET "+prefix, s.listNotes)
		mux.HandleFunc("POST "+prefix, s.createNote)
		mux.HandleFunc("GET "+prefix+"/category-stats", s.categoryStats)
		mux.HandleFunc("GET "+prefix+"/categories", s.categories)
		mux.HandleFunc("GET "+prefix+"/{id}", s.getNote)
		mux.HandleFunc("PUT "+prefix+"/{id}", s.updateNote)
		mux.HandleFunc("DELETE "+prefix+"/{id}", s.deleteNote)
	}
}

func (s *Service) listNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := s.usecase.ListNotes(r.Context(), query.Params{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
		Fields:   q.Get("fields"),
		Page:     q.Get("page"),
		Limit:    q.Get("limit"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	gwserver.WriteJSON(w, http.StatusOK, converter.NoteList{
		Data: converter.ConvertNotes(page.Notes, page.Projection),
		Meta: converter.ConvertMeta(page.Meta),
	})
}

func (s *Service) categoryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.usecase.CategoryStats(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	gwserver.WriteJSON(w, http.StatusOK, converter.ConvertCategoryCounts(stats))
}

func (s *Service) categories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.usecase.Categories(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	gwserver.WriteJSON(w, http.StatusOK, categories)
}

func (s *Service) getNote(w http.ResponseWriter, r *http.Request) {
	note, err := s.usecase.GetNote(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	gwserver.WriteJSON(w, http.StatusOK, converter.ConvertNote(note, query.Projection{}))
}

func (s *Service) createNote(w http.ResponseWriter, r *http.Request) {
	var in converter.NoteInput
	if !decode(w, r, &in) {
		return
	}

	note, err := s.usecase.CreateNote(r.Context(), converter.ConvertNoteInput(in))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	gwserver.WriteJSON(w, http.StatusCreated, converter.ConvertNote(note, query.Projection{}))
}

func (s *Service) updateNote(w http.ResponseWriter, r *http.Request) {
	var patch converter.NotePatch
	if !decode(w, r, &patch) {
		return
	}

	note, err := s.usecase.UpdateNote(r.Context(), r.PathValue("id"), converter.ConvertNotePatch(patch))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	gwserver.WriteJSON(w, http.StatusOK, converter.ConvertNote(note, query.Projection{}))
}

func (s *Service) deleteNote(w http.ResponseWriter, r *http.Request) {
	if err := s.usecase.DeleteNote(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}

	gwserver.WriteJSON(w, http.StatusOK, map[string]string{"message": "Note removed"})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		gwserver.BadRequest(w, "malformed JSON body", r.URL.Path)
		return false
	}

	return true
}

func (s *Service) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, entity.ErrNoteNotFound):
		gwserver.NotFound(w, "Note not found", r.URL.Path)
	case errors.Is(err, entity.ErrInvalidNote):
		gwserver.BadRequest(w, "Title, content and category are required", r.URL.Path)
	default:
		slogx.Error(r.Context(), "handle notes request", slogx.Err(err))
		gwserver.InternalError(w, r.URL.Path)
	}
}
