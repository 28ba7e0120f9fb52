package http

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"notemind-ai/internal/handlers"
	"notemind-ai/internal/indexer"
	"notemind-ai/internal/rag"
	"notemind-ai/internal/service"
	"notemind-ai/internal/storage"
	"notemind-ai/internal/tasks"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	DB          *sql.DB
	NoteRepo    storage.NoteStore
	Pipeline    *indexer.Pipeline
	Engine      rag.Engine
	ChatService service.ChatService
	Runner      *tasks.Runner
	Embeddings  handlers.EmbeddingStatus
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	noteHandler := handlers.NewNoteHandler(deps.NoteRepo, deps.Pipeline, deps.Runner)
	searchHandler := handlers.NewSearchHandler(deps.Engine)
	chatHandler := handlers.NewChatHandler(deps.ChatService)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Embeddings)

	r.Method(http.MethodGet, "/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(OwnerMiddleware)

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", noteHandler.List)
			r.Post("/", noteHandler.Create)
			r.Get("/{id}", noteHandler.Get)
			r.Put("/{id}", noteHandler.Update)
			r.Delete("/{id}", noteHandler.Delete)
			r.Get("/{id}/suggestions", noteHandler.Suggestions)
		})

		r.Method(http.MethodPost, "/search", searchHandler)
		r.Method(http.MethodPost, "/chat", chatHandler)
	})

	return r
}
