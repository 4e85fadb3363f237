package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"vectorvision/internal/handlers"
	"vectorvision/internal/navigation"
	"vectorvision/internal/retrieval"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Library   handlers.Library
	Tasks     handlers.TaskSource
	Retrieval retrieval.Service
	Navigator *navigation.Navigator
	Checks    map[string]handlers.Check
	Usage     *handlers.UsageHandler
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	folderHandler := handlers.NewFolderHandler(deps.Library)
	taskHandler := handlers.NewTaskHandler(deps.Tasks)
	searchHandler := handlers.NewSearchHandler(deps.Retrieval)
	navHandler := handlers.NewNavigationHandler(deps.Navigator, deps.Library)
	healthHandler := handlers.NewHealthHandler(deps.Checks)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)

		r.Get("/folders", folderHandler.List)
		r.Post("/folders", folderHandler.Register)
		r.Get("/folders/{id}/files", folderHandler.Files)

		r.Get("/tasks", taskHandler.List)
		r.Get("/tasks/{id}", taskHandler.Get)

		r.Post("/search/text", searchHandler.Text)
		r.Post("/search/image", searchHandler.Image)

		r.Get("/navigation", navHandler.State)
		r.Post("/navigation/next", navHandler.Next)
		r.Post("/navigation/prev", navHandler.Prev)
		r.Post("/navigation/tree", navHandler.Tree)
	})

	if deps.Usage != nil {
		r.Method(http.MethodGet, "/", deps.Usage)
	}

	return r
}
