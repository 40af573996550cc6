package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const aliveMessage = "I am alive"

// Route is an extra POST endpoint mounted next to the liveness check.
type Route struct {
	Path    string
	Handler http.Handler
}

// LivenessRouter answers GET / for uptime pings. In webhook mode the update
// route is passed in and becomes the only other route.
func LivenessRouter(webhook *Route) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", alive)
	if webhook != nil {
		r.Method(http.MethodPost, webhook.Path, webhook.Handler)
	}

	return r
}

func MetricsRouter(metrics http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Method(http.MethodGet, "/metrics", metrics)
	return r
}

func alive(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(aliveMessage))
}
