package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/m-mizutani/goerr/v2"

	"github.com/Rajgohel2908/Memora/pkg/service/metrics"
	"github.com/Rajgohel2908/Memora/pkg/service/storage"
	"github.com/Rajgohel2908/Memora/pkg/usecase"
)

type Server struct {
	router      *chi.Mux
	authUC      AuthUseCase
	metrics     *metrics.Collector
	uploadDir   string
	corsOrigins []string
}

type Options func(*Server)

func WithAuth(authUC AuthUseCase) Options {
	return func(s *Server) {
		s.authUC = authUC
	}
}

// WithMetrics records request metrics and serves them on /metrics
func WithMetrics(collector *metrics.Collector) Options {
	return func(s *Server) {
		s.metrics = collector
	}
}

// WithUploadDir serves locally stored blobs under /uploads/
func WithUploadDir(dir string) Options {
	return func(s *Server) {
		s.uploadDir = dir
	}
}

// WithCORS allows cross-origin requests from origins
func WithCORS(origins []string) Options {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

func New(uc *usecase.UseCases, opts ...Options) (*Server, error) {
	r := chi.NewRouter()

	s := &Server{router: r}
	for _, opt := range opts {
		opt(s)
	}
	if s.authUC == nil {
		s.authUC = uc.Auth
	}
	if s.authUC == nil {
		return nil, goerr.New("authentication is not configured")
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(requestMetrics(s.metrics))
	}
	if len(s.corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.corsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/health", healthHandler)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}
	if s.uploadDir != "" {
		r.Handle(storage.LocalURLPrefix+"*",
			http.StripPrefix(storage.LocalURLPrefix, http.FileServer(http.Dir(s.uploadDir))))
	}

	memories := &memoryHandler{memory: uc.Memory}
	graphs := &graphHandler{graphs: uc.Graph}
	network := &networkHandler{network: uc.Network}

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware(s.authUC))

		r.Get("/auth/me", authMeHandler(s.authUC))

		r.Route("/memories", func(r chi.Router) {
			r.Get("/", memories.list)
			r.Post("/", memories.create)
			r.Get("/timeline/grouped", memories.timeline)
			r.Get("/{id}", memories.get)
			r.Put("/{id}", memories.update)
			r.Delete("/{id}", memories.delete)
		})

		r.Get("/graph", graphs.build)
		r.Get("/graph/filters", graphs.filters)

		r.Route("/network/views", func(r chi.Router) {
			r.Post("/", network.open)
			r.Get("/{id}", network.get)
			r.Put("/{id}/resolution", network.setResolution)
			r.Put("/{id}/filter", network.setFilter)
			r.Post("/{id}/drill-up", network.drillUp)
			r.Post("/{id}/events", network.event)
			r.Delete("/{id}", network.close)
		})
	})

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}
