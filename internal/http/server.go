package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RouterDeps agrupa lo que el router necesita; los handlers concretos se
// montan desde fuera para no acoplar este paquete a handlers.
type RouterDeps struct {
	GraphQL     http.Handler
	Admin       AdminRoutes
	Metrics     http.Handler
	Ready       func(ctx context.Context) error
	CORSOrigins []string
	Log         *zap.Logger
}

// AdminRoutes son los endpoints de administración ya construidos. Guard es
// el middleware de autenticación que los envuelve.
type AdminRoutes struct {
	Guard  func(http.Handler) http.Handler
	List   http.HandlerFunc
	Get    http.HandlerFunc
	Save   http.HandlerFunc
	Delete http.HandlerFunc
}

// NewRouter arma el árbol de rutas completo del gateway.
func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Entry point único del gateway. GET habilitado para queries vía
	// query param; el preflight lo resuelve WithCORS.
	r.Method(http.MethodGet, "/graphql", d.GraphQL)
	r.Method(http.MethodPost, "/graphql", d.GraphQL)

	r.Route("/admin/schemas", func(ar chi.Router) {
		ar.Use(d.Admin.Guard)
		ar.Get("/", d.Admin.List)
		ar.Post("/", d.Admin.Save)
		ar.Get("/{id}", d.Admin.Get)
		ar.Delete("/{id}", d.Admin.Delete)
	})

	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.Ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := d.Ready(ctx); err != nil {
				WriteError(w, http.StatusServiceUnavailable, "not_ready", err.Error())
				return
			}
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	// Cadena de middlewares, del más externo al más interno.
	var h http.Handler = r
	h = WithRecover(d.Log, h)
	h = WithCORS(d.CORSOrigins, h)
	h = WithLogging(d.Log, h)
	h = WithRequestID(h)
	return h
}

// Server es un http.Server con timeouts razonables y shutdown ordenado.
type Server struct {
	srv *http.Server
	log *zap.Logger
}

func NewServer(addr string, handler http.Handler, log *zap.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		log: log,
	}
}

// Start bloquea hasta que el listener falla o se cierra vía Shutdown.
func (s *Server) Start() error {
	s.log.Info("http server listening", zap.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("http server shutting down")
	return s.srv.Shutdown(ctx)
}
