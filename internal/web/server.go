package web

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/skillgate/skillgate/internal/catalog"
	"github.com/skillgate/skillgate/internal/introspect"
	"github.com/skillgate/skillgate/internal/schema"
)

// Resolver discovers action schemas from skill documentation.
type Resolver interface {
	Resolve(skill string) (*schema.Result, error)
}

// Executor runs skill actions and enumerates their names.
type Executor interface {
	Execute(ctx context.Context, skill, action string, params map[string]any) map[string]any
	Discover(ctx context.Context, skill string) []string
}

// Prober performs last-resort runtime schema discovery.
type Prober interface {
	Probe(ctx context.Context, skill string, actions []string) *schema.Result
}

// Introspector reads child-table schemas from skill storage.
type Introspector interface {
	Introspect(skill string) (map[string][]introspect.ChildTable, error)
}

// Lister enumerates installed skills and their declared actions.
type Lister interface {
	List() []catalog.Meta
	Actions(skill string) []string
}

// Server holds the HTTP server and its collaborators.
type Server struct {
	router chi.Router

	resolver     Resolver
	executor     Executor
	prober       Prober
	introspector Introspector
	catalog      Lister

	startTime time.Time
}

// NewServer wires the gateway routes.
func NewServer(resolver Resolver, executor Executor, prober Prober, introspector Introspector, cat Lister) *Server {
	s := &Server{
		router:       chi.NewRouter(),
		resolver:     resolver,
		executor:     executor,
		prober:       prober,
		introspector: introspector,
		catalog:      cat,
		startTime:    time.Now(),
	}
	s.registerRoutes()
	return s
}

// registerRoutes sets up all HTTP routes. The router prefers static
// segments over parameters, so "schema" is effectively a reserved skill
// name for the /{skill}/{action} pass-through.
func (s *Server) registerRoutes() {
	s.router.Use(middleware.Recoverer)

	s.router.Get("/api/health", s.handleHealth)
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/schema/skills", s.handleListSkills)
		r.Get("/schema/actions/{skill}", s.handleListActions)
		r.Get("/schema/params/{skill}", s.handleParams)
		r.Get("/schema/child-tables/{skill}", s.handleChildTables)
		r.Get("/{skill}/{action}", s.handleAction)
		r.Post("/{skill}/{action}", s.handleAction)
	})
}

// Handler exposes the route tree, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start begins listening on the configured port with graceful shutdown.
// On SIGINT/SIGTERM it waits up to 10s for in-flight requests to complete.
func (s *Server) Start() error {
	port := os.Getenv("WEB_PORT")
	if port == "" {
		port = "8080"
	}

	addr := ":" + port
	srv := &http.Server{Addr: addr, Handler: s.router}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		log.Printf("[Web] Received signal %v, shutting down gracefully...", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[Web] Graceful shutdown error: %v", err)
		}
	}()

	log.Printf("[Web] Skillgate listening at http://localhost%s", addr)
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		log.Println("[Web] Server stopped gracefully")
		return nil
	}
	return err
}
