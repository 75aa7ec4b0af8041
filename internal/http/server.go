// Package http serves the calculator UI and its JSON API on the local
// machine.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"splitcalc/internal/app"
	"splitcalc/internal/cache"
	"splitcalc/internal/core"
	"splitcalc/internal/log"
	"splitcalc/internal/middleware/security"
	"splitcalc/internal/middleware/trace"
	appweb "splitcalc/web"
)

type Options struct {
	CacheSize int
	CacheTTL  time.Duration
	Logger    *log.Logger
}

type Server struct {
	http.Server
	ctrl        *app.Controller
	templates   *template.Template
	comparisons *cache.Comparisons
	caches      *cache.Manager
	trace       *trace.Middleware
	logger      *log.Logger

	shutdownOnce sync.Once
}

var templateFuncs = template.FuncMap{
	"money": core.FormatAmount,
	"add1":  func(i int) int { return i + 1 },
}

// NewServer wires routes and templates, returning a ready-to-run server.
func NewServer(addr string, ctrl *app.Controller, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 64
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 10 * time.Minute
	}

	s := &Server{
		ctrl:        ctrl,
		comparisons: cache.NewComparisons(opts.CacheSize, opts.CacheTTL),
		caches:      cache.NewManager(opts.Logger),
		trace:       trace.NewMiddleware(),
		logger:      opts.Logger.WithComponent(log.ComponentHTTP),
	}
	s.caches.Register(s.comparisons)
	s.caches.StartCleanup(context.Background(), opts.CacheTTL)

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates", log.FieldError, err.Error())
	}
	s.templates = t

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.trace.Middleware)
	r.Use(log.Middleware(s.logger))
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		r.With(security.StaticAssetMiddleware(3600)).
			Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(sub))))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err.Error())
	}

	r.Get("/", s.handleIndex)
	r.Get("/healthz", handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(security.NoStore)

		r.Get("/state", s.handleState)

		r.Post("/ledger/categories", s.handleAddCategory)
		r.Put("/ledger/categories/{id}", s.handleUpdateAmount)
		r.Delete("/ledger/categories/{id}", s.handleRemoveCategory)
		r.Post("/ledger/clear", s.handleClear)
		r.Post("/ledger/reset", s.handleReset)

		r.Put("/split/people", s.handleSetPeople)
		r.Put("/split/advanced", s.handleSetAdvanced)
		r.Put("/split/percentages/{index}", s.handleSetPercentage)
		r.Post("/calculate", s.handleCalculate)

		r.Get("/records", s.handleListRecords)
		r.Post("/records/{id}/load", s.handleLoadRecord)
		r.Delete("/records/{id}", s.handleDeleteRecord)
		r.Put("/selection/{id}", s.handleSetSelected)

		r.Get("/comparison", s.handleComparison)
		r.Get("/comparison.csv", s.handleComparisonCSV)
	})
	return r
}

// Shutdown stops the cache sweeper and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.caches.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// comparison returns the aligned comparison for the current selection,
// served from cache while the history and selection are unchanged.
func (s *Server) comparison(ctx context.Context) core.Comparison {
	rev, sel, selected := s.ctrl.ComparisonInput()
	cmp, hit := s.comparisons.GetOrCompute(rev, sel, func() core.Comparison {
		return core.Compare(selected)
	})
	if hit {
		s.logger.DebugContext(ctx, "Comparison cache hit", "revision", rev, "selected", len(sel))
	}
	return cmp
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
