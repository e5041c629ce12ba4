package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"tally/internal/cache"
	"tally/internal/log"
	"tally/internal/middleware/ratelimit"
	"tally/internal/middleware/security"
	"tally/internal/middleware/trace"
	"tally/internal/services"
	appweb "tally/web"
)

// Server serves the form UI, the HTMX partials, and the export downloads.
// It owns the session-scoped salary and a small cache of rendered chart
// images keyed by ledger fingerprint.
type Server struct {
	http.Server
	templates *template.Template
	service   *services.LedgerService
	logger    *log.Logger

	detector *security.Detector
	tracer   *trace.Middleware
	limiter  *ratelimit.Limiter

	chartCache   *cache.LRUCache[[]byte]
	cacheManager *cache.Manager

	// Session salary. Held for the process lifetime, never persisted.
	salaryMu sync.Mutex
	salary   *decimal.Decimal

	shutdownOnce sync.Once
}

// NewServer configures routes, middleware, and templates, returning a
// ready-to-run server.
func NewServer(addr string, service *services.LedgerService, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentHTTP)
	}

	s := &Server{
		service:    service,
		logger:     logger,
		detector:   security.NewDetector(),
		limiter:    ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		chartCache: cache.NewLRUCache[[]byte](16, 5*time.Minute),
	}
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP)

	s.cacheManager = cache.NewManager()
	s.cacheManager.Register(s.chartCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", log.FieldError, err)
	}
	s.templates = t

	mux := http.NewServeMux()

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)

	// Record operations
	mux.HandleFunc("/records", s.handleCreateRecord)
	mux.HandleFunc("/records/delete", s.handleDeleteRecord)
	mux.HandleFunc("/records/edit", s.handleEditRecord)

	// Session salary
	mux.HandleFunc("/salary", s.handleSetSalary)
	mux.HandleFunc("/salary/clear", s.handleClearSalary)

	// UI partials
	mux.HandleFunc("/ui/records", s.handleRecords)
	mux.HandleFunc("/ui/total", s.handleTotal)
	mux.HandleFunc("/ui/summary", s.handleSummary)
	mux.HandleFunc("/ui/report", s.handleReport)
	mux.HandleFunc("/ui/chart", s.handleChartView)

	// Export downloads
	mux.HandleFunc("/export/xlsx", s.handleExportXLSX)
	mux.HandleFunc("/export/pdf", s.handleExportPDF)
	mux.HandleFunc("/export/chart", s.handleExportChart)
	mux.HandleFunc("/export/bundle", s.handleExportBundle)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limited := s.limiter.Middleware(s.detector.ExtractClientIP, nil)

	// Outermost first: security headers, request-scoped logger, tracing,
	// request ID enrichment off the traced context, then rate limiting on
	// mutations only.
	var handler http.Handler = s.flagSuspicious(s.limitMutations(limited, mux))
	handler = log.RequestIDMiddleware(func(r *http.Request) string {
		return trace.GetRequestID(r.Context())
	})(handler)
	handler = s.tracer.Middleware(handler)
	handler = log.Middleware(logger)(handler)
	handler = headers.Middleware(handler)

	s.Server.Addr = addr
	s.Server.Handler = handler
	s.Server.ReadTimeout = 10 * time.Second
	s.Server.WriteTimeout = 30 * time.Second
	s.Server.IdleTimeout = 60 * time.Second
	s.Server.MaxHeaderBytes = 1 << 16
	return s
}

// flagSuspicious logs probe-looking requests. Detection only observes;
// nothing is blocked on a match.
func (s *Server) flagSuspicious(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Suspicious request detected",
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				log.FieldClientIP, s.detector.ExtractClientIP(r))
		}
		next.ServeHTTP(w, r)
	})
}

// limitMutations applies the rate-limiting middleware to state-changing
// methods only; reads and downloads pass through.
func (s *Server) limitMutations(limited func(http.Handler) http.Handler, next http.Handler) http.Handler {
	guarded := limited(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			guarded.ServeHTTP(w, r)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// Shutdown gracefully shuts down the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// Salary returns a copy of the session salary, or nil when unset.
func (s *Server) Salary() *decimal.Decimal {
	s.salaryMu.Lock()
	defer s.salaryMu.Unlock()
	if s.salary == nil {
		return nil
	}
	v := *s.salary
	return &v
}

// SetSalary stores the session salary.
func (s *Server) SetSalary(v decimal.Decimal) {
	s.salaryMu.Lock()
	defer s.salaryMu.Unlock()
	s.salary = &v
}

// ClearSalary forgets the session salary.
func (s *Server) ClearSalary() {
	s.salaryMu.Lock()
	defer s.salaryMu.Unlock()
	s.salary = nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	// Ready once the ledger answers a load.
	if _, err := s.service.List(r.Context()); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Readiness check failed", log.FieldError, err)
		http.Error(w, "ledger unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	tm := s.tracer.GetMetrics()
	rm := s.limiter.GetMetrics()
	dm := s.detector.GetMetrics()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "requests_total %d\n", tm.TotalRequests)
	fmt.Fprintf(w, "last_response_time_us %d\n", tm.AverageResponseTime)
	fmt.Fprintf(w, "rate_limit_hits_total %d\n", rm.TotalHits)
	fmt.Fprintf(w, "rate_limit_clients %d\n", rm.ClientCount)
	fmt.Fprintf(w, "suspicious_requests_total %d\n", dm.SuspiciousRequests)
	fmt.Fprintf(w, "chart_cache_entries %d\n", s.chartCache.Size())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		NotFoundError("Page not found").Write(w)
		return
	}
	data := struct {
		HasSalary bool
		Salary    string
	}{}
	if salary := s.Salary(); salary != nil {
		data.HasSalary = true
		data.Salary = salary.StringFixed(2)
	}
	s.render(w, r, "index.html", data)
}

// render executes the named template, logging and reporting failures.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded", log.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			log.FieldError, err, "template", name)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
