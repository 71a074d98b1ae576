package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrJamesThe3rd/tally/internal/http/account"
	"github.com/MrJamesThe3rd/tally/internal/http/authn"
	"github.com/MrJamesThe3rd/tally/internal/http/expense"
	"github.com/MrJamesThe3rd/tally/internal/http/export"
	"github.com/MrJamesThe3rd/tally/internal/http/importcsv"
	"github.com/MrJamesThe3rd/tally/internal/http/matching"
	"github.com/MrJamesThe3rd/tally/internal/http/ratelimit"
	"github.com/MrJamesThe3rd/tally/internal/http/stats"
	"github.com/MrJamesThe3rd/tally/internal/metrics"
)

type Options struct {
	AllowedOrigins []string
	AuthRateLimit  float64
	AuthRateBurst  int
	Timeout        time.Duration
}

func New(
	opts Options,
	authenticator authn.Authenticator,
	accountV1 *account.Handler,
	expensesV1 *expense.Handler,
	importV1 *importcsv.Handler,
	statsV1 *stats.Handler,
	matchingV1 *matching.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(ratelimit.Peer)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(instrument)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	requireUser := authn.RequireUser(authenticator)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(ratelimit.New(opts.AuthRateLimit, opts.AuthRateBurst).Middleware)
			r.Use(middleware.AllowContentType("application/json"))
			accountV1.Routes(r)

			r.Group(func(r chi.Router) {
				r.Use(requireUser)
				accountV1.PasswordRoutes(r)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(requireUser)

			r.Route("/expenses", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				expensesV1.Routes(r)
			})

			r.Route("/import", importV1.Routes)
			r.Route("/stats", statsV1.Routes)

			r.Route("/matching", func(r chi.Router) {
				matchingV1.Routes(r)
			})

			r.Route("/export", exportV1.Routes)
		})
	})

	return router
}

// instrument records request counts and latencies by route pattern so that
// ids in paths do not explode label cardinality.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
