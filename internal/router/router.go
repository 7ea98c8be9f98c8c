package router

import (
	"database/sql"
	"net/http"

	mem "dog-blood-donation/internal/adapters/storage/memory"
	pg "dog-blood-donation/internal/adapters/storage/postgres"
	"dog-blood-donation/internal/domain/dogs"
	"dog-blood-donation/internal/domain/requests"
	"dog-blood-donation/internal/domain/responses"
	"dog-blood-donation/internal/middleware"
	"dog-blood-donation/internal/platform/metrics"
	"dog-blood-donation/internal/ports/auth"

	_ "dog-blood-donation/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Registry propio para poder levantar varios routers en tests.
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	r.Get("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}).ServeHTTP)

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		dogsRepo     dogs.Repository
		requestsRepo requests.Repository
		respRepo     responses.Repository
	)

	if opts.DB != nil {
		dogsRepo = pg.NewDogsRepo(opts.DB)
		requestsRepo = pg.NewRequestsRepo(opts.DB)
		respRepo = pg.NewResponsesRepo(opts.DB)
	} else {
		memDogs := mem.NewDogsRepo()
		dogsRepo = memDogs
		requestsRepo = mem.NewRequestsRepo()
		// el repo de respuestas comparte el de perros para completar en
		// la misma unidad de trabajo
		respRepo = mem.NewResponsesRepo(memDogs)
	}

	dogsSvc := dogs.NewService(dogsRepo)
	requestsSvc := requests.NewService(requestsRepo)
	responsesSvc := responses.NewService(respRepo, requestsSvc, dogsSvc)

	dogs.RegisterRoutes(r, dogsSvc, m)
	requests.RegisterRoutes(r, requestsSvc, dogsSvc, m)
	responses.RegisterRoutes(r, responsesSvc, m)

	return r
}
