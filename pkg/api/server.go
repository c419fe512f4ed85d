// Package api exposes graph classification and traversal over HTTP.
package api

import (
	"errors"
	"net/http"

	"github.com/dd0wney/cluso-graphclass/pkg/api/middleware"
	"github.com/dd0wney/cluso-graphclass/pkg/graphql"
	"github.com/dd0wney/cluso-graphclass/pkg/health"
	"github.com/dd0wney/cluso-graphclass/pkg/logging"
	"github.com/dd0wney/cluso-graphclass/pkg/metrics"
	"github.com/dd0wney/cluso-graphclass/pkg/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultMaxBodyBytes bounds request bodies when Options leaves it unset
const DefaultMaxBodyBytes = 10 << 20

// Options configures a Server. Service is required; everything else has a
// usable default.
type Options struct {
	Service       *service.Service
	Health        *health.HealthChecker
	Metrics       *metrics.Registry
	Logger        logging.Logger
	CORS          *middleware.CORSConfig
	MaxBodyBytes  int64
	EnableGraphQL bool
	// GraphQLMaxDepth defaults to graphql.DefaultMaxDepth
	GraphQLMaxDepth int
}

// Server represents the HTTP API server
type Server struct {
	service        *service.Service
	healthChecker  *health.HealthChecker
	metrics        *metrics.Registry
	logger         logging.Logger
	graphqlHandler *graphql.GraphQLHandler
	handler        http.Handler
}

// NewServer wires routes and middleware
func NewServer(opts Options) (*Server, error) {
	if opts.Service == nil {
		return nil, errors.New("api: service is required")
	}

	s := &Server{
		service:       opts.Service,
		healthChecker: opts.Health,
		metrics:       opts.Metrics,
		logger:        opts.Logger,
	}
	if s.logger == nil {
		s.logger = logging.NewNopLogger()
	}
	if s.healthChecker == nil {
		s.healthChecker = health.NewHealthChecker()
		s.healthChecker.RegisterLivenessCheck("alive", health.AliveCheck())
	}
	if s.metrics == nil {
		s.metrics = metrics.NewRegistry()
	}

	if opts.EnableGraphQL {
		schema, err := graphql.NewSchema(opts.Service)
		if err != nil {
			return nil, err
		}
		s.graphqlHandler = graphql.NewGraphQLHandler(schema,
			graphql.WithMaxDepth(opts.GraphQLMaxDepth),
			graphql.WithLogger(s.logger.With(logging.Component("graphql"))),
		)
	}

	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	cors := opts.CORS
	if cors == nil {
		cors = middleware.DefaultCORSConfig()
	}

	mux := s.routes()
	s.handler = middleware.Chain(mux,
		middleware.PanicRecovery(s.logger),
		middleware.RequestID(),
		middleware.Logging(s.logger.With(logging.Component("http"))),
		middleware.Metrics(s.metrics),
		middleware.SecurityHeaders(),
		middleware.CORS(cors),
		middleware.BodySizeLimit(maxBody),
	)
	return s, nil
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc(PathRoot, s.handleRoot)

	mux.HandleFunc(PathPredict, s.handlePredict)
	mux.HandleFunc(PathBFS, s.handleTraversal(service.BFS))
	mux.HandleFunc(PathDFS, s.handleTraversal(service.DFS))

	mux.HandleFunc(PathHealth, s.healthChecker.HTTPHandler())
	mux.HandleFunc(PathHealthLive, s.healthChecker.LivenessHandler())
	mux.HandleFunc(PathHealthReady, s.healthChecker.ReadinessHandler())
	mux.Handle(PathMetrics, s.metricsHandler())

	paths := []string{PathRoot, PathPredict, PathBFS, PathDFS, PathHealth, PathHealthLive, PathHealthReady, PathMetrics}
	if s.graphqlHandler != nil {
		mux.Handle(PathGraphQL, s.graphqlHandler)
		paths = append(paths, PathGraphQL)
	}
	s.metrics.RegisterRoutes(paths...)

	return mux
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// metricsHandler refreshes runtime gauges before each scrape
func (s *Server) metricsHandler() http.Handler {
	prom := promhttp.HandlerFor(s.metrics.GetPrometheusRegistry(), promhttp.HandlerOpts{})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.metrics.UpdateSystemMetrics()
		prom.ServeHTTP(w, r)
	})
}
