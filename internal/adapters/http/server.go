package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/OliveiraNt/maned-bridge/internal/adapters/http/resp"
	"github.com/OliveiraNt/maned-bridge/internal/application"
	"github.com/OliveiraNt/maned-bridge/internal/metrics"
	"github.com/OliveiraNt/maned-bridge/internal/utils"
)

const (
	routeUserList    = "/user/list"
	routeUserCreate  = "/user/create"
	routeUserDelete  = "/user/delete"
	routeTopicList   = "/topic/list"
	routeTopicCreate = "/topic/create"
	routeTopicDelete = "/topic/delete"
	routeTopicDetail = "/topic/detail"
	routeHealth      = "/health"
	routeMetrics     = "/metrics"
	routeUnmatched   = "unmatched"

	shutdownTimeout = 10 * time.Second
)

// Server provides the admin HTTP API for broker users and topics.
type Server struct {
	topicService *application.TopicService
	authDriver   *application.AuthDriver
	metrics      *metrics.Metrics
}

// New creates a new HTTP server instance.
func New(topicService *application.TopicService, authDriver *application.AuthDriver, m *metrics.Metrics) *Server {
	if m == nil {
		m = metrics.New("")
	}
	return &Server{
		topicService: topicService,
		authDriver:   authDriver,
		metrics:      m,
	}
}

// Router builds the chi router with every admin route.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLog)
	r.NotFound(s.notFound)
	r.MethodNotAllowed(s.methodNotAllowed)

	r.Post(routeUserList, s.apiListUsers)
	r.Post(routeUserCreate, s.apiCreateUser)
	r.Post(routeUserDelete, s.apiDeleteUser)

	r.Post(routeTopicList, s.apiListTopics)
	r.Post(routeTopicCreate, s.apiCreateTopic)
	r.Post(routeTopicDelete, s.apiDeleteTopic)
	r.Post(routeTopicDetail, s.apiTopicDetail)

	r.Get(routeHealth, s.health)
	r.Method(http.MethodGet, routeMetrics, s.metrics.Handler())
	return r
}

// Run serves the admin API on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.Logger.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		dur := time.Since(start)
		utils.Logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", dur.String(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeResponse(s, w, r, time.Now(), resp.Success())
}

// notFound and methodNotAllowed keep the envelope contract for unknown
// routes. They share one metrics label so arbitrary paths add no series.
func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.writeUnmatched(w, r, "route not found: "+r.Method+" "+r.URL.Path)
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.writeUnmatched(w, r, "method not allowed: "+r.Method+" "+r.URL.Path)
}

func (s *Server) writeUnmatched(w http.ResponseWriter, r *http.Request, msg string) {
	start := time.Now()
	res := resp.Err(msg)
	if err := resp.Write(w, res); err != nil {
		utils.Logger.Error("encode response failed", "path", r.URL.Path, "err", err)
	}
	s.metrics.ObserveRequest(routeUnmatched, res.Code, time.Since(start))
}

// writeResponse sends res and counts it under the request path.
func writeResponse[T any](s *Server, w http.ResponseWriter, r *http.Request, start time.Time, res resp.Response[T]) {
	if err := resp.Write(w, res); err != nil {
		utils.Logger.Error("encode response failed", "path", r.URL.Path, "err", err)
	}
	s.metrics.ObserveRequest(r.URL.Path, res.Code, time.Since(start))
}

func fail(err error) resp.Response[string] {
	return resp.Err(err.Error())
}
