// Package api exposes the walk controller over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gwillem/spider/pkg/walk"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "api",
})

// Robot is the part of the walk controller the API drives.
type Robot interface {
	Status() walk.Status
	Poses() []string
	PlayPose(ctx context.Context, name string) error
	Launch(cycles int) (string, error)
	Stop() bool
}

// Server serves the /api/v1 routes.
type Server struct {
	robot     Robot
	startTime time.Time
	version   string
}

// NewServer creates a server for the robot.
func NewServer(robot Robot, version string) *Server {
	return &Server{
		robot:     robot,
		startTime: time.Now(),
		version:   version,
	}
}

// SetupRoutes registers the API routes on r.
func (s *Server) SetupRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", s.handleHealth)
		v1.GET("/status", s.handleStatus)

		poses := v1.Group("/poses")
		{
			poses.GET("", s.handleGetPoses)
			poses.POST("/:name", s.handlePlayPose)
		}

		w := v1.Group("/walk")
		{
			w.POST("/start", s.handleStartWalk)
			w.POST("/stop", s.handleStopWalk)
		}
	}
}

// Handler builds the gin engine with CORS and the API routes.
func (s *Server) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))
	s.SetupRoutes(r)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Debug("request")
	}
}
