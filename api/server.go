package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/aurigandrea/consentd/external/ipify"
	"github.com/aurigandrea/consentd/session"
)

var log = logrus.WithField("prefix", "api")

// Server is the presentation adapter over the in-memory components. It
// only translates commands and snapshots; all consent semantics live in
// the ledger and the tracker.
type Server struct {
	sessions  *session.Manager
	origin    *ipify.Resolver
	server    *http.Server
	traceMode bool
}

func NewServer(sessions *session.Manager, origin *ipify.Resolver, traceMode bool) *Server {
	return &Server{
		sessions:  sessions,
		origin:    origin,
		traceMode: traceMode,
	}
}

func (s *Server) Run(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.setupRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.DumpRequest)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"result": "OK"})
	})

	api := r.Group("/api", s.requireSession)

	api.POST("/records", s.appendRecord)
	api.GET("/records", s.listRecords)
	api.DELETE("/records/:id", s.withdrawRecord)

	api.POST("/requests", s.createRequest)
	api.GET("/requests/sent", s.listSentRequests)
	api.GET("/requests/received", s.listReceivedRequests)
	api.POST("/requests/:id/accept", s.acceptRequest)
	api.POST("/requests/:id/decline", s.declineRequest)
	api.DELETE("/requests/:id", s.cancelRequest)

	return r
}

// requireSession rejects commands while nobody is logged in and hands the
// active session to the handlers.
func (s *Server) requireSession(c *gin.Context) {
	sess := s.sessions.Current()
	if sess == nil {
		abortWithEncoding(c, http.StatusUnauthorized, errorNotAuthenticated)
		return
	}
	c.Set("session", sess)
	c.Next()
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet("session").(*session.Session)
}
