package api

import (
	"net/http/httputil"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// DumpRequest is a middleware that logs a summary of every request and,
// when trace mode is enabled, a full dump of the incoming request.
func (s *Server) DumpRequest(c *gin.Context) {
	if s.traceMode {
		dump, err := httputil.DumpRequest(c.Request, true)
		if err != nil {
			log.WithFields(logrus.Fields{
				"prefix": "gin",
				"method": c.Request.Method,
				"path":   c.Request.URL.Path,
			}).Error("fail to dump request")
		} else {
			log.WithFields(logrus.Fields{
				"prefix": "gin",
				"req":    string(dump),
			}).Debug("incoming request")
		}
	}

	start := time.Now()
	c.Next()

	log.WithFields(logrus.Fields{
		"prefix":   "gin",
		"status":   c.Writer.Status(),
		"method":   c.Request.Method,
		"path":     c.Request.URL.Path,
		"duration": time.Since(start).String(),
	}).Debug("request handled")
}
