package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aurigandrea/consentd/schema"
)

// appendRecord is the API to record a freeform consent attestation.
func (s *Server) appendRecord(c *gin.Context) {
	sess := currentSession(c)

	var draft schema.RecordDraft
	if err := c.BindJSON(&draft); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	if draft.ConsentDate == "" {
		draft.ConsentDate = time.Now().Format(schema.DateLayout)
	}
	draft.OriginAddress = s.originAddress()
	draft.UserAgent = c.Request.UserAgent()

	record, err := sess.Ledger.Append(draft)
	if err != nil {
		if errors.Is(err, schema.ErrValidation) {
			abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
			return
		}
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"record": record})
}

// listRecords is the API to list the ledger, optionally filtered by a
// case-insensitive search term.
func (s *Server) listRecords(c *gin.Context) {
	sess := currentSession(c)

	records := sess.Ledger.Filter(c.Query("query"))
	c.JSON(http.StatusOK, gin.H{"records": records})
}

// withdrawRecord is the API to remove a consent record. Irreversible.
func (s *Server) withdrawRecord(c *gin.Context) {
	sess := currentSession(c)

	if err := sess.Ledger.Withdraw(c.Param("id")); err != nil {
		if errors.Is(err, schema.ErrNotFound) {
			abortWithEncoding(c, http.StatusNotFound, errorRecordNotFound, err)
			return
		}
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": "OK"})
}

func (s *Server) originAddress() string {
	if s.origin == nil {
		return ""
	}
	return s.origin.Current()
}
