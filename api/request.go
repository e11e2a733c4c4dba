package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aurigandrea/consentd/schema"
)

type requestView struct {
	schema.ConsentRequest
	Urgent bool `json:"urgent"`
}

func viewRequests(requests []schema.ConsentRequest) []requestView {
	now := time.Now()
	views := make([]requestView, 0, len(requests))
	for _, r := range requests {
		views = append(views, requestView{ConsentRequest: r, Urgent: r.Urgent(now)})
	}
	return views
}

// createRequest is the API to solicit consent from a recipient. The
// request is stored locally first; a delivery failure is reported as a
// warning on an otherwise successful response.
func (s *Server) createRequest(c *gin.Context) {
	sess := currentSession(c)

	var draft schema.RequestDraft
	if err := c.BindJSON(&draft); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	request, err := sess.Tracker.Create(c.Request.Context(), sess.Principal, draft)
	if err != nil {
		switch {
		case errors.Is(err, schema.ErrDeliveryFailed):
			c.JSON(http.StatusOK, gin.H{
				"request":   request,
				"delivered": false,
				"warning":   "request saved but email delivery failed",
			})
		case errors.Is(err, schema.ErrValidation):
			abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		default:
			abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"request": request, "delivered": true})
}

// listSentRequests is the API for the requester's view of their pending
// requests.
func (s *Server) listSentRequests(c *gin.Context) {
	sess := currentSession(c)
	c.JSON(http.StatusOK, gin.H{"requests": viewRequests(sess.Tracker.ListSentBy(sess.Principal.Email))})
}

// listReceivedRequests is the API for the recipient's view of pending
// requests addressed to them.
func (s *Server) listReceivedRequests(c *gin.Context) {
	sess := currentSession(c)
	c.JSON(http.StatusOK, gin.H{"requests": viewRequests(sess.Tracker.ListReceivedBy(sess.Principal.Email))})
}

// acceptRequest is the API for a recipient to grant a pending request: a
// consent record is appended and the request is completed in one step.
func (s *Server) acceptRequest(c *gin.Context) {
	sess := currentSession(c)

	record, err := sess.Tracker.Accept(c.Param("id"), sess.Principal, sess.Ledger, s.originAddress(), c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, schema.ErrNotFound):
			abortWithEncoding(c, http.StatusNotFound, errorRequestNotFound, err)
		case errors.Is(err, schema.ErrValidation):
			abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		default:
			abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"record": record})
}

// declineRequest is the API for a recipient to refuse a pending request.
func (s *Server) declineRequest(c *gin.Context) {
	sess := currentSession(c)

	if err := sess.Tracker.Decline(c.Param("id")); err != nil {
		if errors.Is(err, schema.ErrNotFound) {
			abortWithEncoding(c, http.StatusNotFound, errorRequestNotFound, err)
			return
		}
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": "OK"})
}

// cancelRequest is the API for a requester to retract their own pending
// request. The request is deleted outright.
func (s *Server) cancelRequest(c *gin.Context) {
	sess := currentSession(c)

	if err := sess.Tracker.Cancel(c.Param("id"), sess.Principal.Email); err != nil {
		if errors.Is(err, schema.ErrNotFound) {
			abortWithEncoding(c, http.StatusNotFound, errorRequestNotFound, err)
			return
		}
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": "OK"})
}
