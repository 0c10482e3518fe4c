// Package api is the subscription HTTP surface: the only write path
// into the subscriber store from outside the watcher.
package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-jobalert/internal/mailer"
	"go-jobalert/internal/store"
)

const confirmationSubject = "Subscribed to Job Alerts!"

const confirmationBody = `Hi there,

You've successfully subscribed to the BIT TNP job alert bot.

You'll receive an email digest whenever new job postings are found.

Cheers,
Job Alert Bot`

type Server struct {
	subs   *store.SubscriberStore
	seen   *store.SeenStore
	sender mailer.Sender
}

func NewServer(subs *store.SubscriberStore, seen *store.SeenStore, sender mailer.Sender) *Server {
	return &Server{
		subs:   subs,
		seen:   seen,
		sender: sender,
	}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()
	r.POST("/subscribe", s.handleSubscribe)
	r.GET("/health", s.handleHealth)
	r.GET("/stats", s.handleStats)
	return r
}

type subscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (s *Server) handleSubscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "A valid email address is required",
		})
		return
	}

	sub, err := s.subs.Add(req.Email)
	if err != nil {
		if errors.Is(err, store.ErrAlreadySubscribed) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"message": "This email is already subscribed",
			})
			return
		}
		log.Printf("❌ Failed to store subscriber %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Could not save subscription, please try again",
		})
		return
	}

	//confirmation is best-effort: a mail hiccup must not undo the
	//subscription
	go func(email string) {
		if err := s.sender.Send(email, confirmationSubject, confirmationBody); err != nil {
			log.Printf("⚠️ Failed to send confirmation to %s: %v", email, err)
			return
		}
		log.Printf("📩 Confirmation sent to %s", email)
	}(sub.Email)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Subscribed successfully! You'll start receiving alerts.",
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"subscribers": s.subs.Count(),
	})
}

func (s *Server) handleStats(c *gin.Context) {
	var lastUpdated string
	if t := s.seen.LastUpdated(); !t.IsZero() {
		lastUpdated = t.UTC().Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, gin.H{
		"totalSubscribers": s.subs.Count(),
		"totalJobsSeen":    s.seen.Count(),
		"lastUpdated":      lastUpdated,
	})
}
