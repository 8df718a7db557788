// Package server exposes the debate API over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goat-debate/backend/internal/debate"
	"github.com/goat-debate/backend/internal/session"
)

// Debates is the orchestrator surface the handlers need.
type Debates interface {
	StartDebate(ctx context.Context, char1, char2, userSide, domain string) debate.StartResult
	ProcessTurn(ctx context.Context, sessionID, userText string) (debate.TurnResult, error)
	GetSnapshot(sessionID string) (debate.Snapshot, error)
}

// Portraits generates persona portrait images.
type Portraits interface {
	Portrait(ctx context.Context, personaName string) (string, error)
}

// Server wires the HTTP routes to the debate core.
type Server struct {
	debates   Debates
	portraits Portraits
	staticDir string
	logger    *zap.Logger
	engine    *gin.Engine
}

// New creates a Server. staticDir is served under /static for audio clips;
// pass "" to skip mounting it (tests).
func New(debates Debates, portraits Portraits, staticDir string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		debates:   debates,
		portraits: portraits,
		staticDir: staticDir,
		logger:    logger,
		engine:    gin.New(),
	}
	s.routes()
	return s
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() {
	s.engine.Use(gin.Recovery(), requestLogger(s.logger), corsAllowAll())

	s.engine.GET("/", s.handleRoot)
	s.engine.POST("/start_debate", s.handleStartDebate)
	s.engine.POST("/turn", s.handleTurn)
	s.engine.GET("/debate/:id", s.handleSnapshot)
	s.engine.POST("/generate-image", s.handleGenerateImage)
	if s.staticDir != "" {
		s.engine.Static("/static", s.staticDir)
	}
}

type startDebateRequest struct {
	Char1    string `json:"char1" binding:"required"`
	Char2    string `json:"char2" binding:"required"`
	UserSide string `json:"user_side" binding:"required"`
	Domain   string `json:"domain"`
}

type turnRequest struct {
	DebateID string `json:"debate_id"`
	UserText string `json:"user_text"`
}

type imageRequest struct {
	CharacterName string `json:"character_name" binding:"required"`
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Debator Backend is running!"})
}

func (s *Server) handleStartDebate(c *gin.Context) {
	var req startDebateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	res := s.debates.StartDebate(c.Request.Context(), req.Char1, req.Char2, req.UserSide, req.Domain)
	c.JSON(http.StatusOK, gin.H{
		"debate_id":    res.SessionID,
		"ai_text":      res.AIText,
		"ai_audio_url": res.AIAudioURL,
		"user_score":   res.UserScore,
		"ai_score":     res.AIScore,
	})
}

func (s *Server) handleTurn(c *gin.Context) {
	var req turnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	res, err := s.debates.ProcessTurn(c.Request.Context(), req.DebateID, req.UserText)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"debate_id":    req.DebateID,
		"ai_text":      res.AIText,
		"ai_audio_url": res.AIAudioURL,
		"user_score":   res.UserScore,
		"ai_score":     res.AIScore,
		"is_finished":  res.Finished,
		"winner":       res.Winner,
	})
}

func (s *Server) handleSnapshot(c *gin.Context) {
	snap, err := s.debates.GetSnapshot(c.Param("id"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"debate_id":         c.Param("id"),
		"opening_text":      snap.OpeningText,
		"opening_audio_url": snap.OpeningAudioURL,
	})
}

func (s *Server) handleGenerateImage(c *gin.Context) {
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	url, err := s.portraits.Portrait(c.Request.Context(), req.CharacterName)
	if err != nil {
		s.logger.Warn("image generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to generate image"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"imageUrl": url})
}

func (s *Server) renderError(c *gin.Context, err error) {
	if errors.Is(err, session.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Debate not found"})
		return
	}
	s.logger.Error("request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
}
