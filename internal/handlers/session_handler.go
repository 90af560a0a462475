package handlers

import (
	"net/http"

	"game-service/internal/service"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	Sessions *service.SessionService
	Grading  *service.GradingService
}

func NewSessionHandler(sessions *service.SessionService, grading *service.GradingService) *SessionHandler {
	return &SessionHandler{
		Sessions: sessions,
		Grading:  grading,
	}
}

// StartSession opens (or returns) the student's session for a game. Safe to
// call repeatedly: retries never create a second session.
func (h *SessionHandler) StartSession(c *gin.Context) {
	gameID := c.Param("gameId")
	studentID := c.GetHeader("X-User-ID")

	session, created, err := h.Sessions.StartSessionForStudent(c.Request.Context(), gameID, studentID)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"session": session,
		"created": created,
	})
}

// SubmitAnswer grades one answer for the session's current question.
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	gameID := c.Param("gameId")
	studentID := c.GetHeader("X-User-ID")

	var input service.SubmissionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid answer format",
			"details": err.Error(),
		})
		return
	}
	if input.QuestionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question_id is required"})
		return
	}

	result, err := h.Grading.SubmitAnswer(c.Request.Context(), gameID, studentID, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	session, err := h.Sessions.GetSession(c.Request.Context(), c.Param("gameId"), c.GetHeader("X-User-ID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// GetProgress reports how far the student is through the game.
func (h *SessionHandler) GetProgress(c *gin.Context) {
	progress, err := h.Sessions.Progress(c.Request.Context(), c.Param("gameId"), c.GetHeader("X-User-ID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// GetAnswers lists the graded submissions of the student's session.
func (h *SessionHandler) GetAnswers(c *gin.Context) {
	answers, err := h.Grading.SessionAnswers(c.Request.Context(), c.Param("gameId"), c.GetHeader("X-User-ID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"answers": answers,
		"count":   len(answers),
	})
}
