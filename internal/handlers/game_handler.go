package handlers

import (
	"net/http"
	"strconv"
	"time"

	"game-service/internal/models"
	"game-service/internal/selection"
	"game-service/internal/service"

	"github.com/gin-gonic/gin"
)

type GameHandler struct {
	Service  *service.GameService
	Grading  *service.GradingService
	Selector *selection.PoolSelector
}

func NewGameHandler(s *service.GameService, g *service.GradingService, selector *selection.PoolSelector) *GameHandler {
	return &GameHandler{
		Service:  s,
		Grading:  g,
		Selector: selector,
	}
}

// CreateGame builds a new game for a room from the teacher's config and a
// category filter for the question pool.
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req struct {
		RoomID         string            `json:"room_id" binding:"required"`
		Name           string            `json:"name" binding:"required"`
		Config         models.GameConfig `json:"config"`
		CategoryFilter string            `json:"category_filter"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	creatorID := c.GetHeader("X-User-ID")
	game, err := h.Service.CreateGame(c.Request.Context(), creatorID, req.RoomID, req.Name, req.Config, req.CategoryFilter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, game)
}

// StartGame transitions the game to its playable state.
func (h *GameHandler) StartGame(c *gin.Context) {
	roomID := c.Param("roomId")
	gameID := c.Param("gameId")

	game, err := h.Service.StartGameInRoom(c.Request.Context(), roomID, gameID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// ChangeDates moves the game's playable window.
func (h *GameHandler) ChangeDates(c *gin.Context) {
	roomID := c.Param("roomId")
	gameID := c.Param("gameId")

	var req struct {
		StartDate  *time.Time `json:"start_date"`
		FinishDate *time.Time `json:"finish_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	game, err := h.Service.ChangeGameDates(c.Request.Context(), roomID, gameID, req.StartDate, req.FinishDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

func (h *GameHandler) GetGame(c *gin.Context) {
	game, err := h.Service.LoadGame(c.Request.Context(), c.Param("gameId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// GameResults returns the per-student outcome projection.
func (h *GameHandler) GameResults(c *gin.Context) {
	gameID := c.Param("gameId")
	results, err := h.Grading.GameResults(c.Request.Context(), gameID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"game_id": gameID,
		"results": results,
		"count":   len(results),
	})
}

// PoolInfo lets a teacher inspect what a category can contribute before
// building a game.
func (h *GameHandler) PoolInfo(c *gin.Context) {
	category := c.Query("category")
	sample, err := strconv.Atoi(c.DefaultQuery("sample", "100"))
	if err != nil {
		sample = 100
	}

	info, err := h.Selector.PoolInfo(c.Request.Context(), category, sample)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}
