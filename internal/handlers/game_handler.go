package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/gamevault/internal/middleware"
	"github.com/mroshb/gamevault/internal/models"
	"github.com/mroshb/gamevault/internal/repositories"
	"github.com/mroshb/gamevault/internal/security"
	"github.com/mroshb/gamevault/internal/services"
)

// GameHandler serves the catalog: search, entitlement-gated detail and
// purchase.
type GameHandler struct {
	entitlements *services.EntitlementService
	gameRepo     *repositories.GameRepository
}

func NewGameHandler(entitlements *services.EntitlementService, gameRepo *repositories.GameRepository) *GameHandler {
	return &GameHandler{
		entitlements: entitlements,
		gameRepo:     gameRepo,
	}
}

// Search lists games matching the keyword. Results never include the
// access payload; that is what Get is for.
func (h *GameHandler) Search(c *gin.Context) {
	keyword := security.SanitizeString(c.Query("keyword"))

	games, err := h.gameRepo.Search(keyword)
	if err != nil {
		respondError(c, err)
		return
	}

	sanitized := make([]*models.Game, 0, len(games))
	for i := range games {
		sanitized = append(sanitized, games[i].Sanitize())
	}

	c.JSON(http.StatusOK, gin.H{"games": sanitized})
}

// Get returns a single game through the entitlement check: the full
// record with download details when access is granted, a price quote
// when it is not.
func (h *GameHandler) Get(c *gin.Context) {
	gameID, err := parseID(c.Param("id"))
	if err != nil {
		respondValidation(c, "invalid game id")
		return
	}

	decision, err := h.entitlements.CheckAccess(middleware.UserID(c), gameID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	if !decision.Granted {
		c.JSON(http.StatusOK, gin.H{
			"granted":        false,
			"requiredPoints": decision.RequiredPoints,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"granted": true,
		"game":    decision.Game,
		"points":  decision.RemainingPoints,
	})
}

type purchaseRequest struct {
	GameID uint `json:"gameId" binding:"required"`
}

// Purchase unlocks a game for the caller.
func (h *GameHandler) Purchase(c *gin.Context) {
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "gameId is required")
		return
	}

	result, err := h.entitlements.Purchase(middleware.UserID(c), req.GameID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"game": result.Game, "points": result.RemainingPoints})
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
