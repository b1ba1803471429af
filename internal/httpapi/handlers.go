// Package httpapi exposes the lobby service over the REST routes the web
// client polls. It only translates between JSON and service calls; all rules
// live in the lobby and game packages.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fakeout-game/backend/internal/game"
	"github.com/fakeout-game/backend/internal/lobby"
	"github.com/fakeout-game/backend/internal/store"
)

type Handlers struct {
	svc *lobby.Service
}

func New(svc *lobby.Service) *Handlers {
	return &Handlers{svc: svc}
}

func (h *Handlers) Register(r *gin.Engine) {
	api := r.Group("/api")
	api.POST("/create", h.createLobby)
	api.POST("/join", h.joinLobby)
	api.POST("/leave", h.leaveLobby)
	api.POST("/start-game", h.startGame)
	api.POST("/submit-response", h.submitResponse)
	api.POST("/submit-guess", h.submitGuess)
	api.POST("/game-reset", h.resetGame)
	api.GET("/lobby-data/:id", h.lobbyData)
}

func (h *Handlers) createLobby(c *gin.Context) {
	var req struct {
		PlayerName string `json:"playerName"`
	}
	if err := c.BindJSON(&req); err != nil || req.PlayerName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Player name is required"})
		return
	}
	l, err := h.svc.CreateLobby(c.Request.Context(), req.PlayerName)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": l.ID, "joinCode": l.JoinCode, "players": l.Players})
}

func (h *Handlers) joinLobby(c *gin.Context) {
	var req struct {
		JoinCode   string `json:"joinCode"`
		PlayerName string `json:"playerName"`
	}
	if err := c.BindJSON(&req); err != nil || req.JoinCode == "" || req.PlayerName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Join code and player name are required"})
		return
	}
	l, err := h.svc.JoinLobby(c.Request.Context(), req.JoinCode, req.PlayerName)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": l.ID, "joinCode": l.JoinCode, "players": l.Players})
}

func (h *Handlers) leaveLobby(c *gin.Context) {
	var req struct {
		LobbyID  string `json:"lobbyId"`
		PlayerID string `json:"playerId"`
	}
	if err := c.BindJSON(&req); err != nil || req.LobbyID == "" || req.PlayerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Lobby ID and player ID are required"})
		return
	}
	if err := h.svc.LeaveLobby(c.Request.Context(), req.LobbyID, req.PlayerID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handlers) startGame(c *gin.Context) {
	var req struct {
		LobbyID string `json:"lobbyId"`
	}
	if err := c.BindJSON(&req); err != nil || req.LobbyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Lobby ID is required"})
		return
	}
	gs, err := h.svc.StartGame(c.Request.Context(), req.LobbyID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "gameState": gs})
}

func (h *Handlers) submitResponse(c *gin.Context) {
	var req struct {
		LobbyID      string `json:"lobbyId"`
		PlayerID     string `json:"playerId"`
		ResponseText string `json:"responseText"`
	}
	if err := c.BindJSON(&req); err != nil || req.LobbyID == "" || req.PlayerID == "" || req.ResponseText == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Lobby ID, player ID, and response text are required"})
		return
	}
	resp, err := h.svc.SubmitResponse(c.Request.Context(), req.LobbyID, req.PlayerID, req.ResponseText)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "response": resp})
}

func (h *Handlers) submitGuess(c *gin.Context) {
	var req struct {
		LobbyID          string `json:"lobbyId"`
		ResponseID       string `json:"responseId"`
		GuessedPlayerID  string `json:"guessedPlayerId"`
		GuessingPlayerID string `json:"guessingPlayerId"`
	}
	// GuessedPlayerID may be empty: that's a "written by the AI" guess.
	if err := c.BindJSON(&req); err != nil || req.LobbyID == "" || req.ResponseID == "" || req.GuessingPlayerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Lobby ID, response ID, and guessing player ID are required"})
		return
	}
	guess, err := h.svc.SubmitGuess(c.Request.Context(), req.LobbyID, req.ResponseID, req.GuessedPlayerID, req.GuessingPlayerID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "guess": guess})
}

func (h *Handlers) resetGame(c *gin.Context) {
	var req struct {
		LobbyID string `json:"lobbyId"`
	}
	if err := c.BindJSON(&req); err != nil || req.LobbyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Lobby ID is required"})
		return
	}
	gs, err := h.svc.ResetGame(c.Request.Context(), req.LobbyID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "gameState": gs})
}

func (h *Handlers) lobbyData(c *gin.Context) {
	l, err := h.svc.GetLobby(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "lobby": l})
}

// writeError maps domain errors to statuses: missing things are 404, rule
// violations are 400, everything else is 500.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Lobby not found"})
	case errors.Is(err, game.ErrInsufficientPlayers),
		errors.Is(err, game.ErrWrongPhase),
		errors.Is(err, game.ErrUnknownPlayer),
		errors.Is(err, game.ErrDuplicateSubmission),
		errors.Is(err, game.ErrDuplicateGuess):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
