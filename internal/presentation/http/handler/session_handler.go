package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/codapos/pos-agent/internal/application/service"
	"github.com/codapos/pos-agent/internal/presentation/http/dto/request"
	"github.com/codapos/pos-agent/internal/presentation/http/dto/response"
)

// SessionHandler receives the upstream bearer token from the front-end.
type SessionHandler struct {
	sessions *service.SessionService
}

func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Set stores the token handed over after login.
func (h *SessionHandler) Set(c *gin.Context) {
	var req request.SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Token tidak boleh kosong")
		return
	}
	if err := h.sessions.SetToken(req.Token); err != nil {
		RespondError(c, err)
		return
	}
	response.OK(c, "Sesi tersimpan", gin.H{"active": true})
}

// Status reports whether the agent holds a usable session.
func (h *SessionHandler) Status(c *gin.Context) {
	response.OK(c, "Status sesi", gin.H{"active": h.sessions.Active()})
}

// Clear drops the session on logout.
func (h *SessionHandler) Clear(c *gin.Context) {
	if err := h.sessions.Clear(); err != nil {
		RespondError(c, err)
		return
	}
	response.NoContent(c)
}
