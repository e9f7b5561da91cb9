package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/codapos/pos-agent/internal/application/service"
	"github.com/codapos/pos-agent/internal/presentation/http/dto/request"
	"github.com/codapos/pos-agent/internal/presentation/http/dto/response"
)

// ChatHandler serves chat rooms and open sessions. Opening a room starts
// the fast message poller; closing it stops the poller deterministically.
type ChatHandler struct {
	chats *service.ChatService
}

func NewChatHandler(chats *service.ChatService) *ChatHandler {
	return &ChatHandler{chats: chats}
}

// Rooms lists the room summaries from the slow poller.
func (h *ChatHandler) Rooms(c *gin.Context) {
	response.OK(c, "Daftar percakapan", h.chats.Rooms())
}

// Unread returns the total unread count for the nav badge.
func (h *ChatHandler) Unread(c *gin.Context) {
	response.OK(c, "Jumlah belum dibaca", gin.H{"unread": h.chats.UnreadTotal()})
}

// Open opens (or returns) the session for a room and hands back the
// backlog. The room is marked read in the background.
func (h *ChatHandler) Open(c *gin.Context) {
	roomID, ok := ParamUUID(c, "id")
	if !ok {
		return
	}
	sess, err := h.chats.Open(c.Request.Context(), roomID)
	if err != nil {
		RespondError(c, err)
		return
	}
	response.OK(c, "Percakapan dibuka", sess.Messages())
}

// Messages returns the current snapshot for an open room.
func (h *ChatHandler) Messages(c *gin.Context) {
	roomID, ok := ParamUUID(c, "id")
	if !ok {
		return
	}
	sess, found := h.chats.Session(roomID)
	if !found {
		response.NotFound(c, "Percakapan belum dibuka")
		return
	}
	response.OK(c, "Pesan percakapan", sess.Messages())
}

// Send posts a message to an open room.
func (h *ChatHandler) Send(c *gin.Context) {
	roomID, ok := ParamUUID(c, "id")
	if !ok {
		return
	}
	var req request.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Pesan tidak boleh kosong")
		return
	}
	sess, found := h.chats.Session(roomID)
	if !found {
		response.NotFound(c, "Percakapan belum dibuka")
		return
	}
	if err := sess.Send(c.Request.Context(), req.Content); err != nil {
		RespondError(c, err)
		return
	}
	response.OK(c, "Pesan terkirim", sess.Messages())
}

// Close stops the room's poller and releases the session.
func (h *ChatHandler) Close(c *gin.Context) {
	roomID, ok := ParamUUID(c, "id")
	if !ok {
		return
	}
	if sess, found := h.chats.Session(roomID); found {
		sess.Close()
	}
	response.NoContent(c)
}
