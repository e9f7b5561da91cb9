package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/codapos/pos-agent/internal/domain/entity"
)

// ChatAPI wraps the chat endpoints.
type ChatAPI struct {
	client *Client
}

// NewChatAPI creates the chat endpoint group.
func NewChatAPI(client *Client) *ChatAPI {
	return &ChatAPI{client: client}
}

// ListRooms fetches the merchant's chat rooms with unread counts.
func (a *ChatAPI) ListRooms(ctx context.Context) ([]entity.ChatRoom, error) {
	var rooms []entity.ChatRoom
	if err := a.client.do(ctx, http.MethodGet, "/chat/rooms", nil, nil, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// ListMessages fetches a room's messages ordered ascending by created_at.
func (a *ChatAPI) ListMessages(ctx context.Context, roomID uuid.UUID, limit, offset int) ([]entity.ChatMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	query := url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}

	var messages []entity.ChatMessage
	if err := a.client.do(ctx, http.MethodGet, "/chat/rooms/"+roomID.String()+"/messages", query, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage posts a merchant message to a room.
func (a *ChatAPI) SendMessage(ctx context.Context, roomID uuid.UUID, content string) error {
	body := map[string]string{"content": content}
	return a.client.do(ctx, http.MethodPost, "/chat/rooms/"+roomID.String()+"/messages", nil, body, nil)
}

// MarkRead clears the room's unread count. The count is a server-side
// aggregate; the agent never adjusts it locally.
func (a *ChatAPI) MarkRead(ctx context.Context, roomID uuid.UUID) error {
	return a.client.do(ctx, http.MethodPut, "/chat/rooms/"+roomID.String()+"/read", nil, nil, nil)
}
