package v1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/scimatch/scimatch/ai/dialog"
	"github.com/scimatch/scimatch/ai/intent"
)

// maxMessageRunes bounds one chat message; longer input is a client bug.
const maxMessageRunes = 2000

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatMessageRequest struct {
	Message        string     `json:"message"`
	ConversationID string     `json:"conversationId,omitempty"`
	Context        []ChatTurn `json:"context,omitempty"`
}

type ChatMessageResponse struct {
	ConversationID string             `json:"conversationId"`
	Result         *dialog.TurnResult `json:"result"`
}

// ChatMessage runs one dialog turn. The client carries the conversation
// history in the request; the server stays stateless and mints a
// conversation id for the client to echo back.
func (s *APIV1Service) ChatMessage(c echo.Context) error {
	request := &ChatMessageRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}

	message := strings.TrimSpace(request.Message)
	if message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}
	if len([]rune(message)) > maxMessageRunes {
		return echo.NewHTTPError(http.StatusBadRequest, "message too long")
	}

	conversationID := request.ConversationID
	if conversationID == "" {
		conversationID = shortuuid.New()
	}

	history := make([]intent.Turn, 0, len(request.Context))
	for _, turn := range request.Context {
		role := turn.Role
		if role != "assistant" {
			role = "user"
		}
		history = append(history, intent.Turn{Role: role, Content: turn.Content})
	}

	result := s.Engine.ProcessTurn(c.Request().Context(), message, history)
	return c.JSON(http.StatusOK, &ChatMessageResponse{
		ConversationID: conversationID,
		Result:         result,
	})
}
