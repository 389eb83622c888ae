package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/collabhub-in/collabhub/internal/ai"
	"github.com/collabhub-in/collabhub/internal/domain"
	"github.com/collabhub-in/collabhub/internal/hub"
)

// AIUser is the sender name AI replies are posted under.
const AIUser = "CollabAI 🤖"

type ChatHandler struct {
	AI  *ai.Client
	Hub *hub.Router
}

// Post answers a chat message with the AI service. Dual delivery: the
// HTTP caller gets the reply directly (it clears its typing
// placeholder), and everyone in the room gets it over the real-time
// channel. The AI call blocks only this request goroutine, never the
// event router.
func (h *ChatHandler) Post(c *gin.Context) {
	var req struct {
		Message  string `json:"message"`
		Room     string `json:"room"`
		UserName string `json:"userName"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"reply": "Invalid request."})
		return
	}
	log.Info().Str("module", "adapters.http").Str("room", req.Room).Str("user", req.UserName).Msg("ai chat request")

	reply, err := h.AI.Reply(c.Request.Context(), req.Message)
	if err != nil {
		// Failure degrades to a visible in-room message, never a
		// silent drop.
		if req.Room != "" {
			h.Hub.PostChatMessage(req.Room, domain.ChatMessage{
				User:    domain.SystemUser,
				Message: ai.UserMessage(err),
			})
		}
		c.JSON(http.StatusBadGateway, gin.H{"reply": "AI failed to respond."})
		return
	}

	if req.Room != "" {
		h.Hub.PostChatMessage(req.Room, domain.ChatMessage{User: AIUser, Message: reply})
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
