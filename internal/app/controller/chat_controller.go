package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guialocal/guialocal-backend/internal/app/service"
	"github.com/guialocal/guialocal-backend/internal/middleware"
)

// ChatRecorder counts assistant replies. *metrics.Metrics implements it.
type ChatRecorder interface {
	RecordChat(answered bool)
}

type ChatController struct {
	aiService service.AIService
	recorder  ChatRecorder
}

func NewChatController(aiService service.AIService, recorder ChatRecorder) *ChatController {
	return &ChatController{aiService: aiService, recorder: recorder}
}

// Chat POST /chat {message, sessionId, lat, lng}
// Always answers 200 with {text, results}; failures become an apology.
func (ctrl *ChatController) Chat(c *gin.Context) {
	var req service.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	resp := ctrl.aiService.Chat(c.Request.Context(), req)
	answered := resp.Text != service.ChatApology
	if ctrl.recorder != nil {
		ctrl.recorder.RecordChat(answered)
	}

	middleware.GetLoggerFromContext(c).Debug("Chat answered", map[string]interface{}{
		"session_id": req.SessionID,
		"answered":   answered,
		"results":    len(resp.Results),
	})
	c.JSON(http.StatusOK, resp)
}
