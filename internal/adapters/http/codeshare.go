package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/collabhub-in/collabhub/internal/hub"
)

// CodeshareHandler mirrors the code rooms over REST. It reads and
// writes the same authoritative documents the WebSocket feature uses,
// so a REST write shows up in every connected editor.
type CodeshareHandler struct {
	Hub *hub.Router
}

func (h *CodeshareHandler) Get(c *gin.Context) {
	doc, ok := h.Hub.State().Code(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Code not found"})
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *CodeshareHandler) Post(c *gin.Context) {
	var req struct {
		Code string `json:"code"`
	}
	if err := c.BindJSON(&req); err != nil || req.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Code is required"})
		return
	}
	h.Hub.ReplaceCode(c.Param("id"), req.Code)
	c.JSON(http.StatusOK, gin.H{"message": "Code shared/updated successfully!"})
}
