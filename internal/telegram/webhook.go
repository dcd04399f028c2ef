package telegram

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Webhook receives pushed updates when the bot runs behind a public URL
// instead of long polling.
type Webhook struct {
	handler *UpdateHandler
	secret  string
}

func NewWebhook(handler *UpdateHandler, secret string) *Webhook {
	return &Webhook{handler: handler, secret: secret}
}

func (w *Webhook) Handle(c *gin.Context) {
	if w.secret != "" {
		headerSecret := c.GetHeader("X-Telegram-Bot-Api-Secret-Token")
		if headerSecret != w.secret {
			c.Status(http.StatusUnauthorized)
			return
		}
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	var upd Update
	if err := json.Unmarshal(body, &upd); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	go w.handler.Handle(upd)

	c.Status(http.StatusOK)
}
