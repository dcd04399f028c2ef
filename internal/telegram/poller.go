package telegram

import (
	"context"
	"log"
	"time"
)

// Poller drives the bot via getUpdates long polling, used when no
// public webhook URL is configured.
type Poller struct {
	client  *Client
	handler *UpdateHandler
}

func NewPoller(client *Client, handler *UpdateHandler) *Poller {
	return &Poller{client: client, handler: handler}
}

func (p *Poller) Run(ctx context.Context) {
	// polling and webhooks are mutually exclusive
	if err := p.client.DeleteWebhook(); err != nil {
		log.Printf("[poller] delete webhook: %v", err)
	}
	log.Println("[poller] started")

	var offset int64
	for {
		select {
		case <-ctx.Done():
			log.Println("[poller] stopped")
			return
		default:
		}

		updates, err := p.client.GetUpdates(offset, 50)
		if err != nil {
			log.Printf("[poller] get updates: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(3 * time.Second):
			}
			continue
		}

		for _, upd := range updates {
			offset = upd.UpdateID + 1
			go p.handler.Handle(upd)
		}
	}
}
