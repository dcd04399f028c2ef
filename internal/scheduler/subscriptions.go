package scheduler

import (
	"log"

	"github.com/kubayevvv7/Elite-Math-Update/internal/services"

	"github.com/robfig/cron/v3"
)

// SubscriptionScheduler sweeps lapsed subscriptions once a day. Lazy
// per-request checks catch most expirations; this keeps the table
// honest for users who never come back.
type SubscriptionScheduler struct {
	cron     *cron.Cron
	payments *services.PaymentService
}

func NewSubscriptionScheduler(payments *services.PaymentService) *SubscriptionScheduler {
	return &SubscriptionScheduler{
		cron:     cron.New(),
		payments: payments,
	}
}

func (s *SubscriptionScheduler) Start() error {
	_, err := s.cron.AddFunc("0 3 * * *", s.sweep)
	if err != nil {
		return err
	}
	s.cron.Start()
	log.Println("[scheduler] subscription sweep scheduled (daily 03:00)")
	return nil
}

func (s *SubscriptionScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("[scheduler] stopped")
}

func (s *SubscriptionScheduler) sweep() {
	n, err := s.payments.DeactivateExpired()
	if err != nil {
		log.Printf("[scheduler] deactivate expired: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[scheduler] deactivated %d expired subscriptions", n)
	}
}
