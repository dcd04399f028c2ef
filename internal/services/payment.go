package services

import (
	"errors"
	"time"

	"github.com/kubayevvv7/Elite-Math-Update/internal/models"

	"gorm.io/gorm"
)

type PaymentService struct {
	db    *gorm.DB
	price int
	days  int
}

func NewPaymentService(db *gorm.DB, price, days int) *PaymentService {
	return &PaymentService{db: db, price: price, days: days}
}

func (s *PaymentService) Price() int { return s.price }

// ActiveCards returns the configured payment cards in id order.
func (s *PaymentService) ActiveCards() ([]models.BotCard, error) {
	var cards []models.BotCard
	err := s.db.Where("is_active = ?", true).Order("id ASC").Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}

// CardForUser routes a user to a card: odd chat ids get the first active
// card, even ids the second when present.
func (s *PaymentService) CardForUser(chatID int64) (*models.BotCard, error) {
	cards, err := s.ActiveCards()
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, ErrNoActiveCard
	}
	if len(cards) == 1 || chatID%2 != 0 {
		return &cards[0], nil
	}
	return &cards[1], nil
}

// PendingPayment returns the user's pending payment, if any.
func (s *PaymentService) PendingPayment(chatID int64) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.Where("chat_id = ? AND status = ?", chatID, models.PaymentStatusPending).
		Order("created_at DESC").First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// CreatePending records a claimed transfer awaiting admin verification.
func (s *PaymentService) CreatePending(chatID int64, username, studentName, cardNumber string) (*models.Payment, error) {
	payment := models.Payment{
		ChatID:      chatID,
		Username:    username,
		StudentName: studentName,
		Amount:      s.price,
		Status:      models.PaymentStatusPending,
		CardNumber:  cardNumber,
	}
	if err := s.db.Create(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *PaymentService) GetPayment(id uint) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.First(&payment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// Verify marks a payment verified and opens (or replaces) the user's
// subscription for the configured period. Both writes share one
// transaction.
func (s *PaymentService) Verify(paymentID uint, adminID int64) (*models.Subscription, error) {
	payment, err := s.GetPayment(paymentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sub := models.Subscription{
		ChatID:      payment.ChatID,
		Username:    payment.Username,
		StudentName: payment.StudentName,
		Type:        "monthly",
		Price:       payment.Amount,
		StartDate:   now,
		EndDate:     now.AddDate(0, 0, s.days),
		IsActive:    true,
		PaymentID:   payment.ID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(payment).Updates(map[string]interface{}{
			"status":      models.PaymentStatusVerified,
			"verified_at": now,
			"verified_by": adminID,
		}).Error; err != nil {
			return err
		}
		// one subscription row per user
		if err := tx.Where("chat_id = ?", payment.ChatID).Delete(&models.Subscription{}).Error; err != nil {
			return err
		}
		return tx.Create(&sub).Error
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Reject marks a payment rejected.
func (s *PaymentService) Reject(paymentID uint) (*models.Payment, error) {
	payment, err := s.GetPayment(paymentID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(payment).Update("status", models.PaymentStatusRejected).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

// CancelPending deletes the user's own pending payment, if any.
func (s *PaymentService) CancelPending(paymentID uint) error {
	return s.db.Where("id = ? AND status = ?", paymentID, models.PaymentStatusPending).
		Delete(&models.Payment{}).Error
}

// SubscriptionStatus is the lazily-checked view of a user's subscription.
type SubscriptionStatus struct {
	Active  bool
	EndDate time.Time
}

// CheckSubscription reports whether the user holds an active
// subscription, deactivating it on the spot if the end date has passed.
func (s *PaymentService) CheckSubscription(chatID int64) SubscriptionStatus {
	var sub models.Subscription
	err := s.db.Where("chat_id = ? AND is_active = ?", chatID, true).First(&sub).Error
	if err != nil {
		return SubscriptionStatus{}
	}
	if sub.EndDate.Before(time.Now()) {
		s.db.Model(&sub).Update("is_active", false)
		return SubscriptionStatus{}
	}
	return SubscriptionStatus{Active: true, EndDate: sub.EndDate}
}

// DeactivateExpired sweeps every lapsed subscription; run from the
// scheduler. Returns how many rows were deactivated.
func (s *PaymentService) DeactivateExpired() (int64, error) {
	res := s.db.Model(&models.Subscription{}).
		Where("is_active = ? AND end_date < ?", true, time.Now()).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

// AddCard registers a payment card.
func (s *PaymentService) AddCard(number, owner, bank string) (*models.BotCard, error) {
	card := models.BotCard{CardNumber: number, CardOwner: owner, BankName: bank, IsActive: true}
	if err := s.db.Create(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}
