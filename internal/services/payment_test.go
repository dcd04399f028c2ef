package services

import (
	"testing"
	"time"

	"github.com/kubayevvv7/Elite-Math-Update/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPaymentFixture(t *testing.T) *PaymentService {
	svc := NewPaymentService(newTestDB(t), 15000, 30)
	_, err := svc.AddCard("8600 1234 5678 9012", "Kubayev A", "Uzcard")
	require.NoError(t, err)
	_, err = svc.AddCard("9860 9876 5432 1098", "Kubayev A", "Humo")
	require.NoError(t, err)
	return svc
}

func TestCardForUserRoutesByParity(t *testing.T) {
	svc := newPaymentFixture(t)

	odd, err := svc.CardForUser(101)
	require.NoError(t, err)
	even, err := svc.CardForUser(102)
	require.NoError(t, err)
	assert.Equal(t, "Uzcard", odd.BankName)
	assert.Equal(t, "Humo", even.BankName)
}

func TestCardForUserSingleCardFallback(t *testing.T) {
	svc := NewPaymentService(newTestDB(t), 15000, 30)

	_, err := svc.CardForUser(101)
	assert.ErrorIs(t, err, ErrNoActiveCard)

	_, err = svc.AddCard("8600 1234 5678 9012", "Kubayev A", "Uzcard")
	require.NoError(t, err)
	card, err := svc.CardForUser(102)
	require.NoError(t, err)
	assert.Equal(t, "Uzcard", card.BankName)
}

func TestVerifyOpensSubscription(t *testing.T) {
	svc := newPaymentFixture(t)

	payment, err := svc.CreatePending(42, "aziz", "Aziz", "8600 1234 5678 9012")
	require.NoError(t, err)
	assert.Equal(t, 15000, payment.Amount)

	pending, err := svc.PendingPayment(42)
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, payment.ID, pending.ID)

	sub, err := svc.Verify(payment.ID, 999)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), sub.EndDate, 2*time.Second)

	verified, err := svc.GetPayment(payment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusVerified, verified.Status)
	assert.Equal(t, int64(999), verified.VerifiedBy)

	status := svc.CheckSubscription(42)
	assert.True(t, status.Active)
}

func TestVerifyReplacesOldSubscription(t *testing.T) {
	svc := newPaymentFixture(t)

	first, err := svc.CreatePending(42, "aziz", "Aziz", "8600 1234 5678 9012")
	require.NoError(t, err)
	_, err = svc.Verify(first.ID, 999)
	require.NoError(t, err)

	second, err := svc.CreatePending(42, "aziz", "Aziz", "8600 1234 5678 9012")
	require.NoError(t, err)
	_, err = svc.Verify(second.ID, 999)
	require.NoError(t, err)

	var count int64
	svc.db.Model(&models.Subscription{}).Where("chat_id = ?", 42).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRejectLeavesNoSubscription(t *testing.T) {
	svc := newPaymentFixture(t)

	payment, err := svc.CreatePending(42, "aziz", "Aziz", "8600 1234 5678 9012")
	require.NoError(t, err)

	rejected, err := svc.Reject(payment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRejected, rejected.Status)

	assert.False(t, svc.CheckSubscription(42).Active)

	_, err = svc.Verify(payment.ID+100, 999)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestCancelPendingRemovesOnlyPending(t *testing.T) {
	svc := newPaymentFixture(t)

	payment, err := svc.CreatePending(42, "aziz", "Aziz", "8600 1234 5678 9012")
	require.NoError(t, err)
	require.NoError(t, svc.CancelPending(payment.ID))

	pending, err := svc.PendingPayment(42)
	require.NoError(t, err)
	assert.Nil(t, pending)

	verifiedPayment, err := svc.CreatePending(42, "aziz", "Aziz", "8600 1234 5678 9012")
	require.NoError(t, err)
	_, err = svc.Verify(verifiedPayment.ID, 999)
	require.NoError(t, err)
	require.NoError(t, svc.CancelPending(verifiedPayment.ID))
	_, err = svc.GetPayment(verifiedPayment.ID)
	assert.NoError(t, err)
}

func TestCheckSubscriptionLazyDeactivation(t *testing.T) {
	svc := newPaymentFixture(t)

	payment, err := svc.CreatePending(42, "aziz", "Aziz", "8600 1234 5678 9012")
	require.NoError(t, err)
	_, err = svc.Verify(payment.ID, 999)
	require.NoError(t, err)

	// backdate past the window
	require.NoError(t, svc.db.Model(&models.Subscription{}).Where("chat_id = ?", 42).
		Update("end_date", time.Now().Add(-time.Hour)).Error)

	assert.False(t, svc.CheckSubscription(42).Active)

	var sub models.Subscription
	require.NoError(t, svc.db.Where("chat_id = ?", 42).First(&sub).Error)
	assert.False(t, sub.IsActive)
}

func TestDeactivateExpiredSweep(t *testing.T) {
	svc := newPaymentFixture(t)

	for i, chatID := range []int64{10, 11, 12} {
		payment, err := svc.CreatePending(chatID, "u", "U", "8600 1234 5678 9012")
		require.NoError(t, err)
		_, err = svc.Verify(payment.ID, 999)
		require.NoError(t, err)
		if i < 2 {
			require.NoError(t, svc.db.Model(&models.Subscription{}).Where("chat_id = ?", chatID).
				Update("end_date", time.Now().Add(-time.Hour)).Error)
		}
	}

	n, err := svc.DeactivateExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.True(t, svc.CheckSubscription(12).Active)
}
