package telegram

import (
	"errors"
	"fmt"
	"log"

	"github.com/kubayevvv7/Elite-Math-Update/internal/services"
)

// showSubscription reports the user's subscription or starts the
// payment flow when there is none.
func (h *UpdateHandler) showSubscription(chatID int64) {
	status := h.payments.CheckSubscription(chatID)
	if status.Active {
		h.client.SendMessage(chatID,
			fmt.Sprintf("✅ Obunangiz faol.\n\nTugash sanasi: <b>%s</b>", status.EndDate.Format("02.01.2006")),
			"HTML", BackToMenuKeyboard())
		return
	}
	h.showPaymentOffer(chatID)
}

func (h *UpdateHandler) showPaymentOffer(chatID int64) {
	if pending, err := h.payments.PendingPayment(chatID); err == nil && pending != nil {
		h.client.SendMessage(chatID,
			"⏳ To'lovingiz tekshirilmoqda. Admin tasdiqlagach obuna faollashadi.",
			"", BackToMenuKeyboard())
		return
	}

	card, err := h.payments.CardForUser(chatID)
	if errors.Is(err, services.ErrNoActiveCard) {
		h.client.SendMessage(chatID,
			"❌ Hozircha to'lov kartalari sozlanmagan. Keyinroq urinib ko'ring.",
			"", BackToMenuKeyboard())
		return
	}
	if err != nil {
		log.Printf("[payments] card for %d: %v", chatID, err)
		h.client.SendMessage(chatID, "Xatolik yuz berdi, qaytadan urinib ko'ring.", "", BackToMenuKeyboard())
		return
	}

	h.client.SendMessage(chatID,
		fmt.Sprintf("💳 <b>Oylik obuna: %d so'm</b>\n\nQuyidagi kartaga o'tkazma qiling:\n\n<code>%s</code>\n%s (%s)\n\nO'tkazmadan so'ng \"To'lov qildim\" tugmasini bosing.",
			h.payments.Price(), card.CardNumber, card.CardOwner, card.BankName),
		"HTML", PaymentKeyboard())
}

func (h *UpdateHandler) handlePaymentCallback(cb *CallbackQuery, chatID int64, isAdmin bool, parts []string) {
	switch parts[0] {
	case "pay":
		if len(parts) != 2 {
			h.client.AnswerCallbackQuery(cb.ID, "Noma'lum buyruq", true)
			return
		}
		switch parts[1] {
		case "confirm":
			h.onPaymentConfirm(cb, chatID)
		case "cancel":
			h.onPaymentCancel(cb, chatID)
		default:
			h.client.AnswerCallbackQuery(cb.ID, "Noma'lum buyruq", true)
		}
	case "payok", "payno":
		if !isAdmin {
			h.client.AnswerCallbackQuery(cb.ID, "Ruxsat yo'q", true)
			return
		}
		h.onPaymentReview(cb, chatID, parts)
	}
}

// onPaymentConfirm records the claimed transfer and alerts every admin
// with verify/reject controls.
func (h *UpdateHandler) onPaymentConfirm(cb *CallbackQuery, chatID int64) {
	if pending, err := h.payments.PendingPayment(chatID); err == nil && pending != nil {
		h.client.AnswerCallbackQuery(cb.ID, "To'lovingiz allaqachon tekshirilmoqda", true)
		return
	}

	card, err := h.payments.CardForUser(chatID)
	if err != nil {
		h.client.AnswerCallbackQuery(cb.ID, "To'lov kartasi topilmadi", true)
		return
	}

	name := h.users.ProfileName(chatID)
	payment, err := h.payments.CreatePending(chatID, cb.From.Username, name, card.CardNumber)
	if err != nil {
		log.Printf("[payments] create pending %d: %v", chatID, err)
		h.client.AnswerCallbackQuery(cb.ID, "Xatolik yuz berdi", true)
		return
	}

	h.client.AnswerCallbackQuery(cb.ID, "", false)
	h.client.SendMessage(chatID,
		"⏳ To'lovingiz qabul qilindi va tekshirilmoqda. Admin tasdiqlagach obuna faollashadi.",
		"", BackToMenuKeyboard())

	notice := fmt.Sprintf("💳 <b>Yangi to'lov</b>\n\nO'quvchi: <b>%s</b> (@%s)\nChat ID: <code>%d</code>\nSumma: %d so'm\nKarta: <code>%s</code>",
		name, cb.From.Username, chatID, payment.Amount, payment.CardNumber)
	for _, adminID := range h.cfg.AdminIDs {
		if _, err := h.client.SendMessage(adminID, notice, "HTML", PaymentVerifyKeyboard(payment.ID)); err != nil {
			log.Printf("[payments] notify admin %d: %v", adminID, err)
		}
	}
}

func (h *UpdateHandler) onPaymentCancel(cb *CallbackQuery, chatID int64) {
	pending, err := h.payments.PendingPayment(chatID)
	if err == nil && pending != nil {
		if err := h.payments.CancelPending(pending.ID); err != nil {
			log.Printf("[payments] cancel %d: %v", pending.ID, err)
		}
	}
	h.client.AnswerCallbackQuery(cb.ID, "Bekor qilindi", false)
	h.sendMenu(chatID, false)
}

func (h *UpdateHandler) onPaymentReview(cb *CallbackQuery, adminID int64, parts []string) {
	if len(parts) != 2 {
		h.client.AnswerCallbackQuery(cb.ID, "Noma'lum buyruq", true)
		return
	}
	var paymentID uint
	if _, err := fmt.Sscanf(parts[1], "%d", &paymentID); err != nil {
		h.client.AnswerCallbackQuery(cb.ID, "Noma'lum buyruq", true)
		return
	}

	if parts[0] == "payok" {
		sub, err := h.payments.Verify(paymentID, adminID)
		if errors.Is(err, services.ErrPaymentNotFound) {
			h.client.AnswerCallbackQuery(cb.ID, "To'lov topilmadi", true)
			return
		}
		if err != nil {
			log.Printf("[payments] verify %d: %v", paymentID, err)
			h.client.AnswerCallbackQuery(cb.ID, "Xatolik yuz berdi", true)
			return
		}

		h.client.AnswerCallbackQuery(cb.ID, "Tasdiqlandi", false)
		if cb.Message != nil {
			h.client.EditMessageReplyMarkup(cb.Message.Chat.ID, cb.Message.MessageID, nil)
		}
		h.client.SendMessage(sub.ChatID,
			fmt.Sprintf("✅ To'lovingiz tasdiqlandi!\n\nObuna <b>%s</b> gacha faol.", sub.EndDate.Format("02.01.2006")),
			"HTML", StudentMenuKeyboard())
		return
	}

	payment, err := h.payments.Reject(paymentID)
	if errors.Is(err, services.ErrPaymentNotFound) {
		h.client.AnswerCallbackQuery(cb.ID, "To'lov topilmadi", true)
		return
	}
	if err != nil {
		log.Printf("[payments] reject %d: %v", paymentID, err)
		h.client.AnswerCallbackQuery(cb.ID, "Xatolik yuz berdi", true)
		return
	}

	h.client.AnswerCallbackQuery(cb.ID, "Rad etildi", false)
	if cb.Message != nil {
		h.client.EditMessageReplyMarkup(cb.Message.Chat.ID, cb.Message.MessageID, nil)
	}
	h.client.SendMessage(payment.ChatID,
		"❌ To'lovingiz tasdiqlanmadi. Ma'lumotlarni tekshirib qaytadan urinib ko'ring yoki admin bilan bog'laning.",
		"", StudentMenuKeyboard())
}
