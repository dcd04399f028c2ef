package telegram

import (
	"fmt"

	"github.com/kubayevvv7/Elite-Math-Update/internal/models"
)

// Callback data is the routing contract: opaque "action:arg" tokens,
// never the button's display text.

func StudentMenuKeyboard() *InlineKeyboardMarkup {
	return &InlineKeyboardMarkup{
		InlineKeyboard: [][]InlineKeyboardButton{
			{
				{Text: "📝 Test topshirish", CallbackData: "menu:test"},
				{Text: "📚 Uyga vazifa", CallbackData: "menu:homework"},
			},
			{
				{Text: "📊 Natijalarim", CallbackData: "menu:results"},
				{Text: "💰 Balansim", CallbackData: "menu:balance"},
			},
			{
				{Text: "🎥 Video darslar", CallbackData: "menu:videos"},
				{Text: "💳 Obuna", CallbackData: "menu:payment"},
			},
			{
				{Text: "✏️ Ismni o'zgartirish", CallbackData: "menu:rename"},
				{Text: "🧑‍💻 Aloqa", CallbackData: "menu:contact"},
			},
		},
	}
}

func AdminMenuKeyboard() *InlineKeyboardMarkup {
	return &InlineKeyboardMarkup{
		InlineKeyboard: [][]InlineKeyboardButton{
			{
				{Text: "➕ Test yaratish", CallbackData: "admin:addtest"},
				{Text: "➕ Uyga vazifa", CallbackData: "admin:addhw"},
			},
			{
				{Text: "🗑 Testni o'chirish", CallbackData: "admin:deltest"},
				{Text: "📊 Natijalar", CallbackData: "admin:results"},
			},
			{
				{Text: "🖼 Viktorina qo'shish", CallbackData: "admin:addquiz"},
				{Text: "📋 Viktorinalar", CallbackData: "admin:quizzes"},
			},
			{
				{Text: "🎥 Video biriktirish", CallbackData: "admin:addvideo"},
				{Text: "🗑 Videoni o'chirish", CallbackData: "admin:delvideo"},
			},
			{
				{Text: "📄 PDF hisobot", CallbackData: "admin:pdf"},
			},
			{
				{Text: "🚫 Bloklash", CallbackData: "admin:block"},
				{Text: "✅ Blokdan chiqarish", CallbackData: "admin:unblock"},
			},
			{
				{Text: "💳 Karta qo'shish", CallbackData: "admin:addcard"},
				{Text: "👥 O'quvchilar", CallbackData: "admin:users"},
			},
			{
				{Text: "📢 Xabar yuborish", CallbackData: "admin:broadcast"},
			},
		},
	}
}

func ResultsMenuKeyboard() *InlineKeyboardMarkup {
	return &InlineKeyboardMarkup{
		InlineKeyboard: [][]InlineKeyboardButton{
			{
				{Text: "📝 Test natijalari", CallbackData: "res:test"},
				{Text: "📚 Vazifa natijalari", CallbackData: "res:hw"},
			},
			{
				{Text: "📄 PDF ko'rinishida", CallbackData: "pdf:self"},
			},
			{
				{Text: "⬅️ Menyu", CallbackData: "menu:main"},
			},
		},
	}
}

// QuizAnswerKeyboard is the 5-choice control attached to a broadcast
// quiz photo.
func QuizAnswerKeyboard(quizID uint) *InlineKeyboardMarkup {
	letters := []string{"A", "B", "C", "D", "E"}
	row := make([]InlineKeyboardButton, 0, len(letters))
	for _, l := range letters {
		row = append(row, InlineKeyboardButton{
			Text:         l,
			CallbackData: fmt.Sprintf("quiz:%d:%s", quizID, l),
		})
	}
	return &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{row}}
}

// QuizSetAnswerKeyboard lets the admin pick the correct letter while
// creating a quiz.
func QuizSetAnswerKeyboard() *InlineKeyboardMarkup {
	letters := []string{"A", "B", "C", "D", "E"}
	row := make([]InlineKeyboardButton, 0, len(letters))
	for _, l := range letters {
		row = append(row, InlineKeyboardButton{
			Text:         l,
			CallbackData: "quizset:" + l,
		})
	}
	return &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{row}}
}

// TestPickKeyboard renders one button per test with an action-prefixed
// token, e.g. "admindel:T1234".
func TestPickKeyboard(tests []models.Test, action string) *InlineKeyboardMarkup {
	var rows [][]InlineKeyboardButton
	for _, t := range tests {
		rows = append(rows, []InlineKeyboardButton{
			{Text: fmt.Sprintf("%s (%s)", t.Name, t.TestID), CallbackData: fmt.Sprintf("%s:%s", action, t.TestID)},
		})
	}
	rows = append(rows, []InlineKeyboardButton{
		{Text: "⬅️ Menyu", CallbackData: "menu:main"},
	})
	return &InlineKeyboardMarkup{InlineKeyboard: rows}
}

func QuizPickKeyboard(quizzes []models.Quiz) *InlineKeyboardMarkup {
	var rows [][]InlineKeyboardButton
	for _, q := range quizzes {
		label := fmt.Sprintf("Viktorina #%d", q.ID)
		if q.SentToUsers {
			label += " (yuborilgan)"
		}
		rows = append(rows, []InlineKeyboardButton{
			{Text: label, CallbackData: fmt.Sprintf("quizdel:%d", q.ID)},
		})
	}
	rows = append(rows, []InlineKeyboardButton{
		{Text: "⬅️ Menyu", CallbackData: "menu:main"},
	})
	return &InlineKeyboardMarkup{InlineKeyboard: rows}
}

func PaymentKeyboard() *InlineKeyboardMarkup {
	return &InlineKeyboardMarkup{
		InlineKeyboard: [][]InlineKeyboardButton{
			{{Text: "✅ To'lov qildim", CallbackData: "pay:confirm"}},
			{{Text: "❌ Bekor qilish", CallbackData: "pay:cancel"}},
		},
	}
}

// PaymentVerifyKeyboard goes to the admin reviewing a claimed transfer.
func PaymentVerifyKeyboard(paymentID uint) *InlineKeyboardMarkup {
	return &InlineKeyboardMarkup{
		InlineKeyboard: [][]InlineKeyboardButton{
			{
				{Text: "✅ Tasdiqlash", CallbackData: fmt.Sprintf("payok:%d", paymentID)},
				{Text: "❌ Rad etish", CallbackData: fmt.Sprintf("payno:%d", paymentID)},
			},
		},
	}
}

func ContactKeyboard(telegramURL string) *InlineKeyboardMarkup {
	return &InlineKeyboardMarkup{
		InlineKeyboard: [][]InlineKeyboardButton{
			{{Text: "✈️ Telegram", URL: telegramURL}},
			{{Text: "📞 Telefon raqam", CallbackData: "contact:phone"}},
			{{Text: "⬅️ Menyu", CallbackData: "menu:main"}},
		},
	}
}

func QuickBlockKeyboard(chatID int64) *InlineKeyboardMarkup {
	return &InlineKeyboardMarkup{
		InlineKeyboard: [][]InlineKeyboardButton{
			{{Text: "🚫 Bloklash", CallbackData: fmt.Sprintf("quickblock:%d", chatID)}},
		},
	}
}

func BackToMenuKeyboard() *InlineKeyboardMarkup {
	return &InlineKeyboardMarkup{
		InlineKeyboard: [][]InlineKeyboardButton{
			{{Text: "⬅️ Menyu", CallbackData: "menu:main"}},
		},
	}
}
