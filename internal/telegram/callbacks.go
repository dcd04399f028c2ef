package telegram

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kubayevvv7/Elite-Math-Update/internal/pdf"
	"github.com/kubayevvv7/Elite-Math-Update/internal/services"
)

func (h *UpdateHandler) handleCallback(cb *CallbackQuery) {
	chatID := cb.From.ID
	isAdmin := h.cfg.IsAdmin(chatID)

	if !isAdmin && h.blocklist.IsBlocked(chatID) {
		h.client.AnswerCallbackQuery(cb.ID, "Siz bloklangansiz", true)
		return
	}

	parts := strings.Split(cb.Data, ":")
	switch parts[0] {
	case "menu":
		h.onMenuAction(cb, chatID, parts)
	case "res":
		h.onResultsAction(cb, chatID, parts)
	case "pdf":
		h.onStudentPDF(cb, chatID, parts)
	case "quiz":
		h.onQuizAnswer(cb, chatID, parts)
	case "contact":
		h.onContactShare(cb, chatID, parts)
	case "quizset", "quizdel", "admin", "admindel", "adminres", "pdfhw", "balreset", "quickblock", "videodel":
		if !isAdmin {
			h.client.AnswerCallbackQuery(cb.ID, "Ruxsat yo'q", true)
			return
		}
		h.handleAdminCallback(cb, chatID, parts)
	case "pay", "payok", "payno":
		h.handlePaymentCallback(cb, chatID, isAdmin, parts)
	default:
		h.client.AnswerCallbackQuery(cb.ID, "Noma'lum buyruq", true)
	}
}

func (h *UpdateHandler) onMenuAction(cb *CallbackQuery, chatID int64, parts []string) {
	if len(parts) != 2 {
		h.client.AnswerCallbackQuery(cb.ID, "Noma'lum buyruq", true)
		return
	}

	h.client.AnswerCallbackQuery(cb.ID, "", false)

	switch parts[1] {
	case "main":
		h.state.Clear(chatID)
		h.sendMenu(chatID, h.cfg.IsAdmin(chatID))
	case "test":
		h.state.Set(chatID, &UserState{Step: StepTestID})
		h.client.SendMessage(chatID, "📝 Test ID raqamini kiriting:", "", nil)
	case "homework":
		status := h.payments.CheckSubscription(chatID)
		if !status.Active {
			h.showPaymentOffer(chatID)
			return
		}
		h.state.Set(chatID, &UserState{Step: StepHomeworkID})
		h.client.SendMessage(chatID, "📚 Uyga vazifa ID raqamini kiriting:", "", nil)
	case "results":
		h.client.SendMessage(chatID, "📊 Qaysi natijalarni ko'rmoqchisiz?", "", ResultsMenuKeyboard())
	case "balance":
		balance := h.users.Balance(chatID)
		h.client.SendMessage(chatID,
			fmt.Sprintf("💰 Balansingiz: <b>%d</b> ball\n\nViktorina savollariga to'g'ri javob berib ball to'plang!", balance),
			"HTML", BackToMenuKeyboard())
	case "videos":
		h.onVideoList(chatID)
	case "payment":
		h.showSubscription(chatID)
	case "rename":
		h.state.Set(chatID, &UserState{Step: StepRename})
		h.client.SendMessage(chatID, "✏️ Yangi ism va familiyangizni kiriting:", "", nil)
	case "contact":
		h.client.SendMessage(chatID,
			"🧑‍💻 <b>Aloqa</b>\n\nQuyidagi tugmalar orqali yozishingiz yoki qo'ng'iroq qilishingiz mumkin:",
			"HTML", ContactKeyboard(h.cfg.ContactTelegram))
	default:
		h.client.AnswerCallbackQuery(cb.ID, "Noma'lum buyruq", true)
	}
}

func (h *UpdateHandler) onContactShare(cb *CallbackQuery, chatID int64, parts []string) {
	if len(parts) != 2 || parts[1] != "phone" {
		h.client.AnswerCallbackQuery(cb.ID, "Noma'lum buyruq", true)
		return
	}
	h.client.AnswerCallbackQuery(cb.ID, "", false)
	err := h.client.SendContact(chatID, h.cfg.ContactPhone, h.cfg.ContactFirstName, h.cfg.ContactLastName)
	if err != nil {
		log.Printf("[callbacks] send contact to %d: %v", chatID, err)
		h.client.SendMessage(chatID, fmt.Sprintf("📞 Telefon: %s", h.cfg.ContactPhone), "", nil)
	}
}

func (h *UpdateHandler) onVideoList(chatID int64) {
	links, err := h.videos.List()
	if err != nil || len(links) == 0 {
		h.client.SendMessage(chatID, "🎥 Hozircha video darslar yo'q.", "", BackToMenuKeyboard())
		return
	}

	lines := []string{"🎥 <b>Video darslar:</b>\n"}
	for _, l := range links {
		name := l.TestName
		if name == "" {
			name = l.TestID
		}
		lines = append(lines, fmt.Sprintf("▫️ <b>%s</b>\n%s", name, l.URL))
	}
	h.client.SendMessage(chatID, strings.Join(lines, "\n"), "HTML", BackToMenuKeyboard())
}

func (h *UpdateHandler) onResultsAction(cb *CallbackQuery, chatID int64, parts []string) {
	if len(parts) != 2 {
		h.client.AnswerCallbackQuery(cb.ID, "Noma'lum buyruq", true)
		return
	}
	h.client.AnswerCallbackQuery(cb.ID, "", false)

	homework := parts[1] == "hw"
	rows, err := h.results.ListByUser(chatID, homework)
	if err != nil || len(rows) == 0 {
		h.client.SendMessage(chatID, "📊 Hozircha natijalar yo'q.", "", BackToMenuKeyboard())
		return
	}

	title := "📝 <b>Test natijalaringiz:</b>\n"
	if homework {
		title = "📚 <b>Uyga vazifa natijalaringiz:</b>\n"
	}
	lines := []string{title}
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("▫️ <b>%s</b> — ✅ %d | ❌ %d (%s)",
			r.TestName, r.CorrectCount, r.IncorrectCount, r.CreatedAt.Format("02.01.2006")))
	}
	h.client.SendMessage(chatID, strings.Join(lines, "\n"), "HTML", BackToMenuKeyboard())
}

// onStudentPDF renders the student's own homework results as a PDF and
// delivers it as a document.
func (h *UpdateHandler) onStudentPDF(cb *CallbackQuery, chatID int64, parts []string) {
	if len(parts) != 2 || parts[1] != "self" {
		h.client.AnswerCallbackQuery(cb.ID, "Noma'lum buyruq", true)
		return
	}

	rows, err := h.results.ListByUser(chatID, true)
	if err != nil || len(rows) == 0 {
		h.client.AnswerCallbackQuery(cb.ID, "Hozircha natijalar yo'q", true)
		return
	}
	h.client.AnswerCallbackQuery(cb.ID, "", false)

	attempts := make([]pdf.AttemptRow, 0, len(rows))
	for _, r := range rows {
		attempts = append(attempts, pdf.AttemptRow{
			TestName:  r.TestName,
			Correct:   r.CorrectCount,
			Incorrect: r.IncorrectCount,
			Date:      r.CreatedAt.Format("02.01.2006"),
		})
	}

	name := h.users.ProfileName(chatID)
	dest := filepath.Join(h.cfg.MediaDir, fmt.Sprintf("report_%d_%d.pdf", chatID, time.Now().Unix()))
	if err := pdf.StudentReport(dest, name, attempts); err != nil {
		log.Printf("[handler] student pdf %d: %v", chatID, err)
		h.client.SendMessage(chatID, "❌ Hisobotni tayyorlashda xatolik.", "", BackToMenuKeyboard())
		return
	}
	defer os.Remove(dest)

	if err := h.client.SendDocument(chatID, dest, "📄 Natijalaringiz"); err != nil {
		log.Printf("[handler] send pdf to %d: %v", chatID, err)
	}
}

func (h *UpdateHandler) onQuizAnswer(cb *CallbackQuery, chatID int64, parts []string) {
	if len(parts) != 3 {
		h.client.AnswerCallbackQuery(cb.ID, "Noma'lum buyruq", true)
		return
	}
	quizID, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		h.client.AnswerCallbackQuery(cb.ID, "Noma'lum buyruq", true)
		return
	}
	letter := parts[2]

	outcome, err := h.quizzes.SubmitAnswer(uint(quizID), chatID, letter)
	switch {
	case errors.Is(err, services.ErrQuizAlreadyAnswered):
		h.client.AnswerCallbackQuery(cb.ID, "Siz allaqachon javob bergansiz", true)
		return
	case errors.Is(err, services.ErrQuizExpired):
		h.client.AnswerCallbackQuery(cb.ID, "Viktorina muddati tugagan", true)
		return
	case errors.Is(err, services.ErrQuizNotFound):
		h.client.AnswerCallbackQuery(cb.ID, "Viktorina topilmadi", true)
		return
	case err != nil:
		log.Printf("[handler] quiz answer %d/%d: %v", quizID, chatID, err)
		h.client.AnswerCallbackQuery(cb.ID, "Xatolik yuz berdi", true)
		return
	}

	if outcome.Correct {
		h.client.AnswerCallbackQuery(cb.ID,
			fmt.Sprintf("✅ To'g'ri! +%d ball (balans: %d)", outcome.Reward, outcome.NewBalance), true)
	} else {
		h.client.AnswerCallbackQuery(cb.ID,
			fmt.Sprintf("❌ Noto'g'ri. To'g'ri javob: %s", outcome.CorrectAnswer), true)
	}
}
