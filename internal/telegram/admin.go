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

	"github.com/kubayevvv7/Elite-Math-Update/internal/models"
	"github.com/kubayevvv7/Elite-Math-Update/internal/pdf"
	"github.com/kubayevvv7/Elite-Math-Update/internal/services"
)

func (h *UpdateHandler) handleAdminText(chatID int64, us *UserState, text string) {
	switch us.Step {
	case StepAdminTestName:
		h.state.Set(chatID, &UserState{Step: StepAdminTestAnswers, TestName: text})
		h.client.SendMessage(chatID,
			"Endi javoblar kalitini yuboring (masalan: abcdeabcde...):", "", nil)

	case StepAdminHomeworkName:
		h.state.Set(chatID, &UserState{Step: StepAdminHomeworkAnswers, TestName: text, IsHomework: true})
		h.client.SendMessage(chatID,
			fmt.Sprintf("Endi %d ta javobdan iborat kalitni yuboring:", services.HomeworkAnswerCount), "", nil)

	case StepAdminTestAnswers:
		answers := h.grading.ExtractLetters(text)
		if len(answers) == 0 {
			h.client.SendMessage(chatID, "❌ Javoblar topilmadi. Faqat a-e harflaridan foydalaning:", "", nil)
			return
		}
		testID := h.tests.GenerateTestID()
		if _, err := h.tests.Create(testID, us.TestName, answers, false); err != nil {
			log.Printf("[admin] create test: %v", err)
			h.client.SendMessage(chatID, "❌ Testni saqlashda xatolik.", "", AdminMenuKeyboard())
			h.state.Clear(chatID)
			return
		}
		h.state.Clear(chatID)
		h.client.SendMessage(chatID,
			fmt.Sprintf("✅ Test yaratildi!\n\nNomi: <b>%s</b>\nID: <code>%s</code>\nSavollar soni: %d",
				us.TestName, testID, len(answers)),
			"HTML", AdminMenuKeyboard())

	case StepAdminHomeworkAnswers:
		answers := h.grading.ExtractLetters(text)
		if len(answers) != services.HomeworkAnswerCount {
			h.client.SendMessage(chatID,
				fmt.Sprintf("❌ Aynan %d ta javob kerak, siz %d ta yubordingiz. Qaytadan:",
					services.HomeworkAnswerCount, len(answers)), "", nil)
			return
		}
		hwID := h.tests.GenerateHomeworkID()
		if _, err := h.tests.Create(hwID, us.TestName, answers, true); err != nil {
			log.Printf("[admin] create homework: %v", err)
			h.client.SendMessage(chatID, "❌ Vazifani saqlashda xatolik.", "", AdminMenuKeyboard())
			h.state.Clear(chatID)
			return
		}
		h.state.Clear(chatID)
		h.client.SendMessage(chatID,
			fmt.Sprintf("✅ Uyga vazifa yaratildi!\n\nNomi: <b>%s</b>\nID: <code>%s</code>", us.TestName, hwID),
			"HTML", AdminMenuKeyboard())

	case StepAdminVideoTestID:
		testID := strings.ToUpper(text)
		if _, err := h.tests.Get(testID); err != nil {
			h.client.SendMessage(chatID, "❌ Bunday test topilmadi. Qaytadan kiriting:", "", nil)
			return
		}
		h.state.Set(chatID, &UserState{Step: StepAdminVideoURL, VideoTestID: testID})
		h.client.SendMessage(chatID, "Video havolasini yuboring:", "", nil)

	case StepAdminVideoURL:
		if !strings.HasPrefix(text, "http://") && !strings.HasPrefix(text, "https://") {
			h.client.SendMessage(chatID, "❌ Havola http:// yoki https:// bilan boshlanishi kerak:", "", nil)
			return
		}
		if err := h.videos.Upsert(us.VideoTestID, text); err != nil {
			log.Printf("[admin] save video %s: %v", us.VideoTestID, err)
			h.client.SendMessage(chatID, "❌ Videoni saqlashda xatolik.", "", AdminMenuKeyboard())
			h.state.Clear(chatID)
			return
		}
		h.state.Clear(chatID)
		h.client.SendMessage(chatID,
			fmt.Sprintf("✅ Video <code>%s</code> testiga biriktirildi.", us.VideoTestID),
			"HTML", AdminMenuKeyboard())

	case StepAdminBlockTarget:
		target, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			h.client.SendMessage(chatID, "❌ Chat ID raqam bo'lishi kerak. Qaytadan kiriting:", "", nil)
			return
		}
		var username, name string
		if u, uerr := h.users.Get(target); uerr == nil {
			username, name = u.Username, u.StudentName
		}
		if err := h.blocklist.Block(target, username, name, chatID, "admin block"); err != nil {
			log.Printf("[admin] block %d: %v", target, err)
		}
		h.state.Clear(chatID)
		h.client.SendMessage(chatID,
			fmt.Sprintf("🚫 Foydalanuvchi <code>%d</code> bloklandi.", target),
			"HTML", AdminMenuKeyboard())

	case StepAdminUnblockTarget:
		target, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			h.client.SendMessage(chatID, "❌ Chat ID raqam bo'lishi kerak. Qaytadan kiriting:", "", nil)
			return
		}
		if err := h.blocklist.Unblock(target); err != nil {
			log.Printf("[admin] unblock %d: %v", target, err)
		}
		h.state.Clear(chatID)
		h.client.SendMessage(chatID,
			fmt.Sprintf("✅ Foydalanuvchi <code>%d</code> blokdan chiqarildi.", target),
			"HTML", AdminMenuKeyboard())

	case StepAdminCardNumber:
		h.state.Set(chatID, &UserState{Step: StepAdminCardOwner, CardNumber: text})
		h.client.SendMessage(chatID, "Karta egasining ismini kiriting:", "", nil)

	case StepAdminCardOwner:
		h.state.Set(chatID, &UserState{Step: StepAdminCardBank, CardNumber: us.CardNumber, CardOwner: text})
		h.client.SendMessage(chatID, "Bank nomini kiriting (masalan: Uzcard, Humo):", "", nil)

	case StepAdminCardBank:
		if _, err := h.payments.AddCard(us.CardNumber, us.CardOwner, text); err != nil {
			log.Printf("[admin] add card: %v", err)
			h.client.SendMessage(chatID, "❌ Kartani saqlashda xatolik.", "", AdminMenuKeyboard())
			h.state.Clear(chatID)
			return
		}
		h.state.Clear(chatID)
		h.client.SendMessage(chatID, "✅ Karta qo'shildi.", "", AdminMenuKeyboard())

	case StepAdminBroadcast:
		h.state.Clear(chatID)
		h.broadcastText(chatID, text)
	}
}

func (h *UpdateHandler) broadcastText(adminID int64, text string) {
	ids, err := h.users.StudentChatIDs(h.cfg.AdminIDs)
	if err != nil {
		log.Printf("[admin] broadcast recipients: %v", err)
		h.client.SendMessage(adminID, "❌ Qabul qiluvchilarni olishda xatolik.", "", AdminMenuKeyboard())
		return
	}

	sent, failed := 0, 0
	for _, id := range ids {
		if _, err := h.client.SendMessage(id, text, "", nil); err != nil {
			failed++
			continue
		}
		sent++
	}
	h.client.SendMessage(adminID,
		fmt.Sprintf("📢 Xabar yuborildi: %d ta, xato: %d ta.", sent, failed),
		"", AdminMenuKeyboard())
}

// onQuizPhoto stores the uploaded quiz picture and asks the admin for
// the correct letter.
func (h *UpdateHandler) onQuizPhoto(chatID int64, msg *Message) {
	// Telegram sends sizes smallest-first; take the largest
	photo := msg.Photo[len(msg.Photo)-1]

	destPath := filepath.Join(h.cfg.MediaDir, fmt.Sprintf("quiz_%d.jpg", time.Now().UnixNano()))
	file, err := h.client.GetFile(photo.FileID)
	if err == nil {
		if err := h.client.DownloadFile(file, destPath); err != nil {
			log.Printf("[admin] download quiz photo: %v", err)
			destPath = ""
		}
	} else {
		log.Printf("[admin] get quiz photo: %v", err)
		destPath = ""
	}

	h.state.UpdateField(chatID, func(s *UserState) {
		s.QuizFileID = photo.FileID
		s.QuizFilePath = destPath
	})
	if _, err := h.client.SendPhoto(chatID, photo.FileID, "To'g'ri javobni tanlang:", QuizSetAnswerKeyboard()); err != nil {
		log.Printf("[admin] echo quiz photo: %v", err)
		h.client.SendMessage(chatID, "To'g'ri javobni tanlang:", "", QuizSetAnswerKeyboard())
	}
}

func (h *UpdateHandler) handleAdminCallback(cb *CallbackQuery, chatID int64, parts []string) {
	switch parts[0] {
	case "admin":
		h.onAdminAction(cb, chatID, parts)
	case "quizset":
		h.onQuizSetAnswer(cb, chatID, parts)
	case "quizdel":
		h.onQuizDelete(cb, chatID, parts)
	case "admindel":
		h.onTestDelete(cb, chatID, parts)
	case "adminres":
		h.onTestResults(cb, chatID, parts)
	case "pdfhw":
		h.onHomeworkPDF(cb, chatID, parts)
	case "balreset":
		h.onBalanceReset(cb, chatID, parts)
	case "quickblock":
		h.onQuickBlock(cb, parts)
	case "videodel":
		h.onVideoDelete(cb, chatID, parts)
	}
}

func (h *UpdateHandler) onQuickBlock(cb *CallbackQuery, parts []string) {
	if len(parts) != 2 {
		h.client.AnswerCallbackQuery(cb.ID, "Noma'lum buyruq", true)
		return
	}
	target, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		h.client.AnswerCallbackQuery(cb.ID, "Noto'g'ri chat ID", true)
		return
	}
	var username, name string
	if u, uerr := h.users.Get(target); uerr == nil {
		username, name = u.Username, u.StudentName
	}
	if err := h.blocklist.Block(target, username, name, cb.From.ID, "homework notification"); err != nil {
		log.Printf("[admin] quick block %d: %v", target, err)
		h.client.AnswerCallbackQuery(cb.ID, "Xatolik yuz berdi", true)
		return
	}
	h.client.AnswerCallbackQuery(cb.ID, fmt.Sprintf("%d bloklandi", target), true)
	if cb.Message != nil {
		h.client.EditMessageReplyMarkup(cb.Message.Chat.ID, cb.Message.MessageID, nil)
	}
}

func (h *UpdateHandler) onAdminAction(cb *CallbackQuery, chatID int64, parts []string) {
	if len(parts) != 2 {
		h.client.AnswerCallbackQuery(cb.ID, "Noma'lum buyruq", true)
		return
	}
	h.client.AnswerCallbackQuery(cb.ID, "", false)

	switch parts[1] {
	case "addtest":
		h.state.Set(chatID, &UserState{Step: StepAdminTestName})
		h.client.SendMessage(chatID, "Test nomini kiriting:", "", nil)
	case "addhw":
		h.state.Set(chatID, &UserState{Step: StepAdminHomeworkName})
		h.client.SendMessage(chatID, "Uyga vazifa nomini kiriting:", "", nil)
	case "deltest":
		tests := h.allTests()
		if len(tests) == 0 {
			h.client.SendMessage(chatID, "Hozircha testlar yo'q.", "", AdminMenuKeyboard())
			return
		}
		h.client.SendMessage(chatID, "O'chiriladigan testni tanlang:", "", TestPickKeyboard(tests, "admindel"))
	case "results":
		tests := h.allTests()
		if len(tests) == 0 {
			h.client.SendMessage(chatID, "Hozircha testlar yo'q.", "", AdminMenuKeyboard())
			return
		}
		h.client.SendMessage(chatID, "Natijalarini ko'rish uchun testni tanlang:", "", TestPickKeyboard(tests, "adminres"))
	case "addquiz":
		h.state.Set(chatID, &UserState{Step: StepAdminQuizPhoto})
		h.client.SendMessage(chatID, "🖼 Viktorina rasmini yuboring:", "", nil)
	case "quizzes":
		quizzes, err := h.quizzes.ListActive()
		if err != nil || len(quizzes) == 0 {
			h.client.SendMessage(chatID, "Faol viktorinalar yo'q.", "", AdminMenuKeyboard())
			return
		}
		h.client.SendMessage(chatID, "Faol viktorinalar (bosib o'chirish mumkin):", "", QuizPickKeyboard(quizzes))
	case "addvideo":
		h.state.Set(chatID, &UserState{Step: StepAdminVideoTestID})
		h.client.SendMessage(chatID, "Video biriktiriladigan test ID sini kiriting:", "", nil)
	case "delvideo":
		links, err := h.videos.List()
		if err != nil || len(links) == 0 {
			h.client.SendMessage(chatID, "🎥 O'chiriladigan video yo'q.", "", AdminMenuKeyboard())
			return
		}
		kb := &InlineKeyboardMarkup{}
		for _, l := range links {
			name := l.TestName
			if name == "" {
				name = l.TestID
			}
			kb.InlineKeyboard = append(kb.InlineKeyboard, []InlineKeyboardButton{
				{Text: "🗑 " + name, CallbackData: fmt.Sprintf("videodel:%s", l.TestID)},
			})
		}
		h.client.SendMessage(chatID, "O'chiriladigan videoni tanlang:", "", kb)
	case "pdf":
		homeworks, err := h.tests.List(true)
		if err != nil || len(homeworks) == 0 {
			h.client.SendMessage(chatID, "Hozircha uyga vazifalar yo'q.", "", AdminMenuKeyboard())
			return
		}
		h.client.SendMessage(chatID, "Hisobot uchun vazifani tanlang:", "", TestPickKeyboard(homeworks, "pdfhw"))
	case "block":
		h.state.Set(chatID, &UserState{Step: StepAdminBlockTarget})
		h.client.SendMessage(chatID, "Bloklanadigan foydalanuvchi chat ID sini kiriting:", "", nil)
	case "unblock":
		h.state.Set(chatID, &UserState{Step: StepAdminUnblockTarget})
		h.client.SendMessage(chatID, "Blokdan chiqariladigan chat ID ni kiriting:", "", nil)
	case "addcard":
		h.state.Set(chatID, &UserState{Step: StepAdminCardNumber})
		h.client.SendMessage(chatID, "Karta raqamini kiriting:", "", nil)
	case "users":
		h.onUserList(chatID)
	case "broadcast":
		h.state.Set(chatID, &UserState{Step: StepAdminBroadcast})
		h.client.SendMessage(chatID, "Barcha o'quvchilarga yuboriladigan xabarni kiriting:", "", nil)
	default:
		h.client.AnswerCallbackQuery(cb.ID, "Noma'lum buyruq", true)
	}
}

func (h *UpdateHandler) allTests() []models.Test {
	regular, err := h.tests.List(false)
	if err != nil {
		log.Printf("[admin] list tests: %v", err)
	}
	homework, err := h.tests.List(true)
	if err != nil {
		log.Printf("[admin] list homework: %v", err)
	}
	return append(regular, homework...)
}

func (h *UpdateHandler) onUserList(chatID int64) {
	users, err := h.users.ListUsers()
	if err != nil || len(users) == 0 {
		h.client.SendMessage(chatID, "Hozircha o'quvchilar yo'q.", "", AdminMenuKeyboard())
		return
	}

	lines := []string{fmt.Sprintf("👥 <b>O'quvchilar (%d):</b>\n", len(users))}
	var rows [][]InlineKeyboardButton
	for _, u := range users {
		lines = append(lines, fmt.Sprintf("▫️ <b>%s</b> (<code>%d</code>) — 💰 %d", u.StudentName, u.ChatID, u.Balance))
		if u.Balance > 0 && len(rows) < 20 {
			rows = append(rows, []InlineKeyboardButton{
				{Text: fmt.Sprintf("🔄 %s balansini nollash", u.StudentName),
					CallbackData: fmt.Sprintf("balreset:%d", u.ChatID)},
			})
		}
	}

	var kb *InlineKeyboardMarkup
	if len(rows) > 0 {
		kb = &InlineKeyboardMarkup{InlineKeyboard: rows}
	}
	h.client.SendMessage(chatID, strings.Join(lines, "\n"), "HTML", kb)
}

func (h *UpdateHandler) onQuizSetAnswer(cb *CallbackQuery, chatID int64, parts []string) {
	if len(parts) != 2 {
		h.client.AnswerCallbackQuery(cb.ID, "Noma'lum buyruq", true)
		return
	}
	letter := parts[1]

	us := h.state.Get(chatID)
	if us.QuizFileID == "" {
		h.client.AnswerCallbackQuery(cb.ID, "Avval rasm yuboring", true)
		return
	}

	quiz, err := h.quizzes.Create(us.QuizFilePath, us.QuizFileID, letter)
	if err != nil {
		log.Printf("[admin] create quiz: %v", err)
		h.client.AnswerCallbackQuery(cb.ID, "Saqlashda xatolik", true)
		return
	}

	h.state.Clear(chatID)
	h.client.AnswerCallbackQuery(cb.ID, "", false)
	if cb.Message != nil {
		h.client.EditMessageCaption(cb.Message.Chat.ID, cb.Message.MessageID,
			fmt.Sprintf("✅ To'g'ri javob: %s", strings.ToUpper(letter)), nil)
	}
	h.client.SendMessage(chatID,
		fmt.Sprintf("✅ Viktorina #%d navbatga qo'shildi. Navbatdagi yuborishda o'quvchilarga tarqatiladi.", quiz.ID),
		"", AdminMenuKeyboard())
}

func (h *UpdateHandler) onQuizDelete(cb *CallbackQuery, chatID int64, parts []string) {
	if len(parts) != 2 {
		h.client.AnswerCallbackQuery(cb.ID, "Noma'lum buyruq", true)
		return
	}
	id, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		h.client.AnswerCallbackQuery(cb.ID, "Noma'lum buyruq", true)
		return
	}

	filePath, err := h.quizzes.Deactivate(uint(id))
	if errors.Is(err, services.ErrQuizNotFound) {
		h.client.AnswerCallbackQuery(cb.ID, "Viktorina topilmadi", true)
		return
	}
	if err != nil {
		log.Printf("[admin] deactivate quiz %d: %v", id, err)
		h.client.AnswerCallbackQuery(cb.ID, "Xatolik yuz berdi", true)
		return
	}
	if filePath != "" {
		os.Remove(filePath)
	}

	h.client.AnswerCallbackQuery(cb.ID, "O'chirildi", false)
	h.client.SendMessage(chatID, fmt.Sprintf("🗑 Viktorina #%d o'chirildi.", id), "", AdminMenuKeyboard())
}

func (h *UpdateHandler) onVideoDelete(cb *CallbackQuery, chatID int64, parts []string) {
	if len(parts) != 2 {
		h.client.AnswerCallbackQuery(cb.ID, "Noma'lum buyruq", true)
		return
	}
	testID := parts[1]
	if err := h.videos.Delete(testID); err != nil {
		log.Printf("[admin] delete video %s: %v", testID, err)
		h.client.AnswerCallbackQuery(cb.ID, "Xatolik yuz berdi", true)
		return
	}
	h.client.AnswerCallbackQuery(cb.ID, "O'chirildi", false)
	h.client.SendMessage(chatID, fmt.Sprintf("🗑 %s testining videosi o'chirildi.", testID), "", AdminMenuKeyboard())
}

func (h *UpdateHandler) onTestDelete(cb *CallbackQuery, chatID int64, parts []string) {
	if len(parts) != 2 {
		h.client.AnswerCallbackQuery(cb.ID, "Noma'lum buyruq", true)
		return
	}
	testID := parts[1]

	err := h.tests.Delete(testID)
	if errors.Is(err, services.ErrTestNotFound) {
		h.client.AnswerCallbackQuery(cb.ID, "Test topilmadi", true)
		return
	}
	if err != nil {
		log.Printf("[admin] delete test %s: %v", testID, err)
		h.client.AnswerCallbackQuery(cb.ID, "Xatolik yuz berdi", true)
		return
	}

	h.client.AnswerCallbackQuery(cb.ID, "O'chirildi", false)
	h.client.SendMessage(chatID,
		fmt.Sprintf("🗑 Test <code>%s</code> natijalari va videosi bilan birga o'chirildi.", testID),
		"HTML", AdminMenuKeyboard())
}

func (h *UpdateHandler) onTestResults(cb *CallbackQuery, chatID int64, parts []string) {
	if len(parts) != 2 {
		h.client.AnswerCallbackQuery(cb.ID, "Noma'lum buyruq", true)
		return
	}
	testID := parts[1]

	test, err := h.tests.Get(testID)
	if err != nil {
		h.client.AnswerCallbackQuery(cb.ID, "Test topilmadi", true)
		return
	}

	rows, err := h.results.ListByTest(testID)
	if err != nil || len(rows) == 0 {
		h.client.AnswerCallbackQuery(cb.ID, "Natijalar yo'q", true)
		return
	}
	h.client.AnswerCallbackQuery(cb.ID, "", false)

	stats := h.results.AggregateByStudent(rows)
	lines := []string{fmt.Sprintf("📊 <b>%s</b> natijalari:\n", test.Name)}
	for i, st := range stats {
		lines = append(lines, fmt.Sprintf("%d. <b>%s</b> — ✅ %d | ❌ %d (%.0f%%, %d urinish)",
			i+1, st.StudentName, st.Correct, st.Incorrect, st.Percentage(), st.Attempts))
	}
	h.client.SendMessage(chatID, strings.Join(lines, "\n"), "HTML", AdminMenuKeyboard())
}

func (h *UpdateHandler) onHomeworkPDF(cb *CallbackQuery, chatID int64, parts []string) {
	if len(parts) != 2 {
		h.client.AnswerCallbackQuery(cb.ID, "Noma'lum buyruq", true)
		return
	}
	testID := parts[1]

	test, err := h.tests.Get(testID)
	if err != nil {
		h.client.AnswerCallbackQuery(cb.ID, "Test topilmadi", true)
		return
	}

	results, err := h.results.ListByTest(testID)
	if err != nil || len(results) == 0 {
		h.client.AnswerCallbackQuery(cb.ID, "Natijalar yo'q", true)
		return
	}
	h.client.AnswerCallbackQuery(cb.ID, "", false)

	stats := h.results.AggregateByStudent(results)
	rows := make([]pdf.ResultRow, 0, len(stats))
	for i, st := range stats {
		rows = append(rows, pdf.ResultRow{
			Rank:        i + 1,
			StudentName: st.StudentName,
			Correct:     st.Correct,
			Incorrect:   st.Incorrect,
			Percentage:  st.Percentage(),
		})
	}

	dest := filepath.Join(h.cfg.MediaDir, fmt.Sprintf("results_%s_%d.pdf", testID, time.Now().Unix()))
	if err := pdf.TestResultsReport(dest, test.Name, rows); err != nil {
		log.Printf("[admin] homework pdf %s: %v", testID, err)
		h.client.SendMessage(chatID, "❌ Hisobotni tayyorlashda xatolik.", "", AdminMenuKeyboard())
		return
	}
	defer os.Remove(dest)

	if err := h.client.SendDocument(chatID, dest, fmt.Sprintf("📄 %s natijalari", test.Name)); err != nil {
		log.Printf("[admin] send pdf: %v", err)
	}
}

func (h *UpdateHandler) onBalanceReset(cb *CallbackQuery, chatID int64, parts []string) {
	if len(parts) != 2 {
		h.client.AnswerCallbackQuery(cb.ID, "Noma'lum buyruq", true)
		return
	}
	target, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		h.client.AnswerCallbackQuery(cb.ID, "Noma'lum buyruq", true)
		return
	}

	if err := h.users.ResetBalance(target); err != nil {
		log.Printf("[admin] reset balance %d: %v", target, err)
		h.client.AnswerCallbackQuery(cb.ID, "Xatolik yuz berdi", true)
		return
	}
	h.client.AnswerCallbackQuery(cb.ID, "Balans nollandi", false)
}
