package telegram

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/kubayevvv7/Elite-Math-Update/internal/config"
	"github.com/kubayevvv7/Elite-Math-Update/internal/services"
)

type UpdateHandler struct {
	client    *Client
	state     *StateManager
	cfg       *config.Config
	users     *services.UserService
	tests     *services.TestService
	results   *services.ResultService
	grading   *services.GradingService
	quizzes   *services.QuizService
	payments  *services.PaymentService
	blocklist *services.BlocklistService
	videos    *services.VideoService
}

func NewUpdateHandler(
	client *Client,
	state *StateManager,
	cfg *config.Config,
	users *services.UserService,
	tests *services.TestService,
	results *services.ResultService,
	grading *services.GradingService,
	quizzes *services.QuizService,
	payments *services.PaymentService,
	blocklist *services.BlocklistService,
	videos *services.VideoService,
) *UpdateHandler {
	return &UpdateHandler{
		client:    client,
		state:     state,
		cfg:       cfg,
		users:     users,
		tests:     tests,
		results:   results,
		grading:   grading,
		quizzes:   quizzes,
		payments:  payments,
		blocklist: blocklist,
		videos:    videos,
	}
}

func (h *UpdateHandler) Handle(upd Update) {
	if upd.CallbackQuery != nil {
		h.handleCallback(upd.CallbackQuery)
		return
	}
	if upd.Message != nil {
		h.handleMessage(upd.Message)
	}
}

func (h *UpdateHandler) handleMessage(msg *Message) {
	if msg.From == nil {
		return
	}
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)
	isAdmin := h.cfg.IsAdmin(chatID)

	if !isAdmin && h.blocklist.IsBlocked(chatID) {
		h.client.SendMessage(chatID, "🚫 Siz botdan foydalanishdan bloklangansiz.", "", nil)
		return
	}

	if isCommand(msg, "start") {
		h.cmdStart(msg, chatID, isAdmin)
		return
	}
	if isCommand(msg, "menu") {
		h.state.Clear(chatID)
		h.sendMenu(chatID, isAdmin)
		return
	}
	if isCommand(msg, "help") {
		h.client.SendMessage(chatID,
			"ℹ️ <b>Bot buyruqlari:</b>\n\n"+
				"/start — botni ishga tushirish\n"+
				"/menu — asosiy menyu\n"+
				"/help — yordam\n\n"+
				"Test topshirish: menyudan \"Test topshirish\" ni tanlang, test ID va javoblarni yuboring.\n"+
				"Uyga vazifa: obuna talab qilinadi, javoblar <code>1a2b...30e</code> ko'rinishida.",
			"HTML", BackToMenuKeyboard())
		return
	}
	if isCommand(msg, "admin") && isAdmin {
		h.state.Clear(chatID)
		h.client.SendMessage(chatID, "🛠 <b>Admin panel</b>", "HTML", AdminMenuKeyboard())
		return
	}

	us := h.state.Get(chatID)

	if len(msg.Photo) > 0 && isAdmin && us.Step == StepAdminQuizPhoto {
		h.onQuizPhoto(chatID, msg)
		return
	}

	switch us.Step {
	case StepEnterName:
		h.onEnterName(msg, chatID, text)
	case StepRename:
		h.onRename(msg, chatID, text)
	case StepTestID:
		h.onTestID(chatID, text)
	case StepTestAnswers:
		h.onTestAnswers(msg, chatID, us, text)
	case StepHomeworkID:
		h.onHomeworkID(chatID, text)
	case StepHomeworkAnswers:
		h.onHomeworkAnswers(msg, chatID, us, text)
	case StepAdminTestName, StepAdminHomeworkName,
		StepAdminTestAnswers, StepAdminHomeworkAnswers,
		StepAdminVideoTestID, StepAdminVideoURL,
		StepAdminBlockTarget, StepAdminUnblockTarget,
		StepAdminCardNumber, StepAdminCardOwner, StepAdminCardBank,
		StepAdminBroadcast:
		if isAdmin {
			h.handleAdminText(chatID, us, text)
		} else {
			h.state.Clear(chatID)
		}
	default:
		h.client.SendMessage(chatID, "Menyudan foydalaning yoki /start yuboring.", "", nil)
		h.sendMenu(chatID, isAdmin)
	}
}

func (h *UpdateHandler) cmdStart(msg *Message, chatID int64, isAdmin bool) {
	h.state.Clear(chatID)

	if isAdmin {
		h.client.SendMessage(chatID, "🛠 <b>Admin panel</b>", "HTML", AdminMenuKeyboard())
		return
	}

	name := h.users.ProfileName(chatID)
	if name == "" {
		h.state.Set(chatID, &UserState{Step: StepEnterName})
		h.client.SendMessage(chatID,
			"👋 Assalomu alaykum!\n\nIsm va familiyangizni kiriting:", "", nil)
		return
	}

	h.client.SendMessage(chatID,
		fmt.Sprintf("👋 Assalomu alaykum, <b>%s</b>!\n\nKerakli bo'limni tanlang:", name),
		"HTML", StudentMenuKeyboard())
}

func (h *UpdateHandler) sendMenu(chatID int64, isAdmin bool) {
	if isAdmin {
		h.client.SendMessage(chatID, "🛠 <b>Admin panel</b>", "HTML", AdminMenuKeyboard())
		return
	}
	h.client.SendMessage(chatID, "Kerakli bo'limni tanlang:", "", StudentMenuKeyboard())
}

func (h *UpdateHandler) onEnterName(msg *Message, chatID int64, name string) {
	if len(name) < 3 || len(name) > 100 {
		h.client.SendMessage(chatID, "❌ Ism 3 tadan 100 tagacha belgidan iborat bo'lishi kerak. Qaytadan kiriting:", "", nil)
		return
	}

	if _, err := h.users.SaveProfile(chatID, name, msg.From.Username); err != nil {
		log.Printf("[handler] save profile %d: %v", chatID, err)
		h.client.SendMessage(chatID, "Xatolik yuz berdi, qaytadan urinib ko'ring.", "", nil)
		return
	}

	h.state.Clear(chatID)
	h.client.SendMessage(chatID,
		fmt.Sprintf("✅ Xush kelibsiz, <b>%s</b>!\n\nKerakli bo'limni tanlang:", name),
		"HTML", StudentMenuKeyboard())
}

func (h *UpdateHandler) onRename(msg *Message, chatID int64, name string) {
	if len(name) < 3 || len(name) > 100 {
		h.client.SendMessage(chatID, "❌ Ism 3 tadan 100 tagacha belgidan iborat bo'lishi kerak. Qaytadan kiriting:", "", nil)
		return
	}

	used, err := h.users.Rename(chatID, name, msg.From.Username)
	if errors.Is(err, services.ErrNameChangeLimit) {
		h.state.Clear(chatID)
		h.client.SendMessage(chatID,
			fmt.Sprintf("❌ Ismni o'zgartirish limiti tugagan (%d marta).", services.MaxNameChanges),
			"", StudentMenuKeyboard())
		return
	}
	if err != nil {
		log.Printf("[handler] rename %d: %v", chatID, err)
		h.client.SendMessage(chatID, "Xatolik yuz berdi, qaytadan urinib ko'ring.", "", nil)
		return
	}

	h.state.Clear(chatID)
	h.client.SendMessage(chatID,
		fmt.Sprintf("✅ Ism o'zgartirildi: <b>%s</b>\n(%d/%d imkoniyat ishlatildi)", name, used, services.MaxNameChanges),
		"HTML", StudentMenuKeyboard())
}

func (h *UpdateHandler) onTestID(chatID int64, text string) {
	test, err := h.tests.Get(strings.ToUpper(text))
	if errors.Is(err, services.ErrTestNotFound) {
		h.client.SendMessage(chatID, "❌ Bunday ID bilan test topilmadi. Qaytadan kiriting:", "", nil)
		return
	}
	if err != nil {
		log.Printf("[handler] get test %q: %v", text, err)
		h.client.SendMessage(chatID, "Xatolik yuz berdi, qaytadan urinib ko'ring.", "", nil)
		return
	}
	if test.IsHomework {
		h.client.SendMessage(chatID, "❌ Bu uyga vazifa. \"Uyga vazifa\" bo'limidan foydalaning.", "", StudentMenuKeyboard())
		h.state.Clear(chatID)
		return
	}

	h.state.Set(chatID, &UserState{Step: StepTestAnswers, TestID: test.TestID})
	h.client.SendMessage(chatID,
		fmt.Sprintf("📝 <b>%s</b>\n\nJavoblaringizni ketma-ket yuboring (masalan: abcde...):", test.Name),
		"HTML", nil)
}

func (h *UpdateHandler) onTestAnswers(msg *Message, chatID int64, us *UserState, text string) {
	test, err := h.tests.Get(us.TestID)
	if err != nil {
		h.state.Clear(chatID)
		h.client.SendMessage(chatID, "❌ Test topilmadi yoki o'chirilgan.", "", StudentMenuKeyboard())
		return
	}

	submitted := h.grading.ExtractLetters(text)
	if len(submitted) == 0 {
		h.client.SendMessage(chatID, "❌ Javoblar topilmadi. Faqat a-e harflaridan foydalaning va qaytadan yuboring:", "", nil)
		return
	}

	grade := h.grading.Grade(h.tests.Answers(test), submitted)
	name := h.users.ProfileName(chatID)
	if _, err := h.results.Record(chatID, name, msg.From.Username, test.TestID, grade); err != nil {
		log.Printf("[handler] record result %d/%s: %v", chatID, test.TestID, err)
	}

	attempt := h.results.AttemptNumber(chatID, test.TestID)
	h.state.Clear(chatID)
	h.client.SendMessage(chatID,
		fmt.Sprintf("📊 <b>%s</b> natijasi (%d-urinish):\n\n✅ To'g'ri: <b>%d</b>\n❌ Noto'g'ri: <b>%d</b>",
			test.Name, attempt, grade.CorrectCount, grade.IncorrectCount()),
		"HTML", StudentMenuKeyboard())

	h.notifyAdmins(
		fmt.Sprintf("📥 <b>%s</b> (<code>%d</code>) \"%s\" testini topshirdi.\n%d-urinish: ✅ %d / ❌ %d",
			name, chatID, test.Name, attempt, grade.CorrectCount, grade.IncorrectCount()),
		nil)
}

func (h *UpdateHandler) onHomeworkID(chatID int64, text string) {
	hw, err := h.tests.GetHomework(strings.ToUpper(text))
	if errors.Is(err, services.ErrTestNotFound) {
		h.client.SendMessage(chatID, "❌ Bunday ID bilan uyga vazifa topilmadi. Qaytadan kiriting:", "", nil)
		return
	}
	if err != nil {
		log.Printf("[handler] get homework %q: %v", text, err)
		h.client.SendMessage(chatID, "Xatolik yuz berdi, qaytadan urinib ko'ring.", "", nil)
		return
	}

	if err := h.results.RequireFirstAttempt(chatID, hw.TestID); errors.Is(err, services.ErrDuplicateSubmission) {
		h.state.Clear(chatID)
		h.client.SendMessage(chatID,
			"❌ Bu vazifani allaqachon topshirgansiz. Qayta topshirish mumkin emas.",
			"", StudentMenuKeyboard())
		return
	}

	h.state.Set(chatID, &UserState{Step: StepHomeworkAnswers, TestID: hw.TestID, IsHomework: true})
	h.client.SendMessage(chatID,
		fmt.Sprintf("📚 <b>%s</b>\n\nJavoblaringizni raqamlangan ko'rinishda yuboring:\n<code>1a2b3c...30e</code>\n\nBarcha %d ta savol javobi bo'lishi shart.",
			hw.Name, services.HomeworkAnswerCount),
		"HTML", nil)
}

func (h *UpdateHandler) onHomeworkAnswers(msg *Message, chatID int64, us *UserState, text string) {
	hw, err := h.tests.GetHomework(us.TestID)
	if err != nil {
		h.state.Clear(chatID)
		h.client.SendMessage(chatID, "❌ Vazifa topilmadi yoki o'chirilgan.", "", StudentMenuKeyboard())
		return
	}

	submitted, err := h.grading.ExtractNumbered(text)
	if err != nil {
		var incomplete *services.IncompleteAnswerSetError
		if errors.As(err, &incomplete) {
			missing := make([]string, 0, len(incomplete.Missing))
			for _, p := range incomplete.Missing {
				missing = append(missing, strconv.Itoa(p))
			}
			h.client.SendMessage(chatID,
				fmt.Sprintf("❌ Javoblar to'liq emas. Quyidagi savollar javobi yetishmayapti: %s\n\nQaytadan yuboring:",
					strings.Join(missing, ", ")),
				"", nil)
			return
		}
		h.client.SendMessage(chatID,
			"❌ Javoblar formati noto'g'ri. Namuna: <code>1a2b3c...</code>\nQaytadan yuboring:", "HTML", nil)
		return
	}

	grade := h.grading.Grade(h.tests.Answers(hw), submitted)
	name := h.users.ProfileName(chatID)
	if _, err := h.results.Record(chatID, name, msg.From.Username, hw.TestID, grade); err != nil {
		log.Printf("[handler] record homework %d/%s: %v", chatID, hw.TestID, err)
	}

	reply := fmt.Sprintf("📊 <b>%s</b> natijasi:\n\n✅ To'g'ri: <b>%d</b>\n❌ Noto'g'ri: <b>%d</b>",
		hw.Name, grade.CorrectCount, grade.IncorrectCount())
	if len(grade.Incorrect) > 0 {
		var nums []string
		for _, ia := range grade.Incorrect {
			nums = append(nums, strconv.Itoa(ia.Position))
		}
		reply += "\n\nXato savollar: " + strings.Join(nums, ", ")
	}

	h.state.Clear(chatID)
	h.client.SendMessage(chatID, reply, "HTML", StudentMenuKeyboard())

	h.sendVideoIfAny(chatID, hw.TestID)

	h.notifyAdmins(
		fmt.Sprintf("📥 <b>%s</b> (<code>%d</code>) \"%s\" vazifasini topshirdi.\n✅ %d / ❌ %d",
			name, chatID, hw.Name, grade.CorrectCount, grade.IncorrectCount()),
		QuickBlockKeyboard(chatID))
}

func (h *UpdateHandler) notifyAdmins(text string, replyMarkup interface{}) {
	for _, adminID := range h.cfg.AdminIDs {
		if _, err := h.client.SendMessage(adminID, text, "HTML", replyMarkup); err != nil {
			log.Printf("[handler] notify admin %d: %v", adminID, err)
		}
	}
}

func (h *UpdateHandler) sendVideoIfAny(chatID int64, testID string) {
	links, err := h.videos.List()
	if err != nil {
		return
	}
	for _, l := range links {
		if l.TestID == testID {
			h.client.SendMessage(chatID,
				fmt.Sprintf("🎥 Ushbu vazifa yechimi bo'yicha video dars:\n%s", l.URL), "", nil)
			return
		}
	}
}

func isCommand(msg *Message, cmd string) bool {
	if msg.Entities == nil {
		return false
	}
	for _, e := range msg.Entities {
		if e.Type == "bot_command" && e.Offset == 0 {
			cmdText := msg.Text[e.Offset : e.Offset+e.Length]
			cmdText = strings.Split(cmdText, "@")[0]
			return cmdText == "/"+cmd
		}
	}
	return false
}
