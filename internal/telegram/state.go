package telegram

import "sync"

// Step enumerates the conversation states. Every transition goes
// through the StateManager, never through ad-hoc string tags.
type Step string

const (
	StepNone Step = ""

	// student flows
	StepEnterName       Step = "enter_name"
	StepRename          Step = "rename"
	StepTestID          Step = "test_id"
	StepTestAnswers     Step = "test_answers"
	StepHomeworkID      Step = "homework_id"
	StepHomeworkAnswers Step = "homework_answers"

	// admin flows
	StepAdminTestName        Step = "admin_test_name"
	StepAdminTestAnswers     Step = "admin_test_answers"
	StepAdminHomeworkName    Step = "admin_homework_name"
	StepAdminHomeworkAnswers Step = "admin_homework_answers"
	StepAdminQuizPhoto       Step = "admin_quiz_photo"
	StepAdminVideoTestID     Step = "admin_video_test_id"
	StepAdminVideoURL        Step = "admin_video_url"
	StepAdminBlockTarget     Step = "admin_block_target"
	StepAdminUnblockTarget   Step = "admin_unblock_target"
	StepAdminCardNumber      Step = "admin_card_number"
	StepAdminCardOwner       Step = "admin_card_owner"
	StepAdminCardBank        Step = "admin_card_bank"
	StepAdminBroadcast       Step = "admin_broadcast"
)

// UserState carries the in-flight data of one user's conversation.
type UserState struct {
	Step Step

	// content being submitted or created
	TestID     string
	TestName   string
	IsHomework bool

	// quiz creation
	QuizFileID   string
	QuizFilePath string

	// video attachment
	VideoTestID string

	// card creation
	CardNumber string
	CardOwner  string
}

// StateManager is the injected per-user session store. Handlers never
// hold conversation state themselves.
type StateManager struct {
	mu    sync.RWMutex
	users map[int64]*UserState
}

func NewStateManager() *StateManager {
	return &StateManager{
		users: make(map[int64]*UserState),
	}
}

func (m *StateManager) Get(userID int64) *UserState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.users[userID]
	if !ok {
		return &UserState{}
	}
	cp := *s
	return &cp
}

func (m *StateManager) Set(userID int64, state *UserState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[userID] = state
}

func (m *StateManager) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, userID)
}

func (m *StateManager) UpdateField(userID int64, fn func(s *UserState)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.users[userID]
	if !ok {
		s = &UserState{}
		m.users[userID] = s
	}
	fn(s)
}
