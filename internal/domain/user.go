package domain

// UserState represents a chat's current interaction state
type UserState string

const (
	StateIdle           UserState = "idle"
	StateWaitingWord    UserState = "waiting_word"
	StateWaitingMeaning UserState = "waiting_meaning"
	StateReviewing      UserState = "reviewing"
)

// StateData holds temporary data for a chat's current state
type StateData struct {
	State       UserState
	CurrentWord string
	Review      *Word // record shown for grading
}

// BotUser links a chat to the credentials it logged in with
type BotUser struct {
	ChatID int64  `db:"chat_id"`
	Email  string `db:"email"`
	Token  string `db:"token"`
}
