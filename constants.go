package auth

// Shared platform enums. The live-session and question subsystems own
// the transition logic for these; they are carried here so every
// service speaks the same vocabulary.

// QuestionType identifies how a question collects answers.
type QuestionType string

const (
	QuestionTypeSC        QuestionType = "SC"
	QuestionTypeMC        QuestionType = "MC"
	QuestionTypeFree      QuestionType = "FREE"
	QuestionTypeFreeRange QuestionType = "FREE_RANGE"
)

// QuestionGroups bundle question types by answer shape.
var (
	QuestionGroupChoices     = []QuestionType{QuestionTypeSC, QuestionTypeMC}
	QuestionGroupFree        = []QuestionType{QuestionTypeFree, QuestionTypeFreeRange}
	QuestionGroupWithOptions = []QuestionType{QuestionTypeSC, QuestionTypeMC, QuestionTypeFreeRange}
)

// QuestionBlockStatus is the lifecycle of one block within a session.
type QuestionBlockStatus string

const (
	QuestionBlockPlanned  QuestionBlockStatus = "PLANNED"
	QuestionBlockActive   QuestionBlockStatus = "ACTIVE"
	QuestionBlockExecuted QuestionBlockStatus = "EXECUTED"
)

// SessionStatus is the lifecycle of a live question session.
type SessionStatus string

const (
	SessionStatusCreated   SessionStatus = "CREATED"
	SessionStatusRunning   SessionStatus = "RUNNING"
	SessionStatusPaused    SessionStatus = "PAUSED"
	SessionStatusCompleted SessionStatus = "COMPLETED"
)

// SessionAction is a presenter command against a session.
type SessionAction string

const (
	SessionActionStart SessionAction = "START"
	SessionActionPause SessionAction = "PAUSE"
	SessionActionStop  SessionAction = "STOP"
)
