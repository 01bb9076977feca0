package score

import "fmt"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Eisen is the Eisenhower category of an inbox task.
type Eisen string

const (
	EisenRegular            Eisen = "regular"
	EisenImportant          Eisen = "important"
	EisenUrgent             Eisen = "urgent"
	EisenImportantAndUrgent Eisen = "important-and-urgent"
)

// Status is the lifecycle state of a task. Done and NotDone are both
// completion states; only Done counts as a success.
type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusAccepted   Status = "accepted"
	StatusWorking    Status = "working"
	StatusBlocked    Status = "blocked"
	StatusDone       Status = "done"
	StatusNotDone    Status = "not-done"
)

func (s Status) IsCompleted() bool {
	return s == StatusDone || s == StatusNotDone
}

// Source is the channel a task originated from.
type Source string

const (
	SourceUser           Source = "user"
	SourceSlack          Source = "slack"
	SourceEmail          Source = "email"
	SourceHabit          Source = "habit"
	SourceChore          Source = "chore"
	SourceMetric         Source = "metric"
	SourcePersonBirthday Source = "person-birthday"
	SourcePersonCatchUp  Source = "person-catch-up"
)

// UserOriginated reports whether a person, not a recurring generator,
// created the task.
func (s Source) UserOriginated() bool {
	switch s {
	case SourceUser, SourceSlack, SourceEmail:
		return true
	default:
		return false
	}
}

// Task is a completed unit of work. It is either an InboxTask or a BigPlan.
type Task interface {
	TaskID() uint64
	TaskStatus() Status
	entrySource() EntrySource
}

type InboxTask struct {
	ID         uint64
	Status     Status
	Difficulty Difficulty
	Eisen      Eisen
	Source     Source
}

func (t InboxTask) TaskID() uint64           { return t.ID }
func (t InboxTask) TaskStatus() Status       { return t.Status }
func (t InboxTask) entrySource() EntrySource { return EntrySourceInboxTask }

type BigPlan struct {
	ID         uint64
	Status     Status
	Difficulty Difficulty
	Source     Source
}

func (t BigPlan) TaskID() uint64           { return t.ID }
func (t BigPlan) TaskStatus() Status       { return t.Status }
func (t BigPlan) entrySource() EntrySource { return EntrySourceBigPlan }

// TaskSpec is the wire form of a Task, as accepted over HTTP and stored in
// job payloads.
type TaskSpec struct {
	Kind       EntrySource `json:"kind"`
	ID         uint64      `json:"id"`
	Status     Status      `json:"status"`
	Difficulty Difficulty  `json:"difficulty"`
	Eisen      Eisen       `json:"eisen,omitempty"`
	Source     Source      `json:"source,omitempty"`
}

// Task validates s and builds the matching Task. An empty source
// means the user.
func (s TaskSpec) Task() (Task, error) {
	if s.ID == 0 {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidTask)
	}
	if !s.Status.valid() {
		return nil, fmt.Errorf("%w: status %q", ErrInvalidTask, string(s.Status))
	}
	if _, err := difficultyWeight(s.Difficulty); err != nil {
		return nil, err
	}
	src := s.Source
	if src == "" {
		src = SourceUser
	}
	if !src.valid() {
		return nil, fmt.Errorf("%w: source %q", ErrInvalidTask, string(src))
	}

	switch s.Kind {
	case EntrySourceInboxTask:
		eisen := s.Eisen
		if eisen == "" {
			eisen = EisenRegular
		}
		if _, err := eisenBonus(eisen); err != nil {
			return nil, err
		}
		return InboxTask{ID: s.ID, Status: s.Status, Difficulty: s.Difficulty, Eisen: eisen, Source: src}, nil
	case EntrySourceBigPlan:
		return BigPlan{ID: s.ID, Status: s.Status, Difficulty: s.Difficulty, Source: src}, nil
	default:
		return nil, fmt.Errorf("%w: kind %q", ErrInvalidTask, string(s.Kind))
	}
}

func (s Status) valid() bool {
	switch s {
	case StatusNotStarted, StatusAccepted, StatusWorking, StatusBlocked, StatusDone, StatusNotDone:
		return true
	default:
		return false
	}
}

func (s Source) valid() bool {
	switch s {
	case SourceUser, SourceSlack, SourceEmail, SourceHabit, SourceChore,
		SourceMetric, SourcePersonBirthday, SourcePersonCatchUp:
		return true
	default:
		return false
	}
}
