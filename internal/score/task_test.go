package score

import (
	"errors"
	"testing"
)

func TestTaskSpecBuildsInboxTaskWithDefaults(t *testing.T) {
	task, err := TaskSpec{Kind: EntrySourceInboxTask, ID: 3, Status: StatusDone, Difficulty: DifficultyMedium}.Task()
	if err != nil {
		t.Fatalf("Task: %v", err)
	}
	it, ok := task.(InboxTask)
	if !ok {
		t.Fatalf("want InboxTask, got %T", task)
	}
	if it.Eisen != EisenRegular || it.Source != SourceUser || it.ID != 3 {
		t.Fatalf("inbox task: %+v", it)
	}
}

func TestTaskSpecBuildsBigPlan(t *testing.T) {
	task, err := TaskSpec{Kind: EntrySourceBigPlan, ID: 8, Status: StatusNotDone, Difficulty: DifficultyHard, Source: SourceSlack}.Task()
	if err != nil {
		t.Fatalf("Task: %v", err)
	}
	bp, ok := task.(BigPlan)
	if !ok || bp.Source != SourceSlack || bp.TaskStatus() != StatusNotDone {
		t.Fatalf("big plan: %#v", task)
	}
}

func TestTaskSpecRejectsBadInput(t *testing.T) {
	cases := map[string]TaskSpec{
		"missing id": {Kind: EntrySourceInboxTask, Status: StatusDone, Difficulty: DifficultyEasy},
		"bad kind":   {Kind: "habit", ID: 1, Status: StatusDone, Difficulty: DifficultyEasy},
		"bad status": {Kind: EntrySourceBigPlan, ID: 1, Status: "finished", Difficulty: DifficultyEasy},
		"bad diff":   {Kind: EntrySourceBigPlan, ID: 1, Status: StatusDone, Difficulty: "epic"},
		"bad eisen":  {Kind: EntrySourceInboxTask, ID: 1, Status: StatusDone, Difficulty: DifficultyEasy, Eisen: "later"},
		"bad source": {Kind: EntrySourceInboxTask, ID: 1, Status: StatusDone, Difficulty: DifficultyEasy, Source: "fax"},
	}
	for name, spec := range cases {
		if _, err := spec.Task(); !errors.Is(err, ErrInvalidTask) {
			t.Fatalf("%s: want ErrInvalidTask, got %v", name, err)
		}
	}
}
