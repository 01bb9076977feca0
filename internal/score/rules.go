package score

import "fmt"

const (
	bigPlanBaseScore     = 5
	luckyPuppyMultiplier = 10
)

func difficultyWeight(d Difficulty) (int, error) {
	switch d {
	case DifficultyEasy:
		return 1, nil
	case DifficultyMedium:
		return 2, nil
	case DifficultyHard:
		return 3, nil
	default:
		return 0, fmt.Errorf("%w: difficulty %q", ErrInvalidTask, string(d))
	}
}

func eisenBonus(e Eisen) (int, error) {
	switch e {
	case EisenRegular:
		return 0, nil
	case EisenImportant, EisenUrgent:
		return 1, nil
	case EisenImportantAndUrgent:
		return 2, nil
	default:
		return 0, fmt.Errorf("%w: eisen %q", ErrInvalidTask, string(e))
	}
}

// InboxTaskScore is difficulty weight plus the Eisenhower bonus, negated
// when the task was not a success.
func InboxTaskScore(d Difficulty, e Eisen, success bool) (int, error) {
	w, err := difficultyWeight(d)
	if err != nil {
		return 0, err
	}
	b, err := eisenBonus(e)
	if err != nil {
		return 0, err
	}
	return signed(w+b, success), nil
}

// BigPlanScore is five times the difficulty weight, negated when the plan
// was not a success.
func BigPlanScore(d Difficulty, success bool) (int, error) {
	w, err := difficultyWeight(d)
	if err != nil {
		return 0, err
	}
	return signed(bigPlanBaseScore*w, success), nil
}

func signed(v int, success bool) int {
	if success {
		return v
	}
	return -v
}

// applyLuckyPuppy multiplies a successful, user-originated score when luck
// strikes. Luck is only consulted for eligible scores.
func applyLuckyPuppy(score int, success bool, src Source, luck Luck) (int, *bool) {
	if !success || !src.UserOriginated() || luck == nil {
		return score, nil
	}
	if !luck.Lucky() {
		return score, nil
	}
	lucky := true
	return score * luckyPuppyMultiplier, &lucky
}
