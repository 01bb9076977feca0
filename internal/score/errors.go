package score

import "errors"

var (
	// ErrAlreadyExists is returned by EntryRepository.Create when the task
	// outcome was already recorded.
	ErrAlreadyExists = errors.New("score log entry already exists")
	ErrNotFound      = errors.New("not found")
	ErrInvalidTask   = errors.New("invalid task")
)
