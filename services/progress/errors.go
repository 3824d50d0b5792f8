package progress

import "errors"

var (
	// ErrNotFound means no enrollment/lesson/quiz exists for the given keys
	ErrNotFound = errors.New("record not found")

	// ErrAttemptLimitExceeded means the quiz attempt limit is reached without a pass
	ErrAttemptLimitExceeded = errors.New("quiz attempt limit exceeded")

	// ErrInvalidQuizDefinition means the quiz carries zero total points
	ErrInvalidQuizDefinition = errors.New("quiz has no scorable points")

	// ErrNotEligible means certification criteria are not met
	ErrNotEligible = errors.New("certification criteria not met")

	// ErrMissingPrerequisite means a user/course record needed for the
	// certificate snapshot could not be resolved
	ErrMissingPrerequisite = errors.New("missing prerequisite record")
)
