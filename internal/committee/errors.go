package committee

import (
	"fmt"
	"strings"
)

// IncompleteResponseError reports a committee response missing the
// top-level "questions" key. KeysPresent lists what arrived instead.
type IncompleteResponseError struct {
	KeysPresent []string
}

func (e *IncompleteResponseError) Error() string {
	return fmt.Sprintf("committee response missing top-level 'questions' key, keys received: [%s]",
		strings.Join(e.KeysPresent, " "))
}

// MissingResultIDsError reports requested question ids with no
// corresponding result. IDs is the full sorted set of missing ids.
type MissingResultIDsError struct {
	IDs []string
}

func (e *MissingResultIDsError) Error() string {
	return fmt.Sprintf("committee response is missing results for question ids: [%s]",
		strings.Join(e.IDs, " "))
}
