package committee

import (
	"encoding/json"
	"errors"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/tone-cli/internal/model"
)

// errBadJSON marks a committee reply that could not be decoded as JSON.
// The scoring loop retries these; contract violations it does not.
var errBadJSON = errors.New("committee: response is not valid JSON")

// ValidateResponse gates a raw committee reply before it is trusted.
// It fails with IncompleteResponseError when the "questions" key is
// absent and with MissingResultIDsError when any requested id has no
// result. Extra, unrequested ids are accepted and passed through. The
// response is never mutated.
func ValidateResponse(requested []string, raw []byte) (*model.BatchResponse, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, eris.Wrapf(errBadJSON, "decode object: %v", err)
	}

	questionsRaw, ok := top["questions"]
	if !ok {
		keys := make([]string, 0, len(top))
		for k := range top {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return nil, &IncompleteResponseError{KeysPresent: keys}
	}

	var results []model.QuestionResult
	if err := json.Unmarshal(questionsRaw, &results); err != nil {
		return nil, eris.Wrapf(errBadJSON, "decode question results: %v", err)
	}

	returned := make(map[string]bool, len(results))
	for _, r := range results {
		returned[r.ID] = true
	}

	var missing []string
	for _, id := range requested {
		if !returned[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &MissingResultIDsError{IDs: missing}
	}

	return &model.BatchResponse{Questions: results}, nil
}
