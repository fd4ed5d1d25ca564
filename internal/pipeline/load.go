package pipeline

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/tone-cli/internal/model"
)

// requiredTopKeys are the fields every transcript document must carry.
var requiredTopKeys = []string{"call_date", "segments", "ticker"}

// LoadTranscript reads a transcript JSON file and validates its shape.
func LoadTranscript(path string) (*model.Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: read transcript %s", path)
	}
	return ParseTranscript(data)
}

// ParseTranscript validates and decodes a raw transcript document.
// It gates segmentation: the root must be a JSON object carrying ticker,
// call_date, and a segments array. Violations return an error matching
// ErrMalformedTranscript that names the offending key or type.
func ParseTranscript(data []byte) (*model.Transcript, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &WrongTypeError{Key: "$", Want: "object", Got: jsonTypeName(data)}
	}

	var missing []string
	for _, key := range requiredTopKeys {
		if _, ok := raw[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &MissingKeysError{Keys: missing}
	}

	var t model.Transcript
	if err := decodeKey(raw, "segments", "array", &t.Segments); err != nil {
		return nil, err
	}
	if err := decodeKey(raw, "ticker", "string", &t.Ticker); err != nil {
		return nil, err
	}
	if err := decodeKey(raw, "call_date", "string", &t.CallDate); err != nil {
		return nil, err
	}

	return &t, nil
}

// decodeKey unmarshals raw[key] into dst after checking the JSON type.
// The explicit type check matters: json.Unmarshal treats a literal null
// as a no-op for strings and slices, which would let null fields slip
// through validation.
func decodeKey(raw map[string]json.RawMessage, key, want string, dst any) error {
	if got := jsonTypeName(raw[key]); got != want {
		return &WrongTypeError{Key: key, Want: want, Got: got}
	}
	if err := json.Unmarshal(raw[key], dst); err != nil {
		return &WrongTypeError{Key: key, Want: want, Got: jsonTypeName(raw[key])}
	}
	return nil
}

// jsonTypeName reports the JSON type of a raw value for error messages.
func jsonTypeName(data []byte) string {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '{':
			return "object"
		case '[':
			return "array"
		case '"':
			return "string"
		case 't', 'f':
			return "boolean"
		case 'n':
			return "null"
		default:
			return "number"
		}
	}
	return "empty"
}
