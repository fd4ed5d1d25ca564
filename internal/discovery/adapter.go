package discovery

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/tone-cli/internal/model"
	"github.com/sells-group/tone-cli/pkg/ninjas"
)

// Role-guessing patterns for plain-text transcripts where the provider
// gives no structured speaker_type.
var (
	mgmtRe = regexp.MustCompile(`(?i)\b(ceo|cfo|coo|cto|president|chairman|chief|evp|svp|vp|` +
		`director|head of|treasurer|controller|secretary|ir\b|investor relations)\b`)
	operatorRe = regexp.MustCompile(`(?i)\b(operator|moderator|conference|coordinator)\b`)

	// "Speaker Name:" prefixes at line starts in free-tier transcripts.
	speakerPrefixRe = regexp.MustCompile(`(?m)^([A-Z][A-Za-z .'\-]+):[ \t]*`)
)

// NormalizeSymbol upper-cases a ticker and replaces dots with hyphens
// (BRK.B becomes BRK-B) so the symbol is safe for directory names.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.ReplaceAll(symbol, ".", "-"))
}

var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeSpeaker strips combining accents and collapses whitespace so
// the same analyst is named identically across providers.
func normalizeSpeaker(name string) string {
	folded, _, err := transform.String(accentFolder, name)
	if err != nil {
		folded = name
	}
	return strings.Join(strings.Fields(folded), " ")
}

// guessRole maps a speaker to management, analyst, or operator from
// name and title text. Unrecognized speakers default to analyst.
func guessRole(speaker, title string) model.Role {
	combined := speaker + " " + title
	if operatorRe.MatchString(combined) {
		return model.RoleOperator
	}
	if mgmtRe.MatchString(combined) {
		return model.RoleManagement
	}
	return model.RoleAnalyst
}

// Adapt converts a provider transcript into the local segment schema.
// Structured transcript_split entries are used when present; otherwise
// the plain transcript text is split on "Speaker Name:" prefixes with
// heuristic role guessing. A transcript with neither field is an error.
func Adapt(raw *ninjas.RawTranscript, ticker, callDate string) (*model.Transcript, error) {
	t := &model.Transcript{Ticker: ticker, CallDate: callDate}

	if len(raw.TranscriptSplit) > 0 {
		for _, entry := range raw.TranscriptSplit {
			text := strings.TrimSpace(entry.Text)
			if text == "" {
				continue
			}
			speaker := normalizeSpeaker(entry.Speaker)
			if speaker == "" {
				speaker = "Unknown"
			}

			var role model.Role
			switch strings.ToLower(entry.SpeakerType) {
			case "investor":
				role = model.RoleAnalyst
			case "management":
				role = model.RoleManagement
			case "operator":
				role = model.RoleOperator
			default:
				role = guessRole(speaker, entry.Role)
			}

			t.Segments = append(t.Segments, model.Turn{Speaker: speaker, Role: role, Text: text})
		}
		return t, nil
	}

	if raw.Transcript == "" {
		return nil, eris.Errorf(
			"discovery: transcript for %s on %s has neither transcript_split nor transcript",
			ticker, callDate,
		)
	}

	matches := speakerPrefixRe.FindAllStringSubmatchIndex(raw.Transcript, -1)
	if len(matches) == 0 {
		// No speaker markers: keep the call as one management block so
		// the file at least loads.
		t.Segments = append(t.Segments, model.Turn{
			Speaker: "Unknown",
			Role:    model.RoleManagement,
			Text:    strings.TrimSpace(raw.Transcript),
		})
		return t, nil
	}

	for i, m := range matches {
		speaker := normalizeSpeaker(raw.Transcript[m[2]:m[3]])
		end := len(raw.Transcript)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		text := strings.TrimSpace(raw.Transcript[m[1]:end])
		if text == "" {
			continue
		}
		t.Segments = append(t.Segments, model.Turn{
			Speaker: speaker,
			Role:    guessRole(speaker, ""),
			Text:    text,
		})
	}
	return t, nil
}
