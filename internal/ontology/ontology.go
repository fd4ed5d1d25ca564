// Package ontology loads the YAML tone ontology that grounds the
// committee's scoring: the three categorical tone labels plus the
// lexical cues and ritual-politeness phrases attached to each.
package ontology

import (
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/tone-cli/internal/model"
)

// expectedCategories are the labels every ontology must define.
var expectedCategories = []model.Label{
	model.LabelPraiseSupport,
	model.LabelSkepticismDisappointment,
	model.LabelNeutral,
}

// Category describes one tone label: what it means, the phrasing that
// signals it, and the politeness phrases that must not count toward it.
type Category struct {
	Description            string   `yaml:"description"`
	LexicalCues            []string `yaml:"lexical_cues"`
	QuestionIntentPatterns []string `yaml:"question_intent_patterns"`
	IgnorePhrases          []string `yaml:"ignore_phrases"`
}

// Ontology is the full tone ontology document.
type Ontology struct {
	Version    string              `yaml:"version"`
	Categories map[string]Category `yaml:"categories"`
}

// CategoryNames returns the category names in sorted order, for
// deterministic prompt construction.
func (o *Ontology) CategoryNames() []string {
	names := make([]string, 0, len(o.Categories))
	for name := range o.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load parses the ontology file at path and validates its structure.
func Load(path string) (*Ontology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ontology: read %s", path)
	}

	var o Ontology
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, eris.Wrap(err, "ontology: parse yaml")
	}

	if o.Version == "" {
		return nil, eris.New("ontology: missing required key 'version'")
	}
	if len(o.Categories) == 0 {
		return nil, eris.New("ontology: missing required key 'categories'")
	}

	var missing []string
	for _, label := range expectedCategories {
		if _, ok := o.Categories[string(label)]; !ok {
			missing = append(missing, string(label))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, eris.Errorf("ontology: missing expected categories: %v", missing)
	}

	for name, c := range o.Categories {
		switch {
		case c.Description == "":
			return nil, eris.Errorf("ontology: category %q is missing 'description'", name)
		case len(c.LexicalCues) == 0:
			return nil, eris.Errorf("ontology: category %q is missing 'lexical_cues'", name)
		case len(c.QuestionIntentPatterns) == 0:
			return nil, eris.Errorf("ontology: category %q is missing 'question_intent_patterns'", name)
		case len(c.IgnorePhrases) == 0:
			return nil, eris.Errorf("ontology: category %q is missing 'ignore_phrases'", name)
		}
	}

	return &o, nil
}
