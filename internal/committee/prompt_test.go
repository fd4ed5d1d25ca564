package committee

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSystemPrompt(t *testing.T) {
	ont := testOntology(t)
	prompt := BuildSystemPrompt(ont)

	for _, name := range ont.CategoryNames() {
		assert.Contains(t, prompt, "### "+name)
	}
	assert.Contains(t, prompt, "PraiseAgent")
	assert.Contains(t, prompt, "SkepticAgent")
	assert.Contains(t, prompt, "NeutralAgent")
	assert.Contains(t, prompt, "risk_vectors")
	assert.Contains(t, prompt, `"tone_score"`)

	// Categories render in deterministic sorted order.
	names := ont.CategoryNames()
	require.True(t, len(names) >= 2)
	assert.Less(t,
		strings.Index(prompt, "### "+names[0]),
		strings.Index(prompt, "### "+names[1]),
	)
}

func TestBuildSystemPrompt_Deterministic(t *testing.T) {
	ont := testOntology(t)
	assert.Equal(t, BuildSystemPrompt(ont), BuildSystemPrompt(ont))
}
