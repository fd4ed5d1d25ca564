package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/tone-cli/internal/committee"
	"github.com/sells-group/tone-cli/internal/ontology"
	"github.com/sells-group/tone-cli/internal/pipeline"
	"github.com/sells-group/tone-cli/internal/store"
	anthropicpkg "github.com/sells-group/tone-cli/pkg/anthropic"
)

// pipelineEnv bundles the wired pipeline with its store for cleanup.
type pipelineEnv struct {
	Pipeline *pipeline.Pipeline
	Store    store.Store
}

func (e *pipelineEnv) Close() {
	if e.Store != nil {
		e.Store.Close()
	}
}

// initPipeline wires store, ontology, Anthropic client, and committee
// into a ready pipeline.
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	ont, err := ontology.Load(cfg.Ontology.Path)
	if err != nil {
		st.Close()
		return nil, eris.Wrap(err, "load ontology")
	}

	anthropicClient := anthropicpkg.NewClient(cfg.Anthropic.Key)
	comm := committee.New(anthropicClient, ont, cfg.Anthropic)

	return &pipelineEnv{
		Pipeline: pipeline.New(comm, st),
		Store:    st,
	}, nil
}
