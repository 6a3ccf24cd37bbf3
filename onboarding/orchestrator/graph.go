package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"

	nodex "github.com/tanpawarit/salon-onboarding-mcp/onboarding/nodes"
)

func (o *Orchestrator) compileBatchGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, o.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("load_session",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.LoadSession(ctx, in, o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node load_session: %w", err)
	}

	if err := graph.AddLambdaNode("check_phase",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.CheckPhase(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node check_phase: %w", err)
	}

	if err := graph.AddLambdaNode("prepare_rows",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.PrepareRows(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node prepare_rows: %w", err)
	}

	if err := graph.AddLambdaNode("execute_rows",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ExecuteRows(ctx, in, o.remote, o.concurrency)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node execute_rows: %w", err)
	}

	if err := graph.AddLambdaNode("apply_checkpoint",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ApplyCheckpoint(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node apply_checkpoint: %w", err)
	}

	if err := graph.AddLambdaNode("save_session",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ValidateAndSaveSession(ctx, in, o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node save_session: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_summary",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeSummary(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_summary: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "load_session"},
		{"load_session", "check_phase"},
		{"check_phase", "prepare_rows"},
		{"prepare_rows", "execute_rows"},
		{"execute_rows", "apply_checkpoint"},
		{"apply_checkpoint", "save_session"},
		{"save_session", "finalize_summary"},
		{"finalize_summary", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("onboarding.batch"))
	if err != nil {
		return nil, fmt.Errorf("compile batch graph: %w", err)
	}
	return runner, nil
}

func (o *Orchestrator) compileRollbackGraph(
	ctx context.Context,
) (compose.Runnable[nodex.RollbackInput, nodex.RollbackOutput], error) {
	graph := compose.NewGraph[nodex.RollbackInput, nodex.RollbackOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.RollbackInput) (*nodex.GraphState, error) {
			return nodex.ValidateRollbackRequest(in, o.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("load_session",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.LoadSession(ctx, in, o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node load_session: %w", err)
	}

	if err := graph.AddLambdaNode("delete_entities",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.DeleteEntities(ctx, in, o.remote)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node delete_entities: %w", err)
	}

	if err := graph.AddLambdaNode("apply_rollback",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ApplyRollback(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node apply_rollback: %w", err)
	}

	if err := graph.AddLambdaNode("save_session",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ValidateAndSaveSession(ctx, in, o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node save_session: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_rollback",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.RollbackOutput, error) {
			return nodex.FinalizeRollback(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_rollback: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "load_session"},
		{"load_session", "delete_entities"},
		{"delete_entities", "apply_rollback"},
		{"apply_rollback", "save_session"},
		{"save_session", "finalize_rollback"},
		{"finalize_rollback", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("onboarding.rollback_phase"))
	if err != nil {
		return nil, fmt.Errorf("compile rollback graph: %w", err)
	}
	return runner, nil
}

// nodeError strips the graph runner's framing and returns the error the
// failing node produced.
func nodeError(err error) error {
	for e := err; e != nil; e = errors.Unwrap(e) {
		msg := e.Error()
		if !strings.HasPrefix(msg, "[NodeRunError]") && !strings.HasPrefix(msg, "[GraphRunError]") {
			return e
		}
	}
	return err
}
