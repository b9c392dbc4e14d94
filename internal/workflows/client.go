package workflows

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"
)

// Discoveries starts discovery workflows and reads their progress.
type Discoveries struct {
	client    client.Client
	taskQueue string
}

func NewDiscoveries(c client.Client, taskQueue string) *Discoveries {
	return &Discoveries{client: c, taskQueue: taskQueue}
}

func (d *Discoveries) Start(ctx context.Context, in DiscoveryInput) (string, error) {
	id := "discovery-" + in.SessionID + "-" + uuid.NewString()
	run, err := d.client.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:                    id,
		TaskQueue:             d.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
	}, DiscoveryWorkflow, in)
	if err != nil {
		return "", fmt.Errorf("start discovery workflow: %w", err)
	}
	return run.GetID(), nil
}

func (d *Discoveries) Progress(ctx context.Context, workflowID string) (DiscoveryProgress, error) {
	resp, err := d.client.QueryWorkflow(ctx, workflowID, "", QueryGetProgress)
	if err != nil {
		return DiscoveryProgress{}, fmt.Errorf("query discovery %s: %w", workflowID, err)
	}
	var p DiscoveryProgress
	if err := resp.Get(&p); err != nil {
		return DiscoveryProgress{}, fmt.Errorf("decode discovery progress: %w", err)
	}
	return p, nil
}
