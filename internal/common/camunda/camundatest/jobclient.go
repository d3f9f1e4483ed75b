// Package camundatest provides an in-memory worker.JobClient for handler tests.
package camundatest

import (
	"context"
	"sync"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"google.golang.org/grpc"
)

// JobClient builds real zeebe commands on top of a gateway that records
// requests instead of sending them.
type JobClient struct {
	gw *gateway
}

func NewJobClient() *JobClient {
	return &JobClient{gw: &gateway{}}
}

// NewJob returns an activated job carrying variables.
func NewJob(key int64, variables string) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{Key: key, Variables: variables}}
}

func noRetry(context.Context, error) bool { return false }

func (c *JobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return commands.NewCompleteJobCommand(c.gw, noRetry)
}

func (c *JobClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	return commands.NewFailJobCommand(c.gw, noRetry)
}

func (c *JobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return commands.NewThrowErrorCommand(c.gw, noRetry)
}

// Completed returns the variables of every completed job, in order.
func (c *JobClient) Completed() []string {
	c.gw.mu.Lock()
	defer c.gw.mu.Unlock()
	out := make([]string, 0, len(c.gw.completed))
	for _, r := range c.gw.completed {
		out = append(out, r.Variables)
	}
	return out
}

// Thrown returns the BPMN error codes thrown, in order.
func (c *JobClient) Thrown() []string {
	c.gw.mu.Lock()
	defer c.gw.mu.Unlock()
	out := make([]string, 0, len(c.gw.thrown))
	for _, r := range c.gw.thrown {
		out = append(out, r.ErrorCode)
	}
	return out
}

// Failed returns the retries left on each failed job.
func (c *JobClient) Failed() []int32 {
	c.gw.mu.Lock()
	defer c.gw.mu.Unlock()
	out := make([]int32, 0, len(c.gw.failed))
	for _, r := range c.gw.failed {
		out = append(out, r.Retries)
	}
	return out
}

// gateway answers the three job commands; any other call panics on the
// nil embedded client.
type gateway struct {
	pb.GatewayClient

	mu        sync.Mutex
	completed []*pb.CompleteJobRequest
	failed    []*pb.FailJobRequest
	thrown    []*pb.ThrowErrorRequest
}

func (g *gateway) CompleteJob(_ context.Context, in *pb.CompleteJobRequest, _ ...grpc.CallOption) (*pb.CompleteJobResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.completed = append(g.completed, in)
	return &pb.CompleteJobResponse{}, nil
}

func (g *gateway) FailJob(_ context.Context, in *pb.FailJobRequest, _ ...grpc.CallOption) (*pb.FailJobResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failed = append(g.failed, in)
	return &pb.FailJobResponse{}, nil
}

func (g *gateway) ThrowError(_ context.Context, in *pb.ThrowErrorRequest, _ ...grpc.CallOption) (*pb.ThrowErrorResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.thrown = append(g.thrown, in)
	return &pb.ThrowErrorResponse{}, nil
}
