package sim

import "context"

// Job is one run in a batch. Jobs may share a thrust source.
type Job struct {
	Name   string
	Sim    *Simulator
	Config Config
}

type Outcome struct {
	Name   string
	Result *Result
	Err    error
}

// RunBatch runs the jobs one after another and returns outcomes in job
// order. A failed job does not stop the batch; a cancelled context marks
// every remaining job with the context error.
func RunBatch(ctx context.Context, jobs []Job) []Outcome {
	out := make([]Outcome, len(jobs))
	for i, j := range jobs {
		out[i].Name = j.Name
		if err := ctx.Err(); err != nil {
			out[i].Err = err
			continue
		}
		out[i].Result, out[i].Err = j.Sim.Run(ctx, j.Config)
	}
	return out
}
