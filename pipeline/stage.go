package pipeline

import "context"

// Stage is a single pipeline step. Each stage wraps one external tool
// invocation and reports success or failure; the pipeline decides what
// to do with a failure.
type Stage interface {
	Name() string
	Run(ctx context.Context) error
}
