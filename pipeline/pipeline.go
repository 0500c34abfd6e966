// Package pipeline orchestrates the post-alignment processing of
// ChIP/CUT&Tag samples: read-group tagging, duplicate removal, peak
// calling, and QC reporting. All heavy lifting is delegated to external
// tools; this package owns ordering, paths, and result collection.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/michal7kw/chipflow/config"
	"github.com/michal7kw/chipflow/logger"
	"github.com/michal7kw/chipflow/util"
	"github.com/michal7kw/chipflow/util/shell"
)

// Pipeline runs the fixed stage sequence for each configured sample.
type Pipeline struct {
	conf   config.Config
	layout Layout
	log    *logger.Logger
	shell  shell.Runner
}

// New returns a Pipeline for the given configuration.
func New(conf config.Config, log *logger.Logger) *Pipeline {
	return &Pipeline{
		conf:   conf,
		layout: NewLayout(conf),
		log:    log,
		shell:  &shell.CmdRunner{Log: log},
	}
}

// Stages returns the stage sequence for one sample, in execution order:
// tag, dedup, callpeaks, qc.
func (p *Pipeline) Stages(sample string) []Stage {
	return []Stage{
		&TagStage{
			Sample:    sample,
			Layout:    p.layout,
			ReadGroup: p.conf.ReadGroup,
			Tools:     p.conf.Tools,
			Shell:     p.shell,
		},
		&DedupStage{
			Sample: sample,
			Layout: p.layout,
			Dedup:  p.conf.Dedup,
			Tools:  p.conf.Tools,
			Shell:  p.shell,
		},
		&CallPeaksStage{
			Sample: sample,
			Layout: p.layout,
			Peaks:  p.conf.Peaks,
			Tools:  p.conf.Tools,
			Shell:  p.shell,
		},
		&QCStage{
			Sample: sample,
			Layout: p.layout,
			Tools:  p.conf.Tools,
			Shell:  p.shell,
		},
	}
}

// Run processes every configured sample sequentially. A stage failure is
// recorded and, unless ContinueOnError is disabled, the remaining stages
// are still attempted against the documented paths. The returned error
// aggregates every stage failure of the run.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := p.conf.Valid(); err != nil {
		return err
	}

	runID := util.GenRunID()
	log := p.log.WithFields("runID", runID)
	log.Info("starting pipeline",
		"resultsDir", p.conf.ResultsDir,
		"samples", fmt.Sprintf("%v", p.conf.Samples),
		"continueOnError", p.conf.ContinueOnError)

	var result *multierror.Error

	for _, sample := range p.conf.Samples {
		slog := log.WithFields("sample", sample)

		for _, stage := range p.Stages(sample) {
			if err := ctx.Err(); err != nil {
				result = multierror.Append(result, err)
				return result.ErrorOrNil()
			}

			stlog := slog.WithFields("stage", stage.Name())
			start := time.Now()
			stlog.Info("stage started")

			err := stage.Run(ctx)
			elapsed := time.Since(start)

			if err != nil {
				stlog.Error("stage failed", "error", err, "elapsed", elapsed.String())
				result = multierror.Append(result,
					fmt.Errorf("sample %s: %s stage: %w", sample, stage.Name(), err))
				if !p.conf.ContinueOnError {
					return result.ErrorOrNil()
				}
				continue
			}
			stlog.Info("stage finished", "elapsed", elapsed.String())
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		log.Error("pipeline finished with errors", err)
		return err
	}
	log.Info("pipeline finished")
	return nil
}
