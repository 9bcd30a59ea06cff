// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// dispatcher.go coordinates the worker pool. Workers finish in any
// order; the dispatcher holds completed jobs in a pending map keyed by
// seq and flushes contiguous results from next-to-flush on, so the
// user-visible output always appears in submission order.

package parallel

import (
	"io"
	"os"
	"sort"
	"sync"

	"github.com/hurlgo/hurl/client"
)

// OutputType selects what a worker buffers as job stdout.
type OutputType uint8

// The output types.
const (
	OutputNone OutputType = iota
	OutputStdout
	OutputFilePerJob
)

// Options configure a parallel run.
type Options struct {
	// Workers is the pool size. Defaults to 1.
	Workers int

	// Repeat runs the whole job list that many times; -1 forever.
	// Defaults to 1.
	Repeat int

	// FailFast stops accepting new jobs after the first failed one;
	// in-flight jobs complete and flush.
	FailFast bool

	// Output selects the job stdout content.
	Output OutputType

	// Test enables the per-file verdict lines.
	Test bool

	// Verbose raises the worker log level.
	Verbose bool

	// RateLimiter, when set, paces every HTTP request of the run.
	RateLimiter *RateLimiter

	// Parse parses script files. Required.
	Parse ParseFunc

	// NewClient builds the per-worker HTTP client. Defaults to
	// client.New.
	NewClient func() client.Client

	// Stdout and Stderr receive the ordered output. Default to the
	// process streams.
	Stdout io.Writer
	Stderr io.Writer

	// Progress, when set, is repainted as jobs run and complete.
	Progress *Progress

	// Stop signals a graceful shutdown: no new jobs start, in-flight
	// jobs complete and flush in order.
	Stop <-chan struct{}
}

// Report is the outcome of a parallel run.
type Report struct {
	// Results in submission (seq) order. With FailFast or Stop, jobs
	// never dispatched are absent.
	Results []*JobResult

	// Metrics of the whole run.
	Metrics *Metrics
}

// Success reports whether every executed job succeeded.
func (r *Report) Success() bool {
	for _, res := range r.Results {
		if !res.Success() {
			return false
		}
	}
	return true
}

// Run executes jobs on a pool of workers and returns once every
// dispatched job has completed and flushed.
func Run(jobs []*Job, opts *Options) *Report {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	repeat := opts.Repeat
	if repeat == 0 {
		repeat = 1
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	newClient := opts.NewClient
	if newClient == nil {
		newClient = func() client.Client { return client.New() }
	}

	metrics := NewMetrics()
	queue := NewJobQueue(jobs, repeat)

	// Bounded channel: the feeder blocks once every worker is busy
	// and one job is staged per worker.
	jobsCh := make(chan *Job, workers)
	resultsCh := make(chan *JobResult)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		w := &worker{
			id:      i,
			client:  newClient(),
			parse:   opts.Parse,
			limiter: opts.RateLimiter,
			metrics: metrics,
			output:  opts.Output,
			test:    opts.Test,
			verbose: opts.Verbose,
		}
		wg.Add(1)
		go w.run(jobsCh, resultsCh, &wg)
	}

	// Feeder: pulls from the queue until exhausted, closed or stopped.
	go func() {
		defer close(jobsCh)
		for {
			select {
			case <-opts.Stop:
				queue.Close()
				return
			default:
			}
			job := queue.Next()
			if job == nil {
				return
			}
			select {
			case jobsCh <- job:
			case <-opts.Stop:
				queue.Close()
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	// Dispatcher loop: collect, account, flush in submission order.
	pending := make(map[int]*JobResult)
	nextToFlush := 0
	var results []*JobResult

	total := queue.Size()
	running := 0

	for res := range resultsCh {
		metrics.Increment(CounterJobsCompleted)
		if res.Success() {
			metrics.Increment(CounterJobsSuccessful)
		} else {
			metrics.Increment(CounterJobsFailed)
			if opts.FailFast {
				queue.Close()
			}
		}
		results = append(results, res)

		if opts.Progress != nil {
			running = metrics.Counter(CounterJobsCompleted)
			opts.Progress.Paint(running, total)
		}

		pending[res.Job.Seq] = res
		for {
			r, ok := pending[nextToFlush]
			if !ok {
				break
			}
			flush(r, stdout, stderr)
			delete(pending, nextToFlush)
			nextToFlush++
		}
	}

	// Jobs after a fail-fast close leave seq gaps; flush the stragglers
	// in order.
	if len(pending) > 0 {
		seqs := make([]int, 0, len(pending))
		for seq := range pending {
			seqs = append(seqs, seq)
		}
		sort.Ints(seqs)
		for _, seq := range seqs {
			flush(pending[seq], stdout, stderr)
		}
	}

	if opts.Progress != nil {
		opts.Progress.Done()
	}

	sort.Slice(results, func(a, b int) bool {
		return results[a].Job.Seq < results[b].Job.Seq
	})
	return &Report{Results: results, Metrics: metrics}
}

// flush writes a job's buffered output to the real streams.
func flush(res *JobResult, stdout, stderr io.Writer) {
	if len(res.Stdout) > 0 {
		stdout.Write(res.Stdout)
	}
	if len(res.Stderr) > 0 {
		stderr.Write(res.Stderr)
	}
}
