// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// worker.go is the job executor of the pool. Each worker owns its HTTP
// client (connection reuse across jobs) and buffers the stdout/stderr
// of every job so the dispatcher can flush them in submission order.

package parallel

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/hurlgo/hurl/client"
	"github.com/hurlgo/hurl/runner"
	"github.com/hurlgo/hurl/script"
)

// ParseFunc parses one script file. Script parsing is an external
// collaborator; the dispatcher only consumes the resulting AST.
type ParseFunc func(filename string) (*script.Script, error)

// worker runs jobs from the queue channel until it closes.
type worker struct {
	id      int
	client  client.Client
	parse   ParseFunc
	limiter *RateLimiter
	metrics *Metrics
	output  OutputType
	test    bool
	verbose bool
}

func (w *worker) run(jobs <-chan *Job, results chan<- *JobResult, wg *sync.WaitGroup) {
	defer wg.Done()
	for job := range jobs {
		results <- w.execute(job)
	}
}

// execute runs a single job with buffered output.
func (w *worker) execute(job *Job) *JobResult {
	timer := w.metrics.StartTimer("job_duration")
	defer timer.Stop()

	res := &JobResult{Job: job}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	s, err := w.parse(job.Filename)
	if err != nil {
		res.ParseErr = err
		fmt.Fprintf(stderr, "error: %s: %s\n", job.Filename, err)
		res.Stdout, res.Stderr = stdout.Bytes(), stderr.Bytes()
		return res
	}

	opts := runner.Options{}
	if job.RunnerOptions != nil {
		opts = *job.RunnerOptions
	}
	if w.limiter != nil {
		// One token per HTTP request, not per job.
		opts.PreRequestHook = func() { w.limiter.Acquire(0) }
	}

	// Cookie jars are per job unless a seed file keeps them.
	if opts.ClientOptions.CookieFile == "" {
		w.client.ClearCookies()
	}

	level := hclog.Warn
	if w.verbose {
		level = hclog.Debug
	}
	log := runner.NewLogger(hclog.New(&hclog.LoggerOptions{
		Name:   fmt.Sprintf("worker-%d", w.id),
		Level:  level,
		Output: stderr,
	}), job.Variables)

	hr := runner.Run(s, w.client, &opts, job.Variables, log, runner.Progress{})
	res.HurlResult = hr
	if err := hr.Err(); err != nil {
		fmt.Fprintf(stderr, "error: %s: %s\n", job.Filename,
			job.Variables.Redact(err.Error()))
	}

	switch w.output {
	case OutputStdout:
		writeLastBody(stdout, hr)
	case OutputFilePerJob:
		// Handled by the per-entry output option of the runner.
	}
	if w.test {
		writeTestLine(stdout, hr)
	}

	res.Stdout, res.Stderr = stdout.Bytes(), stderr.Bytes()
	return res
}

// writeLastBody prints the body of the last call of the last entry, the
// sequential-mode default output.
func writeLastBody(buf *bytes.Buffer, hr *runner.HurlResult) {
	if len(hr.Entries) == 0 {
		return
	}
	last := hr.Entries[len(hr.Entries)-1]
	if len(last.Calls) == 0 {
		return
	}
	body, err := last.Calls[len(last.Calls)-1].Response.Uncompress()
	if err != nil {
		return
	}
	buf.Write(body)
}

// writeTestLine prints the one-line test verdict of a file run.
func writeTestLine(buf *bytes.Buffer, hr *runner.HurlResult) {
	requests := 0
	for _, e := range hr.Entries {
		requests += len(e.Calls)
	}
	verdict := "Success"
	if !hr.Success {
		verdict = "Failure"
	}
	fmt.Fprintf(buf, "%s: %s (%d request(s) in %d ms)\n",
		hr.Filename, verdict, requests, hr.Duration.Milliseconds())
}
