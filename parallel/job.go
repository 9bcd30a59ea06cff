// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package parallel runs many script files concurrently on a fixed pool
// of worker threads while flushing their output strictly in submission
// order.
package parallel

import (
	"sync"

	"github.com/hurlgo/hurl/runner"
	"github.com/hurlgo/hurl/vars"
)

// Job is a single script-file execution unit.
type Job struct {
	// Filename of the script to run.
	Filename string

	// Seq is the 0-based submission index; it decides the output
	// flush order.
	Seq int

	// RunnerOptions configure the file run.
	RunnerOptions *runner.Options

	// Variables is the initial variable set; it is cloned on dispatch
	// so jobs never share a store.
	Variables *vars.Set
}

// JobResult is the outcome of one executed job.
type JobResult struct {
	Job *Job

	// HurlResult is nil when the script failed to parse.
	HurlResult *runner.HurlResult

	// ParseErr is set when the script was malformed.
	ParseErr error

	// Stdout and Stderr hold the output buffered by the worker.
	Stdout []byte
	Stderr []byte
}

// Success reports whether the job parsed and ran without errors.
func (r *JobResult) Success() bool {
	return r.ParseErr == nil && r.HurlResult != nil && r.HurlResult.Success
}

// JobQueue yields jobs in (repeat index, job index) order, assigning a
// monotonic seq. A repeat count of -1 repeats forever. It is safe for
// concurrent consumers.
type JobQueue struct {
	mu     sync.Mutex
	jobs   []*Job
	repeat int
	next   int // index of the next job over all repetitions
	closed bool
}

// NewJobQueue builds a queue over jobs repeated repeat times; repeat 1
// yields every job once, -1 forever.
func NewJobQueue(jobs []*Job, repeat int) *JobQueue {
	return &JobQueue{jobs: jobs, repeat: repeat}
}

// Next returns the next job or nil when the queue is exhausted or
// closed. The returned job is a copy with its Seq assigned and its
// variable set cloned.
func (q *JobQueue) Next() *Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed || len(q.jobs) == 0 {
		return nil
	}
	if q.repeat >= 0 && q.next >= q.repeat*len(q.jobs) {
		return nil
	}
	src := q.jobs[q.next%len(q.jobs)]
	job := &Job{
		Filename:      src.Filename,
		Seq:           q.next,
		RunnerOptions: src.RunnerOptions,
	}
	if src.Variables != nil {
		job.Variables = src.Variables.Clone()
	} else {
		job.Variables = vars.NewSet()
	}
	q.next++
	return job
}

// Close stops the queue: subsequent Next calls return nil. Used by
// fail-fast and ctrl-C handling.
func (q *JobQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
}

// Size returns the total number of jobs the queue will yield, or -1
// when repeating forever.
func (q *JobQueue) Size() int {
	if q.repeat < 0 {
		return -1
	}
	return q.repeat * len(q.jobs)
}
