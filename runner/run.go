// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runner executes a parsed script: it renders each entry's
// request against the variable store, performs the HTTP call through a
// pluggable client, extracts captures and checks asserts, and assembles
// the run result.
package runner

import (
	"time"

	"github.com/hurlgo/hurl/client"
	"github.com/hurlgo/hurl/script"
	"github.com/hurlgo/hurl/vars"
)

// Progress receives run lifecycle events, e.g. for a test progress bar.
// Any callback may be nil.
type Progress struct {
	OnStart     func(filename string)
	OnEntry     func(index, total int)
	OnCompleted func(result *HurlResult)
}

// Run executes every entry of s in file order. The runner owns the
// variable set for the duration of the run: captures of one entry are
// visible to all later entries. The HTTP client is owned by the caller
// (workers reuse clients across files); its cookie jar carries over
// between entries of this run.
func Run(s *script.Script, httpClient client.Client, opts *Options,
	variables *vars.Set, log Logger, progress Progress) *HurlResult {

	if opts == nil {
		opts = &Options{}
	}
	if log == nil {
		log = NopLogger()
	}
	if progress.OnStart != nil {
		progress.OnStart(s.Filename)
	}

	started := time.Now()
	result := &HurlResult{
		Filename:  s.Filename,
		Timestamp: started,
		Variables: variables,
	}

	total := len(s.Entries)
	if opts.ToEntry > 0 && opts.ToEntry < total {
		total = opts.ToEntry
	}

	success := true
	for i, entry := range s.Entries {
		if i >= total {
			log.Debugf("entry %d skipped by to-entry", i+1)
			break
		}
		if progress.OnEntry != nil {
			progress.OnEntry(i+1, total)
		}

		er := runEntry(entry, i+1, httpClient, opts, variables, log)
		result.Entries = append(result.Entries, er)

		if !er.Success() {
			success = false
			for _, e := range er.Errors {
				log.Errorf("entry %d: %s", er.EntryIndex, e.Render(variables))
			}
			if !opts.ContinueOnError {
				break
			}
		}
	}

	result.Success = success
	result.Duration = time.Since(started)
	result.Cookies = httpClient.Cookies()

	if progress.OnCompleted != nil {
		progress.OnCompleted(result)
	}
	return result
}
