// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command hurl runs HTTP script files against real endpoints and
// validates the responses. Scripts are consumed in the JSON AST form
// produced by the external parser; "-" reads from stdin.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"

	"github.com/hurlgo/hurl/cookie"
	"github.com/hurlgo/hurl/internal/astjson"
	"github.com/hurlgo/hurl/parallel"
	"github.com/hurlgo/hurl/report"
	"github.com/hurlgo/hurl/runner"
	"github.com/hurlgo/hurl/script"
)

// Exit codes.
const (
	exitOK         = 0
	exitFailed     = 1 // option errors; assert failures outside test mode
	exitParseError = 2
	exitRuntime    = 3
	exitAsserts    = 4 // assert failures in test mode
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if path := configFilePath(); path != "" {
		extra, err := loadConfigFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
			return exitFailed
		}
		args = append(extra, args...)
	}

	opts, err := parseArgs(args)
	if err != nil {
		return exitFailed
	}
	if opts.noColor || colorDisabled(os.Environ()) {
		color.NoColor = true
	}

	variables, err := opts.buildVariables()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		return exitFailed
	}

	jobs := make([]*parallel.Job, len(opts.files))
	for i, f := range opts.files {
		jobs[i] = &parallel.Job{
			Filename:      f,
			RunnerOptions: opts.runnerOptions(),
			Variables:     variables,
		}
	}

	stop := make(chan struct{})
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	go func() {
		<-interrupts
		signal.Stop(interrupts)
		close(stop)
	}()

	var progress *parallel.Progress
	if opts.test && isTerminal(os.Stderr) {
		progress = parallel.NewProgress(os.Stderr)
	}

	popts := &parallel.Options{
		Workers:  opts.jobs,
		Repeat:   opts.repeat,
		Test:     opts.test,
		Verbose:  opts.verbose,
		Parse:    parseScript,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Progress: progress,
		Stop:     stop,
	}
	if !opts.test && opts.output == "" {
		popts.Output = parallel.OutputStdout
	}

	rep := parallel.Run(jobs, popts)

	return finish(opts, rep)
}

// finish handles post-run output and computes the exit code.
func finish(opts *cliOptions, rep *parallel.Report) int {
	code := exitOK
	for _, res := range rep.Results {
		switch {
		case res.ParseErr != nil:
			return exitParseError
		case res.HurlResult == nil:
			code = maxCode(code, exitRuntime)
		case !res.HurlResult.Success:
			if assertsOnly(res.HurlResult) {
				if opts.test {
					code = maxCode(code, exitAsserts)
				} else {
					code = maxCode(code, exitFailed)
				}
			} else {
				code = maxCode(code, exitRuntime)
			}
		}
	}

	if opts.json {
		for _, res := range rep.Results {
			if res.HurlResult == nil {
				continue
			}
			data, err := report.Marshal(res.HurlResult)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %s\n", err)
				continue
			}
			fmt.Fprintln(os.Stdout, string(data))
		}
	}

	if opts.output != "" {
		if err := writeLastOutput(opts.output, rep); err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
			code = maxCode(code, exitRuntime)
		}
	}

	if opts.cookieJar != "" {
		if err := writeCookieJar(opts.cookieJar, rep); err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
			code = maxCode(code, exitRuntime)
		}
	}

	if opts.test {
		printSummary(rep)
	}
	return code
}

// assertsOnly reports whether every effective error of the run is an
// assert failure.
func assertsOnly(hr *runner.HurlResult) bool {
	for _, e := range hr.Errors() {
		if !e.Assert {
			return false
		}
	}
	return true
}

func maxCode(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// parseScript loads a script from its JSON AST form; "-" reads stdin.
func parseScript(filename string) (*script.Script, error) {
	var data []byte
	var err error
	if filename == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(filename)
	}
	if err != nil {
		return nil, err
	}
	return astjson.Load(filename, data)
}

// writeLastOutput writes the last response body of the last job to a
// file or stdout for "-".
func writeLastOutput(path string, rep *parallel.Report) error {
	var body []byte
	for _, res := range rep.Results {
		if res.HurlResult == nil || len(res.HurlResult.Entries) == 0 {
			continue
		}
		entries := res.HurlResult.Entries
		last := entries[len(entries)-1]
		if len(last.Calls) == 0 {
			continue
		}
		b, err := last.Calls[len(last.Calls)-1].Response.Uncompress()
		if err != nil {
			return err
		}
		body = b
	}
	if path == "-" {
		_, err := os.Stdout.Write(body)
		return err
	}
	return os.WriteFile(path, body, 0o644)
}

// writeCookieJar persists the final cookie jar of the last job in
// Netscape format.
func writeCookieJar(path string, rep *parallel.Report) error {
	var cookies []cookie.Cookie
	for _, res := range rep.Results {
		if res.HurlResult == nil {
			continue
		}
		cookies = cookies[:0]
		for _, c := range res.HurlResult.Cookies {
			cookies = append(cookies, cookie.Cookie{
				Domain:           c.Domain,
				IncludeSubdomain: c.IncludeSubdomain,
				Path:             c.Path,
				Secure:           c.Secure,
				Expires:          c.Expires,
				Name:             c.Name,
				Value:            c.Value,
				HTTPOnly:         c.HTTPOnly,
			})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return cookie.Write(f, cookies)
}

// printSummary prints the test-mode tail: counts of executed files and
// the aggregated metrics.
func printSummary(rep *parallel.Report) {
	executed := len(rep.Results)
	succeeded := rep.Metrics.Counter(parallel.CounterJobsSuccessful)
	failed := rep.Metrics.Counter(parallel.CounterJobsFailed)

	bold := color.New(color.Bold)
	bold.Fprintln(os.Stderr, "--------------------------------------------------------------------------------")
	fmt.Fprintf(os.Stderr, "Executed files:    %d\n", executed)
	if succeeded > 0 {
		color.New(color.FgGreen).Fprintf(os.Stderr, "Succeeded files:   %d\n", succeeded)
	} else {
		fmt.Fprintf(os.Stderr, "Succeeded files:   %d\n", succeeded)
	}
	if failed > 0 {
		color.New(color.FgRed).Fprintf(os.Stderr, "Failed files:      %d\n", failed)
	} else {
		fmt.Fprintf(os.Stderr, "Failed files:      %d\n", failed)
	}
	fmt.Fprintf(os.Stderr, "Duration:          %d ms\n",
		rep.Metrics.TotalTime().Milliseconds())
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
