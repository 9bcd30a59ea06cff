// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// curl.go reconstructs a curl command line equivalent to the rendered
// request, for debugging a failing entry by hand.

package runner

import (
	"fmt"
	"strings"

	"github.com/hurlgo/hurl/client"
)

// curlCommand builds a best-effort curl invocation for req. The command
// may contain secrets; redaction happens when it is logged.
func curlCommand(req *client.Request, opts *client.Options) string {
	var b strings.Builder
	b.WriteString("curl")

	if req.Method != "" && req.Method != "GET" {
		fmt.Fprintf(&b, " -X %s", req.Method)
	}
	for _, h := range req.Headers.All() {
		fmt.Fprintf(&b, " -H %s", escapeForShell(h.Name+": "+h.Value))
	}
	if opts.User != "" {
		fmt.Fprintf(&b, " -u %s", escapeForShell(opts.User))
	}
	if opts.Compressed {
		b.WriteString(" --compressed")
	}
	if opts.FollowLocation {
		b.WriteString(" -L")
	}
	if opts.Insecure {
		b.WriteString(" -k")
	}
	if len(req.Body) > 0 {
		fmt.Fprintf(&b, " --data-binary %s", escapeForShell(string(req.Body)))
	}
	fmt.Fprintf(&b, " %s", escapeForShell(req.URL))
	return b.String()
}

// escapeForShell quotes s for a POSIX shell. Single quotes preserve
// everything but may not appear inside single quoted strings, so they
// are spliced in double quoted:  foo'bar  -->  'foo'"'"'bar'
func escapeForShell(s string) string {
	parts := strings.Split(s, "'")
	for i, p := range parts {
		parts[i] = "'" + p + "'"
	}
	return strings.Join(parts, `"'"`)
}
