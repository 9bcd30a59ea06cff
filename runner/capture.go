// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// capture.go binds query results into the variable store. Captures run
// in declaration order; later captures see earlier bindings. A capture
// error aborts the remaining captures of the entry.

package runner

import (
	"github.com/hurlgo/hurl/client"
	"github.com/hurlgo/hurl/script"
	"github.com/hurlgo/hurl/vars"
)

// runCaptures evaluates every capture of the response and updates the
// variable set. The returned results stop at the first failing capture.
func runCaptures(captures []script.Capture, call *client.Call,
	cache *responseCache, variables *vars.Set, log Logger) ([]CaptureResult, *Error) {

	var results []CaptureResult
	for _, cap := range captures {
		res, err := runCapture(cap, call, cache, variables, log)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func runCapture(cap script.Capture, call *client.Call,
	cache *responseCache, variables *vars.Set, log Logger) (CaptureResult, *Error) {

	name, err := RenderTemplate(cap.Name, variables)
	if err != nil {
		return CaptureResult{}, err
	}

	q, err := evalQuery(cap.Query, call, cache, variables)
	if err != nil {
		return CaptureResult{}, err
	}
	if !q.found && len(cap.Filters) == 0 {
		return CaptureResult{}, newErr(ErrNoQueryResult, cap.Query.SourceInfo,
			"the query of capture %s returned nothing", name)
	}

	q, err = evalFilters(cap.Filters, q, variables, log)
	if err != nil {
		return CaptureResult{}, err
	}
	if !q.found {
		return CaptureResult{}, newErr(ErrNoQueryResult, cap.Query.SourceInfo,
			"the query of capture %s returned nothing", name)
	}

	if cap.Redacted {
		s, ok := q.val.Render()
		if !ok {
			return CaptureResult{}, newErr(ErrUnrenderableVariable,
				cap.SourceInfo, "%s of kind %s cannot be redacted",
				name, q.val.Kind())
		}
		if verr := variables.InsertSecret(name, s); verr != nil {
			return CaptureResult{}, newErr(ErrVariableReserved,
				cap.SourceInfo, "%s", verr)
		}
		log.Debugf("capture %s: ***", name)
		return CaptureResult{Name: name, Value: q.val, Secret: true}, nil
	}

	if verr := variables.Insert(name, q.val); verr != nil {
		return CaptureResult{}, newErr(ErrVariableReserved, cap.SourceInfo,
			"%s", verr)
	}
	log.Debugf("capture %s: %s", name, q.val.Repr())
	return CaptureResult{Name: name, Value: q.val}, nil
}
