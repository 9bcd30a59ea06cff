// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// entry.go orchestrates one entry: resolve options, render the request,
// call the client, capture, assert, and decide on a retry.

package runner

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hurlgo/hurl/client"
	"github.com/hurlgo/hurl/script"
	"github.com/hurlgo/hurl/vars"
)

// runEntry executes one entry including retries. The variable set is
// shared with the file runner: captures update it for later entries even
// when asserts fail afterwards.
func runEntry(entry *script.Entry, index int, httpClient client.Client,
	opts *Options, variables *vars.Set, log Logger) *EntryResult {

	result := &EntryResult{EntryIndex: index, SourceInfo: entry.SourceInfo}

	// Bind [Options] variables before anything renders.
	renderedOpts, err := bindOptionVariables(entry.Request.Options, variables)
	if err != nil {
		result.Errors = []*Error{err}
		return result
	}
	eff := opts.resolve(entry.Request.Options, renderedOpts)
	if eff.Skip {
		log.Debugf("entry %d skipped", index)
		return result
	}

	attempt := 1
	for {
		errs := runAttempt(entry, result, httpClient, &eff, variables, log)

		if shouldRetry(errs, eff.Retry, attempt) {
			log.Debugf("entry %d: retry attempt %d failed, retrying in %s",
				index, attempt, eff.RetryInterval)
			attempt++
			if eff.RetryInterval > 0 {
				time.Sleep(eff.RetryInterval)
			}
			continue
		}
		// The final attempt's errors are the surfaced errors.
		result.Errors = errs
		return result
	}
}

// runAttempt performs one request/response cycle of the entry and
// returns the attempt's errors.
func runAttempt(entry *script.Entry, result *EntryResult, httpClient client.Client,
	eff *effectiveOptions, variables *vars.Set, log Logger) []*Error {

	var errs []*Error

	req, err := buildRequest(entry.Request, eff, variables)
	if err != nil {
		return []*Error{err}
	}
	result.CurlCmd = curlCommand(req, &eff.ClientOptions)

	if eff.Delay > 0 {
		log.Debugf("delaying request by %s", eff.Delay)
		time.Sleep(eff.Delay)
	}

	if eff.PreRequestHook != nil {
		eff.PreRequestHook()
	}

	log.Debugf("%s %s", req.Method, variables.Redact(req.URL))
	call, cerr := httpClient.Execute(req, &eff.ClientOptions)
	if cerr != nil {
		herr := &Error{
			Kind:       ErrHTTP,
			SourceInfo: entry.Request.SourceInfo,
			Msg:        cerr.Error(),
		}
		return []*Error{herr}
	}
	result.Calls = append(result.Calls, call)
	result.TransferDuration += call.Timings.Total
	result.Compressed = call.Response.Headers.Contains("Content-Encoding")

	if entry.Response == nil {
		return nil
	}
	cache := newResponseCache(call.Response)

	// Captures update the variable store for subsequent entries even if
	// asserts fail below.
	caps, capErr := runCaptures(entry.Response.Captures, call, cache, variables, log)
	result.Captures = caps
	if capErr != nil {
		errs = append(errs, capErr)
		return errs
	}

	if !eff.IgnoreAsserts {
		asserts := runAsserts(entry.Response, call, cache, variables, log)
		result.Asserts = asserts
		for _, a := range asserts {
			if a.Err != nil {
				errs = append(errs, a.Err)
			}
		}
	}

	if eff.Output != "" {
		if werr := writeResponse(eff.Output, cache, entry.Request.SourceInfo); werr != nil {
			errs = append(errs, werr)
		}
	}

	return errs
}

// bindOptionVariables evaluates the variable lines of an [Options]
// section and renders the templated option values.
func bindOptionVariables(eo *script.EntryOptions, variables *vars.Set) (map[string]string, *Error) {
	if eo == nil {
		return nil, nil
	}
	for _, ov := range eo.Variables {
		val, err := RenderTemplate(ov.Value, variables)
		if err != nil {
			return nil, err
		}
		var verr error
		if ov.Secret {
			verr = variables.InsertSecret(ov.Name, val)
		} else {
			verr = variables.Insert(ov.Name, inferValue(val))
		}
		if verr != nil {
			return nil, newErr(ErrVariableReserved, ov.SourceInfo, "%s", verr)
		}
	}

	rendered := map[string]string{}
	for name, tpl := range map[string]*script.Template{
		"user":   eo.User,
		"proxy":  eo.Proxy,
		"output": eo.Output,
	} {
		if tpl == nil {
			continue
		}
		val, err := RenderTemplate(*tpl, variables)
		if err != nil {
			return nil, err
		}
		rendered[name] = val
	}
	return rendered, nil
}

// buildRequest renders the request template of an entry into a concrete
// HTTP request.
func buildRequest(r *script.Request, eff *effectiveOptions, variables *vars.Set) (*client.Request, *Error) {
	rawURL, err := RenderTemplate(r.URL, variables)
	if err != nil {
		return nil, err
	}

	// Query string parameters append to those already in the URL.
	if len(r.QueryParams) > 0 {
		params := url.Values{}
		for _, p := range r.QueryParams {
			k, err := RenderTemplate(p.Key, variables)
			if err != nil {
				return nil, err
			}
			v, err := RenderTemplate(p.Value, variables)
			if err != nil {
				return nil, err
			}
			params.Add(k, v)
		}
		sep := "?"
		if strings.Contains(rawURL, "?") {
			sep = "&"
		}
		rawURL += sep + params.Encode()
	}

	headers := client.NewHeaderList()
	for _, h := range r.Headers {
		k, err := RenderTemplate(h.Key, variables)
		if err != nil {
			return nil, err
		}
		v, err := RenderTemplate(h.Value, variables)
		if err != nil {
			return nil, err
		}
		headers.Add(k, v)
	}

	if len(r.Cookies) > 0 {
		var pairs []string
		for _, c := range r.Cookies {
			name, err := RenderTemplate(c.Name, variables)
			if err != nil {
				return nil, err
			}
			val, err := RenderTemplate(c.Value, variables)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, name+"="+val)
		}
		headers.Add("Cookie", strings.Join(pairs, "; "))
	}

	if r.BasicAuth != nil {
		user, err := RenderTemplate(r.BasicAuth.User, variables)
		if err != nil {
			return nil, err
		}
		pass, err := RenderTemplate(r.BasicAuth.Password, variables)
		if err != nil {
			return nil, err
		}
		eff.ClientOptions.User = user + ":" + pass
	}

	var body []byte
	switch {
	case len(r.FormParams) > 0:
		form := url.Values{}
		for _, p := range r.FormParams {
			k, err := RenderTemplate(p.Key, variables)
			if err != nil {
				return nil, err
			}
			v, err := RenderTemplate(p.Value, variables)
			if err != nil {
				return nil, err
			}
			form.Add(k, v)
		}
		body = []byte(form.Encode())
		if !headers.Contains("Content-Type") {
			headers.Add("Content-Type", "application/x-www-form-urlencoded")
		}
	case len(r.Multipart) > 0:
		data, contentType, err := multipartBody(r.Multipart, eff, variables)
		if err != nil {
			return nil, err
		}
		body = data
		if !headers.Contains("Content-Type") {
			headers.Add("Content-Type", contentType)
		}
	case r.Body != nil:
		data, err := requestBodyBytes(r.Body, eff, variables)
		if err != nil {
			return nil, err
		}
		body = data
	}

	method := r.Method
	if method == "" {
		method = "GET"
	}
	return &client.Request{
		Method:  method,
		URL:     rawURL,
		Headers: headers,
		Body:    body,
	}, nil
}

func requestBodyBytes(b *script.Body, eff *effectiveOptions, variables *vars.Set) ([]byte, *Error) {
	switch b.Kind {
	case script.BodyBinary:
		return b.Data, nil
	case script.BodyFile:
		name, err := RenderTemplate(b.File, variables)
		if err != nil {
			return nil, err
		}
		return readFileUnderRoot(name, eff.FileRoot, b.SourceInfo)
	default:
		s, err := RenderTemplate(b.Text, variables)
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	}
}

// readFileUnderRoot refuses access outside the file root.
func readFileUnderRoot(name, root string, si script.SourceInfo) ([]byte, *Error) {
	if root == "" {
		root = "."
	}
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, name)
	}
	absRoot, rerr := filepath.Abs(root)
	absPath, perr := filepath.Abs(path)
	if rerr != nil || perr != nil ||
		(absPath != absRoot && !strings.HasPrefix(absPath, absRoot+string(filepath.Separator))) {
		return nil, newErr(ErrUnauthorizedFileAccess, si,
			"%s is outside the file root %s", name, root)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, newErr(ErrIO, si, "%s", err)
	}
	return data, nil
}

func multipartBody(parts []script.MultipartPart, eff *effectiveOptions,
	variables *vars.Set) ([]byte, string, *Error) {

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for _, p := range parts {
		name, err := RenderTemplate(p.Name, variables)
		if err != nil {
			return nil, "", err
		}
		if p.Filename.IsEmpty() {
			val, err := RenderTemplate(p.Value, variables)
			if err != nil {
				return nil, "", err
			}
			if werr := w.WriteField(name, val); werr != nil {
				return nil, "", newErr(ErrIO, p.SourceInfo, "%s", werr)
			}
			continue
		}

		filename, err := RenderTemplate(p.Filename, variables)
		if err != nil {
			return nil, "", err
		}
		data, err := readFileUnderRoot(filename, eff.FileRoot, p.SourceInfo)
		if err != nil {
			return nil, "", err
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition",
			`form-data; name="`+escapeQuotes(name)+`"; filename="`+
				escapeQuotes(filepath.Base(filename))+`"`)
		ct := p.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		fw, werr := w.CreatePart(h)
		if werr != nil {
			return nil, "", newErr(ErrIO, p.SourceInfo, "%s", werr)
		}
		if _, werr := fw.Write(data); werr != nil {
			return nil, "", newErr(ErrIO, p.SourceInfo, "%s", werr)
		}
	}
	w.Close()
	return buf.Bytes(), w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// writeResponse writes the decompressed response body of the entry to a
// file ("-" writes nothing here; stdout handling is the caller's job).
func writeResponse(path string, cache *responseCache, si script.SourceInfo) *Error {
	if path == "-" {
		return nil
	}
	body, err := cache.Body(si)
	if err != nil {
		return err
	}
	if werr := os.WriteFile(path, body, 0o644); werr != nil {
		return newErr(ErrIO, si, "%s", werr)
	}
	return nil
}
