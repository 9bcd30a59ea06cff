// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package script

// FilterKind enumerates the pure transforms of a query pipeline.
type FilterKind uint8

// The filter kinds.
const (
	FilterCount FilterKind = iota
	FilterNth
	FilterRegex
	FilterReplace
	FilterSplit
	FilterDecode
	FilterBase64Encode
	FilterBase64Decode
	FilterHTMLEscape
	FilterHTMLUnescape
	FilterURLEncode
	FilterURLDecode
	FilterToInt
	FilterToFloat
	FilterToDate
	FilterFormat // deprecated alias of FilterDateFormat
	FilterDateFormat
	FilterDaysBeforeNow
	FilterDaysAfterNow
	FilterJSONPath
	FilterXPath
)

var filterNames = map[FilterKind]string{
	FilterCount:         "count",
	FilterNth:           "nth",
	FilterRegex:         "regex",
	FilterReplace:       "replace",
	FilterSplit:         "split",
	FilterDecode:        "decode",
	FilterBase64Encode:  "base64Encode",
	FilterBase64Decode:  "base64Decode",
	FilterHTMLEscape:    "htmlEscape",
	FilterHTMLUnescape:  "htmlUnescape",
	FilterURLEncode:     "urlEncode",
	FilterURLDecode:     "urlDecode",
	FilterToInt:         "toInt",
	FilterToFloat:       "toFloat",
	FilterToDate:        "toDate",
	FilterFormat:        "format",
	FilterDateFormat:    "dateFormat",
	FilterDaysBeforeNow: "daysBeforeNow",
	FilterDaysAfterNow:  "daysAfterNow",
	FilterJSONPath:      "jsonpath",
	FilterXPath:         "xpath",
}

func (k FilterKind) String() string { return filterNames[k] }

// Filter is a single transform in a query pipeline. Exactly the fields
// matching Kind are meaningful.
type Filter struct {
	Kind FilterKind

	// N is the index of nth. Negative values count from the end.
	N int64

	// Pattern is the regular expression of regex and the old value of
	// replace.
	Pattern Template

	// Replacement is the new value of replace.
	Replacement Template

	// Sep is the separator of split.
	Sep Template

	// Charset is the encoding name of decode.
	Charset Template

	// Layout is the date layout of toDate, format and dateFormat, in
	// strftime notation.
	Layout Template

	// Expr is the expression of the jsonpath and xpath filters.
	Expr Template

	SourceInfo SourceInfo
}
