// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package script

import "fmt"

// Pos is a position inside a script file. Line and Column are 1-based.
type Pos struct {
	Line   int
	Column int
}

// SourceInfo is the span of a node inside the script file. Every value the
// runner derives from the script carries one so that errors can point back
// into the source.
type SourceInfo struct {
	Start Pos
	End   Pos
}

// Span builds a SourceInfo from line/column pairs.
func Span(startLine, startCol, endLine, endCol int) SourceInfo {
	return SourceInfo{
		Start: Pos{Line: startLine, Column: startCol},
		End:   Pos{Line: endLine, Column: endCol},
	}
}

// Merge returns the smallest span covering s and o.
func (s SourceInfo) Merge(o SourceInfo) SourceInfo {
	m := s
	if o.Start.Line < m.Start.Line ||
		(o.Start.Line == m.Start.Line && o.Start.Column < m.Start.Column) {
		m.Start = o.Start
	}
	if o.End.Line > m.End.Line ||
		(o.End.Line == m.End.Line && o.End.Column > m.End.Column) {
		m.End = o.End
	}
	return m
}

// IsZero reports whether s carries no position.
func (s SourceInfo) IsZero() bool {
	return s.Start.Line == 0 && s.End.Line == 0
}

func (s SourceInfo) String() string {
	return fmt.Sprintf("%d:%d", s.Start.Line, s.Start.Column)
}
