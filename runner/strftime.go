// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// strftime.go translates the strftime-style layouts used by the toDate
// and dateFormat filters into Go reference layouts.

package runner

import (
	"fmt"
	"strings"
)

var strftimeDirectives = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'b': "Jan",
	'B': "January",
	'd': "02",
	'e': "_2",
	'a': "Mon",
	'A': "Monday",
	'H': "15",
	'I': "03",
	'M': "04",
	'S': "05",
	'p': "PM",
	'z': "-0700",
	'Z': "MST",
	'j': "002",
	'%': "%",
}

// strftimeLayout converts a strftime format string to a Go time layout.
// Unsupported directives are an error.
func strftimeLayout(format string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(format) {
			return "", fmt.Errorf("dangling %% at end of layout %q", format)
		}
		switch d := format[i]; d {
		case 'f':
			b.WriteString(".000000")
		case '3', '6', '9':
			// %3f, %6f, %9f: millis, micros, nanos.
			if i+1 >= len(format) || format[i+1] != 'f' {
				return "", fmt.Errorf("invalid directive %%%c in layout %q", d, format)
			}
			i++
			b.WriteString("." + strings.Repeat("0", int(d-'0')))
		case '.':
			// %.f, %.3f, %.6f, %.9f: fraction with leading dot.
			if i+1 < len(format) && format[i+1] == 'f' {
				i++
				b.WriteString(".000000")
				break
			}
			if i+2 < len(format) && strings.IndexByte("369", format[i+1]) >= 0 &&
				format[i+2] == 'f' {
				n := int(format[i+1] - '0')
				i += 2
				b.WriteString("." + strings.Repeat("0", n))
				break
			}
			return "", fmt.Errorf("invalid directive %%. in layout %q", format)
		case ':':
			if i+1 >= len(format) || format[i+1] != 'z' {
				return "", fmt.Errorf("invalid directive %%: in layout %q", format)
			}
			i++
			b.WriteString("-07:00")
		default:
			ref, ok := strftimeDirectives[d]
			if !ok {
				return "", fmt.Errorf("unsupported directive %%%c in layout %q", d, format)
			}
			b.WriteString(ref)
		}
	}
	return b.String(), nil
}
