package analyzer

import "strings"

// CommentMarker starts an inline or full-line comment
const CommentMarker = '#'

// LineSplit is a physical line divided at its first comment marker
type LineSplit struct {
	Code       string
	Comment    string
	HasComment bool
}

// SplitLine splits line at the first '#'. The marker itself belongs to
// neither segment. Markers inside string literals are not special-cased.
func SplitLine(line string) LineSplit {
	idx := strings.IndexByte(line, CommentMarker)
	if idx < 0 {
		return LineSplit{Code: line}
	}
	return LineSplit{
		Code:       line[:idx],
		Comment:    line[idx+1:],
		HasComment: true,
	}
}
