// Package loc provides the physical-line counter used for per-file
// metrics.
package loc

import "bytes"

// Count returns the number of physical lines in content. A trailing
// line without a final newline still counts.
func Count(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	n := bytes.Count(content, []byte{'\n'})
	if content[len(content)-1] != '\n' {
		n++
	}
	return n
}
