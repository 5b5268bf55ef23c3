package extraction

import "strings"

// ValidationToken starts the line the validator appends to every finished document.
const ValidationToken = "VALIDATION:"

// SplitBlocks cuts text into per-document blocks. A block ends with (and
// includes) its validation line; trailing lines without one are dropped.
func SplitBlocks(text string) []string {
	var blocks []string
	var current []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		current = append(current, line)
		if strings.HasPrefix(strings.TrimSpace(line), ValidationToken) {
			blocks = append(blocks, strings.Join(current, "\n"))
			current = nil
		}
	}
	return blocks
}
