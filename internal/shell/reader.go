package shell

import (
	"io"
	"strings"
)

// readLine reads one newline-terminated line, strips the trailing
// newline, truncates at the first '#' (comment), and trims surrounding
// whitespace. The boolean result is false at end of input.
func (sh *Shell) readLine() (string, bool) {
	line, err := sh.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return trimComment(line), true
		}
		return "", false
	}
	return trimComment(line), true
}

func trimComment(line string) string {
	line = strings.TrimRight(line, "\n")
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}
