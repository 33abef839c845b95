package importer

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// renumberRe matches headers carrying a parenthetical annotation, such as
// "1. (2 points)" or "7.(0.200 point) Which of ...".
var renumberRe = regexp.MustCompile(`^(\s*)\d+\.(\s*\(.*\).*)$`)

// Renumber rewrites annotated header lines so their numbers run 1, 2, 3...
// in order of appearance. Other lines are kept verbatim. The output always
// ends with a newline, which makes the operation idempotent.
func Renumber(text string) (string, int) {
	lines := SplitLines(text)
	n := 0
	for i, ln := range lines {
		m := renumberRe.FindStringSubmatch(ln)
		if m == nil {
			continue
		}
		n++
		lines[i] = m[1] + strconv.Itoa(n) + "." + m[2]
	}
	return strings.Join(lines, "\n") + "\n", n
}

// RenumberFile renumbers the import file at path in place, first moving
// the original to path+".bak". It returns the number of headers rewritten.
func RenumberFile(path string) (int, error) {
	text, err := ReadSource(path)
	if err != nil {
		return 0, err
	}

	out, n := Renumber(text)

	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.Rename(path, path+".bak"); err != nil {
		return 0, fmt.Errorf("backup %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	return n, nil
}
