package importer

import "strings"

// Block is the run of lines belonging to one question: a header line and
// every following line up to the next header.
type Block struct {
	Number int
	Header string
	Body   []string
}

// SplitLines splits text into lines, accepting \n and \r\n endings and a
// leading byte order mark.
func SplitLines(text string) []string {
	text = strings.TrimPrefix(text, "\uFEFF")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// Segment groups lines into blocks. A block starts at every header line;
// lines before the first header are discarded.
func Segment(lines []string) []Block {
	var blocks []Block

	for _, ln := range lines {
		if l, ok := matchHeader(ln); ok {
			blocks = append(blocks, Block{Number: l.Number, Header: l.Text})
			continue
		}
		if len(blocks) == 0 {
			continue
		}
		cur := &blocks[len(blocks)-1]
		cur.Body = append(cur.Body, strings.TrimRight(ln, " \t\r"))
	}
	return blocks
}
