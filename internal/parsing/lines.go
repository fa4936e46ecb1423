package parsing

import (
	"regexp"
	"strings"
)

// datePattern matches a four-digit year, a month and a day joined by any of
// the three separator styles that show up on Japanese receipts.
var datePattern = regexp.MustCompile(`\d{4}[-/年]\d{1,2}[-/月]\d{1,2}`)

// amountLinePattern matches a line that is nothing but a currency-marked
// figure. Such lines feed the amount candidate set, not the description.
var amountLinePattern = regexp.MustCompile(`^¥[1-9][0-9,]*$`)

// Classified holds the disjoint outputs of one linear scan over raw OCR
// text: lines carrying a date-like substring, lines that are purely a
// currency amount, and everything else. Lines that are empty after trimming
// belong to no bucket.
type Classified struct {
	DateLines        []string
	AmountLines      []string
	DescriptionLines []string
}

// ClassifyLines scans text line by line, in order, and sorts each non-blank
// line into exactly one bucket. A date-like substring embedded in other text
// still makes the whole line a date line.
func ClassifyLines(text string) Classified {
	var c Classified
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case datePattern.MatchString(line):
			c.DateLines = append(c.DateLines, line)
		case amountLinePattern.MatchString(line):
			c.AmountLines = append(c.AmountLines, line)
		default:
			c.DescriptionLines = append(c.DescriptionLines, line)
		}
	}
	return c
}
