package parsing

import (
	"regexp"
	"strconv"
	"strings"
)

// amountPattern matches a yen marker followed by a non-zero leading digit and
// any run of digits and thousands separators. The leading [1-9] keeps "¥0"
// style noise out of the candidate set.
var amountPattern = regexp.MustCompile(`¥[1-9][0-9,]*`)

var amountStripper = strings.NewReplacer("¥", "", ",", "")

// Amount is one currency-marked figure found in raw text, kept both as it
// appeared and as a parsed whole-yen value.
type Amount struct {
	Raw   string `json:"raw"`
	Value int    `json:"value"`
}

// ExtractAmounts scans the entire text for currency-marked numbers and
// returns every match in source order, duplicates included. Subtotal, tax and
// total figures all qualify: picking "the total" is the reviewer's job, not a
// parsing rule.
func ExtractAmounts(text string) []Amount {
	var amounts []Amount
	for _, match := range amountPattern.FindAllString(text, -1) {
		value, err := strconv.Atoi(amountStripper.Replace(match))
		if err != nil || value <= 0 {
			continue
		}
		amounts = append(amounts, Amount{Raw: match, Value: value})
	}
	return amounts
}
