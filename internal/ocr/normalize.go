package ocr

import (
	"regexp"
	"strings"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
	reBoxNoise   = regexp.MustCompile(`(?m)^\s*[_\-]{3,}\s*$`)

	// Monetary amount: 2-4 integer digits, a dot, exactly 2 fraction
	// digits. The optional capture group stands in for a negative
	// lookahead: a match trailed by a third fraction digit is rejected.
	reAmount = regexp.MustCompile(`\$\d{2,4}\.\d{2}(\d?)`)

	// Merchant order id preceded by "ORDER ... #" or a bare "#".
	// Applied to upper-cased lines, same as the gating check.
	reOrderNumber = regexp.MustCompile(`(?:ORDER.*?#|#)\s*(\d{3}-\d{7}-\d{7})`)
)

// NormalizeWhitespace collapses noisy whitespace in raw OCR output.
// Conservative: keeps line breaks; collapses >2 newlines into a single
// blank line and strips box-drawing noise lines.
func NormalizeWhitespace(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reTabs.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	s = reBoxNoise.ReplaceAllString(s, "")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// CleanOrderText reshapes noisy OCR output into the "order-number amount"
// line the order-text parser expects. Two-tier search: one pass tries to
// find both fields (last match per field wins), then single-field passes
// retry whichever is missing. When nothing usable is found the input is
// returned unchanged so the parser can still surface its own error.
func CleanOrderText(raw string) string {
	lines := strings.Split(raw, "\n")

	var orderNumber, amount string
	for _, line := range lines {
		line = stripLine(line)
		if line == "" {
			continue
		}
		if strings.Contains(line, "$") {
			if m := findAmount(line); m != "" {
				amount = m
			}
		}
		if n := findOrderNumber(line); n != "" {
			orderNumber = n
		}
	}

	if orderNumber != "" && amount != "" {
		return orderNumber + " " + amount
	}

	// Only the order number was found: rescan for an amount, this time
	// without the $-gating on raw lines.
	if orderNumber != "" {
		for _, line := range lines {
			if m := findAmount(line); m != "" {
				return orderNumber + " " + m
			}
		}
	}

	// Only the amount was found: rescan for an order number.
	if amount != "" {
		for _, line := range lines {
			if n := findOrderNumber(stripLine(line)); n != "" {
				return n + " " + amount
			}
		}
	}

	return raw
}

func stripLine(line string) string {
	return strings.TrimSpace(strings.ReplaceAll(line, "'", ""))
}

// findAmount returns the first monetary match on the line, $ included.
// Candidates followed by a third fraction digit are skipped.
func findAmount(line string) string {
	for _, m := range reAmount.FindAllStringSubmatch(line, -1) {
		if m[1] == "" {
			return m[0]
		}
	}
	return ""
}

func findOrderNumber(line string) string {
	upper := strings.ToUpper(line)
	if !strings.Contains(upper, "ORDER") || !strings.Contains(upper, "#") {
		return ""
	}
	if m := reOrderNumber.FindStringSubmatch(upper); m != nil {
		return m[1]
	}
	return ""
}
