package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	seqPadRe = regexp.MustCompile(`\{SEQ(\d+)\}`)
	usd      = message.NewPrinter(language.AmericanEnglish)
)

const DefaultProposalNumberTemplate = "PR-{YYYY}{MM}-{SEQ5}"

// FormatProposalNumber renders a human-facing proposal number from a template,
// the issue time and a positive sequence value. Supported tokens are {YYYY},
// {YY}, {MM}, {DD}, {SEQ} and zero-padded {SEQn}.
func FormatProposalNumber(template string, issuedAt time.Time, seq int64) (string, error) {
	if template == "" {
		return "", fmt.Errorf("proposal number template is empty")
	}
	if seq <= 0 {
		return "", fmt.Errorf("invalid proposal sequence: %d", seq)
	}

	out := template
	out = strings.ReplaceAll(out, "{YYYY}", issuedAt.Format("2006"))
	out = strings.ReplaceAll(out, "{YY}", issuedAt.Format("06"))
	out = strings.ReplaceAll(out, "{MM}", issuedAt.Format("01"))
	out = strings.ReplaceAll(out, "{DD}", issuedAt.Format("02"))
	out = strings.ReplaceAll(out, "{SEQ}", strconv.FormatInt(seq, 10))

	out = seqPadRe.ReplaceAllStringFunc(out, func(m string) string {
		match := seqPadRe.FindStringSubmatch(m)
		if len(match) != 2 {
			return m
		}
		width, err := strconv.Atoi(match[1])
		if err != nil || width <= 0 {
			return m
		}
		return fmt.Sprintf("%0*d", width, seq)
	})

	if strings.Contains(out, "{") || strings.Contains(out, "}") {
		return "", fmt.Errorf("unresolved token in proposal number format: %s", out)
	}
	return out, nil
}

// USD renders whole dollars in en-US style without decimals, e.g. $12,345.
func USD(amount int64) string {
	if amount < 0 {
		return "-" + usd.Sprintf("$%d", -amount)
	}
	return usd.Sprintf("$%d", amount)
}
