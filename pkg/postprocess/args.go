package postprocess

import (
	"strings"
	"unicode"
)

const (
	StitchedToken  = "[stitched]"
	ProcessedToken = "[processed]"
)

// ResolveArgs splits template into arguments and substitutes the
// [stitched] and [processed] placeholders.
func ResolveArgs(template, stitched, processed string) []string {
	r := strings.NewReplacer(StitchedToken, stitched, ProcessedToken, processed)

	tokens := splitArgs(template)
	args := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if len(tok) >= 2 && tok[0] == '"' && tok[len(tok)-1] == '"' {
			tok = tok[1 : len(tok)-1]
		}
		args = append(args, r.Replace(tok))
	}

	return args
}

// splitArgs breaks s on whitespace outside double quotes. Quotes are kept in
// the token and backslashes are literal, so Windows paths pass unchanged.
func splitArgs(s string) []string {
	var (
		args   []string
		cur    strings.Builder
		quoted bool
		inTok  bool
	)

	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
			inTok = true
			cur.WriteRune(r)
		case unicode.IsSpace(r) && !quoted:
			if inTok {
				args = append(args, cur.String())
				cur.Reset()
				inTok = false
			}
		default:
			inTok = true
			cur.WriteRune(r)
		}
	}
	if inTok {
		args = append(args, cur.String())
	}

	return args
}
