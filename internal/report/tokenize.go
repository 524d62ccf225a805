package report

import (
	"fmt"
	"strings"
)

// Tokenize segments a raw report into an ordered sequence of typed tokens.
//
// Every delimited part of the input produces exactly one token; nothing is
// dropped, merged, or duplicated, and malformed input can never fail; the
// worst case is a token of type unknown. An empty input yields a nil slice.
//
// The only state carried across parts within one call is the remarks flag:
// once the grammar's remarks indicator has been seen, every following part is
// typed remarks no matter what it looks like.
func Tokenize(raw string, g *Grammar) []Token {
	parts := splitParts(raw, g)
	if len(parts) == 0 {
		return nil
	}

	tokens := make([]Token, 0, len(parts))
	remarksStarted := false

	for _, part := range parts {
		switch {
		case g.RemarksLiteral != "" && part == g.RemarksLiteral:
			tokens = append(tokens, Token{Text: part, Type: TokenRemarksIndicator})
			remarksStarted = true

		case remarksStarted:
			tokens = append(tokens, Token{Text: part, Type: TokenRemarks})

		case g.ChangeGroups && isChangeIndicator(part):
			tokens = append(tokens, Token{Text: part, Type: TokenChangeIndicator})

		default:
			tokens = append(tokens, Token{Text: part, Type: classify(part, g)})
		}
	}

	return tokens
}

// splitParts applies the grammar's delimiter discipline: whitespace fields
// for METAR/TAF, slash-separated element fields (empties removed) for PIREP.
func splitParts(raw string, g *Grammar) []string {
	if !g.SlashDelimited {
		return strings.Fields(raw)
	}

	var parts []string
	for _, f := range strings.Split(raw, "/") {
		f = strings.TrimSpace(f)
		if f != "" {
			parts = append(parts, f)
		}
	}
	return parts
}

// isChangeIndicator recognizes the TAF change-group literals that are
// resolved before any pattern matching: BECMG, TEMPO, PROBnn, and FMddhhmm.
func isChangeIndicator(part string) bool {
	if part == "BECMG" || part == "TEMPO" {
		return true
	}
	return reChangeProb.MatchString(part) || reChangeFM.MatchString(part)
}

// classify runs the grammar's ordered matcher list; the first match wins.
// A handful of literal exceptions (NSW) are tried before giving up.
func classify(part string, g *Grammar) TokenType {
	for _, m := range g.Matchers {
		if m.Matches(part) {
			return m.Type
		}
	}

	// "No Significant Weather" carries no 2-char phenomenon codes, so the
	// weather pattern cannot claim it.
	if part == "NSW" {
		return TokenWeather
	}

	return TokenUnknown
}

// Reassemble joins token texts with the grammar's delimiter. It is the
// inverse of Tokenize for whitespace grammars and is used by tests and by
// the decode API to echo the normalized report back to clients.
func Reassemble(tokens []Token, g *Grammar) string {
	texts := make([]string, len(tokens))
	for i, t := range tokens {
		texts[i] = t.Text
	}
	if g.SlashDelimited {
		return strings.Join(texts, " / ")
	}
	return strings.Join(texts, " ")
}

// DecodeAll pairs every token with its explanation. Convenience for the API
// layer, which serves the full annotated sequence in one response.
func DecodeAll(tokens []Token) []AnnotatedToken {
	out := make([]AnnotatedToken, len(tokens))
	for i, t := range tokens {
		out[i] = AnnotatedToken{Token: t, Explanation: Decode(t)}
	}
	return out
}

// AnnotatedToken is a token together with its decoded explanation, the shape
// the dashboard consumes for hover decoding.
type AnnotatedToken struct {
	Token       Token       `json:"token"`
	Explanation Explanation `json:"explanation"`
}

// String implements fmt.Stringer for debug logging.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Type, t.Text)
}
