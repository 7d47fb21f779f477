package normalize

import "strings"

// ExpressionKind classifies a composite requirement line.
type ExpressionKind int

const (
	// Single is a plain value with no connective.
	Single ExpressionKind = iota
	// AndList means every term is required.
	AndList
	// OrList means any one term suffices.
	OrList
	// CommaList is a comma-separated list without a connective word; it reads as OR.
	CommaList
)

func (k ExpressionKind) String() string {
	switch k {
	case AndList:
		return "and"
	case OrList:
		return "or"
	case CommaList:
		return "comma"
	default:
		return "single"
	}
}

// Expression is a parsed composite line. The kind is decided once at parse
// time and carried through reconstruction.
type Expression struct {
	Kind  ExpressionKind
	Terms []string
}

// ParseExpression splits s on commas and on the whole words "and"/"or"
// (case-insensitive). When both words appear the line is an AndList.
func ParseExpression(s string) Expression {
	var (
		terms         []string
		current       []string
		sawAnd, sawOr bool
	)
	flush := func() {
		if len(current) > 0 {
			terms = append(terms, strings.Join(current, " "))
			current = current[:0]
		}
	}

	chunks := strings.Split(s, ",")
	sawComma := len(chunks) > 1
	for _, chunk := range chunks {
		for _, word := range strings.Fields(chunk) {
			switch {
			case strings.EqualFold(word, "and"):
				sawAnd = true
				flush()
			case strings.EqualFold(word, "or"):
				sawOr = true
				flush()
			default:
				current = append(current, word)
			}
		}
		flush()
	}

	kind := Single
	switch {
	case sawAnd:
		kind = AndList
	case sawOr:
		kind = OrList
	case sawComma:
		kind = CommaList
	}
	if kind == Single {
		if t := strings.TrimSpace(s); t != "" {
			terms = []string{t}
		} else {
			terms = nil
		}
	}

	return Expression{Kind: kind, Terms: terms}
}

// Separator is the connective used when the terms are joined back together.
func (e Expression) Separator() string {
	if e.Kind == AndList {
		return " and "
	}
	return " or "
}

// Join reconstructs a line from replacement terms using the expression's kind.
func (e Expression) Join(terms []string) string {
	return strings.Join(terms, e.Separator())
}

// String reconstructs the line from its own terms.
func (e Expression) String() string {
	return e.Join(e.Terms)
}
