package strata

import "strconv"

// ParseScalar converts raw text from the environment or the command line
// into a typed leaf. It tries, in order: the booleans "true" and "false", an
// integer, a float, and, when the text is bracket- or brace-delimited, a
// full JSON array or object. Anything else stays a plain string.
//
// The ordering means numeric-looking text is always coerced to a number, so
// a string field cannot be fed a literal "42" through these sources. That
// trade-off is deliberate: the same parser serves every untyped source, and
// files remain available for values that must stay strings.
func ParseScalar(raw string) *Value {
	switch raw {
	case "true":
		return BoolValue(true)
	case "false":
		return BoolValue(false)
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return IntValue(i)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return FloatValue(f)
	}
	if isDelimited(raw, '[', ']') || isDelimited(raw, '{', '}') {
		if v, err := parseJSON([]byte(raw)); err == nil {
			return v
		}
	}
	return StringValue(raw)
}

func isDelimited(s string, first, last byte) bool {
	return len(s) >= 2 && s[0] == first && s[len(s)-1] == last
}
