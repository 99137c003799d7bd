package scan

import "strings"

// globPattern rewrites an fnmatch pattern into the syntax of
// filepath.Match. Inside a bracket class a leading '!' becomes '^', and a
// leading ']' or a leading or trailing '-' is escaped. A '[' without a
// closing bracket is a literal, as is a trailing backslash. Escapes
// outside classes are kept as they are.
func globPattern(pattern string) string {
	var b strings.Builder

	b.Grow(len(pattern) + 4)

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]

		switch {
		case c == '\\' && i+1 < len(pattern):
			b.WriteByte(c)
			i++
			b.WriteByte(pattern[i])
		case c == '\\':
			b.WriteString(`\\`)
		case c == '[':
			end := classEnd(pattern, i)
			if end < 0 {
				b.WriteString(`\[`)

				continue
			}

			writeClass(&b, pattern[i+1:end])
			i = end
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

// classEnd returns the index of the ']' closing the class opened at
// start, or -1 if the class is never closed.
func classEnd(pattern string, start int) int {
	i := start + 1
	if i < len(pattern) && (pattern[i] == '!' || pattern[i] == '^') {
		i++
	}

	// A ']' right after the opening (and negation) is a member.
	if i < len(pattern) && pattern[i] == ']' {
		i++
	}

	for ; i < len(pattern); i++ {
		switch pattern[i] {
		case '\\':
			i++
		case ']':
			return i
		}
	}

	return -1
}

// writeClass writes the class with the given body, brackets excluded.
func writeClass(b *strings.Builder, body string) {
	b.WriteByte('[')

	i := 0
	if i < len(body) && (body[i] == '!' || body[i] == '^') {
		b.WriteByte('^')
		i++
	}

	first := i

	for ; i < len(body); i++ {
		c := body[i]

		switch {
		case c == '\\' && i+1 < len(body):
			b.WriteByte(c)
			i++
			b.WriteByte(body[i])
		case c == ']':
			b.WriteString(`\]`)
		case c == '-' && (i == first || i == len(body)-1):
			b.WriteString(`\-`)
		default:
			b.WriteByte(c)
		}
	}

	b.WriteByte(']')
}
