package engine

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites script source before zygomys sees it:
//
//  1. :keyword becomes the string literal "__kw_keyword", so builtins can
//     tell keywords from values without registering globals.
//  2. kebab-case identifiers become snake_case (turn-on -> turn_on); zygomys
//     reads a hyphen between identifiers as subtraction.
//  3. ; line comments become // comments.
//
// String literals (double-quoted and backtick) are copied untouched.
func preprocessSource(source string) string {
	b := []byte(source)
	out := make([]byte, 0, len(b)+len(b)/4)
	for i := 0; i < len(b); {
		switch c := b[i]; {
		case c == '"':
			out, i = copyQuoted(out, b, i, '"', true)
		case c == '`':
			out, i = copyQuoted(out, b, i, '`', false)
		case c == ';':
			out = append(out, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				out = append(out, b[i])
				i++
			}
		case c == ':' && i+1 < len(b) && b[i+1] == '=':
			out = append(out, ':', '=')
			i += 2
		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out = append(out, '"')
			out = append(out, kwPrefix...)
			out = append(out, b[i+1:j]...)
			out = append(out, '"')
			i = j
		case c == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out = append(out, '_')
			i++
		default:
			out = append(out, c)
			i++
		}
	}
	return string(out)
}

// copyQuoted copies the literal opened by quote at b[i], including both
// quotes, and returns the index just past it.
func copyQuoted(out, b []byte, i int, quote byte, escapes bool) ([]byte, int) {
	out = append(out, b[i])
	i++
	for i < len(b) && b[i] != quote {
		if escapes && b[i] == '\\' && i+1 < len(b) {
			out = append(out, b[i], b[i+1])
			i += 2
			continue
		}
		out = append(out, b[i])
		i++
	}
	if i < len(b) {
		out = append(out, b[i])
		i++
	}
	return out, i
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}
