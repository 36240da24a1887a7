package dts

// Low-level scanning over declaration source text. All positions are byte
// offsets; the scanner never fails, it only runs out of input.

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9') ||
		c >= 0x80 // non-ASCII identifier bytes pass through untyped
}

// skipTrivia advances past whitespace and comments starting at i.
func skipTrivia(src string, i int) int {
	for i < len(src) {
		switch {
		case isSpace(src[i]):
			i++
		case src[i] == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case src[i] == '/' && i+1 < len(src) && src[i+1] == '*':
			i += 2
			for i+1 < len(src) && !(src[i] == '*' && src[i+1] == '/') {
				i++
			}
			i = min(i+2, len(src))
		default:
			return i
		}
	}
	return i
}

// skipInlineSpace advances past spaces and tabs only.
func skipInlineSpace(src string, i int) int {
	for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	return i
}

// wordAt reads the identifier or keyword starting at i and the offset just
// past it. An empty word means i does not start an identifier.
func wordAt(src string, i int) (string, int) {
	j := i
	for j < len(src) && isIdentByte(src[j]) {
		j++
	}
	return src[i:j], j
}

// skipString advances past the string or template literal opening at i.
// Template substitutions (`${ ... }`) are skipped with full nesting,
// including strings and templates inside them.
func skipString(src string, i int) int {
	quote := src[i]
	i++
	for i < len(src) {
		switch c := src[i]; {
		case c == '\\':
			i += 2
		case c == quote:
			return i + 1
		case quote == '`' && c == '$' && i+1 < len(src) && src[i+1] == '{':
			i = skipBraces(src, i+1)
		case quote != '`' && c == '\n':
			// unterminated single-line string; stop at the line break
			return i
		default:
			i++
		}
	}
	return i
}

// skipBraces advances past the brace group opening at i, skipping nested
// strings, templates, and comments.
func skipBraces(src string, i int) int {
	depth := 0
	for i < len(src) {
		switch src[i] {
		case '\'', '"', '`':
			i = skipString(src, i)
		case '/':
			if j := skipTrivia(src, i); j > i {
				i = j
			} else {
				i++
			}
		case '{':
			depth++
			i++
		case '}':
			depth--
			i++
			if depth == 0 {
				return i
			}
		default:
			i++
		}
	}
	return i
}

// scanStringLiteral decodes the string literal opening at i, returning its
// value and the offset just past the closing quote. ok is false when i does
// not start a plain (non-template) string literal.
func scanStringLiteral(src string, i int) (value string, end int, ok bool) {
	if i >= len(src) || (src[i] != '\'' && src[i] != '"') {
		return "", i, false
	}
	quote := src[i]
	var b []byte
	j := i + 1
	for j < len(src) {
		switch c := src[j]; c {
		case '\\':
			if j+1 < len(src) {
				switch e := src[j+1]; e {
				case 'n':
					b = append(b, '\n')
				case 't':
					b = append(b, '\t')
				case 'r':
					b = append(b, '\r')
				default:
					b = append(b, e)
				}
				j += 2
				continue
			}
			j++
		case quote:
			return string(b), j + 1, true
		case '\n':
			return string(b), j, false
		default:
			b = append(b, c)
			j++
		}
	}
	return string(b), j, false
}
