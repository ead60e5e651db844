package codec

import (
	"errors"
	"strings"
)

var errUnterminatedFunction = errors.New("unterminated function literal")

// scanFunction returns the offset just past the `end` closing the Lua function
// literal that starts at pos. It only balances block keywords; the Lua
// compiler validates the extracted source afterwards.
func scanFunction(src string, pos int) (int, error) {
	depth := 0
	i := pos
	for i < len(src) {
		c := src[i]
		switch {
		case c == '-' && strings.HasPrefix(src[i:], "--"):
			i = skipComment(src, i)
		case c == '"' || c == '\'':
			next, err := skipQuoted(src, i)
			if err != nil {
				return 0, err
			}
			i = next
		case c == '[' && longBracketLevel(src, i) >= 0:
			next, err := skipLongBracket(src, i)
			if err != nil {
				return 0, err
			}
			i = next
		case isIdentStart(c):
			word := readIdent(src, i)
			i += len(word)
			switch word {
			case "function", "if", "do", "repeat":
				depth++
			case "end", "until":
				depth--
				if depth == 0 {
					if word == "until" {
						return 0, errors.New("unexpected 'until' closing function literal")
					}
					return i, nil
				}
				if depth < 0 {
					return 0, errors.New("unbalanced block")
				}
			}
		case isDigit(c):
			for i < len(src) && (isIdentPart(src[i]) || src[i] == '.') {
				i++
			}
		default:
			i++
		}
	}
	return 0, errUnterminatedFunction
}

// skipComment skips a Lua comment starting at the `--` at pos.
func skipComment(src string, pos int) int {
	i := pos + 2
	if i < len(src) && src[i] == '[' && longBracketLevel(src, i) >= 0 {
		if next, err := skipLongBracket(src, i); err == nil {
			return next
		}
		return len(src)
	}
	nl := strings.IndexByte(src[i:], '\n')
	if nl < 0 {
		return len(src)
	}
	return i + nl + 1
}

func skipQuoted(src string, pos int) (int, error) {
	quote := src[pos]
	i := pos + 1
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
			continue
		case '\n':
			return 0, errors.New("unfinished string in function literal")
		case quote:
			return i + 1, nil
		}
		i++
	}
	return 0, errors.New("unfinished string in function literal")
}

// longBracketLevel returns n for an opening `[` followed by n `=` and `[`, or -1.
func longBracketLevel(src string, pos int) int {
	i := pos + 1
	level := 0
	for i < len(src) && src[i] == '=' {
		level++
		i++
	}
	if i < len(src) && src[i] == '[' {
		return level
	}
	return -1
}

func skipLongBracket(src string, pos int) (int, error) {
	level := longBracketLevel(src, pos)
	closing := "]" + strings.Repeat("=", level) + "]"
	open := pos + level + 2
	idx := strings.Index(src[open:], closing)
	if idx < 0 {
		return 0, errors.New("unfinished long string in function literal")
	}
	return open + idx + len(closing), nil
}
