package codec

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"contentboard/internal/script"
)

// SyntaxError reports malformed input to Deserialize.
type SyntaxError struct {
	Offset int
	Line   int
	Column int
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Reason)
}

// Deserialize evaluates text as a single literal expression. Every call uses
// its own parser state; nothing leaks between calls. Callables must be Lua
// function literals and are returned as script.Script without being run.
func Deserialize(text string) (any, error) {
	p := &parser{src: text}
	p.skipSpace()
	if p.eof() {
		return nil, p.errorf("empty input")
	}
	v, err := p.value()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected trailing input %q", p.peekWord())
	}
	return v, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) errorf(format string, args ...any) *SyntaxError {
	return p.errorAt(p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) errorAt(offset int, reason string) *SyntaxError {
	if offset > len(p.src) {
		offset = len(p.src)
	}
	before := p.src[:offset]
	line := strings.Count(before, "\n") + 1
	col := offset - strings.LastIndex(before, "\n")
	return &SyntaxError{Offset: offset, Line: line, Column: col, Reason: reason}
}

func (p *parser) peekWord() string {
	end := p.pos
	for end < len(p.src) && end-p.pos < 16 && !isSpace(p.src[end]) {
		end++
	}
	return p.src[p.pos:end]
}

func (p *parser) skipSpace() {
	for !p.eof() {
		c := p.src[p.pos]
		if isSpace(c) {
			p.pos++
			continue
		}
		if strings.HasPrefix(p.src[p.pos:], "--") {
			p.pos = skipComment(p.src, p.pos)
			continue
		}
		return
	}
}

func (p *parser) value() (any, error) {
	if p.eof() {
		return nil, p.errorf("unexpected end of input")
	}
	switch c := p.src[p.pos]; {
	case c == '[':
		return p.sequence()
	case c == '{':
		return p.mapping()
	case c == '"':
		return p.str()
	case c == '-' || isDigit(c):
		return p.number()
	case isIdentStart(c):
		word := readIdent(p.src, p.pos)
		switch word {
		case "true":
			p.pos += len(word)
			return true, nil
		case "false":
			p.pos += len(word)
			return false, nil
		case "null", "nil":
			p.pos += len(word)
			return nil, nil
		case "function":
			return p.function()
		}
		return nil, p.errorf("unknown identifier %q", word)
	default:
		return nil, p.errorf("unexpected character %q", c)
	}
}

func (p *parser) sequence() (any, error) {
	p.pos++
	items := []any{}
	for {
		p.skipSpace()
		if p.eof() {
			return nil, p.errorf("unterminated sequence")
		}
		if p.src[p.pos] == ']' {
			p.pos++
			return items, nil
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
		p.skipSpace()
		if p.eof() {
			return nil, p.errorf("unterminated sequence")
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case ']':
		default:
			return nil, p.errorf("expected ',' or ']' in sequence")
		}
	}
}

func (p *parser) mapping() (any, error) {
	p.pos++
	m := Map{}
	for {
		p.skipSpace()
		if p.eof() {
			return nil, p.errorf("unterminated mapping")
		}
		if p.src[p.pos] == '}' {
			p.pos++
			return m, nil
		}
		key, err := p.key()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.eof() || p.src[p.pos] != ':' {
			return nil, p.errorf("expected ':' after key %q", key)
		}
		p.pos++
		p.skipSpace()
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		m.Set(key, v)
		p.skipSpace()
		if p.eof() {
			return nil, p.errorf("unterminated mapping")
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case '}':
		default:
			return nil, p.errorf("expected ',' or '}' in mapping")
		}
	}
}

func (p *parser) key() (string, error) {
	c := p.src[p.pos]
	if c == '"' {
		v, err := p.str()
		if err != nil {
			return "", err
		}
		return v.(string), nil
	}
	if isIdentStart(c) {
		word := readIdent(p.src, p.pos)
		p.pos += len(word)
		return word, nil
	}
	return "", p.errorf("expected mapping key")
}

func (p *parser) str() (any, error) {
	start := p.pos
	i := p.pos + 1
	for i < len(p.src) {
		switch p.src[i] {
		case '\\':
			i += 2
			continue
		case '\n':
			return nil, p.errorAt(i, "newline in string literal")
		case '"':
			var out string
			if err := json.Unmarshal([]byte(p.src[start:i+1]), &out); err != nil {
				return nil, p.errorAt(start, "invalid string literal: "+err.Error())
			}
			p.pos = i + 1
			return out, nil
		}
		i++
	}
	return nil, p.errorAt(start, "unterminated string literal")
}

func (p *parser) number() (any, error) {
	start := p.pos
	i := p.pos
	if p.src[i] == '-' {
		i++
	}
	integral := true
scan:
	for i < len(p.src) {
		c := p.src[i]
		switch {
		case isDigit(c):
		case c == '.' || c == 'e' || c == 'E':
			integral = false
		case (c == '+' || c == '-') && (p.src[i-1] == 'e' || p.src[i-1] == 'E'):
		default:
			break scan
		}
		i++
	}
	lit := p.src[start:i]
	if lit == "-" {
		return nil, p.errorAt(start, "invalid number")
	}
	if integral {
		if n, err := strconv.ParseInt(lit, 10, 64); err == nil {
			p.pos = i
			return n, nil
		}
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return nil, p.errorAt(start, fmt.Sprintf("invalid number %q", lit))
	}
	p.pos = i
	return f, nil
}

func (p *parser) function() (any, error) {
	start := p.pos
	end, err := scanFunction(p.src, start)
	if err != nil {
		return nil, p.errorAt(start, err.Error())
	}
	s := script.Script{Source: p.src[start:end]}
	if err := s.Compile(); err != nil {
		return nil, p.errorAt(start, err.Error())
	}
	p.pos = end
	return s, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func readIdent(src string, pos int) string {
	end := pos
	for end < len(src) && isIdentPart(src[end]) {
		end++
	}
	return src[pos:end]
}
