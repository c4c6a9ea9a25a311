// Package doxygen parses the machine-generated index artifacts of a
// Doxygen HTML site: the navigation tree (navtreedata.js), the search
// index (search/all_*.js) and the namespace member index pages.
package doxygen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
)

// kind discriminates decoded JS literal values.
type kind int

const (
	kindNull kind = iota
	kindString
	kindNumber
	kindBool
	kindArray
)

// value is one node of a decoded Doxygen JS literal. Doxygen only ever
// emits nested arrays of strings, integers, booleans and null.
type value struct {
	kind kind
	str  string
	num  int
	b    bool
	arr  []value
}

func (v value) isString() bool { return v.kind == kindString }
func (v value) isArray() bool  { return v.kind == kindArray }
func (v value) isNull() bool   { return v.kind == kindNull }

// decodeVars scans a generated JS file for `var NAME = <literal>;`
// declarations and returns the decoded literals by name.
func decodeVars(src []byte) (map[string]value, error) {
	s := &scanner{src: src, line: 1}
	vars := map[string]value{}
	for {
		s.skipSpace()
		if s.eof() {
			return vars, nil
		}
		if !s.consumeWord("var") {
			return nil, s.errorf("expected 'var' declaration")
		}
		s.skipSpace()
		name := s.scanIdent()
		if name == "" {
			return nil, s.errorf("expected identifier after 'var'")
		}
		s.skipSpace()
		if !s.consumeByte('=') {
			return nil, s.errorf("expected '=' after 'var %s'", name)
		}
		v, err := s.scanValue()
		if err != nil {
			return nil, err
		}
		vars[name] = v
		s.skipSpace()
		s.consumeByte(';')
	}
}

type scanner struct {
	src  []byte
	pos  int
	line int
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

func (s *scanner) errorf(format string, args ...any) error {
	return fmt.Errorf("line %d, offset %d: %s", s.line, s.pos, fmt.Sprintf(format, args...))
}

func (s *scanner) skipSpace() {
	for !s.eof() {
		c := s.src[s.pos]
		switch {
		case c == '\n':
			s.line++
			s.pos++
		case c == ' ' || c == '\t' || c == '\r':
			s.pos++
		case c == '/' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '/':
			for !s.eof() && s.src[s.pos] != '\n' {
				s.pos++
			}
		case c == '/' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '*':
			s.pos += 2
			for !s.eof() {
				if s.src[s.pos] == '\n' {
					s.line++
				}
				if s.src[s.pos] == '*' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '/' {
					s.pos += 2
					break
				}
				s.pos++
			}
		default:
			return
		}
	}
}

func (s *scanner) consumeByte(c byte) bool {
	if !s.eof() && s.src[s.pos] == c {
		s.pos++
		return true
	}
	return false
}

func (s *scanner) consumeWord(word string) bool {
	end := s.pos + len(word)
	if end > len(s.src) || string(s.src[s.pos:end]) != word {
		return false
	}
	if end < len(s.src) && isIdentByte(s.src[end]) {
		return false
	}
	s.pos = end
	return true
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func (s *scanner) scanIdent() string {
	start := s.pos
	for !s.eof() && isIdentByte(s.src[s.pos]) {
		s.pos++
	}
	return string(s.src[start:s.pos])
}

func (s *scanner) scanValue() (value, error) {
	s.skipSpace()
	if s.eof() {
		return value{}, s.errorf("unexpected end of input")
	}
	switch c := s.src[s.pos]; {
	case c == '[':
		return s.scanArray()
	case c == '\'' || c == '"':
		str, err := s.scanString(c)
		if err != nil {
			return value{}, err
		}
		return value{kind: kindString, str: str}, nil
	case c == '-' || (c >= '0' && c <= '9'):
		return s.scanNumber()
	case s.consumeWord("null"):
		return value{kind: kindNull}, nil
	case s.consumeWord("true"):
		return value{kind: kindBool, b: true}, nil
	case s.consumeWord("false"):
		return value{kind: kindBool, b: false}, nil
	default:
		return value{}, s.errorf("unexpected character %q", c)
	}
}

func (s *scanner) scanArray() (value, error) {
	s.pos++ // consume '['
	arr := []value{}
	s.skipSpace()
	if s.consumeByte(']') {
		return value{kind: kindArray, arr: arr}, nil
	}
	for {
		v, err := s.scanValue()
		if err != nil {
			return value{}, err
		}
		arr = append(arr, v)
		s.skipSpace()
		if s.consumeByte(',') {
			continue
		}
		if s.consumeByte(']') {
			return value{kind: kindArray, arr: arr}, nil
		}
		if s.eof() {
			return value{}, s.errorf("unterminated array")
		}
		return value{}, s.errorf("expected ',' or ']' in array, got %q", s.src[s.pos])
	}
}

func (s *scanner) scanString(quote byte) (string, error) {
	s.pos++ // consume opening quote
	var sb strings.Builder
	for {
		if s.eof() {
			return "", s.errorf("unterminated string")
		}
		c := s.src[s.pos]
		switch c {
		case quote:
			s.pos++
			return sb.String(), nil
		case '\n':
			return "", s.errorf("unterminated string")
		case '\\':
			s.pos++
			if s.eof() {
				return "", s.errorf("unterminated escape sequence")
			}
			esc := s.src[s.pos]
			switch esc {
			case 'n':
				sb.WriteByte('\n')
				s.pos++
			case 't':
				sb.WriteByte('\t')
				s.pos++
			case 'r':
				sb.WriteByte('\r')
				s.pos++
			case 'u':
				r, err := s.scanUnicodeEscape()
				if err != nil {
					return "", err
				}
				sb.WriteRune(r)
			default:
				// \', \", \\, \/ and anything else: literal character
				sb.WriteByte(esc)
				s.pos++
			}
		default:
			sb.WriteByte(c)
			s.pos++
		}
	}
}

func (s *scanner) scanUnicodeEscape() (rune, error) {
	s.pos++ // consume 'u'
	if s.pos+4 > len(s.src) {
		return 0, s.errorf("truncated \\u escape")
	}
	n, err := strconv.ParseUint(string(s.src[s.pos:s.pos+4]), 16, 32)
	if err != nil {
		return 0, s.errorf("invalid \\u escape")
	}
	s.pos += 4
	r := rune(n)
	// Surrogate pair
	if utf16.IsSurrogate(r) && s.pos+6 <= len(s.src) && s.src[s.pos] == '\\' && s.src[s.pos+1] == 'u' {
		s.pos += 2
		n2, err := strconv.ParseUint(string(s.src[s.pos:s.pos+4]), 16, 32)
		if err != nil {
			return 0, s.errorf("invalid \\u escape")
		}
		s.pos += 4
		return utf16.DecodeRune(r, rune(n2)), nil
	}
	return r, nil
}

func (s *scanner) scanNumber() (value, error) {
	start := s.pos
	s.consumeByte('-')
	for !s.eof() && s.src[s.pos] >= '0' && s.src[s.pos] <= '9' {
		s.pos++
	}
	n, err := strconv.Atoi(string(s.src[start:s.pos]))
	if err != nil {
		return value{}, s.errorf("invalid number %q", s.src[start:s.pos])
	}
	return value{kind: kindNumber, num: n}, nil
}
