package scanner

import (
	"strconv"
	"unicode/utf8"

	"github.com/havrydotdev/treelox/diag"
	"github.com/havrydotdev/treelox/token"
)

type Scanner struct {
	source   string
	tokens   []token.Token
	reporter *diag.Reporter

	start   int
	current int
	line    int
}

func New(source string, reporter *diag.Reporter) *Scanner {
	return &Scanner{source: source, reporter: reporter, line: 1}
}

// Scan always returns a token stream terminated by a single Eof token.
// Lexical errors are reported and skipped.
func (s *Scanner) Scan() []token.Token {
	for !s.isAtEnd() {
		s.start = s.current
		s.scanToken()
	}

	s.tokens = append(s.tokens, token.New(token.Eof, "", nil, s.line))

	return s.tokens
}

func (s *Scanner) scanToken() {
	c := s.advance()

	switch c {
	// one-character tokens
	case '(':
		s.addToken(token.LeftParen)
	case ')':
		s.addToken(token.RightParen)
	case '{':
		s.addToken(token.LeftBrace)
	case '}':
		s.addToken(token.RightBrace)
	case ',':
		s.addToken(token.Comma)
	case '.':
		s.addToken(token.Dot)
	case '-':
		s.addToken(token.Minus)
	case '+':
		s.addToken(token.Plus)
	case ';':
		s.addToken(token.Semicolon)
	case '*':
		s.addToken(token.Star)

	// two or one character tokens
	case '!':
		kind := token.Bang
		if s.match('=') {
			kind = token.BangEqual
		}

		s.addToken(kind)
	case '=':
		kind := token.Equal
		if s.match('=') {
			kind = token.EqualEqual
		}

		s.addToken(kind)
	case '<':
		kind := token.Less
		if s.match('=') {
			kind = token.LessEqual
		}

		s.addToken(kind)
	case '>':
		kind := token.Greater
		if s.match('=') {
			kind = token.GreaterEqual
		}

		s.addToken(kind)

	// multiple character tokens
	case '/':
		if s.match('/') {
			for s.peek() != '\n' && !s.isAtEnd() {
				s.advance()
			}
		} else if s.match('*') {
			s.blockComment()
		} else {
			s.addToken(token.Slash)
		}

	// special characters
	case ' ', '\t', '\r':

	case '\n':
		s.line++

	// literals
	case '"':
		s.string()

	default:
		switch {
		case isDigit(c):
			s.number()
		case isAlpha(c):
			s.identifier()
		default:
			// skip the rest of a multi-byte rune so it is reported once
			if c >= utf8.RuneSelf {
				_, size := utf8.DecodeRuneInString(s.source[s.start:])
				s.current = s.start + size
			}

			s.reporter.Report(s.line, "Unexpected character.")
		}
	}
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c) || c == '_'
}

func (s *Scanner) blockComment() {
	for !s.isAtEnd() {
		if s.peek() == '*' && s.peekNext() == '/' {
			// eat comment terminator
			s.advance()
			s.advance()
			return
		}

		if s.peek() == '\n' {
			s.line++
		}

		s.advance()
	}
}

func (s *Scanner) identifier() {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}

	text := s.source[s.start:s.current]
	kind, ok := keywords[text]
	if !ok {
		kind = token.Identifier
	}

	s.addToken(kind)
}

func (s *Scanner) number() {
	for isDigit(s.peek()) {
		s.advance()
	}

	// a trailing dot stays a separate token: 1.foo is a property access
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()

		for isDigit(s.peek()) {
			s.advance()
		}
	}

	num, _ := strconv.ParseFloat(s.source[s.start:s.current], 64)

	s.addToken(token.Number, num)
}

func (s *Scanner) string() {
	for s.peek() != '"' && !s.isAtEnd() {
		if s.peek() == '\n' {
			s.line++
		}

		s.advance()
	}

	if s.isAtEnd() {
		s.reporter.Report(s.line, "Unterminated string.")
		return
	}

	s.advance()
	s.addToken(token.String, s.source[s.start+1:s.current-1])
}

func (s *Scanner) addToken(kind token.Kind, literal ...any) {
	var l any
	if len(literal) != 0 {
		l = literal[0]
	}

	lexeme := s.source[s.start:s.current]

	s.tokens = append(s.tokens, token.New(kind, lexeme, l, s.line))
}

func (s *Scanner) match(expected byte) bool {
	if s.isAtEnd() || s.source[s.current] != expected {
		return false
	}

	s.current++
	return true
}

func (s *Scanner) advance() byte {
	curr := s.current
	s.current++
	return s.source[curr]
}

func (s *Scanner) peek() byte {
	if s.isAtEnd() {
		return '\000'
	}

	return s.source[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.source) {
		return '\000'
	}

	return s.source[s.current+1]
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}
