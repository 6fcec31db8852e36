package hdl

import (
	"strings"
	"unicode"

	"github.com/tbui468/grci/internal/lex"
)

// Lexer returns a new lexer over HDL source text.
func Lexer(src []byte) lex.Interface {
	return lex.New(strings.NewReader(string(src)), lexInit)
}

func lexInit(l *lex.Lexer) lex.StateFn {
	r := l.Next()
	switch {
	case r == lex.RuneEOF:
		return lexEOF
	case unicode.IsSpace(r):
		l.AcceptWhile(unicode.IsSpace)
		l.Discard()
		return lexInit
	case r == '/':
		return lexComment
	case unicode.IsLetter(r) || r == '_':
		return lexIdent
	case '0' <= r && r <= '9':
		return lexNumber
	case r == '{':
		l.Emit(LBrace, "{")
	case r == '}':
		l.Emit(RBrace, "}")
	case r == '(':
		l.Emit(LParen, "(")
	case r == ')':
		l.Emit(RParen, ")")
	case r == '[':
		l.Emit(LBracket, "[")
	case r == ']':
		l.Emit(RBracket, "]")
	case r == ',':
		l.Emit(Comma, ",")
	case r == ':':
		l.Emit(Colon, ":")
	case r == '.':
		if n := l.Next(); n == '.' {
			l.Emit(DotDot, "..")
		} else {
			if n != lex.RuneEOF {
				l.Backup()
			}
			l.Emit(Dot, ".")
		}
	case r == '-':
		if n := l.Next(); n == '>' {
			l.Emit(Arrow, "->")
		} else {
			if n != lex.RuneEOF {
				l.Backup()
			}
			l.Emit(Minus, "-")
		}
	case r == '>':
		l.Emit(Greater, ">")
	default:
		l.Emit(Invalid, string(r))
	}
	return lexInit
}

// lexComment is entered right after a leading '/' has been consumed. It
// recognizes "//" line comments and "/* */" block comments; any other
// character following the initial '/' is a lexical error, reported as an
// Invalid token carrying "/" so the parser surfaces a clear message.
func lexComment(l *lex.Lexer) lex.StateFn {
	switch r := l.Next(); r {
	case '/':
		for {
			r := l.Next()
			if r == '\n' {
				l.Backup()
				break
			}
			if r == lex.RuneEOF {
				break
			}
		}
		l.Discard()
		return lexInit
	case '*':
		for {
			r := l.Next()
			if r == lex.RuneEOF {
				break
			}
			if r == '*' && l.Peek() == '/' {
				l.Next()
				break
			}
		}
		l.Discard()
		return lexInit
	default:
		if r != lex.RuneEOF {
			l.Backup()
		}
		l.Emit(Invalid, "/")
		return lexInit
	}
}

func lexIdent(l *lex.Lexer) lex.StateFn {
	l.AcceptWhile(func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
	})
	// we consumed the first rune via Next() before entering this state,
	// so the identifier text spans [start, pos).
	name := identText(l)
	if kw, ok := keywords[name]; ok {
		l.Emit(kw, name)
	} else {
		l.Emit(Ident, name)
	}
	return lexInit
}

func lexNumber(l *lex.Lexer) lex.StateFn {
	first := l.Current()
	if first == '0' {
		switch l.Peek() {
		case 'b':
			l.Next()
			return lexBinary(Byte, 8)
		case 'w':
			l.Next()
			return lexBinary(Word, 16)
		}
	}
	l.AcceptWhile(unicode.IsDigit)
	v := parseDecimal(identText(l))
	l.Emit(Int, v)
	return lexInit
}

// lexBinary returns a state function that scans a run of '0'/'1' digits
// (up to maxBits of them) and emits t with the resulting integer value.
func lexBinary(t lex.Type, maxBits int) lex.StateFn {
	return func(l *lex.Lexer) lex.StateFn {
		v := 0
		n := 0
		for {
			r := l.Peek()
			if r != '0' && r != '1' {
				break
			}
			l.Next()
			v = v<<1 | int(r-'0')
			n++
		}
		if n == 0 || n > maxBits {
			l.Emit(Invalid, l.PendingText())
			return lexInit
		}
		l.Emit(t, v)
		return lexInit
	}
}

func lexEOF(l *lex.Lexer) lex.StateFn {
	l.Emit(EOF, "end of input")
	return lexEOF
}

func identText(l *lex.Lexer) string {
	return l.PendingText()
}

func parseDecimal(s string) int {
	v := 0
	for _, r := range s {
		v = v*10 + int(r-'0')
	}
	return v
}
