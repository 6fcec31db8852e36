// Package hdl implements the front end of the HDL: a source lexer built on
// internal/lex and a recursive-descent parser that produces a symbolic,
// pre-inference module table (see Module).
package hdl

import "github.com/tbui468/grci/internal/lex"

// Token kinds. EOF is inherited from lex.EOF.
const (
	EOF = lex.EOF

	// literals and identifiers
	Ident lex.Type = iota
	Int
	Byte
	Word

	// Invalid marks a lexical error; its Value is the offending text.
	Invalid

	// keywords
	KwModule
	KwTest
	KwClock

	// structural symbols
	LBrace   // {
	RBrace   // }
	LParen   // (
	RParen   // )
	LBracket // [
	RBracket // ]
	Comma    // ,
	Dot      // .
	DotDot   // ..
	Minus    // -
	Greater  // >
	Arrow    // ->
	Colon    // :
)

var keywords = map[string]lex.Type{
	"module": KwModule,
	"test":   KwTest,
	"clock":  KwClock,
}

// tokenName renders a token kind for error messages.
func tokenName(t lex.Type) string {
	switch t {
	case EOF:
		return "end of file"
	case Ident:
		return "identifier"
	case Int:
		return "integer literal"
	case Byte:
		return "byte literal"
	case Word:
		return "word literal"
	case Invalid:
		return "invalid token"
	case KwModule:
		return "'module'"
	case KwTest:
		return "'test'"
	case KwClock:
		return "'clock'"
	case LBrace:
		return "'{'"
	case RBrace:
		return "'}'"
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case LBracket:
		return "'['"
	case RBracket:
		return "']'"
	case Comma:
		return "','"
	case Dot:
		return "'.'"
	case DotDot:
		return "'..'"
	case Minus:
		return "'-'"
	case Greater:
		return "'>'"
	case Arrow:
		return "'->'"
	case Colon:
		return "':'"
	default:
		return "token"
	}
}
