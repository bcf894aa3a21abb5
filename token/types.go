package token

import (
	"errors"
	"fmt"
	"strings"
)

type TokenType int

const (
	TLParen TokenType = iota
	TRParen
	TComma
	TSemi
	TLAngle
	TRAngle
	TNot
	TAnd
	TOr
	TImplies
	TIff
	TEq
	TQuoted
	TVar
	TIdent
	TTrue
	TFalse
	TGlobally
	TFinally
	TNext
	TUntil
	TExists
	TForall
)

func (t TokenType) String() string {
	return map[TokenType]string{
		TLParen:   "TLParen",
		TRParen:   "TRParen",
		TComma:    "TComma",
		TSemi:     "TSemi",
		TLAngle:   "TLAngle",
		TRAngle:   "TRAngle",
		TNot:      "TNot",
		TAnd:      "TAnd",
		TOr:       "TOr",
		TImplies:  "TImplies",
		TIff:      "TIff",
		TEq:       "TEq",
		TQuoted:   "TQuoted",
		TVar:      "TVar",
		TIdent:    "TIdent",
		TTrue:     "TTrue",
		TFalse:    "TFalse",
		TGlobally: "TGlobally",
		TFinally:  "TFinally",
		TNext:     "TNext",
		TUntil:    "TUntil",
		TExists:   "TExists",
		TForall:   "TForall",
	}[t]
}

var keywords = map[string]TokenType{
	"true":   TTrue,
	"false":  TFalse,
	"G":      TGlobally,
	"F":      TFinally,
	"X":      TNext,
	"U":      TUntil,
	"Exists": TExists,
	"Forall": TForall,
}

type Token struct {
	Type  TokenType
	Pos   *Pos
	Bytes []byte
}

func (t *Token) Info() string {
	return fmt.Sprintf("%s %s", t.Type, t.Pos.String())
}

// String returns the token text. Quoted ids are unquoted and variables lose
// their '?'.
func (t *Token) String() string {
	switch t.Type {
	case TQuoted:
		return unquote(t.Bytes)
	case TVar:
		return string(t.Bytes[1:])
	default:
		return string(t.Bytes)
	}
}

func unquote(d []byte) string {
	var b strings.Builder
	inner := d[1 : len(d)-1]
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c == '\\' && i+1 < len(inner) {
			i++
			c = inner[i]
		}
		b.WriteByte(c)
	}
	return b.String()
}

var (
	ErrUnterminated = errors.New("unterminated quoted id")
	ErrBadChar      = errors.New("bad character")
	ErrEmptyVar     = errors.New("empty variable name")
)

type TokenizeErr struct {
	Err error
	Pos Pos
}

func (t *TokenizeErr) Unwrap() error {
	return t.Err
}

func NewTokenizeErr(e error, p *Pos) *TokenizeErr {
	return &TokenizeErr{Err: e, Pos: *p}
}

func (e *TokenizeErr) Error() string {
	return fmt.Sprintf("%s at %s", e.Err.Error(), e.Pos.String())
}

func ExpectedErr(what string, p *Pos) error {
	return NewTokenizeErr(fmt.Errorf("expected %s", what), p)
}

func UnexpectedErr(what string, p *Pos) error {
	return NewTokenizeErr(fmt.Errorf("unexpected %s", what), p)
}
