package token

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []TokenType
	}{
		{"true", []TokenType{TTrue}},
		{"G ('A' -> X F 'B')", []TokenType{TGlobally, TLParen, TQuoted, TImplies, TNext, TFinally, TQuoted, TRParen}},
		{"<'T'(?x;?y)> true", []TokenType{TLAngle, TQuoted, TLParen, TVar, TSemi, TVar, TRParen, TRAngle, TTrue}},
		{"a <-> b", []TokenType{TIdent, TIff, TIdent}},
		{"=(?a,?b) # trailing comment\n!x", []TokenType{TEq, TLParen, TVar, TComma, TVar, TRParen, TNot, TIdent}},
		{"Exists ?x Forall ?y p U q", []TokenType{TExists, TVar, TForall, TVar, TIdent, TUntil, TIdent}},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			toks, err := Tokenize(nil, []byte(tc.in))
			if err != nil {
				t.Fatal(err)
			}
			var got []TokenType
			for _, tok := range toks {
				got = append(got, tok.Type)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("tokens (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenStrings(t *testing.T) {
	toks, err := Tokenize(nil, []byte(`'it\'s' ?var`))
	if err != nil {
		t.Fatal(err)
	}
	if got := toks[0].String(); got != "it's" {
		t.Errorf("quoted gave %q", got)
	}
	if got := toks[1].String(); got != "var" {
		t.Errorf("var gave %q", got)
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		in   string
		want error
		line int
	}{
		{"'open", ErrUnterminated, 0},
		{"a\n - b", ErrBadChar, 1},
		{"? x", ErrEmptyVar, 0},
		{"a $ b", ErrBadChar, 0},
	}
	for _, tc := range tests {
		_, err := Tokenize(nil, []byte(tc.in))
		if !errors.Is(err, tc.want) {
			t.Errorf("%q: got %v want %v", tc.in, err, tc.want)
			continue
		}
		var te *TokenizeErr
		if !errors.As(err, &te) {
			t.Errorf("%q: not a TokenizeErr", tc.in)
			continue
		}
		if te.Pos.Line() != tc.line {
			t.Errorf("%q: line %d want %d", tc.in, te.Pos.Line(), tc.line)
		}
	}
}
