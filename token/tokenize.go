package token

import (
	"github.com/signadot/wfsynth/debug"
)

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdent(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// Tokenize appends the tokens of src to dst.
func Tokenize(dst []Token, src []byte) ([]Token, error) {
	doc := NewPosDoc(src)
	n := len(src)
	i := 0
	emit := func(tt TokenType, start, end int) {
		dst = append(dst, Token{Type: tt, Pos: doc.Pos(start), Bytes: src[start:end]})
		if debug.Parse() {
			debug.Logf("token %s %q\n", tt, src[start:end])
		}
	}
	for i < n {
		c := src[i]
		switch c {
		case ' ', '\t', '\r', '\n':
			i++
		case '#':
			for i < n && src[i] != '\n' {
				i++
			}
		case '(':
			emit(TLParen, i, i+1)
			i++
		case ')':
			emit(TRParen, i, i+1)
			i++
		case ',':
			emit(TComma, i, i+1)
			i++
		case ';':
			emit(TSemi, i, i+1)
			i++
		case '>':
			emit(TRAngle, i, i+1)
			i++
		case '!':
			emit(TNot, i, i+1)
			i++
		case '&':
			emit(TAnd, i, i+1)
			i++
		case '|':
			emit(TOr, i, i+1)
			i++
		case '=':
			emit(TEq, i, i+1)
			i++
		case '<':
			if i+2 < n && src[i+1] == '-' && src[i+2] == '>' {
				emit(TIff, i, i+3)
				i += 3
				continue
			}
			emit(TLAngle, i, i+1)
			i++
		case '-':
			if i+1 < n && src[i+1] == '>' {
				emit(TImplies, i, i+2)
				i += 2
				continue
			}
			return nil, NewTokenizeErr(ErrBadChar, doc.Pos(i))
		case '\'':
			j := i + 1
			for j < n && src[j] != '\'' {
				if src[j] == '\\' {
					j++
				}
				j++
			}
			if j >= n {
				return nil, NewTokenizeErr(ErrUnterminated, doc.Pos(i))
			}
			emit(TQuoted, i, j+1)
			i = j + 1
		case '?':
			j := i + 1
			for j < n && isIdent(src[j]) {
				j++
			}
			if j == i+1 {
				return nil, NewTokenizeErr(ErrEmptyVar, doc.Pos(i))
			}
			emit(TVar, i, j)
			i = j
		default:
			if !isIdentStart(c) {
				return nil, NewTokenizeErr(ErrBadChar, doc.Pos(i))
			}
			j := i + 1
			for j < n && isIdent(src[j]) {
				j++
			}
			tt, ok := keywords[string(src[i:j])]
			if !ok {
				tt = TIdent
			}
			emit(tt, i, j)
			i = j
		}
	}
	return dst, nil
}
