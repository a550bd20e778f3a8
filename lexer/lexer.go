// Package lexer provides a simple tokenizing facade over the scanner.
package lexer

import (
	"io"

	"golang.org/x/xerrors"

	"github.com/cyrup-ai/go-yyaml/errors"
	"github.com/cyrup-ai/go-yyaml/scanner"
	"github.com/cyrup-ai/go-yyaml/token"
)

// Tokenize scans src into a token collection. On a scan error the tokens
// produced so far are returned together with the error; the offending text
// is appended as an invalid token so error excerpts can render it.
func Tokenize(src []byte) (token.Tokens, error) {
	var s scanner.Scanner
	if err := s.Init(src); err != nil {
		return nil, err
	}
	var tokens token.Tokens
	for {
		tk, err := s.Scan()
		if err == io.EOF {
			return tokens, nil
		}
		if err != nil {
			var syntaxErr *errors.SyntaxError
			if xerrors.As(err, &syntaxErr) && syntaxErr.Token != nil {
				tokens.Add(syntaxErr.Token)
			}
			return tokens, err
		}
		tokens.Add(tk)
	}
}
