package npy

import (
	"bytes"
	"fmt"
	"strconv"
)

// The header text is a single Python dict literal in a very restricted
// form. This is a forward-only scanner over exactly that form: three known
// keys, two quote symbols, bare True/False and a tuple of decimal
// integers. Every deviation is a format error. A key appearing twice is
// tolerated and the later value wins; real .npy writers never do this, but
// rejecting it buys nothing.

var (
	keyDescr   = []byte("descr")
	keyShape   = []byte("shape")
	keyFortran = []byte("fortran_order")

	litTrue  = []byte("True")
	litFalse = []byte("False")
)

func isHeaderSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isQuote(c byte) bool {
	return c == '\'' || c == '"'
}

func skipSpaces(b []byte, p int) int {
	for p < len(b) && isHeaderSpace(b[p]) {
		p++
	}
	return p
}

// parseHeaderDict parses the dictionary literal in b, populating the
// array's dtype, shape and order fields. The dtype code is decoded last,
// after the whole dict has been consumed, so a repeated descr key resolves
// to its final value before validation.
func (a *Array) parseHeaderDict(b []byte) error {
	p := 0
	if p >= len(b) || b[p] != '{' {
		return fmt.Errorf("%w: header is not a dict", ErrFormat)
	}
	p++

	var rawDType string
	seenDType := false

	for {
		p = skipSpaces(b, p)
		if p >= len(b) {
			return fmt.Errorf("%w: unterminated header dict", ErrFormat)
		}
		if b[p] == '}' {
			p++
			break
		}

		quote := b[p]
		if !isQuote(quote) {
			return fmt.Errorf("%w: expected quoted key", ErrFormat)
		}
		p++

		var key int
		const (
			kDescr = iota
			kShape
			kFortran
		)
		switch {
		case bytes.HasPrefix(b[p:], keyDescr):
			key = kDescr
			p += len(keyDescr)
		case bytes.HasPrefix(b[p:], keyShape):
			key = kShape
			p += len(keyShape)
		case bytes.HasPrefix(b[p:], keyFortran):
			key = kFortran
			p += len(keyFortran)
		default:
			return fmt.Errorf("%w: unknown header key", ErrFormat)
		}

		// The closing quote must match the opening one.
		if p >= len(b) || b[p] != quote {
			return fmt.Errorf("%w: mismatched key quote", ErrFormat)
		}
		p++

		p = skipSpaces(b, p)
		if p >= len(b) || b[p] != ':' {
			return fmt.Errorf("%w: expected ':' after key", ErrFormat)
		}
		p++
		p = skipSpaces(b, p)
		if p >= len(b) {
			return fmt.Errorf("%w: missing value", ErrFormat)
		}

		switch key {
		case kDescr:
			s, next, err := parseQuoted(b, p)
			if err != nil {
				return err
			}
			rawDType = s
			seenDType = true
			p = next

		case kFortran:
			switch {
			case bytes.HasPrefix(b[p:], litTrue):
				a.FortranOrder = true
				p += len(litTrue)
			case bytes.HasPrefix(b[p:], litFalse):
				a.FortranOrder = false
				p += len(litFalse)
			default:
				return fmt.Errorf("%w: bad fortran_order literal", ErrFormat)
			}

		case kShape:
			next, err := a.parseShape(b, p)
			if err != nil {
				return err
			}
			p = next
		}

		p = skipSpaces(b, p)
		if p >= len(b) {
			return fmt.Errorf("%w: unterminated header dict", ErrFormat)
		}
		if b[p] == ',' {
			p++
		}
	}

	if !seenDType {
		return fmt.Errorf("%w: missing descr key", ErrFormat)
	}
	return a.setDType(rawDType)
}

// parseQuoted reads a quoted string starting at p. There are no escape
// sequences; the string runs to the first repeat of the opening quote.
func parseQuoted(b []byte, p int) (string, int, error) {
	quote := b[p]
	if !isQuote(quote) {
		return "", 0, fmt.Errorf("%w: expected quoted string", ErrFormat)
	}
	p++
	start := p
	for p < len(b) && b[p] != quote {
		p++
	}
	if p >= len(b) {
		return "", 0, fmt.Errorf("%w: unterminated string", ErrFormat)
	}
	return string(b[start:p]), p + 1, nil
}

// parseShape reads a parenthesized tuple of decimal integers starting at
// p, appending each axis extent to a.Shape. An empty token between
// separators is tolerated, so `()`, `(5,)` and `(2, 3)` all parse. The
// derived element count is cached on success.
func (a *Array) parseShape(b []byte, p int) (int, error) {
	if p >= len(b) || b[p] != '(' {
		return 0, fmt.Errorf("%w: shape is not a tuple", ErrFormat)
	}
	p++
	// Start over so a repeated shape key replaces, not extends.
	a.Shape = a.Shape[:0]

	for {
		p = skipSpaces(b, p)

		start := p
		for p < len(b) && b[p] >= '0' && b[p] <= '9' {
			p++
		}
		if p >= len(b) {
			return 0, fmt.Errorf("%w: unterminated shape tuple", ErrFormat)
		}
		if p > start {
			v, err := strconv.Atoi(string(b[start:p]))
			if err != nil {
				return 0, fmt.Errorf("%w: axis extent %q", ErrRange, b[start:p])
			}
			a.Shape = append(a.Shape, v)
		}

		p = skipSpaces(b, p)
		if p >= len(b) {
			return 0, fmt.Errorf("%w: unterminated shape tuple", ErrFormat)
		}
		switch b[p] {
		case ',':
			p++
		case ')':
			p++
			n, err := countElems(a.Shape)
			if err != nil {
				return 0, err
			}
			a.size = n
			return p, nil
		default:
			return 0, fmt.Errorf("%w: bad shape token", ErrFormat)
		}
	}
}
