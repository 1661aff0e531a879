// Package restore serializes and parses restore transcripts: the ordered,
// append-only scripts of inverse commands an apply run emits so every change
// it commits can be undone.
//
// A transcript is line-oriented text. Blank lines and lines starting with '#'
// are ignored. Each command line is one of:
//
//	set "<key path>" "<value name>" = <literal>
//	delete "<key path>" "<value name>"
//
// where <literal> follows the payload kind exactly: integers are bare
// numerals, string arrays are a bracketed list of quoted elements, and
// strings are a single quoted literal. Key paths and value names are always
// quoted, so backslashes and embedded quotes survive the round trip.
package restore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/bwright86/RegistryTools/pkg/types"
)

const commentPrefix = "#"

// Op is a parsed transcript command.
type Op interface{ isOp() }

// OpSet restores a value to a prior payload.
type OpSet struct {
	Path  string
	Name  string
	Value types.Payload
}

func (OpSet) isOp() {}

// OpDelete removes a value that did not exist before the run.
type OpDelete struct {
	Path string
	Name string
}

func (OpDelete) isOp() {}

// FormatSet renders the inverse command for an updated value: set it back to
// the prior payload. The three-way switch below is the only place payload
// kinds are serialized for transcripts.
func FormatSet(path, name string, p types.Payload) string {
	var lit string
	switch p.Kind {
	case types.KindDWord:
		lit = strconv.FormatUint(uint64(p.Num), 10)
	case types.KindMultiString:
		quoted := make([]string, len(p.List))
		for i, e := range p.List {
			quoted[i] = strconv.Quote(e)
		}
		lit = "[" + strings.Join(quoted, ", ") + "]"
	default:
		lit = strconv.Quote(p.Str)
	}
	return fmt.Sprintf("set %s %s = %s", strconv.Quote(path), strconv.Quote(name), lit)
}

// FormatDelete renders the inverse command for a created value: remove it.
func FormatDelete(path, name string) string {
	return fmt.Sprintf("delete %s %s", strconv.Quote(path), strconv.Quote(name))
}

// ParseScript reads a whole transcript, preserving command order.
func ParseScript(r io.Reader) ([]Op, error) {
	var ops []Op
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		op, err := ParseLine(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if op != nil {
			ops = append(ops, op)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return ops, nil
}

// ParseLine parses a single transcript line. Blank and comment lines yield
// (nil, nil).
func ParseLine(line string) (Op, error) {
	s := strings.TrimSpace(line)
	if s == "" || strings.HasPrefix(s, commentPrefix) {
		return nil, nil
	}

	verb, rest := scanWord(s)
	switch verb {
	case "set":
		path, rest, err := scanQuoted(rest)
		if err != nil {
			return nil, fmt.Errorf("set: key path: %w", err)
		}
		name, rest, err := scanQuoted(rest)
		if err != nil {
			return nil, fmt.Errorf("set: value name: %w", err)
		}
		rest = strings.TrimSpace(rest)
		if !strings.HasPrefix(rest, "=") {
			return nil, errors.New("set: expected '='")
		}
		p, err := parseLiteral(strings.TrimSpace(rest[1:]))
		if err != nil {
			return nil, fmt.Errorf("set: %w", err)
		}
		return OpSet{Path: path, Name: name, Value: p}, nil

	case "delete":
		path, rest, err := scanQuoted(rest)
		if err != nil {
			return nil, fmt.Errorf("delete: key path: %w", err)
		}
		name, rest, err := scanQuoted(rest)
		if err != nil {
			return nil, fmt.Errorf("delete: value name: %w", err)
		}
		if strings.TrimSpace(rest) != "" {
			return nil, errors.New("delete: trailing input")
		}
		return OpDelete{Path: path, Name: name}, nil

	default:
		return nil, fmt.Errorf("unknown command %q", verb)
	}
}

// parseLiteral decodes the right-hand side of a set command back into a
// payload, dispatching on the leading character.
func parseLiteral(s string) (types.Payload, error) {
	if s == "" {
		return types.Payload{}, errors.New("missing literal")
	}
	switch {
	case s[0] == '"':
		str, rest, err := scanQuoted(s)
		if err != nil {
			return types.Payload{}, err
		}
		if strings.TrimSpace(rest) != "" {
			return types.Payload{}, errors.New("trailing input after string literal")
		}
		return types.StringValue(str), nil

	case s[0] == '[':
		elems, err := parseList(s)
		if err != nil {
			return types.Payload{}, err
		}
		return types.MultiStringValue(elems...), nil

	case unicode.IsDigit(rune(s[0])):
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return types.Payload{}, fmt.Errorf("invalid numeral %q: %w", s, err)
		}
		return types.DWordValue(uint32(n)), nil

	default:
		return types.Payload{}, fmt.Errorf("unrecognized literal %q", s)
	}
}

// parseList decodes a bracketed list of quoted strings.
func parseList(s string) ([]string, error) {
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("malformed list %q", s)
	}
	body := strings.TrimSpace(s[1 : len(s)-1])
	elems := []string{}
	for body != "" {
		elem, rest, err := scanQuoted(body)
		if err != nil {
			return nil, fmt.Errorf("list element %d: %w", len(elems), err)
		}
		elems = append(elems, elem)
		rest = strings.TrimSpace(rest)
		if rest == "" {
			break
		}
		if !strings.HasPrefix(rest, ",") {
			return nil, errors.New("expected ',' between list elements")
		}
		body = strings.TrimSpace(rest[1:])
		if body == "" {
			return nil, errors.New("trailing ',' in list")
		}
	}
	return elems, nil
}

// scanWord splits off the leading bare word.
func scanWord(s string) (word, rest string) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i:]
}

// scanQuoted consumes one Go-quoted string literal from the front of s,
// returning the decoded value and the remainder.
func scanQuoted(s string) (value, rest string, err error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || s[0] != '"' {
		return "", "", fmt.Errorf("expected quoted string at %q", s)
	}
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++ // skip escaped char
		case '"':
			value, err = strconv.Unquote(s[:i+1])
			if err != nil {
				return "", "", fmt.Errorf("bad quoted string %q: %w", s[:i+1], err)
			}
			return value, s[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("unterminated quoted string at %q", s)
}
