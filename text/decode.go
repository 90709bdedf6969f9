package text

import (
	"strconv"

	"github.com/bytewisp/condensed/value"
)

// Decode parses JSON text into a Value. Parsing is permissive: commas are
// treated as whitespace and empty input decodes to Null. Any other
// malformed input is fatal: the first error aborts the parse, there is no
// recovery.
func Decode(s string) (*value.Value, error) {
	d := &decoder{src: []byte(s)}
	d.skipWhitespace()
	if d.atEnd() {
		return value.NewNull(), nil
	}
	v, err := d.parseValue()
	if err != nil {
		return nil, err
	}
	return v, nil
}

type decoder struct {
	src []byte
	pos int
}

func (d *decoder) atEnd() bool {
	return d.pos >= len(d.src)
}

func (d *decoder) peek() byte {
	return d.src[d.pos]
}

// skipWhitespace consumes spaces, tabs, newlines and commas (commas are
// treated as whitespace) plus carriage returns, a permissive extension so
// CRLF-delimited input parses the same as LF-delimited input.
func (d *decoder) skipWhitespace() {
	for !d.atEnd() {
		switch d.peek() {
		case ' ', '\t', '\n', '\r', ',':
			d.pos++
		default:
			return
		}
	}
}

func (d *decoder) fail(kind TextErrorKind, detail string) error {
	return &MalformedTextError{Offset: d.pos, Subkind: kind, Detail: detail}
}

func (d *decoder) parseValue() (*value.Value, error) {
	if d.atEnd() {
		return nil, d.fail(UnexpectedByte, "unexpected end of input")
	}
	switch c := d.peek(); {
	case c == '"':
		return d.parseString()
	case c == '{':
		return d.parseObject()
	case c == '[':
		return d.parseArray()
	case c == 't':
		return d.parseLiteral("true", value.NewBool(true))
	case c == 'f':
		return d.parseLiteral("false", value.NewBool(false))
	case c == 'n':
		return d.parseLiteral("null", value.NewNull())
	case c == '-' || c == '+' || (c >= '0' && c <= '9'):
		return d.parseNumber()
	default:
		return nil, d.fail(UnexpectedByte, "unexpected byte '"+string(c)+"'")
	}
}

func (d *decoder) parseLiteral(word string, result *value.Value) (*value.Value, error) {
	start := d.pos
	for i := 0; i < len(word); i++ {
		if d.atEnd() || d.src[d.pos] != word[i] {
			return nil, &MalformedTextError{Offset: start, Subkind: BadLiteral, Detail: "expected " + word}
		}
		d.pos++
	}
	return result, nil
}

func (d *decoder) parseNumber() (*value.Value, error) {
	start := d.pos
	for !d.atEnd() {
		switch c := d.peek(); {
		case c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E' || (c >= '0' && c <= '9'):
			d.pos++
		default:
			goto done
		}
	}
done:
	text := string(d.src[start:d.pos])
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, &MalformedTextError{Offset: start, Subkind: BadLiteral, Detail: "invalid number " + text}
	}
	return value.NewNumber(n), nil
}

func (d *decoder) parseString() (*value.Value, error) {
	s, err := d.parseStringRaw()
	if err != nil {
		return nil, err
	}
	return value.NewString(s), nil
}

// parseStringRaw reads the quoted string at the current position,
// returning its decoded contents. It recognizes `\"`, `\n`, `\\`, and
// additionally treats a bare `/"` as an escaped quote so that text
// produced by Encode's `"` -> `/"` quirk parses back to the original
// string. Unrecognized backslash escapes are passed through literally.
func (d *decoder) parseStringRaw() (string, error) {
	start := d.pos
	if d.atEnd() || d.peek() != '"' {
		return "", d.fail(UnexpectedByte, "expected '\"'")
	}
	d.pos++ // opening quote

	buf := make([]byte, 0, 16)
	for {
		if d.atEnd() {
			return "", &MalformedTextError{Offset: start, Subkind: UnterminatedString}
		}
		c := d.src[d.pos]
		switch {
		case c == '"':
			d.pos++
			return string(buf), nil
		case c == '\\':
			d.pos++
			if d.atEnd() {
				return "", &MalformedTextError{Offset: start, Subkind: UnterminatedString}
			}
			esc := d.src[d.pos]
			switch esc {
			case '"':
				buf = append(buf, '"')
			case 'n':
				buf = append(buf, '\n')
			case '\\':
				buf = append(buf, '\\')
			default:
				buf = append(buf, '\\', esc)
			}
			d.pos++
		case c == '/' && d.pos+1 < len(d.src) && d.src[d.pos+1] == '"':
			buf = append(buf, '"')
			d.pos += 2
		default:
			buf = append(buf, c)
			d.pos++
		}
	}
}

func (d *decoder) parseArray() (*value.Value, error) {
	d.pos++ // '['
	arr := value.NewArray()
	d.skipWhitespace()
	if !d.atEnd() && d.peek() == ']' {
		d.pos++
		return arr, nil
	}
	for {
		d.skipWhitespace()
		elem, err := d.parseValue()
		if err != nil {
			return nil, err
		}
		arr.Push(elem)
		d.skipWhitespace()
		if d.atEnd() {
			return nil, d.fail(UnexpectedByte, "unterminated array")
		}
		if d.peek() == ']' {
			d.pos++
			return arr, nil
		}
	}
}

func (d *decoder) parseObject() (*value.Value, error) {
	d.pos++ // '{'
	obj := value.NewObject()
	d.skipWhitespace()
	if !d.atEnd() && d.peek() == '}' {
		d.pos++
		return obj, nil
	}
	for {
		d.skipWhitespace()
		if d.atEnd() || d.peek() != '"' {
			return nil, d.fail(UnexpectedByte, "expected object key")
		}
		key, err := d.parseStringRaw()
		if err != nil {
			return nil, err
		}
		d.skipWhitespace()
		if d.atEnd() || d.peek() != ':' {
			return nil, d.fail(MissingColon, "expected ':' after object key")
		}
		d.pos++ // ':'
		d.skipWhitespace()
		val, err := d.parseValue()
		if err != nil {
			return nil, err
		}
		obj.SetKey(key, val)
		d.skipWhitespace()
		if d.atEnd() {
			return nil, d.fail(UnexpectedByte, "unterminated object")
		}
		if d.peek() == '}' {
			d.pos++
			return obj, nil
		}
	}
}
