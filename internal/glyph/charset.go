package glyph

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	gerrors "github.com/verte-zerg/graffiti/internal/errors"
)

const (
	printableFirst = ' '
	printableLast  = '~'
)

// Charset selects which characters a message may contain and how the
// message is normalized before rendering.
type Charset string

const (
	// CharsetExtended accepts printable ASCII (space through tilde) and
	// rejects the whole message if anything else appears.
	CharsetExtended Charset = "extended"
	// CharsetAlpha upper-cases letters and silently drops everything except
	// A-Z and space.
	CharsetAlpha Charset = "alpha"
)

// ParseCharset validates a charset name.
func ParseCharset(name string) (Charset, error) {
	switch Charset(strings.ToLower(strings.TrimSpace(name))) {
	case CharsetExtended:
		return CharsetExtended, nil
	case CharsetAlpha:
		return CharsetAlpha, nil
	default:
		return "", gerrors.NewConfigError("charset", name, fmt.Errorf("must be %q or %q", CharsetExtended, CharsetAlpha))
	}
}

// Supports reports whether ch may appear in a normalized message.
func (c Charset) Supports(ch rune) bool {
	if c == CharsetAlpha {
		return ch == ' ' || (ch >= 'A' && ch <= 'Z')
	}
	return ch >= printableFirst && ch <= printableLast
}

// Prepare validates and normalizes message for rendering.
func (c Charset) Prepare(message string) (string, error) {
	if message == "" {
		return "", gerrors.NewMessageError("empty message is invalid")
	}
	if c == CharsetAlpha {
		return prepareAlpha(message)
	}
	var invalid []string
	for i := 0; i < len(message); {
		ch, size := utf8.DecodeRuneInString(message[i:])
		if ch == utf8.RuneError && size == 1 {
			// Not UTF-8: report the raw byte.
			invalid = append(invalid, fmt.Sprintf("0x%02X", message[i]))
		} else if !c.Supports(ch) {
			invalid = append(invalid, fmt.Sprintf("0x%02X", ch))
		}
		i += size
	}
	if len(invalid) > 0 {
		return "", &gerrors.MessageError{Invalid: invalid}
	}
	return message, nil
}

func prepareAlpha(message string) (string, error) {
	var b strings.Builder
	for _, ch := range message {
		ch = unicode.ToUpper(ch)
		if CharsetAlpha.Supports(ch) {
			b.WriteRune(ch)
		}
	}
	if b.Len() == 0 {
		return "", gerrors.NewMessageError("message has no supported characters")
	}
	return b.String(), nil
}
