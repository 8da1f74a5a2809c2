package retrieval

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"

	"github.com/haukened/rr-blocklist/internal/blocklist/domain"
)

const replacementChar = "\uFFFD"

// decodeContent detects the encoding of body and converts it to UTF-8.
// Detection honours a byte order mark, then a charset parameter in
// contentType, then falls back to sniffing. Undeclared content that is
// valid UTF-8 as a whole is taken as UTF-8 even when the sniffer, which
// only inspects a prefix, guessed otherwise.
func decodeContent(source string, body []byte, contentType string) (string, string, error) {
	enc, name, certain := charset.DetermineEncoding(body, contentType)
	if !certain && utf8.Valid(body) {
		return strings.TrimPrefix(string(body), "\uFEFF"), "utf-8", nil
	}

	text, err := decodeWith(enc, body)
	if err != nil {
		return "", name, &domain.DecodingError{Source: source, Encoding: name, Err: err}
	}
	// replacement characters that were not in the input mean the bytes do
	// not belong to the detected encoding
	if strings.Contains(text, replacementChar) && !bytes.Contains(body, []byte(replacementChar)) {
		return "", name, &domain.DecodingError{Source: source, Encoding: name, Err: errInvalidSequence}
	}
	return strings.TrimPrefix(text, "\uFEFF"), name, nil
}

func decodeWith(enc encoding.Encoding, body []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
