package statementimport

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/charmap"
)

// decode converts a statement export to UTF-8.
// The charset comes from a BOM or a <meta> declaration. Undeclared files that are not valid
// UTF-8 are read as Latin-1, the encoding the bank uses for its exports.
func decode(data []byte) ([]byte, string, error) {
	enc, name, _ := charset.DetermineEncoding(data, "")
	if name == "utf-8" {
		if utf8.Valid(data) {
			return data, name, nil
		}
		enc, name = charmap.ISO8859_1, "iso-8859-1"
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, name, fmt.Errorf("failed to decode %s statement: %w", name, err)
	}
	return out, name, nil
}
