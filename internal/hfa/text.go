package hfa

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// decodeText converts stored string bytes. ERDAS tools write the host code
// page, so anything that is not valid UTF-8 is read as Windows-1252.
func decodeText(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(out)
}
