package filereader

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// NewTextReader wraps r so that a leading byte order mark selects the
// encoding: UTF-16 (either endianness) is converted to UTF-8 and a UTF-8 BOM
// is stripped. Input without a BOM is passed through as UTF-8.
func NewTextReader(r io.Reader) io.Reader {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	return transform.NewReader(r, decoder)
}
