package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	textenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// sniffSize is how much of the input is inspected before choosing a decoder.
const sniffSize = 4096

// Charset names reported by Detect.
const (
	CharsetUTF8        = "UTF-8"
	CharsetUTF8BOM     = "UTF-8-BOM"
	CharsetUTF16LE     = "UTF-16LE"
	CharsetUTF16BE     = "UTF-16BE"
	CharsetWindows1252 = "windows-1252"
	CharsetISO88599    = "ISO-8859-9"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decoders maps a detected charset to the decoder that turns it into UTF-8.
// Charsets absent from the map are already UTF-8.
var decoders = map[string]textenc.Encoding{
	CharsetUTF16LE:     unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	CharsetUTF16BE:     unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
	CharsetWindows1252: charmap.Windows1252,
	CharsetISO88599:    charmap.ISO8859_9,
}

// Detect guesses the charset of a leading chunk of a file.
//
// Detection order:
//  1. Byte order mark
//  2. Valid UTF-8
//  3. chardet heuristics (Latin-1 family only; bank exports are Western European)
//  4. Windows-1252
func Detect(buf []byte) string {
	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		return CharsetUTF8BOM
	case bytes.HasPrefix(buf, bomUTF16LE):
		return CharsetUTF16LE
	case bytes.HasPrefix(buf, bomUTF16BE):
		return CharsetUTF16BE
	case utf8.Valid(buf):
		return CharsetUTF8
	}

	result, err := chardet.NewTextDetector().DetectBest(buf)
	if err == nil {
		switch result.Charset {
		case "UTF-8":
			return CharsetUTF8
		case "ISO-8859-1", "windows-1252":
			return CharsetWindows1252
		case "ISO-8859-9":
			return CharsetISO88599
		}
	}

	return CharsetWindows1252
}

// NewUTF8Reader detects the encoding of the input and returns a reader
// that yields its content as UTF-8. A UTF-8 BOM is stripped.
func NewUTF8Reader(r io.Reader) (io.Reader, string, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	buf, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	charset := Detect(buf)

	if charset == CharsetUTF8BOM {
		_, _ = br.Discard(len(bomUTF8))
		return br, charset, nil
	}

	dec, ok := decoders[charset]
	if !ok {
		return br, charset, nil
	}

	return transform.NewReader(br, dec.NewDecoder()), charset, nil
}
