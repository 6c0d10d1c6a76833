package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffSize = 4096

// Charset names the encoding an upload was decoded from.
type Charset string

const (
	UTF8        Charset = "UTF-8"
	UTF16LE     Charset = "UTF-16LE"
	UTF16BE     Charset = "UTF-16BE"
	Windows1252 Charset = "windows-1252"
	ISO8859_9   Charset = "ISO-8859-9"
)

var boms = []struct {
	prefix  []byte
	charset Charset
}{
	{prefix: []byte{0xEF, 0xBB, 0xBF}, charset: UTF8},
	{prefix: []byte{0xFF, 0xFE}, charset: UTF16LE},
	{prefix: []byte{0xFE, 0xFF}, charset: UTF16BE},
}

// decoders maps chardet results to the decoder used for them.
var decoders = map[string]Charset{
	"UTF-8":        UTF8,
	"ISO-8859-1":   Windows1252,
	"windows-1252": Windows1252,
	"ISO-8859-9":   ISO8859_9,
}

func (c Charset) encoding() xencoding.Encoding {
	switch c {
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case Windows1252:
		return charmap.Windows1252
	case ISO8859_9:
		return charmap.ISO8859_9
	}

	return nil
}

// NewUTF8Reader returns a reader yielding r decoded to UTF-8, and the charset
// it was decoded from. A UTF-8 BOM is stripped. Input that is neither marked
// by a BOM, valid UTF-8, nor recognised by chardet is read as Windows-1252.
func NewUTF8Reader(r io.Reader) (io.Reader, Charset, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	head, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	for _, bom := range boms {
		if !bytes.HasPrefix(head, bom.prefix) {
			continue
		}

		if bom.charset == UTF8 {
			_, _ = br.Discard(len(bom.prefix))
			return br, UTF8, nil
		}

		return decode(br, bom.charset), bom.charset, nil
	}

	if utf8.Valid(head) {
		return br, UTF8, nil
	}

	charset := Windows1252

	if result, err := chardet.NewTextDetector().DetectBest(head); err == nil {
		if known, ok := decoders[result.Charset]; ok {
			charset = known
		}
	}

	if charset == UTF8 {
		return br, UTF8, nil
	}

	return decode(br, charset), charset, nil
}

func decode(r io.Reader, c Charset) io.Reader {
	return transform.NewReader(r, c.encoding().NewDecoder())
}
