package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/drepessoal/internal/encoding"
)

func readAll(t *testing.T, input []byte) (string, encoding.Charset) {
	t.Helper()

	r, charset, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got), charset
}

func TestNewUTF8Reader(t *testing.T) {
	const text = "Data;Descrição;Valor\nPão de Açúcar;12,50\n"

	utf16le, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(text))
	require.NoError(t, err)

	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte(text))
	require.NoError(t, err)

	tests := []struct {
		name        string
		input       []byte
		wantCharset []encoding.Charset
	}{
		{name: "UTF8Passthrough", input: []byte(text), wantCharset: []encoding.Charset{encoding.UTF8}},
		{name: "UTF8BOMStripped", input: append([]byte{0xEF, 0xBB, 0xBF}, text...), wantCharset: []encoding.Charset{encoding.UTF8}},
		{name: "UTF16LE", input: utf16le, wantCharset: []encoding.Charset{encoding.UTF16LE}},
		// chardet cannot tell Latin-1 from Latin-5 on this text; both decode it identically.
		{name: "Windows1252", input: latin1, wantCharset: []encoding.Charset{encoding.Windows1252, encoding.ISO88599}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, charset := readAll(t, tt.input)
			assert.Equal(t, text, got)
			assert.Contains(t, tt.wantCharset, charset)
		})
	}
}

func TestNewUTF8Reader_Latin1Bytes(t *testing.T) {
	// "Descrição;Montante\n" with ç = 0xE7 and ã = 0xE3.
	latin1Bytes := []byte{
		'D', 'e', 's', 'c', 'r', 'i', 0xE7, 0xE3, 'o', ';',
		'M', 'o', 'n', 't', 'a', 'n', 't', 'e', '\n',
	}

	got, _ := readAll(t, latin1Bytes)
	assert.Equal(t, "Descrição;Montante\n", got)
}

func TestNewUTF8Reader_RuneSplitAtSniffWindow(t *testing.T) {
	// Pad so that a two-byte "ç" straddles the 4096-byte peek boundary.
	input := strings.Repeat("a", 4095) + "ção\n"

	got, charset := readAll(t, []byte(input))
	assert.Equal(t, input, got)
	assert.Equal(t, encoding.UTF8, charset)
}

func TestNewUTF8Reader_Empty(t *testing.T) {
	got, charset := readAll(t, nil)
	assert.Empty(t, got)
	assert.Equal(t, encoding.UTF8, charset)
}
