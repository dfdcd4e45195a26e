package extractor

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ExtractTXT decodes a plain-text file to UTF-8 and normalizes line endings.
func ExtractTXT(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty text file")
	}

	text, err := decodeText(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode text file: %w", err)
	}

	text = normalizeText(text)
	if text == "" {
		return "", fmt.Errorf("no text could be extracted from file")
	}

	return text, nil
}

// decodeText handles the BOM variants browsers actually produce, then falls
// back to legacy single-byte encodings for anything that is not valid UTF-8.
func decodeText(data []byte) (string, error) {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return string(data[3:]), nil
	}

	if len(data) >= 2 && data[0] == 0xFF && data[1] == 0xFE {
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder(), data)
	}

	if len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF {
		return decodeWith(unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder(), data)
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	if decoded, err := decodeWith(charmap.Windows1252.NewDecoder(), data); err == nil {
		return decoded, nil
	}

	if decoded, err := decodeWith(charmap.ISO8859_1.NewDecoder(), data); err == nil {
		return decoded, nil
	}

	return string(data), nil
}

func decodeWith(decoder transform.Transformer, data []byte) (string, error) {
	decoded, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\x00", "")
	return strings.TrimSpace(text)
}
