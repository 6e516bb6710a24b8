package shell

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

// readDataArg resolves a DATA argument: a leading '@' names a file whose
// raw contents become the payload, anything else is taken literally.
func readDataArg(arg string) ([]byte, error) {
	if strings.HasPrefix(arg, "@") {
		data, err := os.ReadFile(arg[1:])
		if err != nil {
			return nil, fmt.Errorf("read data file: %w", err)
		}
		return data, nil
	}
	return []byte(arg), nil
}

func isUTF8Name(name string) bool {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return true
	}
	return false
}

// DecodeScript converts a script file from the named IANA charset into
// UTF-8 text, ready for line-by-line evaluation.
func DecodeScript(data []byte, charset string) (string, error) {
	return decodeBytes(data, charset)
}

// encodeString converts s from UTF-8 into the named IANA charset.
func encodeString(s string, charset string) ([]byte, error) {
	if isUTF8Name(charset) {
		return []byte(s), nil
	}
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported charset: %s", charset)
	}
	out, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encode as %s: %w", charset, err)
	}
	return out, nil
}

// decodeBytes converts raw bytes from the named IANA charset into UTF-8.
func decodeBytes(data []byte, charset string) (string, error) {
	if isUTF8Name(charset) {
		return string(data), nil
	}
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil || enc == nil {
		return "", fmt.Errorf("unsupported charset: %s", charset)
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode as %s: %w", charset, err)
	}
	return string(out), nil
}
