package zunda

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// DefaultEncoding is the encoding assumed for analyzer output
const DefaultEncoding = "utf-8"

// aliases maps codec names common in zunda wrapper scripts to IANA names.
// Keys are lower case with '-' folded to '_'.
var aliases = map[string]string{
	"sjis":        "Shift_JIS",
	"shiftjis":    "Shift_JIS",
	"shift_jis":   "Shift_JIS",
	"s_jis":       "Shift_JIS",
	"cp932":       "Shift_JIS",
	"ms932":       "Shift_JIS",
	"mskanji":     "Shift_JIS",
	"windows_31j": "Shift_JIS",
	"eucjp":       "EUC-JP",
	"euc_jp":      "EUC-JP",
	"ujis":        "EUC-JP",
	"u_jis":       "EUC-JP",
	"iso2022_jp":  "ISO-2022-JP",
	"iso2022jp":   "ISO-2022-JP",
}

// lookupEncoding resolves an IANA charset name or a known alias. A nil
// encoding means UTF-8, which is validated rather than transcoded.
func lookupEncoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" || isUTF8(name) {
		return nil, nil
	}
	if iana, ok := aliases[strings.ToLower(strings.ReplaceAll(name, "-", "_"))]; ok {
		name = iana
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown encoding %q: %v", ErrEncoding, name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("%w: unsupported encoding %q", ErrEncoding, name)
	}
	return enc, nil
}

func isUTF8(name string) bool {
	switch strings.ToLower(strings.ReplaceAll(name, "_", "-")) {
	case "utf-8", "utf8":
		return true
	}
	return false
}

func decode(enc encoding.Encoding, raw []byte) (string, error) {
	if enc == nil {
		if !utf8.Valid(raw) {
			return "", fmt.Errorf("%w: invalid UTF-8", ErrEncoding)
		}
		return string(raw), nil
	}

	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	// x/text decoders substitute U+FFFD for invalid input instead of failing
	if i := bytes.IndexRune(out, utf8.RuneError); i >= 0 {
		return "", fmt.Errorf("%w: invalid byte sequence near decoded offset %d", ErrEncoding, i)
	}
	return string(out), nil
}
