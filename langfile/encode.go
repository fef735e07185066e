package langfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"unicode/utf16"
)

const hexDigits = "0123456789abcdef"

// writer renders decoded JSON values with the layout used for language
// files since before this tool existed: sorted object keys, one tab per
// level, "," at line ends, ": " after keys, lowercase \u escapes.
type writer struct {
	buf   bytes.Buffer
	ascii bool
}

func (w *writer) newline(level int) {
	w.buf.WriteByte('\n')
	for i := 0; i < level; i++ {
		w.buf.WriteByte('\t')
	}
}

func (w *writer) value(v any, level int) error {
	switch v := v.(type) {
	case nil:
		w.buf.WriteString("null")
	case bool:
		w.buf.WriteString(strconv.FormatBool(v))
	case json.Number:
		w.buf.WriteString(v.String())
	case float64:
		w.buf.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	case int:
		w.buf.WriteString(strconv.Itoa(v))
	case string:
		w.string(v)
	case []string:
		list := make([]any, len(v))
		for i, s := range v {
			list[i] = s
		}
		return w.value(list, level)
	case []any:
		if len(v) == 0 {
			w.buf.WriteString("[]")
			return nil
		}
		w.buf.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			w.newline(level + 1)
			if err := w.value(item, level+1); err != nil {
				return err
			}
		}
		w.newline(level)
		w.buf.WriteByte(']')
	case map[string]any:
		if len(v) == 0 {
			w.buf.WriteString("{}")
			return nil
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		w.buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			w.newline(level + 1)
			w.string(k)
			w.buf.WriteString(": ")
			if err := w.value(v[k], level+1); err != nil {
				return err
			}
		}
		w.newline(level)
		w.buf.WriteByte('}')
	default:
		return fmt.Errorf("unsupported JSON value of type %T", v)
	}
	return nil
}

func (w *writer) string(s string) {
	w.buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			w.buf.WriteString(`\"`)
		case '\\':
			w.buf.WriteString(`\\`)
		case '\n':
			w.buf.WriteString(`\n`)
		case '\r':
			w.buf.WriteString(`\r`)
		case '\t':
			w.buf.WriteString(`\t`)
		case '\b':
			w.buf.WriteString(`\b`)
		case '\f':
			w.buf.WriteString(`\f`)
		default:
			switch {
			case r < 0x20:
				w.buf.Write(appendUnicodeEscape(nil, r))
			case w.ascii && r > 0x7e:
				if r > 0xffff {
					hi, lo := utf16.EncodeRune(r)
					w.buf.Write(appendUnicodeEscape(nil, hi))
					w.buf.Write(appendUnicodeEscape(nil, lo))
				} else {
					w.buf.Write(appendUnicodeEscape(nil, r))
				}
			default:
				w.buf.WriteRune(r)
			}
		}
	}
	w.buf.WriteByte('"')
}

func appendUnicodeEscape(dst []byte, r rune) []byte {
	return append(dst, '\\', 'u',
		hexDigits[(r>>12)&0xf], hexDigits[(r>>8)&0xf],
		hexDigits[(r>>4)&0xf], hexDigits[r&0xf])
}

// appendControlEscape escapes a raw control character found in input.
func appendControlEscape(dst []byte, r rune) []byte {
	switch r {
	case '\t':
		return append(dst, '\\', 't')
	case '\n':
		return append(dst, '\\', 'n')
	case '\r':
		return append(dst, '\\', 'r')
	}
	return appendUnicodeEscape(dst, r)
}
