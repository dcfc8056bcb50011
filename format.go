package picolog

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
)

const hexChars = "0123456789abcdef"

// serializer manages append-based rendering of records into their storage,
// console, and data-channel forms. The buffer is reused between calls;
// callers copy anything they keep.
type serializer struct {
	buf             []byte
	timestampFormat string
}

// newSerializer creates a serializer instance.
func newSerializer() *serializer {
	return &serializer{
		buf:             make([]byte, 0, 512),
		timestampFormat: defaultTimestampFormat,
	}
}

// reset clears the serializer buffer for reuse.
func (s *serializer) reset() {
	s.buf = s.buf[:0]
}

// setTimestampFormat updates the cached format.
func (s *serializer) setTimestampFormat(format string) {
	if format == "" {
		format = defaultTimestampFormat
	}
	s.timestampFormat = format
}

// serialize converts a record to its storage form, bin or (default) txt.
func (s *serializer) serialize(format string, flags int64, timestamp time.Time, level int64, tag, msg string) []byte {
	s.reset()

	if format == "bin" {
		return s.serializeBin(timestamp, level, tag, msg)
	}
	return s.serializeTxt(flags, timestamp, level, tag, msg)
}

// serializeTxt formats one record per line: time, level, tag, message.
func (s *serializer) serializeTxt(flags int64, timestamp time.Time, level int64, tag, msg string) []byte {
	needsSpace := false

	if flags&FlagShowTimestamp != 0 {
		s.buf = timestamp.AppendFormat(s.buf, s.timestampFormat)
		needsSpace = true
	}

	if flags&FlagShowLevel != 0 {
		if needsSpace {
			s.buf = append(s.buf, ' ')
		}
		s.buf = append(s.buf, levelToString(level)...)
		needsSpace = true
	}

	if tag != "" {
		if needsSpace {
			s.buf = append(s.buf, ' ')
		}
		s.writeString(tag)
		needsSpace = true
	}

	if needsSpace {
		s.buf = append(s.buf, ' ')
	}
	s.writeString(msg)

	s.buf = append(s.buf, '\n')
	return s.buf
}

// serializeBin formats the length-prefixed binary record: one level byte,
// four bytes little-endian unix seconds, one tag-length byte, the tag,
// two bytes little-endian message length, the message.
func (s *serializer) serializeBin(timestamp time.Time, level int64, tag, msg string) []byte {
	if len(tag) > 0xFF {
		tag = tag[:0xFF]
	}
	if len(msg) > 0xFFFF {
		msg = msg[:0xFFFF]
	}

	s.buf = append(s.buf, byte(level))
	s.buf = binary.LittleEndian.AppendUint32(s.buf, uint32(timestamp.Unix()))
	s.buf = append(s.buf, byte(len(tag)))
	s.buf = append(s.buf, tag...)
	s.buf = binary.LittleEndian.AppendUint16(s.buf, uint16(len(msg)))
	s.buf = append(s.buf, msg...)
	return s.buf
}

// serializeConsole formats the human console line: time | LEVEL | tag | message.
func (s *serializer) serializeConsole(timestamp time.Time, level int64, tag, msg string) []byte {
	s.reset()

	s.buf = timestamp.AppendFormat(s.buf, s.timestampFormat)
	s.buf = append(s.buf, " | "...)
	s.buf = append(s.buf, levelToString(level)...)
	if tag != "" {
		s.buf = append(s.buf, " | "...)
		s.writeString(tag)
	}
	s.buf = append(s.buf, " | "...)
	s.writeString(msg)
	s.buf = append(s.buf, '\n')
	return s.buf
}

// serializeData formats a data-channel CSV line: time,name,value.
func (s *serializer) serializeData(timestamp time.Time, name string, value any) []byte {
	s.reset()

	s.buf = timestamp.AppendFormat(s.buf, s.timestampFormat)
	s.buf = append(s.buf, ',')
	s.writeCSVField(name)
	s.buf = append(s.buf, ',')
	s.writeCSVField(string(appendValue(nil, value, s.timestampFormat)))
	s.buf = append(s.buf, '\n')
	return s.buf
}

// writeString appends a string to the buffer, escaping control characters
// so one record stays on one line.
func (s *serializer) writeString(str string) {
	lenStr := len(str)
	for i := 0; i < lenStr; {
		if c := str[i]; c < ' ' || c == '\\' {
			switch c {
			case '\\':
				s.buf = append(s.buf, '\\', '\\')
			case '\n':
				s.buf = append(s.buf, '\\', 'n')
			case '\r':
				s.buf = append(s.buf, '\\', 'r')
			case '\t':
				s.buf = append(s.buf, '\\', 't')
			default:
				s.buf = append(s.buf, `\u00`...)
				s.buf = append(s.buf, hexChars[c>>4], hexChars[c&0xF])
			}
			i++
		} else {
			start := i
			for i < lenStr && str[i] >= ' ' && str[i] != '\\' {
				i++
			}
			s.buf = append(s.buf, str[start:i]...)
		}
	}
}

// writeCSVField appends a CSV field, quoting when it contains a comma,
// quote, or line break.
func (s *serializer) writeCSVField(field string) {
	if !strings.ContainsAny(field, ",\"\n\r") {
		s.buf = append(s.buf, field...)
		return
	}
	s.buf = append(s.buf, '"')
	for i := 0; i < len(field); i++ {
		if field[i] == '"' {
			s.buf = append(s.buf, '"')
		}
		s.buf = append(s.buf, field[i])
	}
	s.buf = append(s.buf, '"')
}

// appendValue renders a data value to its string representation.
// fallback to go-spew/spew with data structure information for types that
// are not explicitly supported.
func appendValue(buf []byte, v any, timestampFormat string) []byte {
	switch val := v.(type) {
	case string:
		buf = append(buf, val...)
	case int:
		buf = strconv.AppendInt(buf, int64(val), 10)
	case int64:
		buf = strconv.AppendInt(buf, val, 10)
	case uint:
		buf = strconv.AppendUint(buf, uint64(val), 10)
	case uint64:
		buf = strconv.AppendUint(buf, val, 10)
	case float32:
		buf = strconv.AppendFloat(buf, float64(val), 'f', -1, 32)
	case float64:
		buf = strconv.AppendFloat(buf, val, 'f', -1, 64)
	case bool:
		buf = strconv.AppendBool(buf, val)
	case nil:
		buf = append(buf, "nil"...)
	case time.Time:
		buf = val.AppendFormat(buf, timestampFormat)
	case error:
		buf = append(buf, val.Error()...)
	case fmt.Stringer:
		buf = append(buf, val.String()...)
	case []byte:
		buf = hex.AppendEncode(buf, val) // prevent special character corruption
	default:
		// For all other types (structs, maps, pointers, arrays, etc.), delegate to spew.
		var b bytes.Buffer

		// Use a custom dumper for log-friendly, compact output.
		dumper := &spew.ConfigState{
			Indent:                  " ",
			MaxDepth:                10,
			DisablePointerAddresses: true, // Cleaner for logs
			DisableCapacities:       true, // Less noise
			SortKeys:                true, // Consistent map output
		}

		dumper.Fdump(&b, val)

		// Trim trailing new line added by spew
		buf = append(buf, bytes.TrimSpace(b.Bytes())...)
	}
	return buf
}

// estimateSize returns the byte estimate recorded for an encoded entry.
// The estimate never drops below defaultEntrySize and never undercounts
// the encoded form.
func estimateSize(encoded []byte) int64 {
	if n := int64(len(encoded)); n > defaultEntrySize {
		return n
	}
	return defaultEntrySize
}
