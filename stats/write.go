package stats

import (
	"strconv"
	"time"
)

// WriteUint32 appends one graphite plaintext line: "<prefix><key> <val> <unix ts>\n"
func WriteUint32(buf, prefix, key []byte, val uint32, now time.Time) []byte {
	return WriteUint64(buf, prefix, key, uint64(val), now)
}

func WriteUint64(buf, prefix, key []byte, val uint64, now time.Time) []byte {
	buf = append(buf, prefix...)
	buf = append(buf, key...)
	buf = append(buf, ' ')
	buf = strconv.AppendUint(buf, val, 10)
	buf = append(buf, ' ')
	buf = strconv.AppendInt(buf, now.Unix(), 10)
	return append(buf, '\n')
}
