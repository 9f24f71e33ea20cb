// Package output encodes a Result and persists it.
package output

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/grafana/sensorstat/analytics"
)

// Format is an encoding of a Result
type Format int

var errUnknownFormat = errors.New("unknown output format")

const (
	JSON Format = iota
	Msgpack
	Text
)

func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case Msgpack:
		return "msgpack"
	case Text:
		return "text"
	}
	panic(fmt.Sprintf("Format.String(): unknown format %d", f))
}

func FormatFromString(s string) (Format, error) {
	switch s {
	case "json":
		return JSON, nil
	case "msgpack", "msgp":
		return Msgpack, nil
	case "text", "txt":
		return Text, nil
	}
	return 0, fmt.Errorf("%w %q", errUnknownFormat, s)
}

// Encode renders res in format f
func Encode(res *analytics.Result, f Format) ([]byte, error) {
	switch f {
	case JSON:
		return encodeJSON(res)
	case Msgpack:
		return res.MarshalMsg(nil)
	case Text:
		return encodeText(res), nil
	}
	return nil, fmt.Errorf("%w %d", errUnknownFormat, f)
}

// encodeJSON indents with two spaces and ends with a newline.
// the encoding only depends on res: device order is insertion order,
// and absent statistics are null.
func encodeJSON(res *analytics.Result) ([]byte, error) {
	buf, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(buf, '\n'), nil
}
