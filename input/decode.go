package input

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/tinylib/msgp/msgp"
)

// Decoder decodes all raw records of one file.
// an element that is not an object is returned as a nil record,
// so that it is accounted for as malformed rather than silently lost.
type Decoder func(r io.Reader) ([]map[string]interface{}, error)

var decoders = map[string]Decoder{
	".json":    DecodeJSON,
	".jsonl":   DecodeJSONLines,
	".ndjson":  DecodeJSONLines,
	".csv":     DecodeCSV,
	".msgp":    DecodeMsgp,
	".msgpack": DecodeMsgp,
}

// DecoderFor returns the decoder for the extension of name, case insensitive
func DecoderFor(name string) (Decoder, bool) {
	dec, ok := decoders[strings.ToLower(filepath.Ext(name))]
	return dec, ok
}

// readingsKey is the key of the records array in a wrapped json document
const readingsKey = "readings"

// DecodeJSON accepts an array of objects, a single object, or an object
// holding the array under "readings". numbers are kept as json.Number.
func DecodeJSON(r io.Reader) ([]map[string]interface{}, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after the json document")
	}
	switch doc := doc.(type) {
	case []interface{}:
		return objects(doc), nil
	case map[string]interface{}:
		if inner, ok := doc[readingsKey].([]interface{}); ok && len(doc) == 1 {
			return objects(inner), nil
		}
		return []map[string]interface{}{doc}, nil
	}
	return nil, fmt.Errorf("expected a json array or object, got %T", doc)
}

// DecodeJSONLines decodes one json object per line. blank lines are ignored.
func DecodeJSONLines(r io.Reader) ([]map[string]interface{}, error) {
	var out []map[string]interface{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(text))
		dec.UseNumber()
		var v interface{}
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %s", line, err)
		}
		obj, _ := v.(map[string]interface{})
		out = append(out, obj)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeCSV decodes a header row naming the fields, followed by one record per row.
// all values are strings. empty cells are kept, as empty strings.
func DecodeCSV(r io.Reader) ([]map[string]interface{}, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	var out []map[string]interface{}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rec := make(map[string]interface{}, len(header))
		for i, name := range header {
			rec[name] = row[i]
		}
		out = append(out, rec)
	}
	return out, nil
}

// DecodeMsgp decodes a sequence of msgpack values, each either a map or an array of maps
func DecodeMsgp(r io.Reader) ([]map[string]interface{}, error) {
	buf, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var out []map[string]interface{}
	for len(buf) > 0 {
		var v interface{}
		v, buf, err = msgp.ReadIntfBytes(buf)
		if err != nil {
			return nil, err
		}
		switch v := v.(type) {
		case []interface{}:
			out = append(out, objects(v)...)
		case map[string]interface{}:
			out = append(out, v)
		default:
			return nil, fmt.Errorf("expected a msgpack map or array, got %T", v)
		}
	}
	return out, nil
}

func objects(in []interface{}) []map[string]interface{} {
	out := make([]map[string]interface{}, len(in))
	for i, v := range in {
		out[i], _ = v.(map[string]interface{})
	}
	return out
}
