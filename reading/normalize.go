package reading

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/grafana/sensorstat/errors"
)

// Field is a canonical reading field
type Field string

const (
	FieldDeviceID  Field = "deviceId"
	FieldRegion    Field = "region"
	FieldMetric    Field = "metricValue"
	FieldBattery   Field = "batteryLevel"
	FieldTimestamp Field = "timestamp"
)

// Aliases lists, per canonical field, the raw field names accepted for it,
// in order of preference. names are matched after folding both sides to
// snake_case, so "deviceId", "DeviceID" and "device_id" are the same name.
var Aliases = []struct {
	Field Field
	Names []string
}{
	{FieldDeviceID, []string{"device_id", "device", "sensor_id", "id"}},
	{FieldRegion, []string{"region", "zone", "location"}},
	{FieldMetric, []string{"metric_value", "gas_concentration", "gas", "value", "metric"}},
	{FieldBattery, []string{"battery_level", "battery"}},
	{FieldTimestamp, []string{"timestamp", "ts", "time"}},
}

// fold brings a raw field name into the form aliases are compared in
func fold(name string) string {
	return strcase.ToSnake(strings.TrimSpace(name))
}

// foldRecord returns raw keyed by folded field names.
// two raw names folding to the same name must carry the same value.
func foldRecord(raw map[string]interface{}) (map[string]interface{}, error) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	folded := make(map[string]interface{}, len(raw))
	for _, name := range names {
		key := fold(name)
		if prev, ok := folded[key]; ok && !reflect.DeepEqual(prev, raw[name]) {
			return nil, errors.NewMalformedRecord(name, fmt.Sprintf("conflicts with another spelling of %q", key))
		}
		folded[key] = raw[name]
	}
	return folded, nil
}

// lookup finds the value of field in a folded record
func lookup(folded map[string]interface{}, field Field) (interface{}, bool) {
	for _, a := range Aliases {
		if a.Field != field {
			continue
		}
		for _, name := range a.Names {
			if v, ok := folded[name]; ok {
				return v, true
			}
		}
	}
	return nil, false
}

// Normalize maps a raw record to a Reading.
// missing or non-numeric values are rejected, never replaced by zero.
func Normalize(raw map[string]interface{}) (Reading, error) {
	folded, err := foldRecord(raw)
	if err != nil {
		return Reading{}, err
	}

	var r Reading
	v, ok := lookup(folded, FieldDeviceID)
	if !ok {
		return Reading{}, errors.NewMalformedRecord(string(FieldDeviceID), "missing")
	}
	r.DeviceID, err = toLabel(FieldDeviceID, v)
	if err != nil {
		return Reading{}, err
	}
	r.DeviceID = strings.TrimSpace(r.DeviceID)
	if r.DeviceID == "" {
		return Reading{}, errors.NewMalformedRecord(string(FieldDeviceID), "empty")
	}

	v, ok = lookup(folded, FieldRegion)
	if !ok {
		return Reading{}, errors.NewMalformedRecord(string(FieldRegion), "missing")
	}
	r.Region, err = toLabel(FieldRegion, v)
	if err != nil {
		return Reading{}, err
	}

	r.Metric, err = number(folded, FieldMetric)
	if err != nil {
		return Reading{}, err
	}
	r.Battery, err = number(folded, FieldBattery)
	if err != nil {
		return Reading{}, err
	}

	v, ok = lookup(folded, FieldTimestamp)
	if !ok {
		return Reading{}, errors.NewMalformedRecord(string(FieldTimestamp), "missing")
	}
	var ts string
	switch v := v.(type) {
	case string:
		ts = v
	case []byte:
		ts = string(v)
	default:
		return Reading{}, errors.NewMalformedRecord(string(FieldTimestamp), fmt.Sprintf("expected text, got %T", v))
	}
	r.Time, err = ParseTimestamp(ts)
	if err != nil {
		return Reading{}, err
	}
	return r, nil
}

func number(folded map[string]interface{}, field Field) (float64, error) {
	v, ok := lookup(folded, field)
	if !ok {
		return 0, errors.NewMalformedRecord(string(field), "missing")
	}
	f, err := toFloat(v)
	if err != nil {
		return 0, errors.NewMalformedRecord(string(field), err.Error())
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.NewMalformedRecord(string(field), "not a finite number")
	}
	return f, nil
}

func toFloat(v interface{}) (float64, error) {
	switch v := v.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, fmt.Errorf("empty value")
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not numeric", v)
		}
		return f, nil
	case nil:
		return 0, fmt.Errorf("null value")
	}
	return 0, fmt.Errorf("expected a number, got %T", v)
}

// toLabel accepts text, and integral numbers as their decimal rendering
func toLabel(field Field, v interface{}) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case json.Number:
		return v.String(), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v), nil
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		}
	}
	return "", errors.NewMalformedRecord(string(field), fmt.Sprintf("expected a label, got %T", v))
}

// Drop is a raw record that could not be normalized
type Drop struct {
	Index int // position in the input sequence
	Err   error
}

// Report accounts for every record handed to NormalizeAll
type Report struct {
	Total             int
	Valid             int
	Malformed         int
	InvalidTimestamps int
	Drops             []Drop
}

// NormalizeAll normalizes raws in order. failing records are excluded from
// the returned readings and accounted for in the Report. it never aborts.
func NormalizeAll(raws []map[string]interface{}) ([]Reading, Report) {
	rep := Report{Total: len(raws)}
	readings := make([]Reading, 0, len(raws))
	for i, raw := range raws {
		r, err := Normalize(raw)
		if err != nil {
			if _, ok := err.(errors.InvalidTimestamp); ok {
				rep.InvalidTimestamps++
			} else {
				rep.Malformed++
			}
			rep.Drops = append(rep.Drops, Drop{Index: i, Err: err})
			continue
		}
		readings = append(readings, r)
	}
	rep.Valid = len(readings)
	return readings, rep
}
