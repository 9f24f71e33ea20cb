package reading

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/grafana/sensorstat/errors"
)

func TestParseTimestamp(t *testing.T) {
	var cases = []struct {
		in  string
		out time.Time
		err bool
	}{
		{"2024-01-01 00:00:00", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), false},
		{"2024-02-29 23:59:59", time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC), false},
		{"2023-02-29 10:00:00", time.Time{}, true},
		{"2024-01-01T00:00:00", time.Time{}, true},
		{"2024-01-01 00:00:00Z", time.Time{}, true},
		{"2024-01-01 00:00:00+01:00", time.Time{}, true},
		{"2024-01-01 00:00:00.123", time.Time{}, true},
		{"2024-01-01 0:00:00", time.Time{}, true},
		{"2024-01-01  1:00:00", time.Time{}, true},
		{"2024-01-01 01:00: 0", time.Time{}, true},
		{"2024-1-01 00:00:00", time.Time{}, true},
		{"01/01/2024 00:00:00", time.Time{}, true},
		{"", time.Time{}, true},
	}
	for i, c := range cases {
		got, err := ParseTimestamp(c.in)
		if (err != nil) != c.err {
			t.Fatalf("case %d %q: expected err %t, got err %v", i, c.in, c.err, err)
		}
		if err != nil {
			if _, ok := err.(errors.InvalidTimestamp); !ok {
				t.Fatalf("case %d %q: expected InvalidTimestamp, got %T", i, c.in, err)
			}
			continue
		}
		if !got.Equal(c.out) || got.Location() != time.UTC {
			t.Fatalf("case %d %q: expected %s, got %s", i, c.in, c.out, got)
		}
	}
}

func TestNormalize(t *testing.T) {
	ts := time.Date(2024, 1, 1, 7, 30, 0, 0, time.UTC)
	type testCase struct {
		title string
		in    map[string]interface{}
		exp   Reading
		field string // non-empty means a MalformedRecord on this field is expected
		badTs bool
	}
	cases := []testCase{
		{
			title: "camel case",
			in:    map[string]interface{}{"deviceId": "A", "region": "north", "metricValue": 12.5, "batteryLevel": 80.0, "timestamp": "2024-01-01 07:30:00"},
			exp:   Reading{DeviceID: "A", Region: "north", Metric: 12.5, Battery: 80, Time: ts},
		},
		{
			title: "snake case",
			in:    map[string]interface{}{"device_id": "A", "region": "north", "gas_concentration": 12.5, "battery_level": 80.0, "timestamp": "2024-01-01 07:30:00"},
			exp:   Reading{DeviceID: "A", Region: "north", Metric: 12.5, Battery: 80, Time: ts},
		},
		{
			title: "csv strings and short names",
			in:    map[string]interface{}{"Device": " A ", "Zone": "north", "gas": "12.5", "battery": "80", "ts": "2024-01-01 07:30:00"},
			exp:   Reading{DeviceID: "A", Region: "north", Metric: 12.5, Battery: 80, Time: ts},
		},
		{
			title: "msgpack integers and numeric device id",
			in:    map[string]interface{}{"deviceId": int64(7), "region": "", "value": uint64(3), "battery": int64(-5), "time": []byte("2024-01-01 07:30:00")},
			exp:   Reading{DeviceID: "7", Region: "", Metric: 3, Battery: -5, Time: ts},
		},
		{
			title: "json.Number",
			in:    map[string]interface{}{"deviceId": "A", "region": "r", "metric": json.Number("1e2"), "battery": json.Number("150"), "timestamp": "2024-01-01 07:30:00"},
			exp:   Reading{DeviceID: "A", Region: "r", Metric: 100, Battery: 150, Time: ts},
		},
		{
			title: "same field twice with equal values",
			in:    map[string]interface{}{"deviceId": "A", "device_id": "A", "region": "r", "metric": 1.0, "battery": 2.0, "timestamp": "2024-01-01 07:30:00"},
			exp:   Reading{DeviceID: "A", Region: "r", Metric: 1, Battery: 2, Time: ts},
		},
		{
			title: "same field twice with different values",
			in:    map[string]interface{}{"deviceId": "A", "device_id": "B", "region": "r", "metric": 1.0, "battery": 2.0, "timestamp": "2024-01-01 07:30:00"},
			field: "device_id",
		},
		{
			title: "missing metric",
			in:    map[string]interface{}{"deviceId": "A", "region": "r", "battery": 2.0, "timestamp": "2024-01-01 07:30:00"},
			field: "metricValue",
		},
		{
			title: "null metric",
			in:    map[string]interface{}{"deviceId": "A", "region": "r", "metric": nil, "battery": 2.0, "timestamp": "2024-01-01 07:30:00"},
			field: "metricValue",
		},
		{
			title: "empty metric string",
			in:    map[string]interface{}{"deviceId": "A", "region": "r", "metric": "", "battery": 2.0, "timestamp": "2024-01-01 07:30:00"},
			field: "metricValue",
		},
		{
			title: "non numeric battery",
			in:    map[string]interface{}{"deviceId": "A", "region": "r", "metric": 1.0, "battery": "full", "timestamp": "2024-01-01 07:30:00"},
			field: "batteryLevel",
		},
		{
			title: "NaN metric",
			in:    map[string]interface{}{"deviceId": "A", "region": "r", "metric": "NaN", "battery": 2.0, "timestamp": "2024-01-01 07:30:00"},
			field: "metricValue",
		},
		{
			title: "bool metric",
			in:    map[string]interface{}{"deviceId": "A", "region": "r", "metric": true, "battery": 2.0, "timestamp": "2024-01-01 07:30:00"},
			field: "metricValue",
		},
		{
			title: "empty device",
			in:    map[string]interface{}{"deviceId": "  ", "region": "r", "metric": 1.0, "battery": 2.0, "timestamp": "2024-01-01 07:30:00"},
			field: "deviceId",
		},
		{
			title: "missing region",
			in:    map[string]interface{}{"deviceId": "A", "metric": 1.0, "battery": 2.0, "timestamp": "2024-01-01 07:30:00"},
			field: "region",
		},
		{
			title: "numeric timestamp",
			in:    map[string]interface{}{"deviceId": "A", "region": "r", "metric": 1.0, "battery": 2.0, "timestamp": 1704067200.0},
			field: "timestamp",
		},
		{
			title: "iso timestamp",
			in:    map[string]interface{}{"deviceId": "A", "region": "r", "metric": 1.0, "battery": 2.0, "timestamp": "2024-01-01T07:30:00Z"},
			badTs: true,
		},
	}
	for i, c := range cases {
		got, err := Normalize(c.in)
		switch {
		case c.field != "":
			m, ok := err.(errors.MalformedRecord)
			if !ok {
				t.Fatalf("case %d %q: expected MalformedRecord, got %v", i, c.title, err)
			}
			if m.Field != c.field {
				t.Fatalf("case %d %q: expected field %q, got %q", i, c.title, c.field, m.Field)
			}
		case c.badTs:
			if _, ok := err.(errors.InvalidTimestamp); !ok {
				t.Fatalf("case %d %q: expected InvalidTimestamp, got %v", i, c.title, err)
			}
		default:
			if err != nil {
				t.Fatalf("case %d %q: unexpected error %s", i, c.title, err)
			}
			if diff := cmp.Diff(c.exp, got); diff != "" {
				t.Fatalf("case %d %q: mismatch (-want +got):\n%s", i, c.title, diff)
			}
		}
	}
}

func TestNormalizeAll(t *testing.T) {
	Convey("When normalizing a mixed batch", t, func() {
		raws := []map[string]interface{}{
			{"deviceId": "A", "region": "r", "metric": 1.0, "battery": 90.0, "timestamp": "2024-01-01 00:00:00"},
			{"deviceId": "A", "region": "r", "battery": 90.0, "timestamp": "2024-01-01 00:00:00"},
			{"deviceId": "B", "region": "r", "metric": 3.0, "battery": 90.0, "timestamp": "yesterday"},
			{"deviceId": "B", "region": "r", "metric": 0.0, "battery": 90.0, "timestamp": "2024-01-01 01:00:00"},
		}
		readings, rep := NormalizeAll(raws)

		Convey("invalid records should be excluded, not zeroed", func() {
			So(readings, ShouldHaveLength, 2)
			So(readings[0].DeviceID, ShouldEqual, "A")
			So(readings[1].DeviceID, ShouldEqual, "B")
			So(readings[1].Metric, ShouldEqual, 0)
		})
		Convey("the report should account for every record", func() {
			So(rep.Total, ShouldEqual, 4)
			So(rep.Valid, ShouldEqual, 2)
			So(rep.Malformed, ShouldEqual, 1)
			So(rep.InvalidTimestamps, ShouldEqual, 1)
			So(rep.Drops, ShouldHaveLength, 2)
			So(rep.Drops[0].Index, ShouldEqual, 1)
			So(rep.Drops[1].Index, ShouldEqual, 2)
		})
	})
	Convey("When normalizing nothing", t, func() {
		readings, rep := NormalizeAll(nil)
		So(readings, ShouldBeEmpty)
		So(rep.Total, ShouldEqual, 0)
	})
}

func TestReadingID(t *testing.T) {
	r := Reading{DeviceID: "dev-1", Time: time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)}
	if r.ID() != "dev-1@2024-03-04 05:06:07" {
		t.Fatalf("unexpected id %q", r.ID())
	}
}
