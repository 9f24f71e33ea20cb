package analytics

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/grafana/sensorstat/errors"
	"github.com/grafana/sensorstat/reading"
	"github.com/grafana/sensorstat/test"
)

func ts(s string) time.Time {
	t, err := reading.ParseTimestamp(s)
	if err != nil {
		panic(err)
	}
	return t
}

func f64(v float64) *float64 { return &v }

func TestTwoReadingScenario(t *testing.T) {
	readings := []reading.Reading{
		{DeviceID: "A", Region: "r", Metric: 10, Battery: 90, Time: ts("2024-01-01 00:00:00")},
		{DeviceID: "A", Region: "r", Metric: 90, Battery: 10, Time: ts("2024-01-02 00:00:00")},
	}
	Convey("When running the full analysis over two readings a day apart", t, func() {
		res, err := Run(readings, NewConfig())
		So(err, ShouldBeNil)

		dev, ok := res.DeviceAnalytics.Get("A")
		So(ok, ShouldBeTrue)
		So(dev.MeasurementCount, ShouldEqual, 2)
		So(dev.DischargePerDay, ShouldEqual, 80)
		So(*dev.EstimatedLifeDays, ShouldEqual, 10.0/80)
		So(dev.Battery, ShouldResemble, BatterySummary{Avg: 50, Min: 10, Max: 90})
		So(*dev.MeanIntervalSeconds, ShouldEqual, 86400)
		So(dev.FirstSeen, ShouldEqual, "2024-01-01 00:00:00")
		So(dev.LastSeen, ShouldEqual, "2024-01-02 00:00:00")

		gm, _ := GlobalMedian(readings)
		So(gm, ShouldEqual, 50)

		So(res.DeviceMetricAnalytics, ShouldHaveLength, 1)
		dm := res.DeviceMetricAnalytics[0]
		So(dm.Mean, ShouldEqual, 50)
		So(dm.RelativeToGlobal, ShouldEqual, 0)
		So(dm.Volatility, ShouldEqual, 40.0/50)
	})
}

func TestDevices(t *testing.T) {
	cfg := NewConfig()
	type testCase struct {
		title     string
		in        []reading.Reading
		discharge float64
		life      *float64
		interval  *float64
		oor       int
	}
	cases := []testCase{
		{
			title:     "single reading",
			in:        []reading.Reading{{DeviceID: "A", Battery: 55, Time: ts("2024-01-01 12:00:00")}},
			discharge: 0,
		},
		{
			title: "identical timestamps",
			in: []reading.Reading{
				{DeviceID: "A", Battery: 55, Time: ts("2024-01-01 12:00:00")},
				{DeviceID: "A", Battery: 50, Time: ts("2024-01-01 12:00:00")},
				{DeviceID: "A", Battery: 45, Time: ts("2024-01-01 12:00:00")},
			},
			discharge: 0,
			interval:  f64(0),
		},
		{
			title: "unordered input, charging",
			in: []reading.Reading{
				{DeviceID: "A", Battery: 80, Time: ts("2024-01-03 00:00:00")},
				{DeviceID: "A", Battery: 20, Time: ts("2024-01-01 00:00:00")},
			},
			discharge: -30,
			interval:  f64(2 * 86400),
		},
		{
			title: "span below min-elapsed",
			in: []reading.Reading{
				{DeviceID: "A", Battery: 100, Time: ts("2024-01-01 00:00:00")},
				{DeviceID: "A", Battery: 99, Time: ts("2024-01-01 00:00:00").Add(time.Millisecond)},
			},
			discharge: 86400,
			life:      f64(99.0 / 86400),
			interval:  f64(0.001),
		},
		{
			title: "out of range battery",
			in: []reading.Reading{
				{DeviceID: "A", Battery: 120, Time: ts("2024-01-01 00:00:00")},
				{DeviceID: "A", Battery: -1, Time: ts("2024-01-01 06:00:00")},
				{DeviceID: "A", Battery: 50, Time: ts("2024-01-01 12:00:00")},
			},
			discharge: 140,
			life:      f64(50.0 / 140),
			interval:  f64(6 * 3600),
			oor:       2,
		},
		{
			title: "discharging below zero",
			in: []reading.Reading{
				{DeviceID: "A", Battery: 10, Time: ts("2024-01-01 00:00:00")},
				{DeviceID: "A", Battery: -5, Time: ts("2024-01-02 00:00:00")},
			},
			discharge: 15,
			interval:  f64(86400),
			oor:       1,
		},
	}
	for i, c := range cases {
		out, err := Devices(c.in, cfg)
		if err != nil {
			t.Fatalf("case %d %q: unexpected error %s", i, c.title, err)
		}
		if len(out) != 1 {
			t.Fatalf("case %d %q: expected 1 device, got %s", i, c.title, spew.Sdump(out))
		}
		d := out[0]
		if math.IsNaN(d.DischargePerDay) || math.IsInf(d.DischargePerDay, 0) || math.Abs(d.DischargePerDay-c.discharge) > 1e-6 {
			t.Fatalf("case %d %q: expected discharge %v, got %v", i, c.title, c.discharge, d.DischargePerDay)
		}
		if diff := cmp.Diff(c.life, d.EstimatedLifeDays, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
			t.Fatalf("case %d %q: estimatedLifeDays mismatch (-want +got):\n%s", i, c.title, diff)
		}
		if diff := cmp.Diff(c.interval, d.MeanIntervalSeconds, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
			t.Fatalf("case %d %q: meanIntervalSeconds mismatch (-want +got):\n%s", i, c.title, diff)
		}
		if d.BatteryOutOfRange != c.oor {
			t.Fatalf("case %d %q: expected %d out of range, got %d", i, c.title, c.oor, d.BatteryOutOfRange)
		}
	}
}

func TestRegions(t *testing.T) {
	Convey("When a region has a single reading", t, func() {
		readings := []reading.Reading{
			{DeviceID: "A", Region: "solo", Metric: 42, Time: ts("2024-01-01 00:00:00")},
			{DeviceID: "B", Region: "pair", Metric: 0, Time: ts("2024-01-01 00:00:00")},
			{DeviceID: "B", Region: "pair", Metric: 0, Time: ts("2024-01-01 00:00:00")},
		}
		regs, err := Regions(readings, 10, NewConfig())
		So(err, ShouldBeNil)
		So(regs, ShouldHaveLength, 2)
		solo := regs[0]
		So(solo.Region, ShouldEqual, "solo")
		So(solo.Count, ShouldEqual, 1)
		So(solo.Std, ShouldEqual, 0)
		So(solo.P05, ShouldEqual, 42)
		So(solo.P95, ShouldEqual, 42)
		So(solo.Median, ShouldEqual, 42)
		So(solo.RelativeToGlobal, ShouldEqual, 32)
		So(solo.Outliers, ShouldEqual, 0)

		Convey("a zero mean region should have volatility 0, not NaN", func() {
			So(regs[1].Mean, ShouldEqual, 0)
			So(regs[1].Volatility, ShouldEqual, 0)
		})
	})
	Convey("When a region has values beyond its own p05/p95", t, func() {
		var readings []reading.Reading
		for i := 0; i <= 100; i++ {
			readings = append(readings, reading.Reading{DeviceID: "A", Region: "r", Metric: float64(i), Time: ts("2024-01-01 00:00:00")})
		}
		regs, err := Regions(readings, 50, NewConfig())
		So(err, ShouldBeNil)
		So(regs[0].P05, ShouldAlmostEqual, 5)
		So(regs[0].P95, ShouldAlmostEqual, 95)
		So(regs[0].Outliers, ShouldEqual, 10)
	})
}

func TestRelativeToGlobal(t *testing.T) {
	readings := test.RandReadings(2000, 25, 4, 7)
	gm, ok := GlobalMedian(readings)
	if !ok {
		t.Fatal("expected a global median")
	}
	cfg := NewConfig()
	dms, err := DeviceMetrics(readings, gm, cfg)
	if err != nil {
		t.Fatal(err)
	}
	weighted, n := 0.0, 0
	for _, dm := range dms {
		if math.Abs(dm.RelativeToGlobal-(dm.Mean-gm)) > 1e-9 {
			t.Fatalf("device %s: relativeToGlobal %v does not match mean %v - global median %v", dm.DeviceID, dm.RelativeToGlobal, dm.Mean, gm)
		}
		weighted += dm.RelativeToGlobal * float64(dm.Count)
		n += dm.Count
	}
	if n != len(readings) {
		t.Fatalf("expected device counts to sum to %d, got %d", len(readings), n)
	}
	globalMean := 0.0
	for _, r := range readings {
		globalMean += r.Metric
	}
	globalMean /= float64(len(readings))
	if math.Abs(weighted/float64(n)-(globalMean-gm)) > 1e-6 {
		t.Fatalf("weighted relativeToGlobal %v should equal global mean - global median %v", weighted/float64(n), globalMean-gm)
	}
}

func TestTemporal(t *testing.T) {
	Convey("When readings fall in both buckets", t, func() {
		readings := []reading.Reading{
			{Metric: 10, Time: ts("2024-01-01 05:59:59")},
			{Metric: 20, Time: ts("2024-01-01 06:00:00")},
			{Metric: 40, Time: ts("2024-01-01 17:59:59")},
			{Metric: 30, Time: ts("2024-01-01 18:00:00")},
		}
		out := Temporal(readings)
		So(out.Day, ShouldResemble, &BucketStats{Count: 2, Mean: 30, Median: 30})
		So(out.Night, ShouldResemble, &BucketStats{Count: 2, Mean: 20, Median: 20})
		So(*out.DeltaDayNight, ShouldEqual, 10)
	})
	Convey("When there is no night data", t, func() {
		out := Temporal([]reading.Reading{{Metric: 0, Time: ts("2024-01-01 12:00:00")}})
		So(out.Day, ShouldNotBeNil)
		So(out.Day.Mean, ShouldEqual, 0)
		So(out.Night, ShouldBeNil)
		So(out.DeltaDayNight, ShouldBeNil)

		Convey("no data should encode as null, not 0", func() {
			buf, err := json.Marshal(out)
			So(err, ShouldBeNil)
			So(string(buf), ShouldEqual, `{"day":{"count":1,"mean":0,"median":0},"night":null,"deltaDayNight":null}`)
		})
	})
	Convey("Buckets should be derived from the UTC hour", t, func() {
		loc := time.FixedZone("UTC+10", 10*3600)
		So(BucketOf(time.Date(2024, 1, 1, 20, 0, 0, 0, loc)), ShouldEqual, Day)
		So(BucketOf(time.Date(2024, 1, 1, 12, 0, 0, 0, loc)), ShouldEqual, Night)
		So(Day.String(), ShouldEqual, "day")
		So(Night.String(), ShouldEqual, "night")
	})
}

func TestAnomalies(t *testing.T) {
	Convey("When detecting spikes", t, func() {
		var readings []reading.Reading
		for i := 0; i <= 100; i++ {
			readings = append(readings, reading.Reading{DeviceID: "A", Metric: float64(i), Time: ts("2024-01-01 00:00:00").Add(time.Duration(i) * time.Minute)})
		}
		cfg := NewConfig()
		cfg.SampleSize = 1
		rep := Anomalies(readings, cfg)
		So(*rep.P01, ShouldEqual, 1)
		So(*rep.P99, ShouldEqual, 99)
		So(rep.SpikeCount, ShouldEqual, 4)
		So(rep.SampleFlaggedIDs, ShouldResemble, []string{"A@2024-01-01 00:00:00"})

		Convey("a wider tail should never flag fewer readings", func() {
			prev := 0
			for _, tail := range []Tail{{0.01, 0.99}, {0.05, 0.95}, {0.1, 0.9}, {0.25, 0.75}} {
				cfg.Anomaly = tail
				n := Anomalies(readings, cfg).SpikeCount
				So(n, ShouldBeGreaterThanOrEqualTo, prev)
				prev = n
			}
		})
	})
	Convey("When there are no readings", t, func() {
		rep := Anomalies(nil, NewConfig())
		So(rep.P01, ShouldBeNil)
		So(rep.P99, ShouldBeNil)
		So(rep.SpikeCount, ShouldEqual, 0)
		So(rep.SampleFlaggedIDs, ShouldNotBeNil)
	})
	Convey("Spike counts should be monotonic on random data", t, func() {
		readings := test.RandReadings(3000, 10, 3, 99)
		cfg := NewConfig()
		narrow := Anomalies(readings, cfg).SpikeCount
		cfg.Anomaly = Tail{0.05, 0.95}
		wide := Anomalies(readings, cfg).SpikeCount
		So(wide, ShouldBeGreaterThanOrEqualTo, narrow)
		So(narrow, ShouldBeGreaterThan, 0)
	})
}

func TestRunEmpty(t *testing.T) {
	Convey("When there is no valid reading", t, func() {
		_, err := Run(nil, NewConfig())
		So(err, ShouldEqual, errors.ErrNoData)
	})
	Convey("When the config is invalid", t, func() {
		cfg := NewConfig()
		cfg.Regional = Tail{0.9, 0.1}
		_, err := Run(test.RandReadings(10, 2, 2, 1), cfg)
		So(err, ShouldNotBeNil)
	})
}

func TestAssembleEmptySections(t *testing.T) {
	res := Assemble(Ingestion{}, nil, nil, nil, TemporalStats{}, AnomalyReport{})
	buf, err := json.Marshal(res)
	if err != nil {
		t.Fatal(err)
	}
	exp := `{"ingestion":{"filesRead":0,"filesSkipped":0,"recordsTotal":0,"recordsValid":0,"malformedRecords":0,"invalidTimestamps":0},` +
		`"deviceAnalytics":{},"regionalAnalytics":[],"deviceMetricAnalytics":[],` +
		`"temporalAnalytics":{"day":null,"night":null,"deltaDayNight":null},` +
		`"anomalies":{"p01":null,"p99":null,"spikeCount":0,"sampleFlaggedIds":[]}}`
	if string(buf) != exp {
		t.Fatalf("expected\n%s\ngot\n%s", exp, buf)
	}
}

func TestDeviceAnalyticsOrder(t *testing.T) {
	readings := []reading.Reading{
		{DeviceID: "zeta", Battery: 1, Time: ts("2024-01-01 00:00:00")},
		{DeviceID: "alpha", Battery: 2, Time: ts("2024-01-01 00:00:00")},
	}
	devs, err := Devices(readings, NewConfig())
	if err != nil {
		t.Fatal(err)
	}
	buf, err := json.Marshal(devs)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(buf, &m); err != nil {
		t.Fatalf("device analytics is not a json object: %s", err)
	}
	if len(m) != 2 {
		t.Fatalf("expected 2 devices, got %d", len(m))
	}
	if bytes.Index(buf, []byte(`"zeta"`)) > bytes.Index(buf, []byte(`"alpha"`)) {
		t.Fatalf("expected first occurrence order, got %s", buf)
	}
}

func TestRunConcurrencyDeterminism(t *testing.T) {
	readings := test.RandReadings(5000, 60, 7, 3)
	cfg := NewConfig()
	seq, err := Run(readings, cfg)
	if err != nil {
		t.Fatal(err)
	}
	seqJSON, err := json.Marshal(seq)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range []int{2, 4, 16} {
		cfg.Concurrency = c
		par, err := Run(readings, cfg)
		if err != nil {
			t.Fatal(err)
		}
		parJSON, err := json.Marshal(par)
		if err != nil {
			t.Fatal(err)
		}
		if string(parJSON) != string(seqJSON) {
			t.Fatalf("concurrency %d: output differs from sequential run: %s", c, cmp.Diff(seq, par))
		}
	}
}

func TestConfigValidate(t *testing.T) {
	var cases = []struct {
		mod func(c *Config)
		err bool
	}{
		{func(c *Config) {}, false},
		{func(c *Config) { c.Anomaly = Tail{-0.1, 0.9} }, true},
		{func(c *Config) { c.Battery = Tail{0.5, 0.5} }, true},
		{func(c *Config) { c.DeviceMetric = Tail{0, 1.5} }, true},
		{func(c *Config) { c.Anomaly = Tail{math.NaN(), 0.99} }, true},
		{func(c *Config) { c.Regional = Tail{0.05, math.NaN()} }, true},
		{func(c *Config) { c.MinElapsed = 0 }, true},
		{func(c *Config) { c.SampleSize = -1 }, true},
		{func(c *Config) { c.SampleSize = 0 }, false},
		{func(c *Config) { c.Concurrency = 0 }, true},
	}
	for i, c := range cases {
		cfg := NewConfig()
		c.mod(&cfg)
		err := cfg.Validate()
		if (err != nil) != c.err {
			t.Fatalf("case %d: expected err %t, got %v", i, c.err, err)
		}
	}
}
