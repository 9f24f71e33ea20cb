package analytics

import (
	"github.com/tinylib/msgp/msgp"
)

// msgpack encoding of Result. field names match the json encoding,
// and the device map keeps insertion order like its json counterpart.

func appendOptFloat64(b []byte, v *float64) []byte {
	if v == nil {
		return msgp.AppendNil(b)
	}
	return msgp.AppendFloat64(b, *v)
}

// MarshalMsg implements msgp.Marshaler
func (z Ingestion) MarshalMsg(b []byte) ([]byte, error) {
	b = msgp.AppendMapHeader(b, 6)
	b = msgp.AppendString(b, "filesRead")
	b = msgp.AppendInt(b, z.FilesRead)
	b = msgp.AppendString(b, "filesSkipped")
	b = msgp.AppendInt(b, z.FilesSkipped)
	b = msgp.AppendString(b, "recordsTotal")
	b = msgp.AppendInt(b, z.RecordsTotal)
	b = msgp.AppendString(b, "recordsValid")
	b = msgp.AppendInt(b, z.RecordsValid)
	b = msgp.AppendString(b, "malformedRecords")
	b = msgp.AppendInt(b, z.MalformedRecords)
	b = msgp.AppendString(b, "invalidTimestamps")
	b = msgp.AppendInt(b, z.InvalidTimestamps)
	return b, nil
}

// MarshalMsg implements msgp.Marshaler
func (z *DeviceStats) MarshalMsg(b []byte) ([]byte, error) {
	b = msgp.AppendMapHeader(b, 10)
	b = msgp.AppendString(b, "measurementCount")
	b = msgp.AppendInt(b, z.MeasurementCount)
	b = msgp.AppendString(b, "battery")
	b = msgp.AppendMapHeader(b, 3)
	b = msgp.AppendString(b, "avg")
	b = msgp.AppendFloat64(b, z.Battery.Avg)
	b = msgp.AppendString(b, "min")
	b = msgp.AppendFloat64(b, z.Battery.Min)
	b = msgp.AppendString(b, "max")
	b = msgp.AppendFloat64(b, z.Battery.Max)
	b = msgp.AppendString(b, "batteryP01")
	b = msgp.AppendFloat64(b, z.BatteryP01)
	b = msgp.AppendString(b, "batteryP99")
	b = msgp.AppendFloat64(b, z.BatteryP99)
	b = msgp.AppendString(b, "dischargePerDay")
	b = msgp.AppendFloat64(b, z.DischargePerDay)
	b = msgp.AppendString(b, "estimatedLifeDays")
	b = appendOptFloat64(b, z.EstimatedLifeDays)
	b = msgp.AppendString(b, "firstSeen")
	b = msgp.AppendString(b, z.FirstSeen)
	b = msgp.AppendString(b, "lastSeen")
	b = msgp.AppendString(b, z.LastSeen)
	b = msgp.AppendString(b, "meanIntervalSeconds")
	b = appendOptFloat64(b, z.MeanIntervalSeconds)
	b = msgp.AppendString(b, "batteryOutOfRange")
	b = msgp.AppendInt(b, z.BatteryOutOfRange)
	return b, nil
}

// MarshalMsg implements msgp.Marshaler
func (z DeviceAnalytics) MarshalMsg(b []byte) (o []byte, err error) {
	o = msgp.AppendMapHeader(b, uint32(len(z)))
	for i := range z {
		o = msgp.AppendString(o, z[i].DeviceID)
		o, err = z[i].MarshalMsg(o)
		if err != nil {
			return
		}
	}
	return
}

// MarshalMsg implements msgp.Marshaler
func (z *RegionStats) MarshalMsg(b []byte) ([]byte, error) {
	b = msgp.AppendMapHeader(b, 12)
	b = msgp.AppendString(b, "region")
	b = msgp.AppendString(b, z.Region)
	b = msgp.AppendString(b, "count")
	b = msgp.AppendInt(b, z.Count)
	b = msgp.AppendString(b, "mean")
	b = msgp.AppendFloat64(b, z.Mean)
	b = msgp.AppendString(b, "median")
	b = msgp.AppendFloat64(b, z.Median)
	b = msgp.AppendString(b, "p05")
	b = msgp.AppendFloat64(b, z.P05)
	b = msgp.AppendString(b, "p95")
	b = msgp.AppendFloat64(b, z.P95)
	b = msgp.AppendString(b, "min")
	b = msgp.AppendFloat64(b, z.Min)
	b = msgp.AppendString(b, "max")
	b = msgp.AppendFloat64(b, z.Max)
	b = msgp.AppendString(b, "std")
	b = msgp.AppendFloat64(b, z.Std)
	b = msgp.AppendString(b, "volatility")
	b = msgp.AppendFloat64(b, z.Volatility)
	b = msgp.AppendString(b, "relativeToGlobal")
	b = msgp.AppendFloat64(b, z.RelativeToGlobal)
	b = msgp.AppendString(b, "outliers")
	b = msgp.AppendInt(b, z.Outliers)
	return b, nil
}

// MarshalMsg implements msgp.Marshaler
func (z *DeviceMetricStats) MarshalMsg(b []byte) ([]byte, error) {
	b = msgp.AppendMapHeader(b, 9)
	b = msgp.AppendString(b, "deviceId")
	b = msgp.AppendString(b, z.DeviceID)
	b = msgp.AppendString(b, "count")
	b = msgp.AppendInt(b, z.Count)
	b = msgp.AppendString(b, "mean")
	b = msgp.AppendFloat64(b, z.Mean)
	b = msgp.AppendString(b, "median")
	b = msgp.AppendFloat64(b, z.Median)
	b = msgp.AppendString(b, "std")
	b = msgp.AppendFloat64(b, z.Std)
	b = msgp.AppendString(b, "volatility")
	b = msgp.AppendFloat64(b, z.Volatility)
	b = msgp.AppendString(b, "p01")
	b = msgp.AppendFloat64(b, z.P01)
	b = msgp.AppendString(b, "p99")
	b = msgp.AppendFloat64(b, z.P99)
	b = msgp.AppendString(b, "relativeToGlobal")
	b = msgp.AppendFloat64(b, z.RelativeToGlobal)
	return b, nil
}

func appendBucketStats(b []byte, z *BucketStats) []byte {
	if z == nil {
		return msgp.AppendNil(b)
	}
	b = msgp.AppendMapHeader(b, 3)
	b = msgp.AppendString(b, "count")
	b = msgp.AppendInt(b, z.Count)
	b = msgp.AppendString(b, "mean")
	b = msgp.AppendFloat64(b, z.Mean)
	b = msgp.AppendString(b, "median")
	b = msgp.AppendFloat64(b, z.Median)
	return b
}

// MarshalMsg implements msgp.Marshaler
func (z *TemporalStats) MarshalMsg(b []byte) ([]byte, error) {
	b = msgp.AppendMapHeader(b, 3)
	b = msgp.AppendString(b, "day")
	b = appendBucketStats(b, z.Day)
	b = msgp.AppendString(b, "night")
	b = appendBucketStats(b, z.Night)
	b = msgp.AppendString(b, "deltaDayNight")
	b = appendOptFloat64(b, z.DeltaDayNight)
	return b, nil
}

// MarshalMsg implements msgp.Marshaler
func (z *AnomalyReport) MarshalMsg(b []byte) ([]byte, error) {
	b = msgp.AppendMapHeader(b, 4)
	b = msgp.AppendString(b, "p01")
	b = appendOptFloat64(b, z.P01)
	b = msgp.AppendString(b, "p99")
	b = appendOptFloat64(b, z.P99)
	b = msgp.AppendString(b, "spikeCount")
	b = msgp.AppendInt(b, z.SpikeCount)
	b = msgp.AppendString(b, "sampleFlaggedIds")
	b = msgp.AppendArrayHeader(b, uint32(len(z.SampleFlaggedIDs)))
	for _, id := range z.SampleFlaggedIDs {
		b = msgp.AppendString(b, id)
	}
	return b, nil
}

// MarshalMsg implements msgp.Marshaler
func (z *Result) MarshalMsg(b []byte) (o []byte, err error) {
	o = msgp.AppendMapHeader(b, 6)
	o = msgp.AppendString(o, "ingestion")
	o, err = z.Ingestion.MarshalMsg(o)
	if err != nil {
		return
	}
	o = msgp.AppendString(o, "deviceAnalytics")
	o, err = z.DeviceAnalytics.MarshalMsg(o)
	if err != nil {
		return
	}
	o = msgp.AppendString(o, "regionalAnalytics")
	o = msgp.AppendArrayHeader(o, uint32(len(z.RegionalAnalytics)))
	for i := range z.RegionalAnalytics {
		o, err = z.RegionalAnalytics[i].MarshalMsg(o)
		if err != nil {
			return
		}
	}
	o = msgp.AppendString(o, "deviceMetricAnalytics")
	o = msgp.AppendArrayHeader(o, uint32(len(z.DeviceMetricAnalytics)))
	for i := range z.DeviceMetricAnalytics {
		o, err = z.DeviceMetricAnalytics[i].MarshalMsg(o)
		if err != nil {
			return
		}
	}
	o = msgp.AppendString(o, "temporalAnalytics")
	o, err = z.TemporalAnalytics.MarshalMsg(o)
	if err != nil {
		return
	}
	o = msgp.AppendString(o, "anomalies")
	o, err = z.Anomalies.MarshalMsg(o)
	return
}
