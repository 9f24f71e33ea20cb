package output

import (
	"bytes"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/grafana/sensorstat/analytics"
)

func opt(v *float64) string {
	if v == nil {
		return "-"
	}
	return num(*v)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// encodeText renders a report for humans. it is not meant to be parsed.
func encodeText(res *analytics.Result) []byte {
	var buf bytes.Buffer
	ing := res.Ingestion

	fmt.Fprintln(&buf, "### ingestion ###")
	fmt.Fprintf(&buf, "files:     %d read, %d skipped\n", ing.FilesRead, ing.FilesSkipped)
	fmt.Fprintf(&buf, "records:   %d total, %d valid, %d malformed, %d invalid timestamp\n",
		ing.RecordsTotal, ing.RecordsValid, ing.MalformedRecords, ing.InvalidTimestamps)
	fmt.Fprintln(&buf)

	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	fmt.Fprintln(&buf, "### devices ###")
	fmt.Fprintln(w, "device\tcount\tbattery avg\tmin\tmax\tdischarge/day\tlife (days)\tfirst seen\tlast seen")
	for _, d := range res.DeviceAnalytics {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n", d.DeviceID, d.MeasurementCount,
			num(d.Battery.Avg), num(d.Battery.Min), num(d.Battery.Max),
			num(d.DischargePerDay), opt(d.EstimatedLifeDays), d.FirstSeen, d.LastSeen)
	}
	w.Flush()
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "### regions ###")
	fmt.Fprintln(w, "region\tcount\tmean\tmedian\tp05\tp95\tstd\tvs global\toutliers")
	for _, r := range res.RegionalAnalytics {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%d\n", r.Region, r.Count,
			num(r.Mean), num(r.Median), num(r.P05), num(r.P95), num(r.Std), num(r.RelativeToGlobal), r.Outliers)
	}
	w.Flush()
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "### device metrics ###")
	fmt.Fprintln(w, "device\tcount\tmean\tmedian\tstd\tvolatility\tp01\tp99\tvs global")
	for _, d := range res.DeviceMetricAnalytics {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n", d.DeviceID, d.Count,
			num(d.Mean), num(d.Median), num(d.Std), num(d.Volatility), num(d.P01), num(d.P99), num(d.RelativeToGlobal))
	}
	w.Flush()
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "### day / night ###")
	for _, b := range []analytics.Bucket{analytics.Day, analytics.Night} {
		stats := res.TemporalAnalytics.Day
		if b == analytics.Night {
			stats = res.TemporalAnalytics.Night
		}
		if stats == nil {
			fmt.Fprintf(&buf, "%-6s no data\n", b.String()+":")
			continue
		}
		fmt.Fprintf(&buf, "%-6s count %d, mean %s, median %s\n", b.String()+":", stats.Count, num(stats.Mean), num(stats.Median))
	}
	fmt.Fprintf(&buf, "delta: %s\n", opt(res.TemporalAnalytics.DeltaDayNight))
	fmt.Fprintln(&buf)

	an := res.Anomalies
	fmt.Fprintln(&buf, "### anomalies ###")
	fmt.Fprintf(&buf, "thresholds: low %s, high %s\n", opt(an.P01), opt(an.P99))
	fmt.Fprintf(&buf, "spikes:     %d\n", an.SpikeCount)
	for _, id := range an.SampleFlaggedIDs {
		fmt.Fprintln(&buf, "  ", id)
	}
	return buf.Bytes()
}
