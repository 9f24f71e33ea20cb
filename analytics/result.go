package analytics

import (
	"github.com/grafana/sensorstat/errors"
	"github.com/grafana/sensorstat/group"
	"github.com/grafana/sensorstat/reading"
)

// Ingestion accounts for the records a run was built from.
// it is reported by the ingestion side, the analytics never compute it.
type Ingestion struct {
	FilesRead         int `json:"filesRead"`
	FilesSkipped      int `json:"filesSkipped"`
	RecordsTotal      int `json:"recordsTotal"`
	RecordsValid      int `json:"recordsValid"`
	MalformedRecords  int `json:"malformedRecords"`
	InvalidTimestamps int `json:"invalidTimestamps"`
}

// Result is the full document of one run
type Result struct {
	Ingestion             Ingestion           `json:"ingestion"`
	DeviceAnalytics       DeviceAnalytics     `json:"deviceAnalytics"`
	RegionalAnalytics     []RegionStats       `json:"regionalAnalytics"`
	DeviceMetricAnalytics []DeviceMetricStats `json:"deviceMetricAnalytics"`
	TemporalAnalytics     TemporalStats       `json:"temporalAnalytics"`
	Anomalies             AnomalyReport       `json:"anomalies"`
}

// Assemble combines the outputs of the analytic components.
// empty sections are kept as empty collections, never dropped.
func Assemble(ingestion Ingestion, devices DeviceAnalytics, regions []RegionStats, deviceMetrics []DeviceMetricStats, temporal TemporalStats, anomalies AnomalyReport) Result {
	if devices == nil {
		devices = DeviceAnalytics{}
	}
	if regions == nil {
		regions = []RegionStats{}
	}
	if deviceMetrics == nil {
		deviceMetrics = []DeviceMetricStats{}
	}
	if anomalies.SampleFlaggedIDs == nil {
		anomalies.SampleFlaggedIDs = []string{}
	}
	return Result{
		Ingestion:             ingestion,
		DeviceAnalytics:       devices,
		RegionalAnalytics:     regions,
		DeviceMetricAnalytics: deviceMetrics,
		TemporalAnalytics:     temporal,
		Anomalies:             anomalies,
	}
}

// Run computes every analysis over readings and assembles the Result.
// it returns errors.ErrNoData if there are no readings at all.
// Ingestion only reflects readings: callers that know about dropped
// records and files overwrite it.
func Run(readings []reading.Reading, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	globalMedian, ok := GlobalMedian(readings)
	if !ok {
		return Result{}, errors.ErrNoData
	}

	byDevice := group.ByDevice(readings)
	byRegion := group.ByRegion(readings)

	devs, err := devices(byDevice, cfg)
	if err != nil {
		return Result{}, err
	}
	regs, err := regions(byRegion, globalMedian, cfg)
	if err != nil {
		return Result{}, err
	}
	devMetrics, err := deviceMetrics(byDevice, globalMedian, cfg)
	if err != nil {
		return Result{}, err
	}

	ingestion := Ingestion{
		RecordsTotal: len(readings),
		RecordsValid: len(readings),
	}
	return Assemble(ingestion, devs, regs, devMetrics, Temporal(readings), Anomalies(readings, cfg)), nil
}
