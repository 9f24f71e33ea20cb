package cmd

import (
	log "github.com/sirupsen/logrus"

	"github.com/grafana/sensorstat/analytics"
	"github.com/grafana/sensorstat/input"
	"github.com/grafana/sensorstat/reading"
	"github.com/grafana/sensorstat/stats"
)

var (
	// metric normalize.records.valid is how many records became readings
	recordsValid = stats.NewCounter32("normalize.records.valid")
	// metric normalize.records.malformed is how many records lacked a field or had a value of the wrong shape
	recordsMalformed = stats.NewCounter32("normalize.records.malformed")
	// metric normalize.records.invalid_timestamp is how many records had an unparseable timestamp
	recordsInvalidTs = stats.NewCounter32("normalize.records.invalid_timestamp")
)

// loaded is the normalized content of an input directory
type loaded struct {
	batch    *input.Batch
	readings []reading.Reading
	report   reading.Report
}

// load reads and normalizes every record in dir. dropped records are logged to entry, not fatal.
func load(entry *log.Entry, dir string, skip []string) (loaded, error) {
	batch, err := input.ReadDir(dir, skip)
	if err != nil {
		return loaded{}, err
	}
	readings, rep := reading.NormalizeAll(batch.Fields())

	recordsValid.Add(rep.Valid)
	recordsMalformed.Add(rep.Malformed)
	recordsInvalidTs.Add(rep.InvalidTimestamps)

	for _, d := range rep.Drops {
		rec := batch.Records[d.Index]
		entry.WithFields(log.Fields{
			"file":   rec.File,
			"record": rec.Index,
		}).Debugf("dropping record: %s", d.Err)
	}
	if len(rep.Drops) > 0 {
		entry.Warnf("dropped %d of %d records: %d malformed, %d with an invalid timestamp", len(rep.Drops), rep.Total, rep.Malformed, rep.InvalidTimestamps)
	}
	return loaded{
		batch:    batch,
		readings: readings,
		report:   rep,
	}, nil
}

func (l loaded) ingestion() analytics.Ingestion {
	return analytics.Ingestion{
		FilesRead:         l.batch.FilesRead,
		FilesSkipped:      l.batch.FilesSkipped,
		RecordsTotal:      l.report.Total,
		RecordsValid:      l.report.Valid,
		MalformedRecords:  l.report.Malformed,
		InvalidTimestamps: l.report.InvalidTimestamps,
	}
}
