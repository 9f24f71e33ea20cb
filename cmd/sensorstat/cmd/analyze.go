package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/raintank/dur"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/grafana/sensorstat/analytics"
	"github.com/grafana/sensorstat/errors"
	"github.com/grafana/sensorstat/output"
	"github.com/grafana/sensorstat/stats"
)

var (
	// metric analytics.devices is the number of devices in the last run
	devicesCount = stats.NewGauge32("analytics.devices")
	// metric analytics.regions is the number of regions in the last run
	regionsCount = stats.NewGauge32("analytics.regions")
	// metric analytics.spikes is how many readings were flagged as anomalous
	spikesCount = stats.NewCounter32("analytics.spikes")
	// metric run.duration_ns is how long the last run took, from reading input to writing output
	runDuration = stats.NewGauge64("run.duration_ns")
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	f := analyzeCmd.Flags()
	f.String("output", "/data/outputs/sensor_analytics.json", "file to write the result to. - for stdout")
	f.String("format", "json", "output format. json|msgpack|text")

	def := analytics.NewConfig()
	f.Float64("anomaly-low", def.Anomaly.Low, "quantile at or below which a reading is a spike")
	f.Float64("anomaly-high", def.Anomaly.High, "quantile at or above which a reading is a spike")
	f.Float64("regional-low", def.Regional.Low, "low quantile reported per region, and lower bound for regional outliers")
	f.Float64("regional-high", def.Regional.High, "high quantile reported per region, and upper bound for regional outliers")
	f.Float64("device-metric-low", def.DeviceMetric.Low, "low quantile of the metric reported per device")
	f.Float64("device-metric-high", def.DeviceMetric.High, "high quantile of the metric reported per device")
	f.Float64("battery-low", def.Battery.Low, "low quantile of the battery level reported per device")
	f.Float64("battery-high", def.Battery.High, "high quantile of the battery level reported per device")
	f.String("min-elapsed", "1s", "smallest time span a battery discharge rate is computed over. (e.g. 1s, 10min, 1h)")
	f.Int("sample-size", def.SampleSize, "how many flagged reading ids to report")
	f.Int("concurrency", def.Concurrency, "how many devices or regions to reduce at the same time")

	f.String("stats-addr", "", "graphite address to send run statistics to. e.g. localhost:2003. empty disables")
	f.String("stats-prefix", "sensorstat.stats", "stats prefix (will add trailing dot automatically if needed)")
	f.Duration("stats-timeout", 10*time.Second, "timeout after which sending statistics is given up")
	viper.BindPFlags(f)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze all readings in the input directory and write the result",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := analyzeOptsFromConfig()
		if err != nil {
			return err
		}
		return runAnalyze(context.Background(), opts)
	},
}

type analyzeOpts struct {
	inputDir string
	skip     []string
	outPath  string
	format   output.Format
	cfg      analytics.Config

	statsAddr    string
	statsPrefix  string
	statsTimeout time.Duration
}

func analyzeOptsFromConfig() (analyzeOpts, error) {
	format, err := output.FormatFromString(viper.GetString("format"))
	if err != nil {
		return analyzeOpts{}, err
	}
	minElapsed, err := parseMinElapsed(viper.GetString("min-elapsed"))
	if err != nil {
		return analyzeOpts{}, err
	}
	cfg := analytics.Config{
		Anomaly:      analytics.Tail{Low: viper.GetFloat64("anomaly-low"), High: viper.GetFloat64("anomaly-high")},
		Regional:     analytics.Tail{Low: viper.GetFloat64("regional-low"), High: viper.GetFloat64("regional-high")},
		DeviceMetric: analytics.Tail{Low: viper.GetFloat64("device-metric-low"), High: viper.GetFloat64("device-metric-high")},
		Battery:      analytics.Tail{Low: viper.GetFloat64("battery-low"), High: viper.GetFloat64("battery-high")},
		MinElapsed:   minElapsed,
		SampleSize:   viper.GetInt("sample-size"),
		Concurrency:  viper.GetInt("concurrency"),
	}
	if err := cfg.Validate(); err != nil {
		return analyzeOpts{}, err
	}
	return analyzeOpts{
		inputDir:     viper.GetString("input-dir"),
		skip:         viper.GetStringSlice("skip-files"),
		outPath:      viper.GetString("output"),
		format:       format,
		cfg:          cfg,
		statsAddr:    viper.GetString("stats-addr"),
		statsPrefix:  viper.GetString("stats-prefix"),
		statsTimeout: viper.GetDuration("stats-timeout"),
	}, nil
}

func parseMinElapsed(s string) (time.Duration, error) {
	sec, err := dur.ParseNDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid min-elapsed %q: %s", s, err)
	}
	return time.Duration(sec) * time.Second, nil
}

func runAnalyze(ctx context.Context, o analyzeOpts) error {
	pre := time.Now()
	runLog := log.WithField("run", uuid.New().String())
	runLog.Infof("analyzing %s", o.inputDir)

	l, err := load(runLog, o.inputDir, o.skip)
	if err != nil {
		return err
	}
	if len(l.readings) == 0 {
		return errors.ErrNoData
	}

	res, err := analytics.Run(l.readings, o.cfg)
	if err != nil {
		return err
	}
	res.Ingestion = l.ingestion()

	devicesCount.Set(len(res.DeviceAnalytics))
	regionsCount.Set(len(res.RegionalAnalytics))
	spikesCount.Add(res.Anomalies.SpikeCount)

	data, err := output.Encode(&res, o.format)
	if err != nil {
		return err
	}
	if err := output.Write(o.outPath, data); err != nil {
		return err
	}
	runDuration.SetDuration(time.Since(pre))
	runLog.Infof("wrote %d devices, %d regions in %d bytes of %s to %s (checksum %016x) in %s",
		len(res.DeviceAnalytics), len(res.RegionalAnalytics), len(data), o.format, o.outPath, output.Checksum(data), time.Since(pre))

	if o.statsAddr != "" {
		if err := stats.SendGraphite(ctx, o.statsAddr, o.statsPrefix, o.statsTimeout); err != nil {
			runLog.Warnf("could not send run statistics: %s", err)
		}
	}
	return nil
}
