package cmd

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/grafana/sensorstat/errors"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Read and normalize the input directory, and report every record that would be dropped",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := load(log.NewEntry(log.StandardLogger()), viper.GetString("input-dir"), viper.GetStringSlice("skip-files"))
		if err != nil {
			return err
		}
		printValidation(os.Stdout, l)
		if len(l.readings) == 0 {
			return errors.ErrNoData
		}
		return nil
	},
}

func printValidation(w io.Writer, l loaded) {
	for _, fe := range l.batch.Errors {
		fmt.Fprintf(w, "file %s: %s\n", fe.File, fe.Err)
	}
	for _, d := range l.report.Drops {
		rec := l.batch.Records[d.Index]
		fmt.Fprintf(w, "record %s#%d: %s\n", rec.File, rec.Index, d.Err)
	}
	ing := l.ingestion()
	fmt.Fprintf(w, "files:   %d read, %d skipped\n", ing.FilesRead, ing.FilesSkipped)
	fmt.Fprintf(w, "records: %d total, %d valid, %d malformed, %d invalid timestamp\n",
		ing.RecordsTotal, ing.RecordsValid, ing.MalformedRecords, ing.InvalidTimestamps)
}
