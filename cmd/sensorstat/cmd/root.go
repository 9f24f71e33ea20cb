package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/grafana/sensorstat/logger"
)

var rootCmd = &cobra.Command{
	Use:           "sensorstat",
	Short:         "Computes battery, cohort, diurnal and anomaly statistics over a batch of sensor readings",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		lvl, err := log.ParseLevel(viper.GetString("log-level"))
		if err != nil {
			return fmt.Errorf("failed to parse log-level, %s", err.Error())
		}
		log.SetLevel(lvl)
		return nil
	},
}

// coder is implemented by errors that map to a specific exit status
type coder interface {
	Code() int
}

// exitCode returns the process exit status for the error a command returned
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return 1
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Error(err)
	}
	os.Exit(exitCode(err))
}

var cfgFile string

func init() {
	formatter := &logger.TextFormatter{}
	formatter.TimestampFormat = "2006-01-02 15:04:05.000"
	formatter.ModuleName = "sensorstat"
	log.SetFormatter(formatter)
	log.SetOutput(os.Stderr)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.sensorstat.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level. panic|fatal|error|warning|info|debug")
	rootCmd.PersistentFlags().String("input-dir", "/data/inputs", "directory holding the input files")
	rootCmd.PersistentFlags().StringSlice("skip-files", []string{"algoCustomData.json"}, "file names in input-dir that are not readings")
	viper.BindPFlags(rootCmd.PersistentFlags())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			log.Fatal(err)
		}
		// search config in home directory with name ".sensorstat" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".sensorstat")
	}

	// e.g. SENSORSTAT_INPUT_DIR overrides input-dir
	viper.SetEnvPrefix("sensorstat")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err == nil {
		log.Infof("using config file %s", viper.ConfigFileUsed())
		return
	}
	if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
		log.Fatalf("cannot read config file: %s", err)
	}
}
