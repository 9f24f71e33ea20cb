package main

import (
	"github.com/grafana/sensorstat/cmd/sensorstat/cmd"
)

func main() {
	cmd.Execute()
}
