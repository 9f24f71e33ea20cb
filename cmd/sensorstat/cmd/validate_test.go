package cmd

import (
	"bytes"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
)

func TestPrintValidation(t *testing.T) {
	in := writeInput(t, map[string]string{
		"a.json":      readingsJSON,
		"b.json":      `[{"deviceId": "A"`,
		"ignored.txt": "x",
	})
	l, err := load(log.NewEntry(log.StandardLogger()), in, nil)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	printValidation(&buf, l)
	out := buf.String()

	for _, exp := range []string{
		"file b.json: ",
		"record a.json#2: invalid timestamp",
		"record a.json#3: ",
		"files:   1 read, 2 skipped\n",
		"records: 4 total, 2 valid, 1 malformed, 1 invalid timestamp\n",
	} {
		if !strings.Contains(out, exp) {
			t.Fatalf("expected output to contain %q, got:\n%s", exp, out)
		}
	}
}
