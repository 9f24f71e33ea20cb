package stats

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"time"

	log "github.com/sirupsen/logrus"
)

type GraphiteMetric interface {
	// Report the measurement in graphite format
	ReportGraphite(prefix []byte, buf []byte, now time.Time) []byte
}

// NormalizePrefix makes sure a non-empty prefix ends with a dot
func NormalizePrefix(prefix string) string {
	if len(prefix) != 0 && prefix[len(prefix)-1] != '.' {
		prefix = prefix + "."
	}
	return prefix
}

// Flush appends the report of every registered metric to buf, sorted by name.
func Flush(buf []byte, prefix string, now time.Time) []byte {
	prefix = NormalizePrefix(prefix)
	var fullPrefix bytes.Buffer
	for _, m := range registry.list() {
		fullPrefix.Reset()
		fullPrefix.WriteString(prefix)
		fullPrefix.WriteString(m.name)
		fullPrefix.WriteRune('.')
		buf = m.metric.ReportGraphite(fullPrefix.Bytes(), buf, now)
	}
	return buf
}

// SendGraphite reports all registered metrics to the carbon listener at addr, once.
// a run is short lived, so there is no retrying: the caller decides whether
// a failure matters.
func SendGraphite(ctx context.Context, addr, prefix string, timeout time.Duration) error {
	now := time.Now()
	buf := Flush(nil, prefix, now)

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("stats dialing %s failed: %w", addr, err)
	}
	defer conn.Close()

	conn.SetWriteDeadline(now.Add(timeout))
	pre := time.Now()
	if _, err := conn.Write(buf); err != nil {
		return fmt.Errorf("stats failed to write to graphite %s: %w", addr, err)
	}
	log.Debugf("stats: sent %d bytes to %s in %s", len(buf), addr, time.Since(pre))
	return nil
}
