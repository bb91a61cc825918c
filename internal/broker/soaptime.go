package broker

import (
	"fmt"
	"strings"
	"time"
)

// soapTimeLayout is the strict pattern SOAP consumers parse: microsecond
// precision and an explicit +HH:MM/-HH:MM offset. Source representations
// whose offset lacks the colon (e.g. +0500) get one inserted by formatting
// through this layout.
const soapTimeLayout = "2006-01-02T15:04:05.000000-07:00"

// soapTimeFormats are the representations seen in stored records. Fractional
// seconds are optional in every layout; layouts without an offset interpret
// the timestamp as UTC.
var soapTimeFormats = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// normalizeSOAPTime parses a loosely formatted stored timestamp and renders
// it in soapTimeLayout, preserving the source offset.
func normalizeSOAPTime(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range soapTimeFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(soapTimeLayout), nil
		}
	}
	return "", fmt.Errorf("unsupported timestamp %q", raw)
}
