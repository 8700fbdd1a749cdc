// Package report renders scanner outcomes as human-readable text.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/domainwatch/twistbot/internal/analyzer"
)

// Format renders an outcome for delivery to the requesting user. Diagnostic
// outcomes pass through unchanged, joined by newline. Record outcomes are
// split into dated and undated entries: dated entries come first, ordered by
// creation date descending (plain string comparison, the dates are opaque
// date-like strings), then undated entries in their original order. Records
// without a domain are dropped.
func Format(o analyzer.Outcome) string {
	if o.Failed() {
		return strings.Join(o.Diagnostics, "\n")
	}

	var dated, undated []analyzer.Record
	for _, rec := range o.Records {
		if rec.Domain == "" {
			continue
		}
		if rec.WhoisCreated != "" {
			dated = append(dated, rec)
		} else {
			undated = append(undated, rec)
		}
	}

	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].WhoisCreated > dated[j].WhoisCreated
	})

	lines := make([]string, 0, len(dated)+len(undated))
	for _, rec := range dated {
		lines = append(lines, fmt.Sprintf("%s, Создан: %s", rec.Domain, rec.WhoisCreated))
	}
	for _, rec := range undated {
		lines = append(lines, rec.Domain+", Создан: N/A")
	}

	return strings.Join(lines, "\n")
}
