// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509sources

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// RenderProbeTable renders probe results as a markdown table.
//
// Parameters:
//   - results: Probe results in the order they should appear
//
// Returns:
//   - string: Markdown table, or a short notice when results is empty
func RenderProbeTable(results []ProbeResult) string {
	if len(results) == 0 {
		return "No locations to display"
	}

	var buf strings.Builder
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)
	table.Header([]string{"#", "Scheme", "URL", "Status", "Bytes", "SHA-256", "Time", "Error"})

	rows := make([][]string, 0, len(results))
	for i, r := range results {
		digest := r.SHA256
		if len(digest) > 16 {
			digest = digest[:16] + "…"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			r.Scheme,
			r.URL,
			r.Status(),
			fmt.Sprintf("%d", r.Bytes),
			digest,
			r.Duration.Round(time.Millisecond).String(),
			r.Error,
		})
	}

	table.Bulk(rows)
	table.Render()
	return buf.String()
}

// probeReport is the JSON form of a probe run.
type probeReport struct {
	Total     int           `json:"total"`
	Available int           `json:"available"`
	Results   []ProbeResult `json:"results"`
}

// RenderProbeJSON renders probe results as indented JSON with a summary.
func RenderProbeJSON(results []ProbeResult) ([]byte, error) {
	report := probeReport{Total: len(results), Results: results}
	if report.Results == nil {
		report.Results = []ProbeResult{}
	}
	for _, r := range results {
		if r.OK() {
			report.Available++
		}
	}
	return json.MarshalIndent(report, "", "  ")
}
