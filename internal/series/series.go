// Package series decodes the compact encoded series the ring API ships
// inside sleep and activity records: single-digit code strings
// (sleep_phase_5_min, movement_30_sec, class_5_min) and sampled numeric
// payloads (heart rate, HRV, MET). Decoding expands them into timestamped
// points at a fixed sampling stride.
package series

import (
	"fmt"
	"strings"
	"time"

	"ringlab/domain/core"
	"ringlab/domain/health"
)

// Point is one decoded discrete sample.
type Point struct {
	Timestamp string `json:"timestamp"`
	Code      string `json:"code"`
	Label     string `json:"label"`
}

// NumericPoint is one decoded numeric sample. Value stays nil where the
// ring recorded nothing.
type NumericPoint struct {
	Timestamp string   `json:"timestamp"`
	Value     *float64 `json:"value"`
}

// Label tables for the discrete series types. Codes come from the upstream
// API and are single digits today, but nothing below assumes that.
var (
	SleepStageLabels = map[string]string{
		"1": "deep",
		"2": "light",
		"3": "rem",
		"4": "awake",
	}

	MovementLabels = map[string]string{
		"1": "no_motion",
		"2": "restless",
		"3": "tossing_and_turning",
		"4": "active",
	}

	ActivityClassLabels = map[string]string{
		"0": "non_wear",
		"1": "rest",
		"2": "inactive",
		"3": "low_activity",
		"4": "medium_activity",
		"5": "high_activity",
	}
)

// LabelFor resolves a code through a label table. Unknown codes map to an
// "unknown(<code>)" label instead of failing, since upstream has grown new
// codes before.
func LabelFor(labels map[string]string, code string) string {
	if label, ok := labels[code]; ok {
		return label
	}
	return fmt.Sprintf("unknown(%s)", code)
}

// Tokenize splits a raw series string into tokens. Comma-separated wins,
// then whitespace-separated, then one token per character. Upstream format
// varies by endpoint, so all three tiers occur in real payloads.
func Tokenize(raw string) []string {
	if strings.Contains(raw, ",") {
		parts := strings.Split(raw, ",")
		tokens := make([]string, 0, len(parts))
		for _, p := range parts {
			if t := strings.TrimSpace(p); t != "" {
				tokens = append(tokens, t)
			}
		}
		return tokens
	}
	if strings.ContainsAny(raw, " \t\n\r") {
		return strings.Fields(raw)
	}
	tokens := make([]string, 0, len(raw))
	for _, r := range raw {
		tokens = append(tokens, string(r))
	}
	return tokens
}

// ExpandDiscrete decodes an encoded string into labeled points, one per
// token, with timestamp[i] = start + i*interval. Returns nil when the raw
// string or start timestamp is absent or unparsable; callers treat that as
// "no data", not an error.
func ExpandDiscrete(raw, start string, intervalSec float64, labels map[string]string) []Point {
	if raw == "" || start == "" {
		return nil
	}
	startAt, err := core.ParseTime(start)
	if err != nil {
		return nil
	}

	tokens := Tokenize(raw)
	points := make([]Point, 0, len(tokens))
	for i, tok := range tokens {
		points = append(points, Point{
			Timestamp: core.ISOMillis(startAt.Add(strideOffset(i, intervalSec))),
			Code:      tok,
			Label:     LabelFor(labels, tok),
		})
	}
	return points
}

// ExpandNumeric decodes a sampled numeric series with the same timestamp
// stride as ExpandDiscrete and no label lookup. Nil items are preserved as
// nil-valued points.
func ExpandNumeric(items []*float64, start string, intervalSec float64) []NumericPoint {
	if len(items) == 0 || start == "" {
		return nil
	}
	startAt, err := core.ParseTime(start)
	if err != nil {
		return nil
	}

	points := make([]NumericPoint, 0, len(items))
	for i, item := range items {
		points = append(points, NumericPoint{
			Timestamp: core.ISOMillis(startAt.Add(strideOffset(i, intervalSec))),
			Value:     item,
		})
	}
	return points
}

// ExpandPayload decodes an upstream series payload container.
func ExpandPayload(p *health.SeriesPayload) []NumericPoint {
	if p == nil {
		return nil
	}
	return ExpandNumeric(p.Items, p.Timestamp, p.Interval)
}

func strideOffset(i int, intervalSec float64) time.Duration {
	return time.Duration(float64(i) * intervalSec * float64(time.Second))
}
