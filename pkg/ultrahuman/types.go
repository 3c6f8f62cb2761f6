// Package ultrahuman fetches and normalizes sleep sessions from the
// Ultrahuman partner metrics API. Ultrahuman describes the night as a list
// of typed stage segments with absolute unix timestamps plus a per-stage
// duration summary.
package ultrahuman

import "encoding/json"

// metricsResponse is the envelope around one day of metrics. Each metric's
// object has its own shape, so objects stay raw until selected by type.
type metricsResponse struct {
	Data struct {
		MetricData []metric `json:"metric_data"`
	} `json:"data"`
}

type metric struct {
	Type   string          `json:"type"`
	Object json.RawMessage `json:"object"`
}

// sleepMetricType tags the sleep entry inside metric_data.
const sleepMetricType = "sleep"

// SleepRecord is the object of the sleep metric. Timestamps are unix
// seconds; stage durations are seconds.
type SleepRecord struct {
	BedtimeStart int64      `json:"bedtime_start"`
	BedtimeEnd   int64      `json:"bedtime_end"`
	SleepStages  []Stage    `json:"sleep_stages"`
	SleepGraph   SleepGraph `json:"sleep_graph"`
}

// Stage is one entry of the per-stage duration summary.
type Stage struct {
	Type      string `json:"type"`
	StageTime int64  `json:"stage_time"`
}

// SleepGraph is the contiguous typed-interval view of the whole night.
type SleepGraph struct {
	Data []Segment `json:"data"`
}

// Segment is one typed interval of the sleep graph.
type Segment struct {
	Type  string `json:"type"`
	Start int64  `json:"start"`
	End   int64  `json:"end"`
}

// Stage type tags used by the vendor.
const (
	stageDeep  = "deep_sleep"
	stageLight = "light_sleep"
	stageREM   = "rem_sleep"
	stageAwake = "awake"
)
