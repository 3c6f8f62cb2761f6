// Package oura fetches and normalizes sleep sessions from the Oura v2 API.
// Oura encodes the night as a string of single-digit phase codes, one per
// 5-minute bucket across the bedtime window.
package oura

// SleepRecord is one raw sleep document from /v2/usercollection/sleep.
// Durations are in seconds; bedtime timestamps carry the wearer's local
// offset. Fields absent from a payload decode as zero.
type SleepRecord struct {
	Day                string `json:"day"`
	BedtimeStart       string `json:"bedtime_start"`
	BedtimeEnd         string `json:"bedtime_end"`
	SleepPhase5Min     string `json:"sleep_phase_5_min"`
	AwakeTime          int    `json:"awake_time"`
	DeepSleepDuration  int    `json:"deep_sleep_duration"`
	LightSleepDuration int    `json:"light_sleep_duration"`
	REMSleepDuration   int    `json:"rem_sleep_duration"`
}
