package oura

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/driftwatch/sleepdrift/pkg/httpcache"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetchSleep(t *testing.T) {
	var gotAuth, gotStart, gotEnd string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotStart = r.URL.Query().Get("start_date")
		gotEnd = r.URL.Query().Get("end_date")
		_, _ = w.Write([]byte(`{"data":[
			{"day":"2024-06-21","bedtime_start":"2024-06-20T23:12:00+00:00","bedtime_end":"2024-06-21T07:02:00+00:00",
			 "sleep_phase_5_min":"4411","awake_time":600,
			 "deep_sleep_duration":5400,"light_sleep_duration":14400,"rem_sleep_duration":7200}
		]}`))
	}))
	defer server.Close()

	client := NewClient(
		Config{Token: "secret"},
		httpcache.NewClient(nil, server.Client(), testLogger()),
		testLogger(),
		WithBaseURL(server.URL),
	)

	records, err := client.FetchSleep(context.Background(), "2024-06-20", "2024-07-02")
	if err != nil {
		t.Fatalf("FetchSleep: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotStart != "2024-06-20" {
		t.Errorf("start_date = %q", gotStart)
	}
	// end_date is exclusive on the API side.
	if gotEnd != "2024-07-03" {
		t.Errorf("end_date = %q, want 2024-07-03", gotEnd)
	}
	if len(records) != 1 || records[0].Day != "2024-06-21" {
		t.Fatalf("unexpected records: %+v", records)
	}
	if records[0].SleepPhase5Min != "4411" {
		t.Errorf("phase string = %q", records[0].SleepPhase5Min)
	}
}

func TestFetchSleepAbortsOnErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(
		Config{Token: "secret"},
		httpcache.NewClient(nil, server.Client(), testLogger()),
		testLogger(),
		WithBaseURL(server.URL),
	)

	if _, err := client.FetchSleep(context.Background(), "2024-06-20", "2024-06-22"); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestFetchSleepRejectsBadEndDate(t *testing.T) {
	client := NewClient(Config{Token: "secret"}, httpcache.NewClient(nil, http.DefaultClient, testLogger()), testLogger())
	if _, err := client.FetchSleep(context.Background(), "2024-06-20", "junk"); err == nil {
		t.Fatal("expected error for malformed end date")
	}
}
