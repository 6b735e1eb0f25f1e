package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRedact(t *testing.T) {
	cases := []struct {
		in   string
		dev  bool
		want string
	}{
		{"sk-live-abcdef123456", false, "sk-l...56"},
		{"short", false, "***"},
		{"sk-live-abcdef123456", true, "sk-live-abcdef123456"},
		{"", false, "***"},
	}
	for _, tc := range cases {
		if got := Redact(tc.in, tc.dev); got != tc.want {
			t.Errorf("Redact(%q, %v) = %q, want %q", tc.in, tc.dev, got, tc.want)
		}
	}
}

func TestWithAddsContextFields(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	ctx := WithRunID(context.Background(), "run-9")
	ctx = WithCaseID(ctx, "case-3")
	ctx = WithReportID(ctx, "rep-7")

	With(ctx, &base).Info().Msg("hello")

	out := buf.String()
	for _, want := range []string{`"run_id":"run-9"`, `"case_id":"case-3"`, `"report_id":"rep-7"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log line missing %s: %s", want, out)
		}
	}
}

func TestWithoutContextFieldsIsPlain(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	With(context.Background(), &base).Info().Msg("hello")

	if strings.Contains(buf.String(), "run_id") {
		t.Errorf("unexpected context field: %s", buf.String())
	}
}

func TestTraceDurationLogsStartAndFinish(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	var buf bytes.Buffer
	base := zerolog.New(&buf).Level(zerolog.TraceLevel)

	TraceDuration(&base, "BenchmarkUC.RunCase")()

	out := buf.String()
	if !strings.Contains(out, `"method":"BenchmarkUC.RunCase"`) {
		t.Fatalf("method field missing: %s", out)
	}
	if !strings.Contains(out, "start") || !strings.Contains(out, "finish") {
		t.Fatalf("expected start and finish entries: %s", out)
	}
}
