package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"WARN", slog.LevelWarn, false},
		{"Error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter("json", slog.LevelInfo, &buf)
	if err != nil {
		t.Fatalf("NewWithWriter() error: %v", err)
	}
	ctx := WithLogger(context.Background(), l.With("job", "hotwings-abc123"))
	FromContext(ctx).Debug(ctx, "hidden")
	FromContext(ctx).Info(ctx, "shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"job":"hotwings-abc123"`) {
		t.Errorf("output = %q", out)
	}
	if _, err := NewWithWriter("xml", slog.LevelInfo, &buf); err == nil {
		t.Errorf("NewWithWriter(xml) succeeded")
	}
}

func TestNewWithWriterFormats(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"", `msg="Failed: boom"`},
		{"human", `msg="Failed: boom"`},
		{"text", `level=ERROR msg="Failed: boom"`},
		{"json", `"msg":"Failed: boom"`},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		l, err := NewWithWriter(tt.format, slog.LevelWarn, &buf)
		if err != nil {
			t.Fatalf("NewWithWriter(%q) error: %v", tt.format, err)
		}
		ctx := context.Background()
		l.Info(ctx, "quiet")
		l.Errorf(ctx, "Failed: %s", "boom")
		out := buf.String()
		if strings.Contains(out, "quiet") || !strings.Contains(out, tt.want) {
			t.Errorf("format %q output = %q, want %s", tt.format, out, tt.want)
		}
	}
}

func TestFromContextWithoutLogger(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext() returned nil")
	}
}
