package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/lexora/casemap/pkg/mindmap"
	"github.com/lexora/casemap/pkg/observability"
	"github.com/lexora/casemap/pkg/pipeline"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info", LogInfo, func(l *log.Logger) { l.Info("loaded case") }, true},
		{"debug at info", LogInfo, func(l *log.Logger) { l.Debug("cache miss") }, false},
		{"debug at debug", LogDebug, func(l *log.Logger) { l.Debug("cache miss") }, true},
		{"warn at info", LogInfo, func(l *log.Logger) { l.Warn("redis unreachable") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

// The layout command wraps the runner in a progress timer; at debug level
// the log hooks add the stage and cache lines in between.
func TestProgressAroundLayoutStage(t *testing.T) {
	tests := []struct {
		name      string
		level     log.Level
		wantLines []string
		notLines  []string
	}{
		{
			name:      "info",
			level:     LogInfo,
			wantLines: []string{"Laid out 2 nodes ("},
			notLines:  []string{"layout complete", "cache miss"},
		},
		{
			name:      "verbose",
			level:     LogDebug,
			wantLines: []string{"cache miss", "layout start", "layout complete", "cache set", "Laid out 2 nodes ("},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(observability.Reset)

			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			observability.NewLogHooks(logger).Install()
			ctx := withLogger(context.Background(), logger)

			runner := pipeline.NewRunner(nil, nil, logger)
			g := &mindmap.Graph{
				Nodes: []mindmap.Node{{ID: "p", Label: "Plaintiff"}, {ID: "d", Label: "Defendant"}},
				Edges: []mindmap.Edge{{Source: "p", Target: "d", Label: "sues"}},
			}

			prog := newProgress(loggerFromContext(ctx))
			positioned, err := runner.Layout(ctx, g, pipeline.Options{})
			if err != nil {
				t.Fatalf("Layout() error: %v", err)
			}
			prog.done("Laid out 2 nodes")
			if positioned.NodeCount() != 2 {
				t.Fatalf("NodeCount() = %d, want 2", positioned.NodeCount())
			}

			out := buf.String()
			last := -1
			for _, want := range tt.wantLines {
				i := strings.Index(out, want)
				if i < 0 {
					t.Errorf("log missing %q:\n%s", want, out)
					continue
				}
				if i < last {
					t.Errorf("%q logged out of order:\n%s", want, out)
				}
				last = i
			}
			for _, not := range tt.notLines {
				if strings.Contains(out, not) {
					t.Errorf("log should not contain %q at %s level:\n%s", not, tt.name, out)
				}
			}
		})
	}
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	custom := newLogger(&buf, LogInfo)

	if loggerFromContext(context.Background()) == nil {
		t.Fatal("loggerFromContext without a logger should fall back to the default")
	}

	got := loggerFromContext(withLogger(context.Background(), custom))
	if got != custom {
		t.Fatal("loggerFromContext did not return the attached logger")
	}
	got.Info("opened case", "case", "c-42")
	if !strings.Contains(buf.String(), "c-42") {
		t.Errorf("attached logger did not write: %q", buf.String())
	}
}
