package tracing

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func readRecords(t *testing.T, path string) []SpanRecord {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var out []SpanRecord
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var rec SpanRecord
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		out = append(out, rec)
	}
	require.NoError(t, sc.Err())
	return out
}

func TestNewFileExporter_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "traces.jsonl")

	exp, err := NewFileExporter(path)
	require.NoError(t, err)
	require.NoError(t, exp.Shutdown(context.Background()))

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestFileExporter_WritesRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.jsonl")
	exp, err := NewFileExporter(path)
	require.NoError(t, err)

	start := time.Date(2025, 12, 6, 10, 0, 0, 0, time.UTC)
	stub := tracetest.SpanStub{
		Name:       SpanRegistryBatch,
		StartTime:  start,
		EndTime:    start.Add(1500 * time.Microsecond),
		Attributes: []attribute.KeyValue{attribute.Int(AttrAdded, 2)},
		Status:     sdktrace.Status{Code: codes.Error, Description: "boom"},
		Events: []sdktrace.Event{
			{Name: EventRegistered, Time: start, Attributes: []attribute.KeyValue{attribute.String(AttrSection, "#hero")}},
		},
	}
	require.NoError(t, exp.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()}))
	require.NoError(t, exp.ExportSpans(context.Background(), nil))
	require.NoError(t, exp.Shutdown(context.Background()))

	recs := readRecords(t, path)
	require.Len(t, recs, 1)
	rec := recs[0]
	require.Equal(t, SpanRegistryBatch, rec.Name)
	require.Equal(t, 1.5, rec.DurationMs)
	require.Equal(t, "ERROR", rec.Status)
	require.Equal(t, "boom", rec.StatusMsg)
	require.Equal(t, float64(2), rec.Attributes[AttrAdded])
	require.Len(t, rec.Events, 1)
	require.Equal(t, "#hero", rec.Events[0].Attributes[AttrSection])
	require.Empty(t, rec.ParentSpanID)
}

func TestFileExporter_ExportAfterShutdown(t *testing.T) {
	exp, err := NewFileExporter(filepath.Join(t.TempDir(), "traces.jsonl"))
	require.NoError(t, err)
	require.NoError(t, exp.Shutdown(context.Background()))
	require.NoError(t, exp.Shutdown(context.Background()))

	stub := tracetest.SpanStub{Name: "late"}
	require.Error(t, exp.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()}))
}

func TestRecordError(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	RecordError(span, nil)
	RecordError(span, errors.New("bad marker"))
	span.End()

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	require.Equal(t, codes.Error, spans[0].Status.Code)
	require.Len(t, spans[0].Events, 1)
}
