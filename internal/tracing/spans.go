package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanRegistryBatch = "registry.batch"
	SpanRegistryScan  = "registry.scan"
	SpanReconcile     = "dom.reconcile"
	SpanReport        = "report.build"
)

// Attribute keys.
const (
	AttrAdded    = "batch.added"
	AttrRemoved  = "batch.removed"
	AttrRecords  = "batch.records"
	AttrSections = "registry.sections"
	AttrSection  = "section.name"
	AttrPath     = "page.path"

	AttrErrorMessage = "error.message"
)

// Event names.
const (
	EventRegistered   = "section.registered"
	EventUnregistered = "section.unregistered"
	EventSkipped      = "element.skipped"
)

// RecordError marks span as failed with err.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
}
