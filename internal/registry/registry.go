// Package registry tracks which document elements carry a dial_kit marker
// and keeps one mounted Section per element, following structural changes
// of the document as they are delivered.
package registry

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yakschuss/dialkit-rails/internal/cachemanager"
	"github.com/yakschuss/dialkit-rails/internal/control"
	"github.com/yakschuss/dialkit-rails/internal/controlspec"
	"github.com/yakschuss/dialkit-rails/internal/dom"
	"github.com/yakschuss/dialkit-rails/internal/log"
	"github.com/yakschuss/dialkit-rails/internal/tracing"
)

// Element ids of the panel's own chrome. Nothing inside them is registered.
const (
	PanelID  = "dial-kit-panel"
	ToggleID = "dial-kit-toggle"
)

var markerSelector = "[" + dom.MarkerAttr + "]"

// Mounter receives section lifecycle events. The panel implements it.
type Mounter interface {
	Mount(s *Section)
	Unmount(s *Section)
	// Refresh is called once per batch that changed the registry.
	Refresh(empty bool)
}

// Notifier delivers batches of structural mutation records.
// *dom.Document satisfies it.
type Notifier interface {
	Observe(fn func([]dom.MutationRecord)) (stop func())
}

type nopMounter struct{}

func (nopMounter) Mount(*Section)   {}
func (nopMounter) Unmount(*Section) {}
func (nopMounter) Refresh(bool)     {}

// Option configures a Registry.
type Option func(*Registry)

// WithMounter sets the section lifecycle sink.
func WithMounter(m Mounter) Option {
	return func(r *Registry) { r.mounter = m }
}

// WithTracer sets the tracer used for batch spans.
func WithTracer(t trace.Tracer) Option {
	return func(r *Registry) { r.tracer = t }
}

// WithSpecCache replaces the payload cache.
func WithSpecCache(c cachemanager.CacheManager[string, controlspec.Map]) Option {
	return func(r *Registry) { r.specCache = c }
}

// Registry maps marked elements to their Sections. It is not safe for
// concurrent use; all calls happen on the UI loop.
type Registry struct {
	sections map[*dom.Element]*Section
	order    []*Section

	mounter   Mounter
	tracer    trace.Tracer
	specCache cachemanager.CacheManager[string, controlspec.Map]
	specs     *cachemanager.ReadThroughCache[string, controlspec.Map, string]
	stops     []func()
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		sections: make(map[*dom.Element]*Section),
		mounter:  nopMounter{},
		tracer:   tracing.Noop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.specCache == nil {
		r.specCache = cachemanager.NewInMemoryCacheManager[string, controlspec.Map](
			"specs", cachemanager.NoExpiration, cachemanager.DefaultCleanupInterval)
	}
	r.specs = cachemanager.NewReadThroughCache[string, controlspec.Map, string](r.specCache, normalize, false)
	return r
}

func normalize(_ context.Context, payload string) (controlspec.Map, error) {
	raw, err := controlspec.Decode(payload)
	if err != nil {
		return nil, err
	}
	return controlspec.Normalize(raw)
}

// Scan registers every marked element under root, root included, in
// document order.
func (r *Registry) Scan(root *dom.Element) error {
	_, span := r.tracer.Start(context.Background(), tracing.SpanRegistryScan)
	defer span.End()

	els, err := root.QueryAll(markerSelector)
	if err != nil {
		tracing.RecordError(span, err)
		return fmt.Errorf("scan for markers: %w", err)
	}

	added := 0
	for _, el := range els {
		if s, _ := r.Register(el); s != nil {
			added++
		}
	}
	span.SetAttributes(attribute.Int(tracing.AttrAdded, added), attribute.Int(tracing.AttrSections, len(r.order)))
	if added > 0 {
		r.mounter.Refresh(r.Len() == 0)
	}
	return nil
}

// Register mounts a Section for el. It returns (nil, nil) when el is
// already registered, carries no marker, or belongs to the panel chrome.
// A malformed payload or an unsupported config is logged, returned, and
// the element is skipped.
func (r *Registry) Register(el *dom.Element) (*Section, error) {
	if el == nil {
		return nil, nil
	}
	if _, ok := r.sections[el]; ok {
		return nil, nil
	}
	payload, ok := el.Attr(dom.MarkerAttr)
	if !ok || payload == "" || isChrome(el) {
		return nil, nil
	}

	name := DisplayName(el)
	spec, err := r.specs.Get(context.Background(), payload, payload, cachemanager.NoExpiration)
	if err != nil {
		if errors.Is(err, controlspec.ErrSyntax) || errors.Is(err, controlspec.ErrNotObject) {
			err = &MarkerParseError{Name: name, Payload: payload, Err: err}
		} else {
			err = fmt.Errorf("normalize %s: %w", name, err)
		}
		log.WarnErr(log.CatRegistry, "skipping element", err, "element", name)
		return nil, err
	}

	instances, err := control.BuildAll(spec, control.ElementTarget{El: el})
	if err != nil {
		err = fmt.Errorf("build controls for %s: %w", name, err)
		log.WarnErr(log.CatRegistry, "skipping element", err, "element", name)
		return nil, err
	}

	s := &Section{Name: name, Element: el, Spec: spec, Instances: instances}
	r.sections[el] = s
	r.order = append(r.order, s)
	r.mounter.Mount(s)
	log.Debug(log.CatRegistry, "registered", "element", name, "controls", len(instances))
	return s, nil
}

// Unregister removes el's Section and clears its highlight. It reports
// whether a Section was removed.
func (r *Registry) Unregister(el *dom.Element) bool {
	s, ok := r.sections[el]
	if !ok {
		return false
	}
	delete(r.sections, el)
	for i, o := range r.order {
		if o == s {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	s.Highlight(false)
	r.mounter.Unmount(s)
	log.Debug(log.CatRegistry, "unregistered", "element", s.Name)
	return true
}

// Observe subscribes to n until Close.
func (r *Registry) Observe(n Notifier) {
	r.stops = append(r.stops, n.Observe(r.handleBatch))
}

func (r *Registry) handleBatch(records []dom.MutationRecord) {
	_, span := r.tracer.Start(context.Background(), tracing.SpanRegistryBatch)
	defer span.End()

	added, removed := 0, 0
	for _, rec := range records {
		for _, node := range rec.Added {
			if !node.IsConnected() {
				continue
			}
			added += r.registerTree(node, span)
		}
		for _, node := range rec.Removed {
			removed += r.unregisterTree(node, span)
		}
	}

	span.SetAttributes(
		attribute.Int(tracing.AttrRecords, len(records)),
		attribute.Int(tracing.AttrAdded, added),
		attribute.Int(tracing.AttrRemoved, removed),
	)
	if added+removed > 0 {
		log.Debug(log.CatRegistry, "batch applied", "added", added, "removed", removed, "sections", len(r.order))
		r.mounter.Refresh(r.Len() == 0)
	}
}

func (r *Registry) registerTree(node *dom.Element, span trace.Span) int {
	els, err := node.QueryAll(markerSelector)
	if err != nil {
		tracing.RecordError(span, err)
		return 0
	}
	n := 0
	for _, el := range els {
		s, err := r.Register(el)
		switch {
		case err != nil:
			span.AddEvent(tracing.EventSkipped, trace.WithAttributes(attribute.String(tracing.AttrSection, DisplayName(el))))
		case s != nil:
			span.AddEvent(tracing.EventRegistered, trace.WithAttributes(attribute.String(tracing.AttrSection, s.Name)))
			n++
		}
	}
	return n
}

func (r *Registry) unregisterTree(node *dom.Element, span trace.Span) int {
	var doomed []*Section
	for _, s := range r.order {
		if s.Element == node || node.Contains(s.Element) {
			doomed = append(doomed, s)
		}
	}
	for _, s := range doomed {
		if r.Unregister(s.Element) {
			span.AddEvent(tracing.EventUnregistered, trace.WithAttributes(attribute.String(tracing.AttrSection, s.Name)))
		}
	}
	return len(doomed)
}

// Sections returns the registered sections in registration order.
func (r *Registry) Sections() []*Section {
	out := make([]*Section, len(r.order))
	copy(out, r.order)
	return out
}

// Get returns the Section for el.
func (r *Registry) Get(el *dom.Element) (*Section, bool) {
	s, ok := r.sections[el]
	return s, ok
}

// Len returns the number of registered sections.
func (r *Registry) Len() int { return len(r.order) }

// CacheStats reports payload cache hits and misses.
func (r *Registry) CacheStats() cachemanager.Stats { return r.specs.Stats() }

// Close stops observing and unregisters every section.
func (r *Registry) Close() {
	for _, stop := range r.stops {
		stop()
	}
	r.stops = nil
	for _, s := range r.Sections() {
		r.Unregister(s.Element)
	}
}

func isChrome(el *dom.Element) bool {
	for cur := el; cur != nil; cur = cur.Parent() {
		if id := cur.ID(); id == PanelID || id == ToggleID {
			return true
		}
	}
	return false
}
