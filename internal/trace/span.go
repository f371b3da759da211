package trace

import (
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq returns a monotonically increasing sequence number.
func NextSeq() uint64 { return seqCounter.Add(1) }

// NextSpanID returns a unique span ID.
func NextSpanID() uint64 { return spanCounter.Add(1) }

// goroutineID parses the id out of the "goroutine N [running]:" stack header.
func goroutineID() uint64 {
	var buf [64]byte
	header := string(buf[:runtime.Stack(buf[:], false)])
	fields := strings.Fields(strings.TrimPrefix(header, "goroutine "))
	if len(fields) == 0 {
		return 0
	}
	gid, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return 0
	}
	return gid
}

func enabled(t Tracer, scope Scope) bool {
	return t != nil && t.Enabled() && t.Level().ShouldEmit(scope)
}

// Span tracks one begin/end pair. A span from a disabled tracer is inert.
type Span struct {
	tracer  Tracer
	head    Event // fields shared by the begin and end events
	started time.Time
}

// Begin starts a new span under parent (0 for a root) and emits its begin
// event.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if !enabled(t, scope) {
		return &Span{tracer: Nop}
	}
	s := &Span{
		tracer: t,
		head: Event{
			Scope:    scope,
			SpanID:   NextSpanID(),
			ParentID: parent,
			GID:      goroutineID(),
			Name:     name,
		},
		started: time.Now(),
	}
	s.emit(KindSpanBegin, "")
	return s
}

func (s *Span) emit(kind Kind, detail string) {
	ev := s.head
	ev.Time = time.Now()
	ev.Seq = NextSeq()
	ev.Kind = kind
	ev.Detail = detail
	if kind == KindSpanBegin {
		ev.Extra = nil
	}
	s.tracer.Emit(&ev)
}

// End emits the end event carrying detail and the extras, and returns the
// span duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil || !s.tracer.Enabled() {
		return 0
	}
	s.emit(KindSpanEnd, detail)
	return time.Since(s.started)
}

// WithExtra adds a key-value pair to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.tracer == nil || !s.tracer.Enabled() {
		return s
	}
	if s.head.Extra == nil {
		s.head.Extra = make(map[string]string)
	}
	s.head.Extra[key] = value
	return s
}

// ID returns the span ID; 0 for inert spans.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.head.SpanID
}

// Context returns the propagation handle of s.
func (s *Span) Context() SpanContext {
	if s == nil {
		return SpanContext{}
	}
	return SpanContext{SpanID: s.head.SpanID, GID: s.head.GID}
}

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if !enabled(t, scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      NextSeq(),
		Kind:     KindPoint,
		Scope:    scope,
		SpanID:   NextSpanID(),
		ParentID: parent,
		GID:      goroutineID(),
		Name:     name,
		Detail:   detail,
	})
}
