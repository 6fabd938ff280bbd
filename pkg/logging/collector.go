package logging

import (
	"sync"
	"time"
)

// Record is one diagnostic captured by a Collector.
type Record struct {
	Time    time.Time
	Level   Level
	Message string
	Fields  []Field
}

// Field returns the value of the named field, if present.
func (r Record) Field(key string) (any, bool) {
	for i := len(r.Fields) - 1; i >= 0; i-- {
		if r.Fields[i].Key == key {
			return r.Fields[i].Value, true
		}
	}
	return nil, false
}

// collectorState is shared between a Collector and its children.
type collectorState struct {
	mu      sync.Mutex
	records []Record
	worst   Level
	seen    bool
}

// Collector is a run-scoped Logger. It keeps every record regardless of
// level, tracks the worst severity seen, and optionally forwards records to
// another Logger. A pipeline creates or resets one at entry.
type Collector struct {
	state  *collectorState
	fields []Field
	next   Logger
}

// NewCollector creates an empty collector. next may be nil.
func NewCollector(next Logger) *Collector {
	if next == nil {
		next = NopLogger{}
	}
	return &Collector{
		state: &collectorState{worst: DebugLevel},
		next:  next,
	}
}

// Reset discards all records and the worst-seen status.
func (c *Collector) Reset() {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()
	c.state.records = nil
	c.state.worst = DebugLevel
	c.state.seen = false
}

// Status returns the worst severity recorded since the last reset. An empty
// collector reports DebugLevel.
func (c *Collector) Status() Level {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()
	return c.state.worst
}

// Clean reports whether nothing worse than INFO has been recorded.
func (c *Collector) Clean() bool {
	return c.Status() < WarnLevel
}

// Records returns a copy of all records in arrival order.
func (c *Collector) Records() []Record {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()
	out := make([]Record, len(c.state.records))
	copy(out, c.state.records)
	return out
}

// RecordsAt returns the records with exactly the given level.
func (c *Collector) RecordsAt(level Level) []Record {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()
	var out []Record
	for _, r := range c.state.records {
		if r.Level == level {
			out = append(out, r)
		}
	}
	return out
}

func (c *Collector) record(level Level, msg string, fields []Field) {
	all := make([]Field, 0, len(c.fields)+len(fields))
	all = append(all, c.fields...)
	all = append(all, fields...)

	c.state.mu.Lock()
	c.state.records = append(c.state.records, Record{
		Time:    time.Now(),
		Level:   level,
		Message: msg,
		Fields:  all,
	})
	if !c.state.seen || level > c.state.worst {
		c.state.worst = level
		c.state.seen = true
	}
	c.state.mu.Unlock()

	switch level {
	case DebugLevel:
		c.next.Debug(msg, all...)
	case InfoLevel:
		c.next.Info(msg, all...)
	case WarnLevel:
		c.next.Warn(msg, all...)
	case ErrorLevel:
		c.next.Error(msg, all...)
	case FatalLevel:
		c.next.Fatal(msg, all...)
	}
}

func (c *Collector) Debug(msg string, fields ...Field) { c.record(DebugLevel, msg, fields) }
func (c *Collector) Info(msg string, fields ...Field)  { c.record(InfoLevel, msg, fields) }
func (c *Collector) Warn(msg string, fields ...Field)  { c.record(WarnLevel, msg, fields) }
func (c *Collector) Error(msg string, fields ...Field) { c.record(ErrorLevel, msg, fields) }
func (c *Collector) Fatal(msg string, fields ...Field) { c.record(FatalLevel, msg, fields) }

// With returns a child collector sharing records and status with c.
func (c *Collector) With(fields ...Field) Logger {
	newFields := make([]Field, len(c.fields)+len(fields))
	copy(newFields, c.fields)
	copy(newFields[len(c.fields):], fields)
	return &Collector{state: c.state, fields: newFields, next: c.next}
}

// SetLevel sets the level of the forwarded logger. The collector itself
// records every level.
func (c *Collector) SetLevel(level Level) { c.next.SetLevel(level) }

// GetLevel returns DebugLevel since every record is kept.
func (c *Collector) GetLevel() Level { return DebugLevel }
