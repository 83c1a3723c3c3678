// Package trace provides types for runtime call event collection and
// analysis. Every dispatched symbol can emit one Event; a Collector keeps
// them for the CLI to summarize.
package trace

import (
	"time"

	"github.com/google/uuid"
)

// Tag represents a runtime event category.
// Tags are stored without # prefix; the prefix is added on rendering.
type Tag string

// Standard tags for runtime events, one per registry category plus the
// cross-cutting refinements the enricher applies.
const (
	Str    Tag = "str"
	Ctype  Tag = "ctype"
	Locale Tag = "locale"
	Stdlib Tag = "stdlib"
	Stdio  Tag = "stdio"
	Libm   Tag = "libm"
	Alloc  Tag = "alloc"
	Nosys  Tag = "nosys"
	Vmload Tag = "vmload"

	Memory  Tag = "memory"
	Parse   Tag = "parse"
	Format  Tag = "format"
	Console Tag = "console"
	Halt    Tag = "halt"
)

// Tags is a collection of tags with helper methods.
type Tags []Tag

// Has returns true if the tag collection contains the given tag.
func (t Tags) Has(tag Tag) bool {
	for _, x := range t {
		if x == tag {
			return true
		}
	}
	return false
}

// Add adds a tag if not already present.
func (t *Tags) Add(tag Tag) {
	if !t.Has(tag) {
		*t = append(*t, tag)
	}
}

// Strings returns tags as strings with # prefix for display.
func (t Tags) Strings() []string {
	out := make([]string, len(t))
	for i, tag := range t {
		out[i] = "#" + string(tag)
	}
	return out
}

// Raw returns tags as strings without # prefix.
func (t Tags) Raw() []string {
	out := make([]string, len(t))
	for i, tag := range t {
		out[i] = string(tag)
	}
	return out
}

// Primary returns the first tag or empty string if none.
func (t Tags) Primary() Tag {
	if len(t) > 0 {
		return t[0]
	}
	return ""
}

// Annotations holds key-value metadata for runtime events.
type Annotations map[string]string

// Set adds or updates an annotation.
func (a Annotations) Set(k, v string) {
	a[k] = v
}

// Get retrieves an annotation value.
func (a Annotations) Get(k string) string {
	return a[k]
}

// Has returns true if the annotation exists.
func (a Annotations) Has(k string) bool {
	_, ok := a[k]
	return ok
}

// Event represents one dispatched runtime call with its metadata.
type Event struct {
	ID          uuid.UUID   // Unique event identity, stable across renders
	Tags        Tags        // Multiple hashtags, first is primary
	Name        string      // Symbol name (e.g., "strlen", "snprintf")
	Detail      string      // Additional detail (e.g., "size=24", "ptr=0x90000000")
	Annotations Annotations // Key-value metadata
	Timestamp   time.Time   // When the event occurred
}

// NewEvent creates a new runtime event with the given parameters.
func NewEvent(category, name, detail string) *Event {
	return &Event{
		ID:          uuid.New(),
		Tags:        Tags{Tag(category)},
		Name:        name,
		Detail:      detail,
		Annotations: make(Annotations),
		Timestamp:   time.Now(),
	}
}

// AddTag adds a tag to the event.
func (e *Event) AddTag(tag Tag) {
	e.Tags.Add(tag)
}

// Annotate sets an annotation on the event.
func (e *Event) Annotate(k, v string) {
	if e.Annotations == nil {
		e.Annotations = make(Annotations)
	}
	e.Annotations.Set(k, v)
}

// PrimaryTag returns the primary (first) tag with # prefix.
func (e *Event) PrimaryTag() string {
	if len(e.Tags) > 0 {
		return "#" + string(e.Tags[0])
	}
	return ""
}

// Enricher enriches runtime events based on category and name.
type Enricher func(e *Event)

// DefaultEnricher adds additional tags based on category and name.
func DefaultEnricher(e *Event) {
	if len(e.Tags) == 0 {
		return
	}

	switch string(e.Tags[0]) {
	case "alloc":
		e.AddTag(Memory)

	case "str":
		switch e.Name {
		case "memcpy", "memmove", "memset", "memcmp", "memchr":
			e.AddTag(Memory)
		}

	case "stdlib":
		switch e.Name {
		case "strtol", "strtod", "atoi", "atof":
			e.AddTag(Parse)
		case "exit", "abort":
			e.AddTag(Halt)
		}

	case "stdio":
		switch e.Name {
		case "vsnprintf", "snprintf", "sprintf":
			e.AddTag(Format)
		case "putstring", "putline", "putserror":
			e.AddTag(Console)
		}
	}
}
