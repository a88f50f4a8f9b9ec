// Package schema describes the queryable entity types and their fields.
// It is the single source of truth the resolver uses to decide whether a
// field path is valid, what kind of value it holds, and how collection
// and keyed access behave.
//
// The registry is built once and never mutated, so it is safe for
// unsynchronized concurrent reads.
package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// EntityKind identifies a queryable entity type.
type EntityKind string

const (
	EntityDataset     EntityKind = "dataset"
	EntityFile        EntityKind = "file"
	EntityTopic       EntityKind = "topic"
	EntityMessagePath EntityKind = "message_path"
	EntityEvent       EntityKind = "event"
)

// ParseEntityKind converts a string to an EntityKind.
func ParseEntityKind(value string) (EntityKind, error) {
	switch EntityKind(strings.ToLower(value)) {
	case EntityDataset:
		return EntityDataset, nil
	case EntityFile:
		return EntityFile, nil
	case EntityTopic:
		return EntityTopic, nil
	case EntityMessagePath:
		return EntityMessagePath, nil
	case EntityEvent:
		return EntityEvent, nil
	}
	return "", fmt.Errorf("unrecognized entity kind %q", value)
}

// ValueKind classifies the value a terminal field holds.
type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
	KindBoolean
	KindTimestamp
	KindEnum
	KindStringList // collection of scalar strings (e.g. tags)
	KindEntity     // relationship to another entity
	KindDynamic    // open-ended metadata value: attempted numeric, then string
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindTimestamp:
		return "timestamp"
	case KindEnum:
		return "enum"
	case KindStringList:
		return "string list"
	case KindEntity:
		return "entity"
	case KindDynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// Scalar reports whether a value of this kind may terminate a field path.
func (k ValueKind) Scalar() bool {
	return k != KindEntity
}

// FieldDef describes a single field on an entity.
type FieldDef struct {
	Name string
	Kind ValueKind

	// Target is the entity kind this field navigates to. Only meaningful
	// when Kind is KindEntity.
	Target EntityKind

	// Collection marks an entity field as a collection of entities rather
	// than a single related entity. Collection fields take an index.
	Collection bool

	// ImpliedIndex permits unindexed access to a collection field, which
	// is interpreted as index 0. This is a backward-compatibility
	// accommodation for queries like "topics.msgpaths[x].max"; it is
	// opted into per field rather than applied globally.
	ImpliedIndex bool

	// OpenKeys marks a field as an open keyed namespace: bracketed lookup
	// by arbitrary name is permitted (msgpaths). Only metadata and
	// msgpaths are open; every other field has a fixed shape.
	OpenKeys bool
}

// Segment is one step of a field path: a plain name, an indexed access
// into a collection, or a keyed access into an open namespace.
type Segment struct {
	Name     string
	Index    int
	Key      string
	HasIndex bool
	HasKey   bool
}

// String renders the segment in canonical query form.
func (s Segment) String() string {
	switch {
	case s.HasIndex:
		return s.Name + "[" + strconv.Itoa(s.Index) + "]"
	case s.HasKey:
		return s.Name + "[" + s.Key + "]"
	default:
		return s.Name
	}
}

// ResolvedPath is the outcome of resolving a field path against the
// registry. Segments are canonicalized: implied collection access is
// materialized as an explicit index 0.
type ResolvedPath struct {
	Root     EntityKind
	Segments []Segment
	Leaf     FieldDef
	Kind     ValueKind
}

// Canonical returns the fully resolved dotted path with explicit indices.
func (r ResolvedPath) Canonical() string {
	parts := make([]string, len(r.Segments))
	for i, seg := range r.Segments {
		parts[i] = seg.String()
	}
	return strings.Join(parts, ".")
}

// Registry is the read-only table of entity field definitions.
type Registry struct {
	entities map[EntityKind]map[string]FieldDef
}

// Fields returns the field definitions for an entity kind.
// The returned map must not be mutated.
func (r *Registry) Fields(kind EntityKind) map[string]FieldDef {
	return r.entities[kind]
}

// Field looks up a single field definition on an entity kind.
func (r *Registry) Field(kind EntityKind, name string) (FieldDef, bool) {
	def, ok := r.entities[kind][name]
	return def, ok
}
