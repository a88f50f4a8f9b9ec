package schema

import "strings"

// Resolve walks a field path from a root entity down to a terminal
// attribute. Every non-terminal segment must name a related entity or a
// collection of entities; only the terminal segment may name a scalar
// attribute. The returned path carries canonicalized segments: unindexed
// access to an implied-index collection becomes an explicit [0].
func (r *Registry) Resolve(root EntityKind, segments []Segment) (ResolvedPath, error) {
	if len(segments) == 0 {
		return ResolvedPath{}, newSchemaError(root, "", ErrEmptyPath)
	}

	// A leading qualifier naming the root entity itself is accepted and
	// stripped: "dataset.tags" at a dataset root means "tags". The strip
	// only fires when the root has no field of that name, so relationship
	// fields like "dataset" on files and topics keep their meaning.
	if first := segments[0]; len(segments) > 1 &&
		first.Name == string(root) && !first.HasIndex && !first.HasKey {
		if _, shadowed := r.Field(root, first.Name); !shadowed {
			segments = segments[1:]
		}
	}

	current := root
	canonical := make([]Segment, 0, len(segments))

	for i, seg := range segments {
		terminal := i == len(segments)-1

		def, ok := r.Field(current, seg.Name)
		if !ok {
			return ResolvedPath{}, newSchemaError(current, seg.Name, ErrUnknownField)
		}

		// Open metadata namespace: the rest of the path is the key.
		if def.Kind == KindDynamic && def.OpenKeys {
			return r.resolveMetadata(root, current, def, seg, segments[i+1:], canonical)
		}

		if def.Kind != KindEntity {
			if seg.HasIndex {
				return ResolvedPath{}, newSchemaError(current, seg.Name, ErrNotCollection)
			}
			if seg.HasKey {
				return ResolvedPath{}, newSchemaError(current, seg.Name, ErrClosedNamespace)
			}
			if !terminal {
				return ResolvedPath{}, newSchemaError(current, seg.Name, ErrScalarTraverse)
			}
			canonical = append(canonical, Segment{Name: seg.Name})
			return ResolvedPath{Root: root, Segments: canonical, Leaf: def, Kind: def.Kind}, nil
		}

		// Entity-valued segment: canonicalize the access form, then descend.
		canon, err := canonicalizeEntityAccess(current, def, seg)
		if err != nil {
			return ResolvedPath{}, err
		}
		if terminal {
			return ResolvedPath{}, newSchemaError(current, seg.Name, ErrNotTerminal)
		}
		canonical = append(canonical, canon)
		current = def.Target
	}

	// Unreachable: the loop always returns on the terminal segment.
	return ResolvedPath{}, newSchemaError(root, segments[len(segments)-1].Name, ErrNotTerminal)
}

// canonicalizeEntityAccess validates how an entity-valued field is accessed
// and returns the canonical segment form.
func canonicalizeEntityAccess(entity EntityKind, def FieldDef, seg Segment) (Segment, error) {
	if def.OpenKeys {
		// Keyed namespace (msgpaths): bracketed lookup by name only.
		if !seg.HasKey {
			return Segment{}, newSchemaError(entity, seg.Name, ErrKeyRequired)
		}
		return Segment{Name: seg.Name, Key: seg.Key, HasKey: true}, nil
	}
	if seg.HasKey {
		return Segment{}, newSchemaError(entity, seg.Name, ErrClosedNamespace)
	}
	if def.Collection {
		switch {
		case seg.HasIndex:
			return Segment{Name: seg.Name, Index: seg.Index, HasIndex: true}, nil
		case def.ImpliedIndex:
			return Segment{Name: seg.Name, Index: 0, HasIndex: true}, nil
		default:
			return Segment{}, newSchemaError(entity, seg.Name, ErrIndexRequired)
		}
	}
	if seg.HasIndex {
		return Segment{}, newSchemaError(entity, seg.Name, ErrNotCollection)
	}
	return Segment{Name: seg.Name}, nil
}

// resolveMetadata handles the open metadata namespace. Both spellings are
// accepted: metadata.<key> (the rest of the dotted path is the key, which
// may itself be nested) and metadata[<key>]. The canonical form is dotted.
func (r *Registry) resolveMetadata(root, entity EntityKind, def FieldDef, seg Segment, rest []Segment, canonical []Segment) (ResolvedPath, error) {
	if seg.HasIndex {
		return ResolvedPath{}, newSchemaError(entity, seg.Name, ErrNotCollection)
	}

	var key string
	switch {
	case seg.HasKey:
		if len(rest) != 0 {
			return ResolvedPath{}, newSchemaError(entity, seg.Name, ErrScalarTraverse)
		}
		key = seg.Key
	default:
		if len(rest) == 0 {
			return ResolvedPath{}, newSchemaError(entity, seg.Name, ErrKeyRequired)
		}
		parts := make([]string, len(rest))
		for i, part := range rest {
			if part.HasIndex || part.HasKey {
				return ResolvedPath{}, newSchemaError(entity, part.Name, ErrClosedNamespace)
			}
			parts[i] = part.Name
		}
		key = strings.Join(parts, ".")
	}

	canonical = append(canonical, Segment{Name: seg.Name})
	for part := range strings.SplitSeq(key, ".") {
		canonical = append(canonical, Segment{Name: part})
	}
	return ResolvedPath{Root: root, Segments: canonical, Leaf: def, Kind: KindDynamic}, nil
}
