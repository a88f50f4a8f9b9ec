package schema

// Statistics precomputed for every message path during ingestion.
// These are the only stats a query may reference under msgpaths[...].<stat>.
var messagePathStats = []string{"min", "max", "mean", "median", "count", "true_count"}

// defaultRegistry is built once at package init and shared by reference.
// It is never mutated afterwards.
var defaultRegistry = build()

// Default returns the process-wide registry of queryable entity fields.
func Default() *Registry {
	return defaultRegistry
}

func build() *Registry {
	entities := map[EntityKind]map[string]FieldDef{
		EntityDataset: fieldSet(
			FieldDef{Name: "dataset_id", Kind: KindString},
			FieldDef{Name: "org_id", Kind: KindString},
			FieldDef{Name: "name", Kind: KindString},
			FieldDef{Name: "description", Kind: KindString},
			FieldDef{Name: "device_id", Kind: KindString},
			FieldDef{Name: "created", Kind: KindTimestamp},
			FieldDef{Name: "created_by", Kind: KindString},
			FieldDef{Name: "modified", Kind: KindTimestamp},
			FieldDef{Name: "modified_by", Kind: KindString},
			FieldDef{Name: "tags", Kind: KindStringList},
			FieldDef{Name: "metadata", Kind: KindDynamic, OpenKeys: true},
			FieldDef{Name: "files", Kind: KindEntity, Target: EntityFile, Collection: true, ImpliedIndex: true},
			FieldDef{Name: "topics", Kind: KindEntity, Target: EntityTopic, Collection: true, ImpliedIndex: true},
		),
		EntityFile: fieldSet(
			FieldDef{Name: "file_id", Kind: KindString},
			FieldDef{Name: "org_id", Kind: KindString},
			FieldDef{Name: "relative_path", Kind: KindString},
			FieldDef{Name: "size", Kind: KindNumber},
			FieldDef{Name: "ingestion_status", Kind: KindEnum},
			FieldDef{Name: "created", Kind: KindTimestamp},
			FieldDef{Name: "created_by", Kind: KindString},
			FieldDef{Name: "modified", Kind: KindTimestamp},
			FieldDef{Name: "modified_by", Kind: KindString},
			FieldDef{Name: "tags", Kind: KindStringList},
			FieldDef{Name: "metadata", Kind: KindDynamic, OpenKeys: true},
			FieldDef{Name: "dataset", Kind: KindEntity, Target: EntityDataset},
			FieldDef{Name: "topics", Kind: KindEntity, Target: EntityTopic, Collection: true, ImpliedIndex: true},
		),
		EntityTopic: fieldSet(
			FieldDef{Name: "topic_id", Kind: KindString},
			FieldDef{Name: "org_id", Kind: KindString},
			FieldDef{Name: "name", Kind: KindString},
			FieldDef{Name: "schema_name", Kind: KindString},
			FieldDef{Name: "message_count", Kind: KindNumber},
			FieldDef{Name: "duration_ns", Kind: KindNumber},
			FieldDef{Name: "start_time", Kind: KindTimestamp},
			FieldDef{Name: "end_time", Kind: KindTimestamp},
			FieldDef{Name: "created", Kind: KindTimestamp},
			FieldDef{Name: "metadata", Kind: KindDynamic, OpenKeys: true},
			FieldDef{Name: "dataset", Kind: KindEntity, Target: EntityDataset},
			FieldDef{Name: "file", Kind: KindEntity, Target: EntityFile},
			FieldDef{Name: "msgpaths", Kind: KindEntity, Target: EntityMessagePath, Collection: true, OpenKeys: true},
		),
		EntityMessagePath: messagePathFields(),
		EntityEvent: fieldSet(
			FieldDef{Name: "event_id", Kind: KindString},
			FieldDef{Name: "org_id", Kind: KindString},
			FieldDef{Name: "name", Kind: KindString},
			FieldDef{Name: "description", Kind: KindString},
			FieldDef{Name: "start_time", Kind: KindTimestamp},
			FieldDef{Name: "end_time", Kind: KindTimestamp},
			FieldDef{Name: "created", Kind: KindTimestamp},
			FieldDef{Name: "created_by", Kind: KindString},
			FieldDef{Name: "tags", Kind: KindStringList},
			FieldDef{Name: "metadata", Kind: KindDynamic, OpenKeys: true},
			FieldDef{Name: "dataset", Kind: KindEntity, Target: EntityDataset},
			FieldDef{Name: "file", Kind: KindEntity, Target: EntityFile},
			FieldDef{Name: "topic", Kind: KindEntity, Target: EntityTopic},
		),
	}
	return &Registry{entities: entities}
}

func messagePathFields() map[string]FieldDef {
	fields := fieldSet(
		FieldDef{Name: "message_path", Kind: KindString},
		FieldDef{Name: "org_id", Kind: KindString},
		FieldDef{Name: "data_type", Kind: KindString},
		FieldDef{Name: "canonical_data_type", Kind: KindEnum},
		FieldDef{Name: "created", Kind: KindTimestamp},
		FieldDef{Name: "modified", Kind: KindTimestamp},
		FieldDef{Name: "metadata", Kind: KindDynamic, OpenKeys: true},
		FieldDef{Name: "topic", Kind: KindEntity, Target: EntityTopic},
	)
	for _, stat := range messagePathStats {
		fields[stat] = FieldDef{Name: stat, Kind: KindNumber}
	}
	return fields
}

func fieldSet(defs ...FieldDef) map[string]FieldDef {
	fields := make(map[string]FieldDef, len(defs))
	for _, def := range defs {
		fields[def.Name] = def
	}
	return fields
}
