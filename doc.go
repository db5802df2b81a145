package dynops

// Package dynops provides:
//
// - A format-agnostic algebra over hierarchical serialized data (Ops[T])
// - A success-or-error container that can carry a best-effort partial value (Result)
// - Accumulating list/record builders that finalize atomically (ListBuilder, RecordBuilder)
// - A conversion engine that transcodes a value tree between backing formats (Convert)
// - An ordered, lookup-capable view over map-shaped data (MapLike)
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - Place backing-format adapters under ops/ (ops/json, ops/yaml, ops/cbor) and the CLI under cmd/dynconv.
// - Adapters supply only the primitive operations of Ops[T]; everything derivable
//   lives here as package-level functions so it is written once, not per format.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	v, err := jsonops.Decode(data)
//	count := dynops.Get(jsonops.Instance, v, "count")
//
//	node := dynops.Convert(jsonops.Instance, yamlops.Instance, v)
//	out, err := yamlops.Encode(node)
