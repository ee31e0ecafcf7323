// Package config loads query schemas from YAML files and keeps them current.
//
// A schema file declares the reserved key names and two ordered namespaces,
// fields and meta:
//
//	keys:
//	  search: q
//	fields:
//	  _id: { type: ObjectId, alias: id }
//	  name: String
//	  created: { type: Date, default: { $gte: "$now-720h" } }
//	  "items.*.qty": Int
//	meta:
//	  format: { type: String, default: json }
//
// Declaration order is preserved. ${VAR} and ${VAR:-default} are replaced
// from the environment before parsing and $$ escapes a literal dollar sign.
// Strings of the form $now, $now+<duration> or $now-<duration> inside a
// default are evaluated on every exec.
//
// Watcher reloads the file on change and Holder publishes the resulting
// processor to concurrent readers.
package config
