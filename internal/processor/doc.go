// Package processor compiles flat query mappings into MongoDB query
// descriptors.
//
// A Processor is built once from a compiled schema.Schema and executed per
// request. Each execution runs a fixed sequence: reserved key extraction
// (limit, skip, sort, projection), the search short-circuit, alias
// resolution, per-key compilation of meta and field values, and default
// injection. Execution never fails; values that cannot be compiled are
// dropped, logged at debug level and counted.
//
// Processors are immutable and safe for concurrent use.
package processor
