// Package schema compiles declarative field and meta specifications into an
// immutable Schema.
//
// A Schema has two namespaces. Fields are filterable and may be projected;
// meta entries are typed pass-through parameters. Both namespaces share one
// alias table and one default table:
//
//	s, err := schema.NewBuilder().
//	    Field("_id", schema.ObjectID, schema.Alias("id")).
//	    Field("price", schema.Float).
//	    Field("items.*.qty", schema.Int).
//	    Meta("format", schema.String, schema.Default("json")).
//	    Build()
//
// Field names may contain "*" path segments. Resolve maps a dotted input key
// such as "items.3.qty" onto the first declared field whose segments match.
package schema
