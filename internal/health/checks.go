package health

import (
	"fmt"

	"github.com/vyrodovalexey/qproc/internal/processor"
)

// ProcessorSource yields the processor currently serving requests.
type ProcessorSource interface {
	Processor() *processor.Processor
}

// SchemaCheck reports unhealthy until src serves a processor with a schema,
// and degraded when that schema declares no fields.
func SchemaCheck(src ProcessorSource) CheckFunc {
	return func() Check {
		if src == nil {
			return Check{Status: StatusUnhealthy, Message: "no schema source"}
		}
		p := src.Processor()
		if p == nil || p.Schema() == nil {
			return Check{Status: StatusUnhealthy, Message: "no schema loaded"}
		}

		s := p.Schema()
		fields, meta := len(s.Fields()), len(s.MetaFields())
		if fields == 0 {
			return Check{Status: StatusDegraded, Message: "schema declares no fields"}
		}
		return Check{
			Status:  StatusHealthy,
			Message: fmt.Sprintf("%d fields, %d meta", fields, meta),
		}
	}
}
