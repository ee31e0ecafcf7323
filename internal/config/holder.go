package config

import (
	"sync/atomic"

	"github.com/vyrodovalexey/qproc/internal/processor"
	"github.com/vyrodovalexey/qproc/internal/schema"
)

// Holder publishes the current processor. Readers never block; Update swaps
// in a processor built from a new schema.
type Holder struct {
	current atomic.Pointer[processor.Processor]
	opts    []processor.Option
}

// NewHolder creates a holder serving a processor for s. The options are
// applied to every processor the holder builds.
func NewHolder(s *schema.Schema, opts ...processor.Option) *Holder {
	h := &Holder{opts: opts}
	h.Update(s)
	return h
}

// Processor returns the current processor.
func (h *Holder) Processor() *processor.Processor {
	return h.current.Load()
}

// Update builds a processor for s and makes it current.
func (h *Holder) Update(s *schema.Schema) {
	h.current.Store(processor.New(s, h.opts...))
}
