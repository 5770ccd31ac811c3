// Package blockwise implements a blockwise byte-stream adapter: it
// absorbs an unaligned run of input bytes, invoking a callback with
// every full block as it becomes available, and holds back any
// trailing partial block until Finish is called exactly once.
package blockwise

// Absorber buffers input into fixed-size blocks of BlockSize bytes. The
// zero value, after setting BlockSize, is ready to use.
type Absorber struct {
	// BlockSize is the fixed block width (16 for AES-GCM's counter
	// blocks and GHASH absorption, its only use in this module). Must
	// be > 0.
	BlockSize int

	partial []byte // length < BlockSize always
}

// NewAbsorber returns an Absorber for the given block size.
func NewAbsorber(blockSize int) *Absorber {
	if blockSize <= 0 {
		panic("blockwise: block size must be positive")
	}
	return &Absorber{
		BlockSize: blockSize,
		partial:   make([]byte, 0, blockSize),
	}
}

// Feed absorbs input, invoking processFullBlocks once for every
// contiguous run of full blocks it can assemble (including blocks formed
// by combining buffered residue from a previous Feed call with the
// start of this one). processFullBlocks is always called with a slice
// whose length is a nonzero multiple of BlockSize. Feed never calls
// processFinal — the final partial block is only ever surfaced by
// Finish.
func (a *Absorber) Feed(input []byte, processFullBlocks func([]byte)) {
	b := a.BlockSize

	if len(a.partial) > 0 {
		need := b - len(a.partial)
		if len(input) < need {
			a.partial = append(a.partial, input...)
			return
		}
		a.partial = append(a.partial, input[:need]...)
		input = input[need:]
		processFullBlocks(a.partial)
		a.partial = a.partial[:0]
	}

	full := len(input) - len(input)%b
	if full > 0 {
		processFullBlocks(input[:full])
	}
	a.partial = append(a.partial, input[full:]...)
}

// Finish consumes any buffered residue, invoking processFinal exactly
// once with a slice of length in [0, BlockSize). After Finish, the
// Absorber is reset and ready for reuse.
func (a *Absorber) Finish(processFinal func(partial []byte)) {
	processFinal(a.partial)
	a.partial = a.partial[:0]
}

// Reset discards any buffered residue without invoking a callback,
// returning the Absorber to its freshly constructed state. Used when an
// Absorber is reused across messages (one per AEAD call) rather than
// reallocated.
func (a *Absorber) Reset() {
	a.partial = a.partial[:0]
}
