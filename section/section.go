// Package section packs module bodies into fixed-size, address-aligned
// sections and builds the dispatcher that jumps between them.
package section

import (
	"github.com/deepnoodle-ai/yulpack/errors"
)

const (
	// DefaultShift gives the default section length of 64 bytes.
	DefaultShift = 6

	// MinShift is the smallest shift: a section holds at least one
	// 32-byte watermark store.
	MinShift = 5

	// MaxShift is the largest shift. Watermark store offsets count down
	// from 0xff and must stay non-zero, which caps a section at 128 stores.
	MaxShift = 12
)

// ValidShift reports whether shift gives a usable section length.
func ValidShift(shift int) error {
	if shift < MinShift || shift > MaxShift {
		return &errors.SectionShiftError{Shift: shift, Min: MinShift, Max: MaxShift}
	}
	return nil
}

// Assembler pads module bodies to the section length and records statistics
// about each body it packs. An Assembler is not safe for concurrent use; each
// variant build owns its own.
type Assembler struct {
	shift int
	stats []Stat
}

// NewAssembler returns an Assembler for sections of 1<<shift bytes.
func NewAssembler(shift int) *Assembler {
	return &Assembler{shift: shift}
}

// Shift returns log2 of the section length.
func (a *Assembler) Shift() int {
	return a.shift
}

// Length returns the section length in bytes, or 0 for an invalid shift.
func (a *Assembler) Length() int {
	if ValidShift(a.shift) != nil {
		return 0
	}
	return 1 << a.shift
}

// Pad right-pads body with zero bytes to exactly the section length. Bodies
// longer than a section are rejected, never truncated.
func (a *Assembler) Pad(body []byte) ([]byte, error) {
	if err := ValidShift(a.shift); err != nil {
		return nil, err
	}
	return Pad(body, a.Length())
}

// Record appends a Stat for the body and returns the padded body.
func (a *Assembler) Record(source string, index int, body []byte) ([]byte, error) {
	a.stats = append(a.stats, Stat{Source: source, Section: index, Length: len(body)})
	padded, err := a.Pad(body)
	if err != nil {
		if oe, ok := err.(*errors.OversizedModuleError); ok {
			oe.Source = source
			oe.Section = index
		}
		return nil, err
	}
	return padded, nil
}

// Stats returns a copy of the statistics recorded so far.
func (a *Assembler) Stats() []Stat {
	return copyStats(a.stats)
}

// Pad right-pads body with zero bytes to exactly length bytes.
func Pad(body []byte, length int) ([]byte, error) {
	if len(body) > length {
		return nil, &errors.OversizedModuleError{Length: len(body), Capacity: length}
	}
	padded := make([]byte, length)
	copy(padded, body)
	return padded, nil
}
