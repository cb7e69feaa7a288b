package combiner

// Variant selects the instruction set a runtime is built for.
type Variant int

const (
	// WithPush0 targets shanghai and later, where PUSH0 exists.
	WithPush0 Variant = iota
	// WithoutPush0 targets london, before PUSH0.
	WithoutPush0
)

// Variants lists every variant in the order their runtimes are laid out in
// the combined initcode.
var Variants = []Variant{WithPush0, WithoutPush0}

// EVMVersion returns the solc --evm-version value for the variant.
func (v Variant) EVMVersion() string {
	if v == WithPush0 {
		return "shanghai"
	}
	return "london"
}

// Name returns the identifier used in artifact names, e.g. "with_push0".
func (v Variant) Name() string {
	if v == WithPush0 {
		return "with_push0"
	}
	return "without_push0"
}

// String returns a human readable name, e.g. "with PUSH0".
func (v Variant) String() string {
	if v == WithPush0 {
		return "with PUSH0"
	}
	return "without PUSH0"
}
