package taml

import "fmt"

const defaultMaxDepth = 1000

// options holds the resolved configuration for one call. There is no
// process-wide state; every call threads its own copy.
type options struct {
	lenient    bool
	rawStrings bool
	maxDepth   int
}

// Option configures parsing, encoding or decoding.
type Option func(*options) error

func newOptions(opts []Option) (options, error) {
	o := options{maxDepth: defaultMaxDepth}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return o, err
		}
	}
	return o, nil
}

// Lenient makes parsing skip lines that violate structural rules
// instead of aborting at the first one, trading completeness for
// robustness.
func Lenient() Option {
	return func(o *options) error {
		o.lenient = true
		return nil
	}
}

// RawStrings disables boolean and number recognition during parsing:
// every value other than the null token ~ and the empty-string token
// "" is kept as a string.
func RawStrings() Option {
	return func(o *options) error {
		o.rawStrings = true
		return nil
	}
}

// MaxDepth sets the maximum nesting depth accepted when parsing and
// decoding. This guards against stack exhaustion on hostile inputs.
//
// The depth n must be a positive integer.
func MaxDepth(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("taml: max depth must be a positive integer")
		}
		o.maxDepth = n
		return nil
	}
}
