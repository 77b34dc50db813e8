/*
Package taml provides a robust and idiomatic Go interface for parsing,
validating and encoding TAML, the hierarchical text format whose only
structural characters are the tab and the newline. The library's API is
designed to be familiar to Go developers, closely mirroring the standard
`encoding/json` package.

The package offers three workflows depending on the use case:

1. Data-Oriented Decoding and Encoding

For the common task of converting TAML documents into Go structs (and
vice versa), the Marshal and Unmarshal functions provide a simple and
direct API:

	var data = []byte("name\tTAML\nversion\t1.0\n")

	type Config struct {
		Name    string  `taml:"name"`
		Version float64 `taml:"version"`
	}

	var cfg Config
	if err := taml.Unmarshal(data, &cfg); err != nil {
		// handle error
	}
	// cfg is now populated with {Name: "TAML", Version: 1.0}

Field names are matched case-insensitively when no exact match exists,
and unknown keys are ignored. Struct tags (`taml:"key,omitempty"`) and
the Marshaler and Unmarshaler interfaces customize the mapping.

2. Generic Trees

Parse returns the document as a generic value tree (package value)
without involving reflection. This is the exchange type for format
adapters and programmatic document construction; Marshal accepts such a
tree directly and emits canonical text, with exactly one tab per
nesting level and a single tab between key and value.

	doc, err := taml.Parse(data)
	if err != nil {
		// err carries the offending line and column
	}

Parsing is strict by default: the first structural violation aborts the
parse with a positional error. The Lenient option skips offending lines
instead; RawStrings disables boolean and number recognition.

3. Validation

Validate never fails on malformed input. It walks the whole document
and reports every rule violation as a diagnostic (package diag) with
line, column, kind and severity:

	res := taml.Validate(data)
	if !res.Valid {
		for _, d := range res.Diagnostics {
			fmt.Println(d.Error())
		}
	}

TAML has no multi-line scalars, anchors or escaping. A value is `~` for
null, `""` for the empty string, `true`/`false`, a decimal number, or
any other run of text taken verbatim. Because the format is unescaped,
strings containing tabs or newlines cannot be encoded and are rejected
by Marshal.

All operations are synchronous and share no state; distinct calls may
run concurrently on independent inputs.
*/
package taml
