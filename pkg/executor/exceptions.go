package executor

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Exception replaces or skips a package depending on the target OS.
type Exception struct {
	// Name is the manifest name the exception applies to.
	Name string `json:"name"`
	// Description is shown in logs when the exception is applied.
	Description string `json:"description,omitempty"`
	// Replacements maps a GOOS value to the distribution installed instead.
	// Operating systems without an entry skip the package.
	Replacements map[string]string `json:"replacements"`
}

// Resolve returns the replacement for goos, or false when the package is
// skipped there.
func (e Exception) Resolve(goos string) (string, bool) {
	replacement, ok := e.Replacements[goos]

	return replacement, ok && replacement != ""
}

// Exceptions is the table of packages with per-OS handling.
type Exceptions struct {
	Entries []Exception `json:"exceptions"`
}

// DefaultExceptions returns the built-in table.
func DefaultExceptions() *Exceptions {
	return &Exceptions{
		Entries: []Exception{
			{
				Name:         "triton",
				Description:  "installed as triton-windows on Windows and skipped elsewhere",
				Replacements: map[string]string{"windows": "triton-windows"},
			},
		},
	}
}

// LoadExceptionsFromJSON parses an exceptions table from JSON bytes.
func LoadExceptionsFromJSON(data []byte) (*Exceptions, error) {
	var exceptions Exceptions
	if err := json.Unmarshal(data, &exceptions); err != nil {
		return nil, fmt.Errorf("failed to parse exceptions JSON: %w", err)
	}

	if err := exceptions.Validate(); err != nil {
		return nil, err
	}

	return &exceptions, nil
}

// Validate checks if the table is usable.
func (e *Exceptions) Validate() error {
	seen := map[string]bool{}

	for i, entry := range e.Entries {
		name := strings.ToLower(strings.TrimSpace(entry.Name))
		if name == "" {
			return fmt.Errorf("exception %d has no name", i)
		}

		if seen[name] {
			return fmt.Errorf("duplicate exception for %s", entry.Name)
		}

		seen[name] = true
	}

	return nil
}

// Lookup returns the exception for a manifest name, ignoring case.
func (e *Exceptions) Lookup(name string) (Exception, bool) {
	if e == nil {
		return Exception{}, false
	}

	for _, entry := range e.Entries {
		if strings.EqualFold(entry.Name, name) {
			return entry, true
		}
	}

	return Exception{}, false
}
