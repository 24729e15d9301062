// Package history keeps the record of expressions evaluated in a console
// session and persists it to disk in a binary format.
package history

import (
	"fmt"
	"os"
	"time"

	"github.com/dekarrin/rezi"
)

const (
	fileHeader    = "TCHIST"
	formatVersion = 1
)

// Entry is a single evaluated expression.
type Entry struct {
	// Expr is the text of the expression as it was entered.
	Expr string

	// Dialect is the name of the dialect the expression was evaluated with.
	Dialect string

	// Result is the value of the expression. It is only meaningful if Err is
	// empty.
	Result int

	// Err is the message of the error that evaluation failed with, or empty if
	// it succeeded.
	Err string

	// Time is when the expression was evaluated.
	Time time.Time
}

// Failed returns whether evaluation of the entry's expression failed.
func (e Entry) Failed() bool {
	return e.Err != ""
}

// MarshalBinary converts e into a slice of bytes that can be decoded with
// UnmarshalBinary.
func (e Entry) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncString(e.Expr)...)
	data = append(data, rezi.EncString(e.Dialect)...)
	data = append(data, rezi.EncInt(e.Result)...)
	data = append(data, rezi.EncString(e.Err)...)
	data = append(data, rezi.EncBinary(e.Time)...)

	return data, nil
}

// UnmarshalBinary decodes a slice of bytes that was created with MarshalBinary
// into e. All of e's fields will be replaced by the fields decoded from data.
func (e *Entry) UnmarshalBinary(data []byte) error {
	var decoded Entry
	var n int
	var err error

	decoded.Expr, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("expr: %w", err)
	}
	data = data[n:]

	decoded.Dialect, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("dialect: %w", err)
	}
	data = data[n:]

	decoded.Result, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("result: %w", err)
	}
	data = data[n:]

	decoded.Err, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("err: %w", err)
	}
	data = data[n:]

	_, err = rezi.DecBinary(data, &decoded.Time)
	if err != nil {
		return fmt.Errorf("time: %w", err)
	}

	*e = decoded
	return nil
}

// History is an ordered record of evaluated expressions, oldest first. The
// zero-value is an empty History ready for use. It is not safe for concurrent
// use.
type History struct {
	entries []Entry
}

// Add appends an entry to the end of the history.
func (h *History) Add(e Entry) {
	h.entries = append(h.entries, e)
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []Entry {
	if len(h.entries) == 0 {
		return nil
	}
	all := make([]Entry, len(h.entries))
	copy(all, h.entries)
	return all
}

// Len returns the number of entries in the history.
func (h *History) Len() int {
	return len(h.entries)
}

// Clear removes all entries.
func (h *History) Clear() {
	h.entries = nil
}

// MarshalBinary converts h into a slice of bytes that can be decoded with
// UnmarshalBinary. The bytes begin with a header that identifies them as
// history data, followed by the format version.
func (h History) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncString(fileHeader)...)
	data = append(data, rezi.EncInt(formatVersion)...)
	data = append(data, rezi.EncInt(len(h.entries))...)
	for i := range h.entries {
		data = append(data, rezi.EncBinary(h.entries[i])...)
	}

	return data, nil
}

// UnmarshalBinary decodes a slice of bytes that was created with MarshalBinary
// into h. All existing entries in h are replaced.
func (h *History) UnmarshalBinary(data []byte) error {
	header, n, err := rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("header: %w", err)
	}
	if header != fileHeader {
		return fmt.Errorf("data is not history; header is %q", header)
	}
	data = data[n:]

	ver, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("version: %w", err)
	}
	if ver != formatVersion {
		return fmt.Errorf("unsupported history format version %d", ver)
	}
	data = data[n:]

	count, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("entry count: %w", err)
	}
	if count < 0 {
		return fmt.Errorf("entry count is negative: %d", count)
	}
	data = data[n:]

	var entries []Entry
	for i := 0; i < count; i++ {
		var e Entry
		n, err := rezi.DecBinary(data, &e)
		if err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		data = data[n:]
		entries = append(entries, e)
	}

	h.entries = entries
	return nil
}

// Save writes the history to the file at path, replacing it if it exists.
func (h History) Save(path string) error {
	data, err := h.MarshalBinary()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}
	return nil
}

// Load replaces the contents of h with the history in the file at path.
func (h *History) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read history file: %w", err)
	}

	if err := h.UnmarshalBinary(data); err != nil {
		return fmt.Errorf("decode history file: %w", err)
	}
	return nil
}
