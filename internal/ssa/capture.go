package ssa

import "strings"

// Capture is one variable captured by a closure.
type Capture struct {
	Name  string
	Local bool // declared in a local scope of the enclosing function
}

// LocalCapture is a local capture as seen from a particular closure.
type LocalCapture struct {
	Name string
	// Direct is set when the closure is the accessor of the captured
	// storage itself and therefore addresses it without indirection.
	Direct bool
}

// CaptureInfo is the capture list of a MakeClosure instruction.
type CaptureInfo struct {
	Captures []Capture
}

// HasLocalCaptures reports whether any capture is local.
func (ci *CaptureInfo) HasLocalCaptures() bool {
	for _, c := range ci.Captures {
		if c.Local {
			return true
		}
	}
	return false
}

// LocalCaptures returns the local captures in order. accessorOf names the
// storage the closure is an accessor for, or is empty.
func (ci *CaptureInfo) LocalCaptures(accessorOf string) []LocalCapture {
	var out []LocalCapture
	for _, c := range ci.Captures {
		if !c.Local {
			continue
		}
		out = append(out, LocalCapture{
			Name:   c.Name,
			Direct: accessorOf != "" && c.Name == accessorOf,
		})
	}
	return out
}

// Equal reports whether two capture lists are the same.
func (ci *CaptureInfo) Equal(o *CaptureInfo) bool {
	if ci == nil || o == nil {
		return ci == o
	}
	if len(ci.Captures) != len(o.Captures) {
		return false
	}
	for i := range ci.Captures {
		if ci.Captures[i] != o.Captures[i] {
			return false
		}
	}
	return true
}

// String formats the list as "captures=(a, @g)"; non-local captures
// are marked with '@'.
func (ci *CaptureInfo) String() string {
	var sb strings.Builder
	sb.WriteString("captures=(")
	for i, c := range ci.Captures {
		if i > 0 {
			sb.WriteString(", ")
		}
		if !c.Local {
			sb.WriteByte('@')
		}
		sb.WriteString(c.Name)
	}
	sb.WriteString(")")
	return sb.String()
}
