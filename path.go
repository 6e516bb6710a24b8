// Package zkcli provides a typed, synchronous wrapper over the native
// ZooKeeper client along with the value types used by the interactive shell.
package zkcli

import (
	"errors"
	"strings"
)

// ErrNoParent indicates that Parent was called on a path with no parent,
// such as "/" or a single relative name.
var ErrNoParent = errors.New("zkcli: path has no parent")

// Path is an immutable hierarchical path, absolute or relative.
// The zero value is the empty path.
type Path struct {
	s string
}

// NewPath compresses s and returns it as a Path. Compression collapses
// repeated separators and removes a trailing separator, keeping "/" intact.
func NewPath(s string) Path {
	return Path{s: Compress(s)}
}

// Compress collapses repeated '/' characters and drops a trailing '/',
// except when the result is the root itself.
func Compress(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	prevSlash := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteByte(c)
	}
	out := b.String()
	if len(out) > 1 && out[len(out)-1] == '/' {
		out = out[:len(out)-1]
	}
	return out
}

func (p Path) String() string {
	return p.s
}

// IsAbsolute reports whether the path starts at the root.
func (p Path) IsAbsolute() bool {
	return strings.HasPrefix(p.s, "/")
}

// IsEmpty reports whether the path has no parts at all.
func (p Path) IsEmpty() bool {
	return p.s == ""
}

// Parts splits the path on '/'. The empty path has no parts and the root
// has exactly one empty part, which acts as the absolute marker.
func (p Path) Parts() []string {
	if p.s == "" {
		return nil
	}
	if p.s == "/" {
		return []string{""}
	}
	return strings.Split(p.s, "/")
}

func fromParts(parts []string) Path {
	if len(parts) == 0 {
		return Path{}
	}
	if len(parts) == 1 && parts[0] == "" {
		return Path{s: "/"}
	}
	return Path{s: strings.Join(parts, "/")}
}

// Resolve interprets rel against p. An empty rel yields p, an absolute rel
// stands on its own, and anything else is appended below p.
func (p Path) Resolve(rel Path) Path {
	switch {
	case rel.IsEmpty():
		return p
	case rel.IsAbsolute():
		return rel
	case p.IsEmpty():
		return rel
	case p.s == "/":
		return Path{s: "/" + rel.s}
	default:
		return Path{s: p.s + "/" + rel.s}
	}
}

// Normalize removes "." parts and resolves ".." parts where possible.
// An absolute path never climbs above the root; a relative path keeps
// leading ".." parts since the base is unknown.
func (p Path) Normalize() Path {
	parts := p.Parts()
	stack := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case ".":
		case "..":
			if len(stack) == 0 {
				stack = append(stack, "..")
				continue
			}
			top := stack[len(stack)-1]
			if top == ".." {
				stack = append(stack, "..")
				continue
			}
			if top == "" {
				// at the absolute root already
				continue
			}
			stack = stack[:len(stack)-1]
		default:
			stack = append(stack, part)
		}
	}
	return fromParts(stack)
}

// Parent returns the path with its last part removed,
// or ErrNoParent when nothing would remain.
func (p Path) Parent() (Path, error) {
	parts := p.Parts()
	if len(parts) <= 1 {
		return Path{}, ErrNoParent
	}
	return fromParts(parts[:len(parts)-1]), nil
}

// ParentOption is Parent with an ok flag instead of an error.
func (p Path) ParentOption() (Path, bool) {
	parent, err := p.Parent()
	return parent, err == nil
}

// Base returns the last part of the path, or "" for the empty path and root.
func (p Path) Base() string {
	parts := p.Parts()
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// Child returns the path extended by one more name.
func (p Path) Child(name string) Path {
	switch {
	case p.s == "":
		return NewPath(name)
	case p.s == "/":
		return NewPath("/" + name)
	default:
		return NewPath(p.s + "/" + name)
	}
}
