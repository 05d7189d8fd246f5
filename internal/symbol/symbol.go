// Package symbol derives identifiers from raw resource keys.
//
// Sanitize is a pure function: every rune that is not a letter, a decimal
// digit or '_' becomes '_', and a result that does not start with a letter or
// '_' gets a leading '_'. Nothing else is changed, so two different keys may
// map to the same identifier; Build reports every such group instead of
// renaming anything.
package symbol

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Sanitize maps a raw key to its identifier.
func Sanitize(raw string) string {
	id := strings.Map(func(r rune) rune {
		if isIdentRune(r) {
			return r
		}
		return '_'
	}, raw)

	if !startsIdent(id) {
		id = "_" + id
	}
	return id
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func startsIdent(id string) bool {
	for _, r := range id {
		return r == '_' || unicode.IsLetter(r)
	}
	return false
}

// Entry pairs a raw key with its identifier.
type Entry struct {
	Key        string
	Identifier string
}

// Mapping is the finalized one-to-one relation from raw key to identifier of
// one package. It is never modified after Build returns it.
type Mapping struct {
	byKey map[string]string
}

// Build sanitizes every key and returns the mapping, or a *CollisionError
// listing every group of keys that share an identifier.
func Build(keys []string) (Mapping, error) {
	byKey := make(map[string]string, len(keys))
	byIdent := make(map[string][]string, len(keys))
	for _, k := range keys {
		if _, seen := byKey[k]; seen {
			continue
		}
		id := Sanitize(k)
		byKey[k] = id
		byIdent[id] = append(byIdent[id], k)
	}

	var collisions []Collision
	for id, group := range byIdent {
		if len(group) < 2 {
			continue
		}
		sort.Strings(group)
		collisions = append(collisions, Collision{Identifier: id, Keys: group})
	}
	if len(collisions) > 0 {
		sort.Slice(collisions, func(i, j int) bool {
			return collisions[i].Identifier < collisions[j].Identifier
		})
		return Mapping{}, &CollisionError{Collisions: collisions}
	}

	return Mapping{byKey: byKey}, nil
}

// Len returns the number of entries.
func (m Mapping) Len() int { return len(m.byKey) }

// Entries returns every entry ordered by raw key, byte-wise.
func (m Mapping) Entries() []Entry {
	entries := make([]Entry, 0, len(m.byKey))
	for k, id := range m.byKey {
		entries = append(entries, Entry{Key: k, Identifier: id})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries
}

// Collision is a group of raw keys sharing one identifier.
type Collision struct {
	Identifier string
	Keys       []string
}

// CollisionError reports every collision found in a package.
type CollisionError struct {
	Collisions []Collision
}

func (e *CollisionError) Error() string {
	var b strings.Builder
	if len(e.Collisions) == 1 {
		b.WriteString("identifier collision: ")
	} else {
		fmt.Fprintf(&b, "%d identifier collisions: ", len(e.Collisions))
	}
	for i, c := range e.Collisions {
		if i > 0 {
			b.WriteString("; ")
		}
		quoted := make([]string, len(c.Keys))
		for j, k := range c.Keys {
			quoted[j] = fmt.Sprintf("%q", k)
		}
		fmt.Fprintf(&b, "keys %s all map to %s", strings.Join(quoted, ", "), c.Identifier)
	}
	return b.String()
}
