// Package audit decides whether a pool counts as audited. The upstream audit
// field is loosely typed (bool, number, numeric string, or missing entirely),
// so it is decoded at the JSON boundary into a small tagged union and all the
// truthiness rules live in one place. Absent or malformed values degrade to
// "not audited"; this package never returns an error.
package audit

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/yourorg/stableyield-sentinel/internal/registry"
)

// ValueKind tags the decoded representation of the upstream audit field.
type ValueKind int

const (
	// KindAbsent means the field was missing, null, or undecodable
	KindAbsent ValueKind = iota
	// KindBool is a JSON boolean
	KindBool
	// KindNumber is a JSON number
	KindNumber
	// KindString is a JSON string, possibly numeric ("2") or verbal ("yes")
	KindString
)

// Value is the audit field as it arrived from upstream, decoded once.
// The zero Value is Absent.
type Value struct {
	Kind ValueKind
	Bool bool
	Num  float64
	Str  string
}

// UnmarshalJSON accepts any of the upstream encodings. Values that fit none
// of them (objects, arrays) decode to Absent rather than failing the pool.
func (v *Value) UnmarshalJSON(data []byte) error {
	*v = Value{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	switch data[0] {
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return nil
		}
		*v = Value{Kind: KindBool, Bool: b}
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*v = Value{Kind: KindString, Str: s}
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return nil
		}
		*v = Value{Kind: KindNumber, Num: n}
	}
	return nil
}

// Positive reports whether the decoded value indicates an audit under any of
// the accepted encodings: boolean true, the strings "yes"/"true" in any case,
// a string with a parseable positive leading integer, or a positive number.
func (v Value) Positive() bool {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Num > 0
	case KindString:
		s := strings.ToLower(strings.TrimSpace(v.Str))
		if s == "yes" || s == "true" {
			return true
		}
		if n, ok := leadingInt(s); ok {
			return n > 0
		}
	}
	return false
}

// IsAudited applies the full heuristic: the decoded field first, then the
// known-audited allow-list matched by substring overlap in either direction
// against the normalized project slug.
func IsAudited(v Value, project string) bool {
	if v.Positive() {
		return true
	}
	if project == "" {
		return false
	}
	slug := registry.NormalizeProject(project)
	for _, known := range registry.AuditedProjects {
		if strings.Contains(slug, known) || strings.Contains(known, slug) {
			return true
		}
	}
	return false
}

// leadingInt parses the leading integer of a string, tolerating trailing
// garbage the way the upstream feed sometimes emits ("3 audits").
func leadingInt(s string) (int, bool) {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return 0, false
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, false
	}
	return n, true
}
