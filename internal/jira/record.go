package jira

import (
	"fmt"
	"strings"
)

// Placeholder is the value reports render for data that is missing or
// null upstream. Rows always carry every declared column, so missing
// fields surface as this string rather than an absent key.
const Placeholder = "N/A"

// Extract walks rec along a dot-separated path ("fields.status.name")
// one segment at a time. It returns def when any segment is absent, an
// intermediate value is not a map, or the final value is null.
func Extract(rec IssueRecord, path string, def any) any {
	var cur any = map[string]any(rec)
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return def
		}
		cur, ok = m[seg]
		if !ok {
			return def
		}
	}
	if cur == nil {
		return def
	}
	return cur
}

// Field returns the value at path rendered as a string, or the
// placeholder when the field is absent or null.
func Field(rec IssueRecord, path string) string {
	switch v := Extract(rec, path, nil).(type) {
	case nil:
		return Placeholder
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// DisplayName pulls the displayName out of a user-shaped value. The
// value may be a nested object, a bare string, or absent entirely;
// def is returned in every degenerate case.
func DisplayName(v any, def string) string {
	switch u := v.(type) {
	case nil:
		return def
	case map[string]any:
		if name, ok := u["displayName"].(string); ok && name != "" {
			return name
		}
		return def
	case string:
		if u == "" {
			return def
		}
		return u
	default:
		return fmt.Sprint(u)
	}
}

// AssigneeName returns the assignee's display name, or "Unassigned".
func AssigneeName(rec IssueRecord) string {
	return DisplayName(Extract(rec, "fields.assignee", nil), "Unassigned")
}

// StatusName returns the status display name, or "Unknown". It
// tolerates the status field being absent, null, or a bare string.
func StatusName(rec IssueRecord) string {
	switch s := Extract(rec, "fields.status", nil).(type) {
	case nil:
		return "Unknown"
	case map[string]any:
		if name, ok := s["name"].(string); ok && name != "" {
			return name
		}
		return "Unknown"
	case string:
		if s == "" {
			return "Unknown"
		}
		return s
	default:
		return fmt.Sprint(s)
	}
}
