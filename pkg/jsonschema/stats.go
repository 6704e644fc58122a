package jsonschema

import (
	"regexp"
	"strings"
)

// FieldStat contains per-field statistics for one property of an aggregate.
type FieldStat struct {
	Path          string   `json:"path"`                  // JSON path (e.g., "user.name", "items[].id")
	Type          string   `json:"type"`                  // Emitted type, "a|b" for unions
	Frequency     float64  `json:"frequency"`             // Fraction of parent objects containing this field (0.0-1.0)
	Required      bool     `json:"required"`              // Present in every parent object
	Nullable      bool     `json:"nullable"`              // At least one sample has null for this field
	DistinctCount int      `json:"distinct_count"`        // Distinct string values tracked, 0 when untracked
	Examples      []string `json:"examples,omitempty"`    // Up to 3 example string values
	Format        string   `json:"format,omitempty"`      // Detected format: uuid, iso8601, url, email, enum
	EnumValues    []string `json:"enum_values,omitempty"` // All distinct values when format is "enum"
}

const (
	defaultMaxDepth     = 5
	maxExamples         = 3
	minSamplesForFormat = 5
)

var (
	uuidRegex    = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	iso8601Regex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(T\d{2}:\d{2}:\d{2})?`)
	urlRegex     = regexp.MustCompile(`^https?://`)
	emailRegex   = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)
)

// ComputeFieldStats walks an aggregate and returns a flat table of field
// stats in path order.
func ComputeFieldStats(n *Node, opts EmitOptions) []FieldStat {
	if n == nil {
		return nil
	}
	var stats []FieldStat
	walkNode(n, "", 0, defaultMaxDepth, opts, &stats)
	return stats
}

func walkNode(n *Node, path string, depth, maxDepth int, opts EmitOptions, stats *[]FieldStat) {
	if depth > maxDepth {
		if path != "" {
			*stats = append(*stats, FieldStat{
				Path: path + " (truncated at depth limit)",
				Type: "...",
			})
		}
		return
	}

	for _, name := range n.PropertyNames() {
		child := n.Properties[name]
		fieldPath := name
		if path != "" {
			fieldPath = path + "." + name
		}

		*stats = append(*stats, computeSingleFieldStat(fieldPath, n, name, child, opts))

		if len(child.Properties) > 0 {
			walkNode(child, fieldPath, depth+1, maxDepth, opts, stats)
		}
		if child.Items != nil && len(child.Items.Properties) > 0 {
			walkNode(child.Items, fieldPath+"[]", depth+1, maxDepth, opts, stats)
		}
	}
}

func computeSingleFieldStat(path string, parent *Node, name string, child *Node, opts EmitOptions) FieldStat {
	stat := FieldStat{
		Path:          path,
		Type:          resolveType(child),
		Required:      parent.IsRequired(name),
		Nullable:      child.Types.Has(TypeNull),
		DistinctCount: len(child.StringValues),
	}

	if parent.ObjectCount > 0 {
		stat.Frequency = float64(child.SeenCount) / float64(parent.ObjectCount)
		if stat.Frequency > 1 {
			stat.Frequency = 1
		}
	}

	values := child.StringValueList()
	if len(values) > maxExamples {
		stat.Examples = values[:maxExamples]
	} else {
		stat.Examples = values
	}

	if enumValues := enumCandidates(child, opts); enumValues != nil {
		stat.Format = "enum"
		stat.EnumValues = enumValues
		return stat
	}
	if child.Types.Only(TypeString) && child.SeenCount >= minSamplesForFormat {
		stat.Format = detectFormat(values)
	}
	return stat
}

// detectFormat returns the format every value matches, or "".
func detectFormat(values []string) string {
	if len(values) == 0 {
		return ""
	}
	formats := []struct {
		name string
		re   *regexp.Regexp
	}{
		{"uuid", uuidRegex},
		{"iso8601", iso8601Regex},
		{"url", urlRegex},
		{"email", emailRegex},
	}
	for _, f := range formats {
		if allMatch(f.re, values) {
			return f.name
		}
	}
	return ""
}

func allMatch(re *regexp.Regexp, values []string) bool {
	for _, v := range values {
		if !re.MatchString(v) {
			return false
		}
	}
	return true
}

// resolveType returns the emitted type string for a node, joining unions with "|".
func resolveType(n *Node) string {
	if n.Types.Len() == 0 {
		return "unknown"
	}
	tags := n.Types.Tags()
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = typeName(n, t)
	}
	return strings.Join(names, "|")
}
