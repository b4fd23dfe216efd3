package utils

import "strings"

// NormalizeSkills trims a comma separated skills list, drops empty and
// duplicate (case-insensitive) items and joins the rest with ", ".
func NormalizeSkills(skills string) string {
	seen := make(map[string]bool)
	var out []string
	for _, skill := range strings.Split(skills, ",") {
		skill = strings.Join(strings.Fields(skill), " ")
		key := strings.ToLower(skill)
		if skill == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, skill)
	}
	return strings.Join(out, ", ")
}

// SplitCSV splits a comma separated env value into trimmed non-empty items.
func SplitCSV(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
