package entities

import "strings"

// NormalizeTags приводит список тегов к каноническому виду:
// обрезает пробелы, отбрасывает пустые значения, переводит в нижний
// регистр и убирает дубликаты с сохранением порядка.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return []string{}
	}

	seen := make(map[string]struct{}, len(tags))
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		normalized = append(normalized, tag)
	}

	return normalized
}
