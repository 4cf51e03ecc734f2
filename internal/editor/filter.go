package editor

import (
	"strconv"
	"strings"

	"github.com/AaronLay10/nina-sequence-editor/internal/catalog"
	"github.com/AaronLay10/nina-sequence-editor/internal/sequence"
)

// FindItems returns copies of every item matching expr, in area order and
// pre-order within an area.
//
// Supported patterns, combinable with &&:
//   - "" (matches everything)
//   - "container"
//   - "type == '<type>'" (exact, or the short class name of a NINA type)
//   - "status == '<STATUS>'"
//   - "enabled == 'true'" / "enabled == 'false'"
//   - "name ~ '<text>'" (case-insensitive substring)
//   - "area == '<area>'"
func (s *Store) FindItems(expr string) []*sequence.Item {
	var out []*sequence.Item
	for _, area := range sequence.Areas {
		sequence.Walk(s.seq.Items(area), func(it *sequence.Item) bool {
			if MatchItem(expr, it, area) {
				out = append(out, it.Clone())
			}
			return true
		})
	}
	return out
}

// MatchItem evaluates a filter expression against one item.
// Unknown patterns never match.
func MatchItem(expr string, it *sequence.Item, area sequence.Area) bool {
	expr = strings.TrimSpace(expr)

	if expr == "" {
		return true
	}

	if strings.Contains(expr, "&&") {
		parts := strings.SplitN(expr, "&&", 2)
		return MatchItem(parts[0], it, area) && MatchItem(parts[1], it, area)
	}

	if expr == "container" {
		return it.IsContainer()
	}

	if strings.Contains(expr, "~") {
		field, value := parseFieldOp(expr, "~")
		if field != "name" {
			return false
		}
		return strings.Contains(strings.ToLower(it.Name), strings.ToLower(value))
	}

	if strings.Contains(expr, "==") {
		field, value := parseFieldOp(expr, "==")
		switch field {
		case "type":
			return it.Type == value || catalog.ShortTypeName(it.Type) == value
		case "status":
			return string(it.Status) == value
		case "enabled":
			b, err := strconv.ParseBool(value)
			return err == nil && it.Enabled == b
		case "area":
			return string(area) == value
		case "name":
			return it.Name == value
		case "id":
			return it.ID == value
		}
		return false
	}

	return false
}

// parseFieldOp parses "<field> <op> '<value>'" and returns field, value.
func parseFieldOp(expr, op string) (string, string) {
	parts := strings.SplitN(expr, op, 2)
	if len(parts) != 2 {
		return "", ""
	}
	field := strings.TrimSpace(parts[0])
	valueRaw := strings.TrimSpace(parts[1])
	if len(valueRaw) >= 2 && valueRaw[0] == '\'' && valueRaw[len(valueRaw)-1] == '\'' {
		return field, valueRaw[1 : len(valueRaw)-1]
	}
	return field, valueRaw
}
