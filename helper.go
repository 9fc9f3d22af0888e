// FILE: lixenwraith/flatconfig/helper.go
package flatconfig

import (
	"fmt"
	"strconv"
	"strings"
)

// maxIndex bounds the array index accepted when rebuilding a nested tree
// from flat keys. Larger indices are treated as plain names.
const maxIndex = 1 << 16

// FlatMap is the dotted-path, leaf-only representation every provider produces.
type FlatMap map[string]any

// joinKey appends a member name to a prefix with a dot separator.
func joinKey(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// indexKey appends an element index to the immediately preceding segment.
func indexKey(prefix string, i int) string {
	return prefix + "[" + strconv.Itoa(i) + "]"
}

// flattenTree converts a parsed document tree into a FlatMap.
// Objects are map[string]any (or map[any]any from YAML), arrays are []any,
// everything else is a leaf.
func flattenTree(tree any) FlatMap {
	flat := make(FlatMap)
	flattenInto(flat, "", tree)
	return flat
}

func flattenInto(flat FlatMap, prefix string, node any) {
	switch v := node.(type) {
	case map[string]any:
		for key, child := range v {
			flattenInto(flat, joinKey(prefix, key), child)
		}
	case map[any]any:
		for key, child := range v {
			flattenInto(flat, joinKey(prefix, fmt.Sprint(key)), child)
		}
	case []any:
		for i, child := range v {
			flattenInto(flat, indexKey(prefix, i), child)
		}
	default:
		flat[prefix] = v
	}
}

// pathToken is one step of a key path: a member name or an array index.
type pathToken struct {
	name    string
	index   int
	isIndex bool
}

// parseKeyPath splits "a.b[0][1].c" into name and index tokens.
// A segment whose brackets don't form valid indices is kept as a plain name.
func parseKeyPath(key string) []pathToken {
	if key == "" {
		return nil
	}

	var tokens []pathToken
	for _, segment := range strings.Split(key, ".") {
		open := strings.IndexByte(segment, '[')
		if open < 0 {
			tokens = append(tokens, pathToken{name: segment})
			continue
		}

		indices, ok := parseIndices(segment[open:])
		if !ok {
			tokens = append(tokens, pathToken{name: segment})
			continue
		}
		if name := segment[:open]; name != "" {
			tokens = append(tokens, pathToken{name: name})
		}
		for _, idx := range indices {
			tokens = append(tokens, pathToken{index: idx, isIndex: true})
		}
	}
	return tokens
}

// parseIndices parses a run of "[n]" groups.
func parseIndices(s string) ([]int, bool) {
	var indices []int
	for len(s) > 0 {
		if s[0] != '[' {
			return nil, false
		}
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return nil, false
		}
		n, err := strconv.Atoi(s[1:end])
		if err != nil || n < 0 || n >= maxIndex {
			return nil, false
		}
		indices = append(indices, n)
		s = s[end+1:]
	}
	return indices, len(indices) > 0
}

// insertPath places value at tokens below node and returns the updated node.
// Missing containers are created; a leaf in the way is replaced.
func insertPath(node any, tokens []pathToken, value any) any {
	if len(tokens) == 0 {
		return value
	}

	tok := tokens[0]
	if tok.isIndex {
		list, _ := node.([]any)
		for len(list) <= tok.index {
			list = append(list, nil)
		}
		list[tok.index] = insertPath(list[tok.index], tokens[1:], value)
		return list
	}

	m, ok := node.(map[string]any)
	if !ok {
		m = make(map[string]any)
	}
	m[tok.name] = insertPath(m[tok.name], tokens[1:], value)
	return m
}

// buildTree rebuilds the nested document from a flat map.
func buildTree(flat FlatMap) any {
	var root any = make(map[string]any)
	for key, value := range flat {
		root = insertPath(root, parseKeyPath(key), value)
	}
	return root
}

// navigateToPath walks the nested tree along path and returns the node found,
// or nil when any step is missing.
func navigateToPath(tree any, path string) any {
	path = strings.TrimSuffix(path, ".")
	current := tree
	for _, tok := range parseKeyPath(path) {
		if tok.isIndex {
			list, ok := current.([]any)
			if !ok || tok.index >= len(list) {
				return nil
			}
			current = list[tok.index]
			continue
		}
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		next, exists := m[tok.name]
		if !exists {
			return nil
		}
		current = next
	}
	return current
}

// isBlank reports whether s is empty or only whitespace.
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
