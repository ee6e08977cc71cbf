// File: pkg/combine/tree.go
package combine

import (
	"fmt"
	"sort"
	"strings"
)

type treeNode struct {
	name     string
	children map[string]*treeNode
}

func (n *treeNode) child(name string) *treeNode {
	if n.children == nil {
		n.children = make(map[string]*treeNode)
	}
	c, ok := n.children[name]
	if !ok {
		c = &treeNode{name: name}
		n.children[name] = c
	}
	return c
}

// GenerateTree renders slash-separated relative paths as an indented tree.
// Directories come first, then files, each sorted case-insensitively.
func GenerateTree(relPaths []string) string {
	root := &treeNode{}
	for _, p := range relPaths {
		node := root
		for _, part := range strings.Split(strings.Trim(p, "/"), "/") {
			if part == "" {
				continue
			}
			node = node.child(part)
		}
	}

	var lines []string
	generateTreeRecursively(root, "", &lines)
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func generateTreeRecursively(node *treeNode, prefix string, lines *[]string) {
	entries := make([]*treeNode, 0, len(node.children))
	for _, c := range node.children {
		entries = append(entries, c)
	}

	// Sort entries: directories first, then files, alphabetically
	sort.Slice(entries, func(i, j int) bool {
		iDir, jDir := len(entries[i].children) > 0, len(entries[j].children) > 0
		if iDir != jDir {
			return iDir
		}
		return strings.ToLower(entries[i].name) < strings.ToLower(entries[j].name)
	})

	for i, entry := range entries {
		connector := "├── "
		extension := "│   "
		if i == len(entries)-1 {
			connector = "└── "
			extension = "    "
		}

		if len(entry.children) > 0 {
			*lines = append(*lines, fmt.Sprintf("%s%s%s/", prefix, connector, entry.name))
			generateTreeRecursively(entry, prefix+extension, lines)
			continue
		}
		*lines = append(*lines, prefix+connector+entry.name)
	}
}
