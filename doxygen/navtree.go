package doxygen

import (
	"fmt"

	"github.com/doxnav/doxnav-mcp/service/vo"
)

// ParseNavTree decodes a navtreedata.js artifact. Each raw entry is
// [label, link|null, children|continuation|null]; a string third element
// references a continuation shard and yields no inline children. The
// returned pages are the NAVTREEINDEX links when the artifact carries
// them. skipped counts entries that did not match the expected shape.
func ParseNavTree(src []byte) (tree []vo.NavNode, pages []string, skipped int, err error) {
	vars, err := decodeVars(src)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to parse navtree artifact: %w", err)
	}

	raw, ok := vars["NAVTREE"]
	if !ok {
		return nil, nil, 0, fmt.Errorf("navtree artifact does not declare NAVTREE")
	}
	if !raw.isArray() {
		return nil, nil, 0, fmt.Errorf("NAVTREE is not an array")
	}
	tree, skipped = decodeNavNodes(raw.arr)

	if rawIndex, ok := vars["NAVTREEINDEX"]; ok && rawIndex.isArray() {
		for _, v := range rawIndex.arr {
			if v.isString() {
				pages = append(pages, v.str)
			} else {
				skipped++
			}
		}
	}
	return tree, pages, skipped, nil
}

func decodeNavNodes(entries []value) (nodes []vo.NavNode, skipped int) {
	for _, entry := range entries {
		node, ok, nested := decodeNavNode(entry)
		skipped += nested
		if !ok {
			skipped++
			continue
		}
		nodes = append(nodes, node)
	}
	return nodes, skipped
}

func decodeNavNode(entry value) (node vo.NavNode, ok bool, skipped int) {
	if !entry.isArray() || len(entry.arr) < 2 || len(entry.arr) > 3 {
		return vo.NavNode{}, false, 0
	}
	label, link, rest := entry.arr[0], entry.arr[1], value{kind: kindNull}
	if len(entry.arr) == 3 {
		rest = entry.arr[2]
	}
	if !label.isString() {
		return vo.NavNode{}, false, 0
	}
	node.Label = label.str
	switch {
	case link.isString():
		node.Link = link.str
	case link.isNull():
		// grouping node, validation flags it
	default:
		return vo.NavNode{}, false, 0
	}
	switch {
	case rest.isArray():
		node.Children, skipped = decodeNavNodes(rest.arr)
	case rest.isString(), rest.isNull():
		// continuation shard reference or leaf
	default:
		return vo.NavNode{}, false, skipped
	}
	return node, true, skipped
}
