package doxygen

import (
	"fmt"
	"strings"

	"github.com/doxnav/doxnav-mcp/service/vo"
)

// ParseSearchIndex decodes one search shard (search/all_*.js). The raw
// shape is
//
//	['key_0',['Label',['link.html#anchor',1,'Scope::sym'], ...], ...]
//
// per entry. The numeric flag inside each link triple is ignored and the
// trailing _N disambiguation suffix is stripped from keys. skipped counts
// rows and matches that did not have the expected shape.
func ParseSearchIndex(src []byte) (entries []vo.SearchEntry, skipped int, err error) {
	vars, err := decodeVars(src)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse search artifact: %w", err)
	}
	raw, ok := vars["searchData"]
	if !ok {
		return nil, 0, fmt.Errorf("search artifact does not declare searchData")
	}
	if !raw.isArray() {
		return nil, 0, fmt.Errorf("searchData is not an array")
	}

	for _, row := range raw.arr {
		if !row.isArray() || len(row.arr) < 2 || !row.arr[0].isString() {
			skipped++
			continue
		}
		entry := vo.SearchEntry{Key: stripKeySuffix(row.arr[0].str)}
		for _, rawMatch := range row.arr[1:] {
			matches, bad := decodeSearchMatches(rawMatch)
			skipped += bad
			entry.Matches = append(entry.Matches, matches...)
		}
		if len(entry.Matches) == 0 {
			skipped++
			continue
		}
		entries = append(entries, entry)
	}
	return entries, skipped, nil
}

// decodeSearchMatches decodes ['Label',[link,flag,scope],...] into one
// match per link triple.
func decodeSearchMatches(raw value) (matches []vo.SearchMatch, skipped int) {
	if !raw.isArray() || len(raw.arr) < 2 || !raw.arr[0].isString() {
		return nil, 1
	}
	label := raw.arr[0].str
	for _, triple := range raw.arr[1:] {
		if !triple.isArray() || len(triple.arr) < 1 || !triple.arr[0].isString() {
			skipped++
			continue
		}
		match := vo.SearchMatch{Label: label, Link: triple.arr[0].str}
		if len(triple.arr) >= 3 && triple.arr[2].isString() {
			match.Scope = triple.arr[2].str
		}
		matches = append(matches, match)
	}
	return matches, skipped
}

// stripKeySuffix removes the _N disambiguation Doxygen appends to search
// keys, e.g. "agent_0" -> "agent".
func stripKeySuffix(key string) string {
	i := strings.LastIndexByte(key, '_')
	if i < 0 || i == len(key)-1 {
		return key
	}
	for _, c := range key[i+1:] {
		if c < '0' || c > '9' {
			return key
		}
	}
	return key[:i]
}
