// Package egc provides grapheme-cluster boundary arithmetic over byte
// offsets, backed by github.com/rivo/uniseg. Cursor positions in a line must
// always land on cluster boundaries; every movement and deletion goes through
// these helpers.
package egc

import "github.com/rivo/uniseg"

// Cluster is one extended grapheme cluster's byte range. End is exclusive.
type Cluster struct {
	Start int
	End   int
}

// Clusters returns the grapheme clusters of s in order.
func Clusters(s string) []Cluster {
	var out []Cluster
	state := -1
	off := 0
	for off < len(s) {
		cluster, _, _, next := uniseg.FirstGraphemeClusterInString(s[off:], state)
		state = next
		out = append(out, Cluster{Start: off, End: off + len(cluster)})
		off += len(cluster)
	}
	return out
}

// Count returns the number of grapheme clusters in s.
func Count(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// Prev returns the cluster boundary strictly before byte offset i, or 0.
func Prev(s string, i int) int {
	if i <= 0 {
		return 0
	}
	prev := 0
	state := -1
	off := 0
	for off < len(s) && off < i {
		cluster, _, _, next := uniseg.FirstGraphemeClusterInString(s[off:], state)
		state = next
		prev = off
		off += len(cluster)
	}
	return prev
}

// Next returns the cluster boundary strictly after byte offset i, or len(s).
func Next(s string, i int) int {
	if i >= len(s) {
		return len(s)
	}
	state := -1
	off := 0
	for off < len(s) {
		cluster, _, _, next := uniseg.FirstGraphemeClusterInString(s[off:], state)
		state = next
		end := off + len(cluster)
		if end > i {
			return end
		}
		off = end
	}
	return len(s)
}

// At returns the byte range of the cluster containing offset i. The second
// return is false when i is at or past the end of s.
func At(s string, i int) (Cluster, bool) {
	if i < 0 || i >= len(s) {
		return Cluster{Start: len(s), End: len(s)}, false
	}
	state := -1
	off := 0
	for off < len(s) {
		cluster, _, _, next := uniseg.FirstGraphemeClusterInString(s[off:], state)
		state = next
		end := off + len(cluster)
		if i < end {
			return Cluster{Start: off, End: end}, true
		}
		off = end
	}
	return Cluster{Start: len(s), End: len(s)}, false
}

// IsBoundary reports whether byte offset i lies on a cluster boundary of s.
// 0 and len(s) are always boundaries.
func IsBoundary(s string, i int) bool {
	if i == 0 || i == len(s) {
		return true
	}
	if i < 0 || i > len(s) {
		return false
	}
	state := -1
	off := 0
	for off < len(s) {
		cluster, _, _, next := uniseg.FirstGraphemeClusterInString(s[off:], state)
		state = next
		if off == i {
			return true
		}
		if off > i {
			return false
		}
		off += len(cluster)
	}
	return false
}
