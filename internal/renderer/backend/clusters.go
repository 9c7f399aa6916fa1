package backend

import "github.com/rivo/uniseg"

// Clusters splits s into grapheme clusters.
func Clusters(s string) []string {
	var out []string
	state := -1
	for len(s) > 0 {
		var cl string
		cl, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		out = append(out, cl)
	}
	return out
}
