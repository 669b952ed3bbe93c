// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bind

import "github.com/lithammer/fuzzysearch/fuzzy"

// suggestionThreshold is the maximum edit distance for a "did you mean"
// suggestion.
const suggestionThreshold = 2

// suggest returns the candidate closest to typed within the threshold,
// or "". Ties resolve to the earliest candidate, which follows
// declaration order.
func suggest(typed string, candidates []string) string {
	best := ""
	bestDist := suggestionThreshold + 1
	for _, cand := range candidates {
		if cand == "" {
			continue
		}
		if d := fuzzy.LevenshteinDistance(typed, cand); d < bestDist {
			best = cand
			bestDist = d
		}
	}
	return best
}
