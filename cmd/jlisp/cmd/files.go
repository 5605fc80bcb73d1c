package cmd

import (
	"sort"

	"github.com/maruel/natural"
)

// orderFiles sorts file paths the way a human would expect multi-file
// batches to run: "file2.scm" before "file10.scm", not after.
func orderFiles(paths []string) []string {
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Slice(sorted, func(i, j int) bool {
		return natural.Less(sorted[i], sorted[j])
	})
	return sorted
}
