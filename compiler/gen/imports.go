package gen

import (
	"strings"

	"github.com/vppapi/bindgen/compiler/load"
)

// typesSuffix marks the "types-only" definition files that the binding
// pass emits first.
const typesSuffix = "_types.api.json"

// typesFile pairs a types-only file with its source path for ordering.
type typesFile struct {
	path string
	file *load.File
}

// isTypesFile reports whether path names a types-only definition file.
func isTypesFile(path string) bool {
	return strings.HasSuffix(path, typesSuffix)
}

// collectTypesFiles extracts the types-only files from a tree in load order.
func collectTypesFiles(t *load.Tree) []typesFile {
	var out []typesFile
	t.Each(func(path string, f *load.File) {
		if isTypesFile(path) {
			out = append(out, typesFile{path: path, file: f})
		}
	})
	return out
}

// orderByImports sorts types-only files ascending by their own declared
// import count, with a stable divide-and-conquer merge keeping equal-count
// entries in left-before-right order.
//
// This is a heuristic approximation of dependency ordering, not a
// topological sort: files with fewer declared imports tend to come first,
// but a real dependency between two equal-count files, or an import cycle,
// is not resolved. The policy is kept as-is because downstream consumers
// depend on the exact output order.
func orderByImports(arr []typesFile) []typesFile {
	out := make([]typesFile, len(arr))
	copy(out, arr)
	return mergeSort(out, 0, len(out))
}

func mergeSort(arr []typesFile, left, right int) []typesFile {
	if right-1 > left {
		mid := left + (right-left)/2
		arr = mergeSort(arr, left, mid)
		arr = mergeSort(arr, mid, right)
		arr = merge(arr, left, mid, right)
	}
	return arr
}

func merge(arr []typesFile, left, mid, right int) []typesFile {
	l := make([]typesFile, mid-left)
	r := make([]typesFile, right-mid)
	copy(l, arr[left:mid])
	copy(r, arr[mid:right])
	i, j, k := 0, 0, left
	for i < len(l) && j < len(r) {
		if len(l[i].file.Imports) <= len(r[j].file.Imports) {
			arr[k] = l[i]
			i++
		} else {
			arr[k] = r[j]
			j++
		}
		k++
	}
	for i < len(l) {
		arr[k] = l[i]
		i++
		k++
	}
	for j < len(r) {
		arr[k] = r[j]
		j++
		k++
	}
	return arr
}
