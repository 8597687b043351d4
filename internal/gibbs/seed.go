package gibbs

import "hash/fnv"

// SeedFromString maps a stable caller-chosen label (historically the
// output directory name, which encodes cell type, TF, shape feature and
// length) to an int64 rng seed.
func SeedFromString(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}
