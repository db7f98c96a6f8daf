package models

import (
	"fmt"
	"hash/fnv"
)

// intID builds a stable control-point identifier from a prefix and index.
func intID(prefix string, i int) string {
	return fmt.Sprintf("%s%d", prefix, i)
}

// seedFromID derives a deterministic int64 seed from an arbitrary string
// (animation id, track id, ...), for models that need a stable
// pseudo-random sequence without depending on wall-clock time, so a
// trajectory never re-randomises across loops.
func seedFromID(id string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return int64(h.Sum64())
}
