package principal

import "hash/fnv"

// Hash64 computes a deterministic 64-bit hash of a canonical byte
// representation. It is used as an equality proxy when comparing binary
// ledger addresses: two values are treated as equal iff their hashes match.
//
// This is weaker than byte-wise equality (hash collisions are possible) and
// is a known correctness caveat of the verification protocol. The result is
// unsigned, so no sign ambiguity can arise across representations.
func Hash64(data []byte) uint64 {
	h := fnv.New64a()
	h.Write(data)
	return h.Sum64()
}
