package blake2b

import "encoding/binary"

// Message word permutations. BLAKE2b runs 12 rounds, so rows 0 and 1 are
// used twice.
var sigma = [10][16]uint8{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
	{14, 10, 4, 8, 9, 15, 13, 6, 1, 12, 0, 2, 11, 7, 5, 3},
	{11, 8, 12, 0, 5, 2, 15, 13, 10, 14, 3, 6, 7, 1, 9, 4},
	{7, 9, 3, 1, 13, 12, 11, 14, 2, 6, 5, 10, 4, 0, 15, 8},
	{9, 0, 5, 7, 2, 4, 10, 15, 14, 1, 11, 12, 6, 8, 3, 13},
	{2, 12, 6, 10, 0, 11, 8, 3, 4, 13, 7, 5, 15, 14, 1, 9},
	{12, 5, 1, 15, 14, 13, 4, 10, 0, 7, 6, 3, 9, 2, 8, 11},
	{13, 11, 7, 14, 12, 1, 3, 9, 5, 0, 15, 4, 8, 6, 2, 10},
	{6, 15, 14, 9, 11, 3, 0, 8, 12, 2, 13, 7, 1, 4, 10, 5},
	{10, 2, 8, 4, 7, 6, 1, 5, 15, 11, 9, 14, 3, 12, 13, 0},
}

// compressGeneric is the reference form of the compression function: one
// loop over the rounds, message words picked through sigma.
func compressGeneric(h *[8]uint64, block *[BlockSize]byte, t, f [2]uint64) {
	var m [16]uint64
	for i := range m {
		m[i] = binary.LittleEndian.Uint64(block[i*8:])
	}

	v := [16]uint64{
		h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7],
		IV0, IV1, IV2, IV3,
		IV4 ^ t[0], IV5 ^ t[1], IV6 ^ f[0], IV7 ^ f[1],
	}

	for r := range RoundCount {
		s := &sigma[r%10]

		v[0], v[4], v[8], v[12] = g(v[0]+v[4]+m[s[0]], v[4], v[8], v[12], m[s[1]])
		v[1], v[5], v[9], v[13] = g(v[1]+v[5]+m[s[2]], v[5], v[9], v[13], m[s[3]])
		v[2], v[6], v[10], v[14] = g(v[2]+v[6]+m[s[4]], v[6], v[10], v[14], m[s[5]])
		v[3], v[7], v[11], v[15] = g(v[3]+v[7]+m[s[6]], v[7], v[11], v[15], m[s[7]])

		v[0], v[5], v[10], v[15] = g(v[0]+v[5]+m[s[8]], v[5], v[10], v[15], m[s[9]])
		v[1], v[6], v[11], v[12] = g(v[1]+v[6]+m[s[10]], v[6], v[11], v[12], m[s[11]])
		v[2], v[7], v[8], v[13] = g(v[2]+v[7]+m[s[12]], v[7], v[8], v[13], m[s[13]])
		v[3], v[4], v[9], v[14] = g(v[3]+v[4]+m[s[14]], v[4], v[9], v[14], m[s[15]])
	}

	for i := range h {
		h[i] ^= v[i] ^ v[i+8]
	}
}

// The internal BLAKE2b round function.
func g(a, b, c, d, m1 uint64) (uint64, uint64, uint64, uint64) {
	// We lift the table lookups and the initial triple addition into the
	// caller so this function has a better chance of inlining.

	// a = a + b + m0
	d = ((d ^ a) >> 32) | ((d ^ a) << (64 - 32))
	c = c + d
	b = ((b ^ c) >> 24) | ((b ^ c) << (64 - 24))
	a = a + b + m1
	d = ((d ^ a) >> 16) | ((d ^ a) << (64 - 16))
	c = c + d
	b = ((b ^ c) >> 63) | ((b ^ c) << (64 - 63))

	return a, b, c, d
}
