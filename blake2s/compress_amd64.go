//go:build amd64 && !purego

package blake2s

// The unrolled rounds keep the whole working vector in registers on amd64.
var compress = compressUnrolled
