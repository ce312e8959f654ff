//go:build !amd64 || purego

package blake2s

var compress = compressGeneric
