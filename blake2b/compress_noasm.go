//go:build !amd64 || purego

package blake2b

var compress = compressGeneric
