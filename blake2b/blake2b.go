// Package blake2b implements the BLAKE2b secure hashing algorithm with support
// for keying, salting, personalization and tree parameters. BLAKE2b is
// optimized for 64-bit platforms and produces digests of any size between 1
// and 64 bytes.
package blake2b

import (
	"encoding/binary"
	"encoding/hex"

	blake2 "github.com/dchest/pyblake2"
)

// The constant values will be different for other BLAKE2 variants. These are
// appropriate for BLAKE2b.
const (
	// The length of the key field.
	KeyLength = 64
	// The maximum number of bytes to produce.
	MaxOutput = 64
	// Max size of the salt, in bytes
	SaltLength = 16
	// Max size of the personalization string, in bytes
	SeparatorLength = 16
	// Number of G function rounds for BLAKE2b.
	RoundCount = 12
	// Size of a block buffer in bytes
	BlockSize = 128

	// Initialization vector for BLAKE2b
	IV0 uint64 = 0x6a09e667f3bcc908
	IV1 uint64 = 0xbb67ae8584caa73b
	IV2 uint64 = 0x3c6ef372fe94f82b
	IV3 uint64 = 0xa54ff53a5f1d36f1
	IV4 uint64 = 0x510e527fade682d1
	IV5 uint64 = 0x9b05688c2b3e6c1f
	IV6 uint64 = 0x1f83d9abfb41bd6b
	IV7 uint64 = 0x5be0cd19137e2179
)

var iv = [8]uint64{IV0, IV1, IV2, IV3, IV4, IV5, IV6, IV7}

var _ blake2.Hash = (*Digest)(nil)

// Digest represents the internal state of the BLAKE2b algorithm. A Digest
// must not be written to from more than one goroutine at a time.
type Digest struct {
	h [8]uint64
	t [2]uint64 // byte counter, t[1] holds the carry
	f [2]uint64 // last block and last node flags

	// Two blocks, so a full block is only compressed once we know more
	// input follows it and it therefore isn't the last one.
	buf    [2 * BlockSize]byte
	buflen int

	lastNode bool

	// Everything Reset needs to rebuild the initial state.
	params parameterBlock
	key    [KeyLength]byte
}

// init0 clears the running state and loads the IV.
func (d *Digest) init0() {
	d.h = iv
	d.t = [2]uint64{}
	d.f = [2]uint64{}
	clear(d.buf[:])
	d.buflen = 0
	d.lastNode = false
}

// initParam mixes the parameter block into the IV.
func (d *Digest) initParam(p *parameterBlock) {
	d.init0()
	paramBytes := p.Marshal()
	for i := range d.h {
		d.h[i] ^= binary.LittleEndian.Uint64(paramBytes[i*8:])
	}
}

// writeKey absorbs key padded with zeros to a full block.
func (d *Digest) writeKey(key []byte) {
	var block [BlockSize]byte
	defer clear(block[:])

	copy(block[:], key)
	d.Write(block[:])
}

// New constructs a new instance of a BLAKE2b hash with the provided
// configuration. A nil configuration produces an unkeyed 64-byte digest.
func New(c *Config) (*Digest, error) {
	if c == nil {
		c = &Config{Size: MaxOutput}
	}

	params, err := newParameterBlock(c)
	if err != nil {
		return nil, err
	}

	d := &Digest{params: *params}
	copy(d.key[:], c.Key)
	d.initParam(&d.params)

	// Set after initialization, which clears it.
	d.lastNode = c.Tree != nil && c.Tree.IsLastNode

	if len(c.Key) > 0 {
		d.writeKey(c.Key)
	}
	return d, nil
}

// NewDigest constructs a new instance of a BLAKE2b hash with the provided
// configuration.
func NewDigest(key, salt, personalization []byte, outputBytes int) (*Digest, error) {
	return New(&Config{
		Size:   outputBytes,
		Key:    key,
		Salt:   salt,
		Person: personalization,
	})
}

// New512 returns an unkeyed BLAKE2b-512 digest.
func New512() *Digest {
	d, _ := New(&Config{Size: 64})
	return d
}

// New256 returns an unkeyed BLAKE2b-256 digest.
func New256() *Digest {
	d, _ := New(&Config{Size: 32})
	return d
}

// Sum512 returns the BLAKE2b-512 checksum of the data.
func Sum512(data []byte) [64]byte {
	var sum [64]byte
	d := New512()
	d.Write(data)
	d.Sum(sum[:0])
	return sum
}

// Sum256 returns the BLAKE2b-256 checksum of the data.
func Sum256(data []byte) [32]byte {
	var sum [32]byte
	d := New256()
	d.Write(data)
	d.Sum(sum[:0])
	return sum
}

// increment counter, preserving overflow behavior
func (d *Digest) incrementCounter(n uint64) {
	d.t[0] += n
	if d.t[0] < n {
		d.t[1]++
	}
}

// Write adds more data to the running hash. It never returns an error.
func (d *Digest) Write(input []byte) (n int, err error) {
	n = len(input)

	for len(input) > 0 {
		// If we have capacity, just copy and wait. Otherwise fill the
		// buffer, compress the first block and shift the second one down.
		fill := 2*BlockSize - d.buflen
		if len(input) <= fill {
			d.buflen += copy(d.buf[d.buflen:], input)
			break
		}

		copy(d.buf[d.buflen:], input[:fill])
		d.incrementCounter(BlockSize)
		compress(&d.h, (*[BlockSize]byte)(d.buf[:BlockSize]), d.t, d.f)
		copy(d.buf[:BlockSize], d.buf[BlockSize:])
		d.buflen = BlockSize
		input = input[fill:]
	}

	return n, nil
}

// finalize pads and compresses the last block and writes the full chaining
// value to out. It destroys the streaming state, so callers run it on a copy.
func (d *Digest) finalize(out *[MaxOutput]byte) {
	if d.buflen > BlockSize {
		d.incrementCounter(BlockSize)
		compress(&d.h, (*[BlockSize]byte)(d.buf[:BlockSize]), d.t, d.f)
		d.buflen -= BlockSize
		copy(d.buf[:], d.buf[BlockSize:BlockSize+d.buflen])
	}

	// increment counter by size of pending input before padding
	d.incrementCounter(uint64(d.buflen))

	d.f[0] = ^uint64(0)
	if d.lastNode {
		d.f[1] = ^uint64(0)
	}

	clear(d.buf[d.buflen:])
	compress(&d.h, (*[BlockSize]byte)(d.buf[:BlockSize]), d.t, d.f)

	for i, w := range d.h {
		binary.LittleEndian.PutUint64(out[i*8:], w)
	}
}

// Sum appends the current hash to b and returns the resulting slice.
// It does not change the underlying hash state.
func (d *Digest) Sum(b []byte) []byte {
	var out [MaxOutput]byte
	dCopy := *d
	dCopy.finalize(&out)
	dCopy.Wipe()
	return append(b, out[:d.Size()]...)
}

// HexSum returns the current hash as a lowercase hex string.
func (d *Digest) HexSum() string {
	return hex.EncodeToString(d.Sum(nil))
}

// Clone returns an independent copy of the hash state.
func (d *Digest) Clone() *Digest {
	c := *d
	return &c
}

// Reset resets the Hash to its initial state, including the key block if the
// hash is keyed.
func (d *Digest) Reset() {
	lastNode := d.lastNode
	d.initParam(&d.params)
	d.lastNode = lastNode

	if n := d.params.KeyLength; n > 0 {
		d.writeKey(d.key[:n])
	}
}

// Wipe zeroes the hash state, parameters and key. The Digest is unusable
// afterwards.
func (d *Digest) Wipe() {
	*d = Digest{}
}

// Name returns the name of the algorithm.
func (d *Digest) Name() string { return "blake2b" }

// Size returns the digest output size in bytes.
func (d *Digest) Size() int { return int(d.params.DigestSize) }

// BlockSize returns the hash's underlying block size. The Write method must be
// able to accept any amount of data, but it may operate more efficiently if
// all writes are a multiple of the block size.
func (d *Digest) BlockSize() int { return BlockSize }
