// Package blake2s implements the BLAKE2s secure hashing algorithm with support
// for keying, salting, personalization and tree parameters. BLAKE2s is
// optimized for 8- to 32-bit platforms and produces digests of any size
// between 1 and 32 bytes.
package blake2s

import (
	"encoding/binary"
	"encoding/hex"

	blake2 "github.com/dchest/pyblake2"
)

const (
	// The length of the key field.
	KeyLength = 32
	// The maximum number of bytes to produce.
	MaxOutput = 32
	// Max size of the salt, in bytes
	SaltLength = 8
	// Max size of the personalization string, in bytes
	SeparatorLength = 8
	// Number of G function rounds for BLAKE2s.
	RoundCount = 10
	// Size of a block buffer in bytes
	BlockSize = 64

	// Initialization vector for BLAKE2s, the same as SHA-256's
	IV0 uint32 = 0x6a09e667
	IV1 uint32 = 0xbb67ae85
	IV2 uint32 = 0x3c6ef372
	IV3 uint32 = 0xa54ff53a
	IV4 uint32 = 0x510e527f
	IV5 uint32 = 0x9b05688c
	IV6 uint32 = 0x1f83d9ab
	IV7 uint32 = 0x5be0cd19
)

var iv = [8]uint32{IV0, IV1, IV2, IV3, IV4, IV5, IV6, IV7}

var _ blake2.Hash = (*Digest)(nil)

// Digest represents the internal state of the BLAKE2s algorithm. A Digest
// must not be written to from more than one goroutine at a time.
type Digest struct {
	h [8]uint32
	t [2]uint32
	f [2]uint32

	buf    [2 * BlockSize]byte
	buflen int

	lastNode bool

	params parameterBlock
	key    [KeyLength]byte
}

func (d *Digest) init0() {
	d.h = iv
	d.t = [2]uint32{}
	d.f = [2]uint32{}
	clear(d.buf[:])
	d.buflen = 0
	d.lastNode = false
}

func (d *Digest) initParam(p *parameterBlock) {
	d.init0()
	paramBytes := p.Marshal()
	for i := range d.h {
		d.h[i] ^= binary.LittleEndian.Uint32(paramBytes[i*4:])
	}
}

func (d *Digest) writeKey(key []byte) {
	var block [BlockSize]byte
	defer clear(block[:])

	copy(block[:], key)
	d.Write(block[:])
}

// New constructs a new instance of a BLAKE2s hash with the provided
// configuration. A nil configuration produces an unkeyed 32-byte digest.
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
	d.lastNode = c.Tree != nil && c.Tree.IsLastNode

	if len(c.Key) > 0 {
		d.writeKey(c.Key)
	}
	return d, nil
}

// NewDigest constructs a new instance of a BLAKE2s hash with the provided
// configuration.
func NewDigest(key, salt, personalization []byte, outputBytes int) (*Digest, error) {
	return New(&Config{
		Size:   outputBytes,
		Key:    key,
		Salt:   salt,
		Person: personalization,
	})
}

// New256 returns an unkeyed BLAKE2s-256 digest.
func New256() *Digest {
	d, _ := New(&Config{Size: 32})
	return d
}

// New128 returns an unkeyed BLAKE2s-128 digest.
func New128() *Digest {
	d, _ := New(&Config{Size: 16})
	return d
}

// Sum256 returns the BLAKE2s-256 checksum of the data.
func Sum256(data []byte) [32]byte {
	var sum [32]byte
	d := New256()
	d.Write(data)
	d.Sum(sum[:0])
	return sum
}

func (d *Digest) incrementCounter(n uint32) {
	d.t[0] += n
	if d.t[0] < n {
		d.t[1]++
	}
}

// Write adds more data to the running hash. It never returns an error.
func (d *Digest) Write(input []byte) (n int, err error) {
	n = len(input)

	for len(input) > 0 {
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

func (d *Digest) finalize(out *[MaxOutput]byte) {
	if d.buflen > BlockSize {
		d.incrementCounter(BlockSize)
		compress(&d.h, (*[BlockSize]byte)(d.buf[:BlockSize]), d.t, d.f)
		d.buflen -= BlockSize
		copy(d.buf[:], d.buf[BlockSize:BlockSize+d.buflen])
	}

	d.incrementCounter(uint32(d.buflen))

	d.f[0] = ^uint32(0)
	if d.lastNode {
		d.f[1] = ^uint32(0)
	}

	clear(d.buf[d.buflen:])
	compress(&d.h, (*[BlockSize]byte)(d.buf[:BlockSize]), d.t, d.f)

	for i, w := range d.h {
		binary.LittleEndian.PutUint32(out[i*4:], w)
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

// Wipe zeroes the hash state, parameters and key.
func (d *Digest) Wipe() {
	*d = Digest{}
}

func (d *Digest) Name() string { return "blake2s" }

func (d *Digest) Size() int { return int(d.params.DigestSize) }

func (d *Digest) BlockSize() int { return BlockSize }
