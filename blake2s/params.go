package blake2s

import (
	"encoding/binary"
	"fmt"

	blake2 "github.com/dchest/pyblake2"
)

// Config holds the user-visible parameters of a BLAKE2s hash instance.
type Config struct {
	Size   int    // digest size in bytes, 1..MaxOutput
	Key    []byte // optional key, up to KeyLength bytes
	Salt   []byte // optional salt, up to SaltLength bytes
	Person []byte // optional personalization, up to SeparatorLength bytes
	Tree   *Tree  // optional tree parameters; nil means sequential mode
}

// Tree holds the tree hashing parameters. Only the node-level parameters are
// honoured: the caller is responsible for splitting input into leaves and
// combining node digests.
type Tree struct {
	Fanout     int    // 0 (unlimited) to 255
	MaxDepth   int    // 1 to 255
	LeafSize   uint32 // maximal leaf byte length, 0 for unlimited
	NodeOffset uint64 // at most MaxNodeOffset
	NodeDepth  int    // 0 for leaves, 0 to 255
	InnerSize  int    // inner digest size, 0 to MaxOutput
	IsLastNode bool   // set for the last node at each level
}

// These are the user-visible parameters of a BLAKE2 hash instance. The
// parameter block is XOR'd with the IV at the beginning of the hash.
type parameterBlock struct {
	DigestSize      byte                  // 0
	KeyLength       byte                  // 1
	fanout          byte                  // 2
	depth           byte                  // 3
	leafLength      uint32                // 4-7
	nodeOffset      uint64                // 8-13, 48 bits
	nodeDepth       byte                  // 14
	innerLength     byte                  // 15
	Salt            [SaltLength]byte      // 16-23
	Personalization [SeparatorLength]byte // 24-31
}

const parameterBlockSize = 32

// MaxNodeOffset is the largest node offset the 48-bit field can hold.
const MaxNodeOffset = 1<<48 - 1

// Packs a BLAKE2 parameter block.
func (p *parameterBlock) Marshal() []byte {
	buf := make([]byte, parameterBlockSize)
	buf[0] = p.DigestSize
	buf[1] = p.KeyLength
	buf[2] = p.fanout
	buf[3] = p.depth
	binary.LittleEndian.PutUint32(buf[4:], p.leafLength)
	putUint48(buf[8:], p.nodeOffset)
	buf[14] = p.nodeDepth
	buf[15] = p.innerLength
	copy(buf[16:], p.Salt[:])
	copy(buf[24:], p.Personalization[:])
	return buf
}

// newParameterBlock validates c and packs it into a parameter block. Nothing
// is allocated for the hash state until every field has passed.
func newParameterBlock(c *Config) (*parameterBlock, error) {
	p := &parameterBlock{
		fanout: 1, // sequential mode
		depth:  1, // sequential mode
	}

	if c.Size <= 0 || c.Size > MaxOutput {
		return nil, fmt.Errorf("blake2s: %w: %d is not between 1 and %d", blake2.ErrInvalidDigestSize, c.Size, MaxOutput)
	}
	p.DigestSize = byte(c.Size)

	if len(c.Key) > KeyLength {
		return nil, fmt.Errorf("blake2s: %w: %d exceeds %d bytes", blake2.ErrInvalidKeySize, len(c.Key), KeyLength)
	}
	p.KeyLength = byte(len(c.Key))

	// If salt is too short, this will implicitly right-pad with zero.
	if len(c.Salt) > SaltLength {
		return nil, fmt.Errorf("blake2s: %w: %d exceeds %d bytes", blake2.ErrSaltTooLong, len(c.Salt), SaltLength)
	}
	copy(p.Salt[:], c.Salt)

	if len(c.Person) > SeparatorLength {
		return nil, fmt.Errorf("blake2s: %w: %d exceeds %d bytes", blake2.ErrPersonalizationTooLong, len(c.Person), SeparatorLength)
	}
	copy(p.Personalization[:], c.Person)

	if t := c.Tree; t != nil {
		if t.Fanout < 0 || t.Fanout > 255 {
			return nil, fmt.Errorf("blake2s: %w: %d is not between 0 and 255", blake2.ErrInvalidFanout, t.Fanout)
		}
		if t.MaxDepth < 1 || t.MaxDepth > 255 {
			return nil, fmt.Errorf("blake2s: %w: %d is not between 1 and 255", blake2.ErrInvalidDepth, t.MaxDepth)
		}
		if t.NodeOffset > MaxNodeOffset {
			return nil, fmt.Errorf("blake2s: %w: %d exceeds %d", blake2.ErrNodeOffsetTooLarge, t.NodeOffset, uint64(MaxNodeOffset))
		}
		if t.NodeDepth < 0 || t.NodeDepth > 255 {
			return nil, fmt.Errorf("blake2s: %w: %d is not between 0 and 255", blake2.ErrInvalidNodeDepth, t.NodeDepth)
		}
		if t.InnerSize < 0 || t.InnerSize > MaxOutput {
			return nil, fmt.Errorf("blake2s: %w: %d is not between 0 and %d", blake2.ErrInnerLengthTooLarge, t.InnerSize, MaxOutput)
		}
		p.fanout = byte(t.Fanout)
		p.depth = byte(t.MaxDepth)
		p.leafLength = t.LeafSize
		p.nodeOffset = t.NodeOffset
		p.nodeDepth = byte(t.NodeDepth)
		p.innerLength = byte(t.InnerSize)
	}

	return p, nil
}

func putUint48(b []byte, v uint64) {
	_ = b[5] // early bounds check to guarantee safety of writes below
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	b[4] = byte(v >> 32)
	b[5] = byte(v >> 40)
}
