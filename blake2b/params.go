package blake2b

import (
	"encoding/binary"
	"fmt"

	blake2 "github.com/dchest/pyblake2"
)

// Config holds the user-visible parameters of a BLAKE2b hash instance.
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
	NodeOffset uint64
	NodeDepth  int  // 0 for leaves, 0 to 255
	InnerSize  int  // inner digest size, 0 to MaxOutput
	IsLastNode bool // set for the last node at each level
}

// These are the user-visible parameters of a BLAKE2 hash instance. The
// parameter block is XOR'd with the IV at the beginning of the hash.
type parameterBlock struct {
	DigestSize      byte                  // 0
	KeyLength       byte                  // 1
	fanout          byte                  // 2
	depth           byte                  // 3
	leafLength      uint32                // 4-7
	nodeOffset      uint64                // 8-15
	nodeDepth       byte                  // 16
	innerLength     byte                  // 17
	_               [14]byte              // 18-31 reserved
	Salt            [SaltLength]byte      // 32-47
	Personalization [SeparatorLength]byte // 48-63
}

const parameterBlockSize = 64

// Packs a BLAKE2 parameter block.
func (p *parameterBlock) Marshal() []byte {
	buf := make([]byte, parameterBlockSize)
	buf[0] = p.DigestSize
	buf[1] = p.KeyLength
	buf[2] = p.fanout
	buf[3] = p.depth
	binary.LittleEndian.PutUint32(buf[4:], p.leafLength)
	binary.LittleEndian.PutUint64(buf[8:], p.nodeOffset)
	buf[16] = p.nodeDepth
	buf[17] = p.innerLength
	// 14 bytes implicitly zero
	copy(buf[32:], p.Salt[:])
	copy(buf[48:], p.Personalization[:])
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
		return nil, fmt.Errorf("blake2b: %w: %d is not between 1 and %d", blake2.ErrInvalidDigestSize, c.Size, MaxOutput)
	}
	p.DigestSize = byte(c.Size)

	if len(c.Key) > KeyLength {
		return nil, fmt.Errorf("blake2b: %w: %d exceeds %d bytes", blake2.ErrInvalidKeySize, len(c.Key), KeyLength)
	}
	p.KeyLength = byte(len(c.Key))

	// If salt is too short, this will implicitly right-pad with zero.
	if len(c.Salt) > SaltLength {
		return nil, fmt.Errorf("blake2b: %w: %d exceeds %d bytes", blake2.ErrSaltTooLong, len(c.Salt), SaltLength)
	}
	copy(p.Salt[:], c.Salt)

	if len(c.Person) > SeparatorLength {
		return nil, fmt.Errorf("blake2b: %w: %d exceeds %d bytes", blake2.ErrPersonalizationTooLong, len(c.Person), SeparatorLength)
	}
	copy(p.Personalization[:], c.Person)

	if t := c.Tree; t != nil {
		if t.Fanout < 0 || t.Fanout > 255 {
			return nil, fmt.Errorf("blake2b: %w: %d is not between 0 and 255", blake2.ErrInvalidFanout, t.Fanout)
		}
		if t.MaxDepth < 1 || t.MaxDepth > 255 {
			return nil, fmt.Errorf("blake2b: %w: %d is not between 1 and 255", blake2.ErrInvalidDepth, t.MaxDepth)
		}
		if t.NodeDepth < 0 || t.NodeDepth > 255 {
			return nil, fmt.Errorf("blake2b: %w: %d is not between 0 and 255", blake2.ErrInvalidNodeDepth, t.NodeDepth)
		}
		if t.InnerSize < 0 || t.InnerSize > MaxOutput {
			return nil, fmt.Errorf("blake2b: %w: %d is not between 0 and %d", blake2.ErrInnerLengthTooLarge, t.InnerSize, MaxOutput)
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
