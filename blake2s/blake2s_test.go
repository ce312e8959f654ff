package blake2s

import (
	"bytes"
	"encoding/hex"
	"errors"
	"hash"
	"testing"

	blake2 "github.com/dchest/pyblake2"
	"github.com/dchest/pyblake2/internal/testdata"
)

const DemoParamBytes = "201001010000000000000000000000005555555555555555eeeeeeeeeeeeeeee"

var _ hash.Hash = (*Digest)(nil)

func TestParameterBlockInit(t *testing.T) {
	params, err := newParameterBlock(&Config{
		Size:   32,
		Key:    make([]byte, 16),
		Salt:   bytes.Repeat([]byte{0x55}, SaltLength),
		Person: bytes.Repeat([]byte{0xee}, SeparatorLength),
	})
	if err != nil {
		t.Fatal(err)
	}

	packedBytes := params.Marshal()
	expectedBytes, _ := hex.DecodeString(DemoParamBytes)
	if !bytes.Equal(packedBytes, expectedBytes) {
		t.Errorf("packed bytes mismatch: %x %x", packedBytes, expectedBytes)
	}

	var digest Digest
	digest.initParam(params)
	want := [8]uint32{IV0 ^ 0x01011020, IV1, IV2, IV3, IV4 ^ 0x55555555, IV5 ^ 0x55555555, IV6 ^ 0xeeeeeeee, IV7 ^ 0xeeeeeeee}
	if digest.h != want {
		t.Errorf("h = %x, want %x", digest.h, want)
	}
}

func TestParameterBlockTreeLayout(t *testing.T) {
	params, err := newParameterBlock(&Config{
		Size: 16,
		Tree: &Tree{
			Fanout:     2,
			MaxDepth:   3,
			LeafSize:   0x04030201,
			NodeOffset: 0x0a0908070605,
			NodeDepth:  0x0b,
			InnerSize:  0x0c,
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	want := make([]byte, parameterBlockSize)
	copy(want, []byte{16, 0, 2, 3, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12})

	if got := params.Marshal(); !bytes.Equal(got, want) {
		t.Errorf("tree layout mismatch:\n got %x\nwant %x", got, want)
	}
}

func TestNodeOffsetLimit(t *testing.T) {
	if _, err := New(&Config{Size: 32, Tree: &Tree{Fanout: 1, MaxDepth: 1, NodeOffset: MaxNodeOffset}}); err != nil {
		t.Errorf("largest 48-bit offset rejected: %v", err)
	}

	d, err := New(&Config{Size: 32, Tree: &Tree{Fanout: 1, MaxDepth: 1, NodeOffset: MaxNodeOffset + 1}})
	if d != nil || !errors.Is(err, blake2.ErrNodeOffsetTooLarge) {
		t.Errorf("New = %v, %v", d, err)
	}
}

func TestNewDigest(t *testing.T) {
	d, err := NewDigest(nil, nil, nil, 16)
	if err != nil {
		t.Fatal(err)
	}
	if d.Size() != 16 || d.BlockSize() != BlockSize {
		t.Errorf("Size() = %d, BlockSize() = %d", d.Size(), d.BlockSize())
	}

	d, err = New(nil)
	if err != nil {
		t.Fatal(err)
	}
	if d.Size() != MaxOutput {
		t.Errorf("default Size() = %d", d.Size())
	}
}

func TestMaxParameters(t *testing.T) {
	_, err := New(&Config{
		Size:   MaxOutput,
		Key:    make([]byte, KeyLength),
		Salt:   make([]byte, SaltLength),
		Person: make([]byte, SeparatorLength),
		Tree: &Tree{
			Fanout:     255,
			MaxDepth:   255,
			LeafSize:   ^uint32(0),
			NodeOffset: MaxNodeOffset,
			NodeDepth:  255,
			InnerSize:  MaxOutput,
		},
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		c    Config
		want error
	}{
		{"zero size", Config{Size: 0}, blake2.ErrInvalidDigestSize},
		{"oversized", Config{Size: MaxOutput + 1}, blake2.ErrInvalidDigestSize},
		{"long key", Config{Size: 32, Key: make([]byte, KeyLength+1)}, blake2.ErrInvalidKeySize},
		{"long salt", Config{Size: 32, Salt: make([]byte, SaltLength+1)}, blake2.ErrSaltTooLong},
		{"long person", Config{Size: 32, Person: make([]byte, SeparatorLength+1)}, blake2.ErrPersonalizationTooLong},
		{"large fanout", Config{Size: 32, Tree: &Tree{Fanout: 256, MaxDepth: 1}}, blake2.ErrInvalidFanout},
		{"zero depth", Config{Size: 32, Tree: &Tree{Fanout: 1}}, blake2.ErrInvalidDepth},
		{"node offset", Config{Size: 32, Tree: &Tree{Fanout: 1, MaxDepth: 1, NodeOffset: 1 << 48}}, blake2.ErrNodeOffsetTooLarge},
		{"large node depth", Config{Size: 32, Tree: &Tree{Fanout: 1, MaxDepth: 1, NodeDepth: 256}}, blake2.ErrInvalidNodeDepth},
		{"large inner size", Config{Size: 32, Tree: &Tree{Fanout: 1, MaxDepth: 1, InnerSize: MaxOutput + 1}}, blake2.ErrInnerLengthTooLarge},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			d, err := New(&test.c)
			if d != nil {
				t.Errorf("New returned a digest: %v", d)
			}
			if !errors.Is(err, test.want) {
				t.Errorf("New error = %v, want %v", err, test.want)
			}
		})
	}
}

func configFor(v *testdata.Vector) *Config {
	c := &Config{
		Size:   v.Size,
		Key:    testdata.Bytes(v.Key),
		Salt:   testdata.Bytes(v.Salt),
		Person: testdata.Bytes(v.Persona),
	}
	if c.Size == 0 {
		c.Size = len(v.Output) / 2
	}
	if v.IsTree() {
		c.Tree = &Tree{
			Fanout:     1,
			MaxDepth:   1,
			LeafSize:   v.LeafSize,
			NodeOffset: v.NodeOffset,
			NodeDepth:  v.NodeDepth,
			InnerSize:  v.InnerSize,
			IsLastNode: v.LastNode,
		}
		if v.Fanout != nil {
			c.Tree.Fanout = *v.Fanout
		}
		if v.Depth != nil {
			c.Tree.MaxDepth = *v.Depth
		}
	}
	return c
}

func testVectors(t *testing.T, name string) {
	tests, err := testdata.Load(name)
	if err != nil {
		t.Skip(err)
	}
	for i, test := range tests {
		if test.Hash != "blake2s" {
			t.Errorf("Got a test for the wrong hash: %s", test.Hash)
			continue
		}
		d, err := New(configFor(&test))
		if err != nil {
			t.Error(err)
			continue
		}
		if input := testdata.Bytes(test.Input); input != nil {
			d.Write(input)
		}
		if got := d.HexSum(); got != test.Output {
			t.Errorf("Failed test %d: got %s, want %s", i, got, test.Output)
			break
		}
	}
}

func TestStandardVectors(t *testing.T) {
	testVectors(t, "blake2s-kat")
}

func TestExtrasVectors(t *testing.T) {
	testVectors(t, "blake2s-extras")
}

func TestKnownDigests(t *testing.T) {
	tests := map[string]string{
		"":     "69217a3079908094e11121d042354a7c1f55b6482ca1a51e1b250dfd1ed0eef9",
		"abc":  "508c5e8c327c14e2e1a72ba34eeb452f37458b209ed63a294d999b4c86675982",
		"cats": "c473a8d190c3867bdaf6529e8d8531925e824cff07f17d489233fde665979f0c",
	}
	for in, want := range tests {
		sum := Sum256([]byte(in))
		if got := hex.EncodeToString(sum[:]); got != want {
			t.Errorf("BLAKE2s-256(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestKeyedEmptyMessage(t *testing.T) {
	key := make([]byte, KeyLength)
	for i := range key {
		key[i] = byte(i)
	}

	d, err := NewDigest(key, nil, nil, 32)
	if err != nil {
		t.Fatal(err)
	}

	const want = "48a8997da407876b3d79c0d92325ad3b89cbb754d86ab71aee047ad345fd2c49"
	if got := d.HexSum(); got != want {
		t.Errorf("keyed empty digest = %s, want %s", got, want)
	}
}

func TestEmptyKeyIsUnkeyed(t *testing.T) {
	d, err := NewDigest([]byte{}, nil, nil, 32)
	if err != nil {
		t.Fatal(err)
	}
	want := Sum256(nil)
	if got := d.Sum(nil); !bytes.Equal(got, want[:]) {
		t.Errorf("empty key changed the digest: %x", got)
	}
}

func TestChunkedWrites(t *testing.T) {
	drbg := testdata.New("blake2s chunked writes")
	msg := drbg.Data(7*BlockSize + 5)

	want := Sum256(msg)

	for chunk := 1; chunk <= len(msg); chunk++ {
		d := New256()
		for i := 0; i < len(msg); i += chunk {
			d.Write(msg[i:min(i+chunk, len(msg))])
		}
		if got := d.Sum(nil); !bytes.Equal(got, want[:]) {
			t.Errorf("chunk size %d: got %x, want %x", chunk, got, want)
		}
	}
}

func TestSumIsNonDestructive(t *testing.T) {
	d := New256()
	d.Write(bytes.Repeat([]byte{'x'}, BlockSize))

	mid := d.Sum(nil)
	wantMid := Sum256(bytes.Repeat([]byte{'x'}, BlockSize))
	if !bytes.Equal(mid, wantMid[:]) {
		t.Errorf("intermediate Sum = %x, want %x", mid, wantMid)
	}

	d.Write([]byte{'x'})
	wantFull := Sum256(bytes.Repeat([]byte{'x'}, BlockSize+1))
	if got := d.Sum(nil); !bytes.Equal(got, wantFull[:]) {
		t.Errorf("Sum after more input = %x, want %x", got, wantFull)
	}
}

func TestSumAppends(t *testing.T) {
	d := New128()
	out := d.Sum([]byte("prefix"))
	if !bytes.HasPrefix(out, []byte("prefix")) || len(out) != len("prefix")+16 {
		t.Errorf("Sum did not append: %x", out)
	}
}

func TestLastNodeChangesDigest(t *testing.T) {
	tree := Tree{Fanout: 2, MaxDepth: 2, InnerSize: 32}
	inner, _ := New(&Config{Size: 32, Tree: &tree})

	tree.IsLastNode = true
	last, _ := New(&Config{Size: 32, Tree: &tree})

	if bytes.Equal(inner.Sum(nil), last.Sum(nil)) {
		t.Error("last node flag had no effect")
	}
}

func TestClone(t *testing.T) {
	d, _ := NewDigest([]byte("key"), []byte("salt"), []byte("me"), 24)
	d.Write([]byte("shared prefix"))

	c := d.Clone()
	c.Write([]byte(" and more"))

	ref, _ := NewDigest([]byte("key"), []byte("salt"), []byte("me"), 24)
	ref.Write([]byte("shared prefix"))
	if !bytes.Equal(d.Sum(nil), ref.Sum(nil)) {
		t.Error("writing to the clone changed the original")
	}

	ref.Write([]byte(" and more"))
	if !bytes.Equal(c.Sum(nil), ref.Sum(nil)) {
		t.Error("clone diverged from its own input")
	}
}

func TestReset(t *testing.T) {
	d, _ := NewDigest([]byte("key"), nil, nil, 32)
	d.Write(bytes.Repeat([]byte("junk"), 100))
	d.Reset()
	d.Write([]byte("msg"))

	ref, _ := NewDigest([]byte("key"), nil, nil, 32)
	ref.Write([]byte("msg"))
	if !bytes.Equal(d.Sum(nil), ref.Sum(nil)) {
		t.Errorf("after Reset = %x, want %x", d.Sum(nil), ref.Sum(nil))
	}
}

func TestWipe(t *testing.T) {
	d, _ := NewDigest([]byte("secret"), nil, nil, 32)
	d.Write([]byte("data"))
	d.Wipe()

	if *d != (Digest{}) {
		t.Errorf("Wipe left state behind: %+v", d)
	}
}

func TestCounterCarry(t *testing.T) {
	var d Digest
	d.t[0] = ^uint32(0) - 10
	d.incrementCounter(BlockSize)

	if d.t[0] != BlockSize-11 || d.t[1] != 1 {
		t.Errorf("counter = %v", d.t)
	}
}

var emptyBuf = make([]byte, 1<<20)

func BenchmarkHash(b *testing.B) {
	for _, size := range testdata.Sizes {
		b.Run(size.Name, func(b *testing.B) {
			b.SetBytes(int64(size.N))
			sum := make([]byte, 32)
			for range b.N {
				d := New256()
				d.Write(emptyBuf[:size.N])
				d.Sum(sum[:0])
			}
		})
	}
}
