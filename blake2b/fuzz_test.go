package blake2b

import (
	"bytes"
	"testing"

	"github.com/dchest/pyblake2/internal/testdata"
	fuzz "github.com/trailofbits/go-fuzz-utils"
)

// FuzzWriteSchedule hashes a message with a random schedule of writes, clones
// and intermediate sums, and checks the result against hashing the whole
// message at once.
func FuzzWriteSchedule(f *testing.F) {
	drbg := testdata.New("blake2b write schedule")
	for range 10 {
		f.Add(drbg.Data(1024))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		tp, err := fuzz.NewTypeProvider(data)
		if err != nil {
			t.Skip(err)
		}

		size, err := tp.GetByte()
		if err != nil {
			t.Skip(err)
		}
		key, err := tp.GetBytes()
		if err != nil {
			t.Skip(err)
		}
		c := &Config{
			Size: int(size)%MaxOutput + 1,
			Key:  key[:min(len(key), KeyLength)],
		}

		d, err := New(c)
		if err != nil {
			t.Fatal(err)
		}

		var msg []byte
		opCount, err := tp.GetUint16()
		if err != nil {
			t.Skip(err)
		}
		for range opCount % 32 {
			op, err := tp.GetByte()
			if err != nil {
				t.Skip(err)
			}

			switch op % 3 {
			case 0: // Write
				chunk, err := tp.GetBytes()
				if err != nil {
					t.Skip(err)
				}
				d.Write(chunk)
				msg = append(msg, chunk...)
			case 1: // Sum mid-stream
				d.Sum(nil)
			case 2: // continue on a clone
				d = d.Clone()
			}
		}

		ref, _ := New(c)
		ref.Write(msg)
		if got, want := d.Sum(nil), ref.Sum(nil); !bytes.Equal(got, want) {
			t.Fatalf("schedule digest %x != one-shot digest %x", got, want)
		}
	})
}
