package testdata

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
)

// Vector is a BLAKE2 test vector as written by gen_vectors.py. The KAT files
// only carry Hash, Input, Key and Output; the extras files set the rest.
type Vector struct {
	Hash       string `json:"hash"`
	Input      string `json:"in"`
	Key        string `json:"key"`
	Persona    string `json:"persona,omitempty"`
	Salt       string `json:"salt,omitempty"`
	Size       int    `json:"size,omitempty"`
	Fanout     *int   `json:"fanout,omitempty"`
	Depth      *int   `json:"depth,omitempty"`
	LeafSize   uint32 `json:"leafSize,omitempty"`
	NodeOffset uint64 `json:"nodeOffset,omitempty"`
	NodeDepth  int    `json:"nodeDepth,omitempty"`
	InnerSize  int    `json:"innerSize,omitempty"`
	LastNode   bool   `json:"lastNode,omitempty"`
	Output     string `json:"out"`
}

// IsTree reports whether the vector sets any tree parameter.
func (v *Vector) IsTree() bool {
	return v.Fanout != nil || v.Depth != nil || v.LeafSize != 0 || v.NodeOffset != 0 ||
		v.NodeDepth != 0 || v.InnerSize != 0 || v.LastNode
}

// Bytes decodes a hex field, mapping the empty string to nil.
func Bytes(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	if len(b) == 0 {
		return nil
	}
	return b
}

// Load reads testdata/<name>.json from the repository root.
func Load(name string) ([]Vector, error) {
	_, file, _, _ := runtime.Caller(0)
	path := filepath.Join(filepath.Dir(file), "..", "..", "testdata", name+".json")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var vectors []Vector
	if err := json.Unmarshal(data, &vectors); err != nil {
		return nil, err
	}
	return vectors, nil
}
