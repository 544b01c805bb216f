package response

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/goccy/go-json"
)

const (
	exactFloatLimit = 1 << 53
	nodeIDLimit     = 1 << 64
)

// Warning records a node ID that decoded with a loss of precision.
type Warning struct {
	Path  string // dotted path to the array entry
	Raw   string // the value as it appeared in the payload
	Value uint64 // the value kept
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: node id %s decoded as %d", w.Path, w.Raw, w.Value)
}

// LossyNode is an entry of a NodeIDs array that was a float which was
// non-integral or above 2^53.
type LossyNode struct {
	Raw   string
	Index int
}

// NodeIDError reports a node ID that cannot be represented.
type NodeIDError struct {
	Raw   string
	Index int
}

func (e *NodeIDError) Error() string {
	return fmt.Sprintf("node id %d: %s is not an unsigned 64-bit integer", e.Index, e.Raw)
}

// NodeIDs is an array of OSM node IDs.
type NodeIDs struct {
	IDs   []uint64
	Lossy []LossyNode
}

func (n *NodeIDs) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*n = NodeIDs{}
		return nil
	}
	var raw []json.Number
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	out := NodeIDs{IDs: make([]uint64, len(raw))}
	for i, num := range raw {
		s := num.String()
		if v, err := strconv.ParseUint(s, 10, 64); err == nil {
			out.IDs[i] = v
			continue
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f >= nodeIDLimit {
			return &NodeIDError{Raw: s, Index: i}
		}
		out.IDs[i] = uint64(f)
		if f != math.Trunc(f) || f > exactFloatLimit {
			out.Lossy = append(out.Lossy, LossyNode{Raw: s, Index: i})
		}
	}
	*n = out
	return nil
}

func (n NodeIDs) MarshalJSON() ([]byte, error) {
	if n.IDs == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(n.IDs)
}

func (n *NodeIDs) warnings(path string) []Warning {
	if n == nil {
		return nil
	}
	var out []Warning
	for _, l := range n.Lossy {
		out = append(out, Warning{
			Path:  path + "." + strconv.Itoa(l.Index),
			Raw:   l.Raw,
			Value: n.IDs[l.Index],
		})
	}
	return out
}
