package jpeg

// HuffmanTable is a canonical JPEG Huffman trie. Per §9's design note it is
// stored as a flat arena of tagged nodes rather than a pointer-rich heap
// tree: a node is either a Branch (next[0], next[1] index into the same
// arena, -1 meaning "absent") or a Leaf (hasValue, value). Index 0 is always
// the root.
//
// Grounded on original_source/src/huffman.c's expand_tree/fill_leafs
// level-by-level construction (build one full level of 2^depth leaf slots,
// then consume BITS[depth] of them left-to-right for HUFFVAL), generalized
// from its linked-node form into the flat arena the spec design notes call
// for. Decode traversal matches original_source's next_huffman_value.
type hnode struct {
	next     [2]int32 // arena index of each child, -1 if absent
	hasValue bool
	value    uint8
}

type HuffmanTable struct {
	nodes []hnode
}

func newHuffmanArena() *HuffmanTable {
	t := &HuffmanTable{nodes: make([]hnode, 0, 64)}
	t.newNode() // root, index 0
	return t
}

func (t *HuffmanTable) newNode() int32 {
	t.nodes = append(t.nodes, hnode{next: [2]int32{-1, -1}})
	return int32(len(t.nodes) - 1)
}

// BuildHuffmanTable constructs a canonical trie from the standard 16
// length-counts array and the flat symbols array (len(symbols) ==
// sum(counts)). See §4.2.
func BuildHuffmanTable(counts [16]uint8, symbols []uint8) (*HuffmanTable, error) {
	total := 0
	maxDepth := -1
	for i, c := range counts {
		total += int(c)
		if c != 0 {
			maxDepth = i
		}
	}
	if total > 256 {
		return nil, newErrorf(StructuralError, "huffman", "invalid huffman table: %d codes exceeds 256", total)
	}
	if total != len(symbols) {
		return nil, newErrorf(StructuralError, "huffman", "symbol count %d does not match BITS sum %d", len(symbols), total)
	}

	t := newHuffmanArena()
	// leaves holds the open (unvalued) leaf-node indices at the current
	// depth, left to right, exactly as original_source's NodeList.
	leaves := []int32{0}
	symIdx := 0

	for depth := 0; depth <= maxDepth; depth++ {
		// expand_tree: give every open leaf two children, becoming the new
		// open-leaf list for depth+1.
		var next []int32
		for _, n := range leaves {
			left := t.newNode()
			right := t.newNode()
			t.nodes[n].next[0] = left
			t.nodes[n].next[1] = right
			next = append(next, left, right)
		}
		leaves = next

		n := int(counts[depth])
		if n == 0 {
			continue
		}
		if n > len(leaves) {
			return nil, newErrorf(StructuralError, "huffman", "not enough code slots at length %d", depth+1)
		}
		// fill_leafs: assign the first n open leaves, left to right, to the
		// next n symbols, then remove them from the open list.
		for i := 0; i < n; i++ {
			leaf := leaves[i]
			t.nodes[leaf].hasValue = true
			t.nodes[leaf].value = symbols[symIdx]
			symIdx++
		}
		leaves = leaves[n:]
	}
	return t, nil
}

// NextSymbol walks the trie one bit at a time from the BitReader until a
// leaf is reached, per §4.2. A descent into an absent branch is a fatal
// corrupt-stream error.
func (t *HuffmanTable) NextSymbol(r *BitReader) (uint8, error) {
	idx := int32(0)
	for {
		n := &t.nodes[idx]
		if n.hasValue {
			return n.value, nil
		}
		bit, err := r.ReadBit(true)
		if err != nil {
			return 0, err
		}
		next := n.next[bit]
		if next < 0 {
			return 0, newErrorf(EntropyError, "huffman", "invalid huffman code path in entropy-coded segment")
		}
		idx = next
	}
}

// loadHuffmanTable parses a DHT table body (16 count bytes then the
// concatenated symbol list) from r, which must be byte-aligned and reading
// raw (non-stuffed) segment-header bytes, per §4.3's DHT row. Returns the
// table and the number of bytes consumed, as original_source's
// load_huffman_table does.
func loadHuffmanTable(r *BitReader) (*HuffmanTable, int, error) {
	var counts [16]uint8
	consumed := 0
	for i := range counts {
		b, err := r.ReadByte(false)
		if err != nil {
			return nil, 0, err
		}
		counts[i] = b
		consumed++
	}
	total := 0
	for _, c := range counts {
		total += int(c)
	}
	symbols := make([]uint8, total)
	for i := range symbols {
		b, err := r.ReadByte(false)
		if err != nil {
			return nil, 0, err
		}
		symbols[i] = b
		consumed++
	}
	table, err := BuildHuffmanTable(counts, symbols)
	if err != nil {
		return nil, 0, err
	}
	return table, consumed, nil
}
