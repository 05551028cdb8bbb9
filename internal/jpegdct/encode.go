package jpegdct

import "bytes"

// Encode re-Huffman-encodes the (possibly mutated) coefficient planes using
// the same quantization and Huffman tables the source file declared, and
// splices the result back between the untouched header bytes and the
// untouched trailer (EOI and beyond). No pixel is ever dequantized,
// inverse-transformed, or re-quantized: only entropy coding is redone.
func (img *Image) Encode() []byte {
	encDC := map[int]*huffEncodeTable{}
	encAC := map[int]*huffEncodeTable{}
	for id, spec := range img.huffDC {
		encDC[id] = buildEncodeTable(spec)
	}
	for id, spec := range img.huffAC {
		encAC[id] = buildEncodeTable(spec)
	}

	var entropy bytes.Buffer
	w := newBitWriter(&entropy)

	prevDC := make([]int32, len(img.Components))
	mcuCount := 0
	restartIdx := 0
	totalMCUs := img.mcusPerLine * img.mcusPerCol

	for my := 0; my < img.mcusPerCol; my++ {
		for mx := 0; mx < img.mcusPerLine; mx++ {
			for ci, comp := range img.Components {
				dt := encDC[comp.dcSel]
				at := encAC[comp.acSel]
				for by := 0; by < comp.V; by++ {
					for bx := 0; bx < comp.H; bx++ {
						blockRow := my*comp.V + by
						blockCol := mx*comp.H + bx
						encodeBlock(w, comp, blockRow, blockCol, dt, at, &prevDC[ci])
					}
				}
			}

			mcuCount++
			if img.restartInterval > 0 && mcuCount%img.restartInterval == 0 && mcuCount != totalMCUs {
				w.restart(restartIdx)
				restartIdx++
				for i := range prevDC {
					prevDC[i] = 0
				}
			}
		}
	}
	w.flush()

	out := make([]byte, 0, img.scanStart+entropy.Len()+(len(img.raw)-img.scanEnd))
	out = append(out, img.raw[:img.scanStart]...)
	out = append(out, entropy.Bytes()...)
	out = append(out, img.raw[img.scanEnd:]...)
	return out
}

func encodeBlock(w *bitWriter, comp *Component, blockRow, blockCol int, dt, at *huffEncodeTable, prevDC *int32) {
	var zz [64]int32
	for k := 0; k < 64; k++ {
		p := zigzagPos[k]
		zz[k] = comp.Coeffs[blockRow*8+p[0]][blockCol*8+p[1]]
	}

	diff := zz[0] - *prevDC
	*prevDC = zz[0]
	dcSize := bitLen(abs32(diff))
	w.writeHuff(dt, byte(dcSize))
	w.writeExtend(diff, dcSize)

	last := 0
	for k := 63; k >= 1; k-- {
		if zz[k] != 0 {
			last = k
			break
		}
	}

	run := 0
	for k := 1; k <= last; k++ {
		v := zz[k]
		if v == 0 {
			run++
			continue
		}
		for run > 15 {
			w.writeHuff(at, 0xF0) // ZRL
			run -= 16
		}
		size := bitLen(abs32(v))
		w.writeHuff(at, byte(run<<4)|byte(size))
		w.writeExtend(v, size)
		run = 0
	}
	if last < 63 {
		w.writeHuff(at, 0x00) // EOB
	}
}
