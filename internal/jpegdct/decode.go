package jpegdct

import (
	"errors"
	"fmt"
)

const (
	markerSOI = 0xD8
	markerEOI = 0xD9
	markerSOF0 = 0xC0
	markerSOF2 = 0xC2
	markerDHT  = 0xC4
	markerDQT  = 0xDB
	markerDRI  = 0xDD
	markerSOS  = 0xDA
)

// sofComponent is a component entry as declared in the SOF0 segment.
type sofComponent struct {
	id       byte
	h, v     int
	quantSel byte
}

// Component is one coefficient plane, sized to the padded (MCU-aligned)
// block grid: Rows == blockRows*8, Cols == blockCols*8. Coeffs[r][c]
// belongs to block (r/8, c/8), local position (r%8, c%8); the block's DC
// term sits at local (0,0).
type Component struct {
	ID         byte
	H, V       int
	BlockRows  int
	BlockCols  int
	Coeffs     [][]int32

	dcSel, acSel int // huffman table ids used for this component in the scan
}

func (c *Component) Rows() int { return c.BlockRows * 8 }
func (c *Component) Cols() int { return c.BlockCols * 8 }

// Image is a decoded coefficient-domain JPEG: every marker byte except the
// entropy-coded scan data is kept verbatim in raw, so Encode need only
// regenerate the bytes between scanStart and scanEnd.
type Image struct {
	Width, Height   int
	Components      []*Component
	restartInterval int

	raw       []byte
	scanStart int
	scanEnd   int

	huffDC map[int]huffSpec
	huffAC map[int]huffSpec

	mcusPerLine, mcusPerCol int
}

// Decode parses raw as a baseline JPEG file and Huffman-decodes its scan
// into per-component coefficient planes.
func Decode(raw []byte) (*Image, error) {
	if len(raw) < 4 || raw[0] != 0xFF || raw[1] != markerSOI {
		return nil, errors.New("jpegdct: not a JPEG file")
	}

	img := &Image{raw: raw, huffDC: map[int]huffSpec{}, huffAC: map[int]huffSpec{}}
	var sofComps []sofComponent
	pos := 2

	for {
		if pos+1 >= len(raw) || raw[pos] != 0xFF {
			return nil, errors.New("jpegdct: malformed marker stream")
		}
		marker := raw[pos+1]
		pos += 2

		if marker == markerEOI {
			return nil, errors.New("jpegdct: reached EOI before SOS")
		}
		if marker >= 0xD0 && marker <= 0xD7 {
			continue // stray restart marker outside a scan; ignore
		}

		if pos+2 > len(raw) {
			return nil, errors.New("jpegdct: truncated segment header")
		}
		length := int(raw[pos])<<8 | int(raw[pos+1])
		segStart := pos + 2
		segEnd := pos + length
		if length < 2 || segEnd > len(raw) {
			return nil, errors.New("jpegdct: truncated segment")
		}
		seg := raw[segStart:segEnd]

		switch marker {
		case markerSOF2:
			return nil, errors.New("jpegdct: progressive JPEG not supported")
		case markerSOF0:
			var err error
			sofComps, err = parseSOF(seg, img)
			if err != nil {
				return nil, err
			}
		case markerDHT:
			parseDHT(seg, img)
		case markerDRI:
			if len(seg) < 2 {
				return nil, errors.New("jpegdct: truncated DRI")
			}
			img.restartInterval = int(seg[0])<<8 | int(seg[1])
		case markerSOS:
			if len(sofComps) == 0 {
				return nil, errors.New("jpegdct: SOS before SOF0")
			}
			if err := img.decodeScan(seg, segEnd, sofComps); err != nil {
				return nil, err
			}
			return img, nil
		}

		pos = segEnd
	}
}

func parseSOF(seg []byte, img *Image) ([]sofComponent, error) {
	if len(seg) < 6 {
		return nil, errors.New("jpegdct: truncated SOF0")
	}
	precision := seg[0]
	if precision != 8 {
		return nil, fmt.Errorf("jpegdct: unsupported sample precision %d", precision)
	}
	img.Height = int(seg[1])<<8 | int(seg[2])
	img.Width = int(seg[3])<<8 | int(seg[4])
	n := int(seg[5])
	if len(seg) < 6+n*3 {
		return nil, errors.New("jpegdct: truncated SOF0 component list")
	}

	comps := make([]sofComponent, n)
	for i := 0; i < n; i++ {
		o := 6 + i*3
		comps[i] = sofComponent{
			id:       seg[o],
			h:        int(seg[o+1] >> 4),
			v:        int(seg[o+1] & 0x0F),
			quantSel: seg[o+2],
		}
	}

	hmax, vmax := 0, 0
	for _, c := range comps {
		if c.h > hmax {
			hmax = c.h
		}
		if c.v > vmax {
			vmax = c.v
		}
	}
	img.mcusPerLine = (img.Width + 8*hmax - 1) / (8 * hmax)
	img.mcusPerCol = (img.Height + 8*vmax - 1) / (8 * vmax)

	img.Components = make([]*Component, n)
	for i, c := range comps {
		blockCols := img.mcusPerLine * c.h
		blockRows := img.mcusPerCol * c.v
		coeffs := make([][]int32, blockRows*8)
		for r := range coeffs {
			coeffs[r] = make([]int32, blockCols*8)
		}
		img.Components[i] = &Component{
			ID: c.id, H: c.h, V: c.v,
			BlockRows: blockRows, BlockCols: blockCols,
			Coeffs: coeffs,
		}
	}
	return comps, nil
}

func parseDHT(seg []byte, img *Image) {
	pos := 0
	for pos < len(seg) {
		tcth := seg[pos]
		class := tcth >> 4
		id := int(tcth & 0x0F)
		pos++

		var spec huffSpec
		copy(spec.bits[:], seg[pos:pos+16])
		pos += 16
		total := 0
		for _, b := range spec.bits {
			total += int(b)
		}
		spec.values = append([]byte(nil), seg[pos:pos+total]...)
		pos += total

		if class == 0 {
			img.huffDC[id] = spec
		} else {
			img.huffAC[id] = spec
		}
	}
}

type scanComponent struct {
	comp         *Component
	dcSel, acSel int
}

func (img *Image) decodeScan(seg []byte, scanDataStart int, sofComps []sofComponent) error {
	if len(seg) < 1 {
		return errors.New("jpegdct: truncated SOS")
	}
	ns := int(seg[0])
	if len(seg) < 1+ns*2+3 {
		return errors.New("jpegdct: truncated SOS component list")
	}

	byID := make(map[byte]*Component, len(img.Components))
	for _, c := range img.Components {
		byID[c.ID] = c
	}

	scanComps := make([]scanComponent, ns)
	for i := 0; i < ns; i++ {
		o := 1 + i*2
		cs := seg[o]
		tdta := seg[o+1]
		comp, ok := byID[cs]
		if !ok {
			return fmt.Errorf("jpegdct: SOS references unknown component id %d", cs)
		}
		comp.dcSel = int(tdta >> 4)
		comp.acSel = int(tdta & 0x0F)
		scanComps[i] = scanComponent{comp: comp, dcSel: comp.dcSel, acSel: comp.acSel}
	}

	decDC := map[int]*huffDecodeTable{}
	decAC := map[int]*huffDecodeTable{}
	for id, spec := range img.huffDC {
		decDC[id] = buildDecodeTable(spec)
	}
	for id, spec := range img.huffAC {
		decAC[id] = buildDecodeTable(spec)
	}

	r := newBitReader(img.raw, scanDataStart)
	prevDC := make([]int32, len(scanComps))
	mcuCount := 0
	restartIdx := 0
	totalMCUs := img.mcusPerLine * img.mcusPerCol

	for my := 0; my < img.mcusPerCol; my++ {
		for mx := 0; mx < img.mcusPerLine; mx++ {
			for si, sc := range scanComps {
				dt, ok := decDC[sc.dcSel]
				if !ok {
					return fmt.Errorf("jpegdct: missing DC huffman table %d", sc.dcSel)
				}
				at, ok := decAC[sc.acSel]
				if !ok {
					return fmt.Errorf("jpegdct: missing AC huffman table %d", sc.acSel)
				}
				for by := 0; by < sc.comp.V; by++ {
					for bx := 0; bx < sc.comp.H; bx++ {
						blockRow := my*sc.comp.V + by
						blockCol := mx*sc.comp.H + bx
						if err := decodeBlock(r, sc.comp, blockRow, blockCol, dt, at, &prevDC[si]); err != nil {
							return fmt.Errorf("jpegdct: decoding block (%d,%d): %w", blockRow, blockCol, err)
						}
					}
				}
			}

			mcuCount++
			if img.restartInterval > 0 && mcuCount%img.restartInterval == 0 && mcuCount != totalMCUs {
				if err := r.syncRestart(); err != nil {
					return err
				}
				restartIdx++
				for i := range prevDC {
					prevDC[i] = 0
				}
			}
		}
	}

	img.scanStart = scanDataStart
	img.scanEnd = findScanEnd(img.raw, scanDataStart)
	return nil
}

func decodeBlock(r *bitReader, comp *Component, blockRow, blockCol int, dt, at *huffDecodeTable, prevDC *int32) error {
	s, err := dt.decode(r)
	if err != nil {
		return err
	}
	diff, err := r.receiveExtend(int(s))
	if err != nil {
		return err
	}
	dc := *prevDC + diff
	*prevDC = dc
	comp.Coeffs[blockRow*8][blockCol*8] = dc

	k := 1
	for k <= 63 {
		rs, err := at.decode(r)
		if err != nil {
			return err
		}
		run := int(rs >> 4)
		size := int(rs & 0x0F)
		if size == 0 {
			if run == 15 {
				k += 16
				continue
			}
			break // EOB
		}
		k += run
		if k > 63 {
			return errors.New("jpegdct: AC run overflowed block")
		}
		val, err := r.receiveExtend(size)
		if err != nil {
			return err
		}
		pos := zigzagPos[k]
		comp.Coeffs[blockRow*8+pos[0]][blockCol*8+pos[1]] = val
		k++
	}
	return nil
}

// findScanEnd walks the raw entropy stream from start, skipping stuffed
// 0xFF 0x00 bytes and restart markers, and returns the offset of the first
// byte that begins a real terminating marker (ordinarily EOI).
func findScanEnd(raw []byte, start int) int {
	i := start
	for i < len(raw)-1 {
		if raw[i] == 0xFF {
			b2 := raw[i+1]
			if b2 == 0x00 {
				i += 2
				continue
			}
			if b2 >= 0xD0 && b2 <= 0xD7 {
				i += 2
				continue
			}
			return i
		}
		i++
	}
	return len(raw)
}
