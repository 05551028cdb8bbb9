package position

import "stegcore/internal/jpegdct"

// JPEGSlot addresses one AC coefficient of one component.
type JPEGSlot struct {
	Component int
	Row, Col  int
}

// excludedACValues are never selected as embedding slots: {0, 1} carry no
// safely-flippable low bit without perceptible artifacts at that magnitude,
// -1 is the LSB-flip target of a hypothetical -2 slot, and -2 itself is
// excluded because flipping its LSB toward 1 produces -1 — a value the
// extractor's own re-enumeration of the stego file would then skip,
// desynchronizing the sequence between embed and extract. Excluding -2 up
// front keeps the excluded set closed under the embed transformation: no
// coefficient outside it can ever land inside it by a single LSB flip.
var excludedACValues = map[int32]bool{-2: true, -1: true, 0: true, 1: true}

// JPEGSequence enumerates every eligible AC coefficient of img, in
// component order (as declared in SOF0, conventionally Y, Cb, Cr) and
// row-major order within each component's coefficient plane. DC
// coefficients (block-local position (0,0)) are never eligible. No keyed
// permutation is applied: JPEG embedding is always sequential, since
// coefficient eligibility itself already depends on cover content.
func JPEGSequence(img *jpegdct.Image) []JPEGSlot {
	var out []JPEGSlot
	for ci, comp := range img.Components {
		rows, cols := comp.Rows(), comp.Cols()
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				if r%8 == 0 && c%8 == 0 {
					continue
				}
				if excludedACValues[comp.Coeffs[r][c]] {
					continue
				}
				out = append(out, JPEGSlot{Component: ci, Row: r, Col: c})
			}
		}
	}
	return out
}
