// Package jpegdct is a minimal baseline-JPEG coefficient codec: it parses
// just enough of the marker structure (SOF0, DHT, DRI, SOS; DQT and every
// other segment are kept as raw bytes) to
// Huffman-decode each block's *quantized* DCT coefficients without ever
// dequantizing or inverse-transforming them, and can re-Huffman-encode a
// mutated coefficient set using the exact same quantization and Huffman
// tables the source file carried.
//
// This exists because no coefficient-level JPEG library turned up anywhere
// in the retrieved corpus with a public API suited to arbitrary bit
// manipulation of coefficients (github.com/lukechampine/jsteg, the closest
// match, forks the standard decoder the same way this package does but only
// exposes a fixed single-bit-per-coefficient Hide/Reveal, not raw
// coefficient arrays). The technique — fork the entropy decoder, stop
// before the inverse DCT, hand back the Huffman-decoded integers — is
// grounded directly on jsteg's scan.go. See DESIGN.md.
//
// Only baseline (sequential DCT, Huffman-coded) JPEG is supported;
// progressive and arithmetic-coded JPEG are rejected.
package jpegdct
