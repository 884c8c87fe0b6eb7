package models

// MaxEntropy is the upper bound of Shannon entropy over byte values, in bits per byte
const MaxEntropy = 8.0

// Entropy is the Shannon entropy of a file's byte distribution
type Entropy struct {
	// Bits per byte, always within [0, MaxEntropy]
	Bits float64

	// Empty is set when the file has no bytes; Bits is then exactly 0
	Empty bool
}

// SizeStats holds informational size-derived figures
type SizeStats struct {
	Size  Size
	Log2  float64
	Sqrt  float64
	Empty bool
}

// Effort is the illustrative recreation-effort figure, sqrt(size)/10.
// It is arbitrary and must not be read as a real cost.
type Effort struct {
	Units float64
	Known bool
}

// Analysis collects the independent content analyses of a file
type Analysis struct {
	Hash    Result[string]
	Entropy Result[Entropy]
	Size    SizeStats
	Effort  Effort
}
