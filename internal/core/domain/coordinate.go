package domain

// MaxBatchSize is the largest number of coordinates the remote service accepts in one request.
const MaxBatchSize = 128

// Coordinate identifies a package and version, e.g. "pkg:gem/rails@7.1.3".
// It is used verbatim as the cache key.
type Coordinate string

// String returns the coordinate as a plain string.
func (c Coordinate) String() string {
	return string(c)
}

// Batch is an ordered group of coordinates sent in a single remote request.
type Batch []Coordinate

// SplitBatches splits coords into consecutive batches of at most size entries,
// preserving order. A size outside (0, MaxBatchSize] is clamped to MaxBatchSize.
// The returned batches share the backing array of coords.
func SplitBatches(coords []Coordinate, size int) []Batch {
	if size <= 0 || size > MaxBatchSize {
		size = MaxBatchSize
	}
	if len(coords) == 0 {
		return nil
	}

	batches := make([]Batch, 0, (len(coords)+size-1)/size)
	for start := 0; start < len(coords); start += size {
		end := min(start+size, len(coords))
		batches = append(batches, Batch(coords[start:end:end]))
	}
	return batches
}
