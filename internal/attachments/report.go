package attachments

// ReadFailure names a file whose bytes could not be read or decoded. It is a
// distinct signal from a policy rejection: the file is skipped, the rest of
// the batch continues, and the UI can tell the user exactly what failed.
type ReadFailure struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// RejectionReport categorizes every candidate of one intake call that did
// not become an attachment. Each list holds original filenames. A fresh
// report is produced per call; categories are never carried across calls.
type RejectionReport struct {
	InvalidFormat             []string      `json:"invalid_format,omitempty"`
	OversizedSource           []string      `json:"oversized_source,omitempty"`
	OversizedAfterCompression []string      `json:"oversized_after_compression,omitempty"`
	TotalSizeExceeded         []string      `json:"total_size_exceeded,omitempty"`
	TooManyImages             []string      `json:"too_many_images,omitempty"`
	ReadFailures              []ReadFailure `json:"read_failures,omitempty"`
}

// IsEmpty reports whether no candidate was rejected or skipped.
func (r RejectionReport) IsEmpty() bool {
	return len(r.InvalidFormat) == 0 &&
		len(r.OversizedSource) == 0 &&
		len(r.OversizedAfterCompression) == 0 &&
		len(r.TotalSizeExceeded) == 0 &&
		len(r.TooManyImages) == 0 &&
		len(r.ReadFailures) == 0
}

// Len counts all rejected and skipped files across categories.
func (r RejectionReport) Len() int {
	return len(r.InvalidFormat) +
		len(r.OversizedSource) +
		len(r.OversizedAfterCompression) +
		len(r.TotalSizeExceeded) +
		len(r.TooManyImages) +
		len(r.ReadFailures)
}

// Merge folds other into r. Used when a batch is processed in slices.
func (r *RejectionReport) Merge(other RejectionReport) {
	r.InvalidFormat = append(r.InvalidFormat, other.InvalidFormat...)
	r.OversizedSource = append(r.OversizedSource, other.OversizedSource...)
	r.OversizedAfterCompression = append(r.OversizedAfterCompression, other.OversizedAfterCompression...)
	r.TotalSizeExceeded = append(r.TotalSizeExceeded, other.TotalSizeExceeded...)
	r.TooManyImages = append(r.TooManyImages, other.TooManyImages...)
	r.ReadFailures = append(r.ReadFailures, other.ReadFailures...)
}

// Category is a stable name for one rejection list, used in metrics labels
// and websocket payloads.
type Category string

const (
	CategoryInvalidFormat             Category = "invalid_format"
	CategoryOversizedSource           Category = "oversized_source"
	CategoryOversizedAfterCompression Category = "oversized_after_compression"
	CategoryTotalSizeExceeded         Category = "total_size_exceeded"
	CategoryTooManyImages             Category = "too_many_images"
)

// Add records filename under the given category.
func (r *RejectionReport) Add(category Category, filename string) {
	switch category {
	case CategoryInvalidFormat:
		r.InvalidFormat = append(r.InvalidFormat, filename)
	case CategoryOversizedSource:
		r.OversizedSource = append(r.OversizedSource, filename)
	case CategoryOversizedAfterCompression:
		r.OversizedAfterCompression = append(r.OversizedAfterCompression, filename)
	case CategoryTotalSizeExceeded:
		r.TotalSizeExceeded = append(r.TotalSizeExceeded, filename)
	case CategoryTooManyImages:
		r.TooManyImages = append(r.TooManyImages, filename)
	}
}

// AddReadFailure records a file that could not be read or decoded.
func (r *RejectionReport) AddReadFailure(filename, reason string) {
	r.ReadFailures = append(r.ReadFailures, ReadFailure{Filename: filename, Reason: reason})
}

// CountsByCategory returns per-category rejection counts for metrics.
func (r RejectionReport) CountsByCategory() map[Category]int {
	counts := make(map[Category]int, 5)
	if n := len(r.InvalidFormat); n > 0 {
		counts[CategoryInvalidFormat] = n
	}
	if n := len(r.OversizedSource); n > 0 {
		counts[CategoryOversizedSource] = n
	}
	if n := len(r.OversizedAfterCompression); n > 0 {
		counts[CategoryOversizedAfterCompression] = n
	}
	if n := len(r.TotalSizeExceeded); n > 0 {
		counts[CategoryTotalSizeExceeded] = n
	}
	if n := len(r.TooManyImages); n > 0 {
		counts[CategoryTooManyImages] = n
	}
	return counts
}
