package analyze

import (
	"math"

	"github.com/sdejongh/safedel/pkg/models"
)

// SizeStats derives the informational log2 and sqrt figures from a file size.
// Zero and unknown sizes never reach the logarithm.
func SizeStats(size models.Size) models.SizeStats {
	stats := models.SizeStats{Size: size}
	if !size.Known {
		return stats
	}
	if size.Bytes <= 0 {
		stats.Empty = true
		return stats
	}

	stats.Log2 = math.Log2(float64(size.Bytes))
	stats.Sqrt = math.Sqrt(float64(size.Bytes))
	return stats
}

// RecreationEffort returns sqrt(size)/10 in arbitrary units.
// The figure is purely illustrative; it is unknown when size is missing or zero.
func RecreationEffort(size models.Size) models.Effort {
	if !size.Known || size.Bytes <= 0 {
		return models.Effort{}
	}
	return models.Effort{Units: math.Sqrt(float64(size.Bytes)) / 10, Known: true}
}
