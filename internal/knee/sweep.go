package knee

import (
	"fmt"
	"math"

	"github.com/MKhiriev/go-knee-pipeline/models"
)

// SweepResolutions lists the effective resolutions evaluated by the initial
// sweep, from the lower to the upper bound of searchRange (fractions of the
// longer side) in increments of step.
//
// The longer side runs over [ceil(r0*L), ceil(r1*L)] in steps of
// floor(step*L) pixels; the shorter side keeps the aspect ratio, rounded up.
func SweepResolutions(original models.Resolution, searchRange []float64, step float64) ([]models.Resolution, error) {
	if original.Width <= 0 || original.Height <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidBounds, original)
	}
	if len(searchRange) != 2 || searchRange[0] >= searchRange[1] {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRange, searchRange)
	}

	longer := float64(original.Longer())
	shorterMult := float64(original.Shorter()) / longer

	low := int(math.Ceil(searchRange[0] * longer))
	high := int(math.Ceil(searchRange[1]*longer)) + 1
	stride := int(math.Floor(step * longer))
	if stride < 1 {
		return nil, fmt.Errorf("%w: %v of %d px", ErrStepTooSmall, step, original.Longer())
	}

	var out []models.Resolution
	for long := low; long < high; long += stride {
		short := int(math.Ceil(shorterMult * float64(long)))

		r := models.Resolution{Width: short, Height: short}
		if original.Width >= original.Height {
			r.Width = long
		}
		if original.Height >= original.Width {
			r.Height = long
		}
		out = append(out, r)
	}
	return out, nil
}

// ResolutionForFactor converts a degradation factor into an effective
// resolution, truncating each side and clamping it to [1, original].
func ResolutionForFactor(original models.Resolution, factor float64) models.Resolution {
	w := int(factor * float64(original.Width))
	h := int(factor * float64(original.Height))
	return models.Resolution{
		Width:  max(1, min(original.Width, w)),
		Height: max(1, min(original.Height, h)),
	}
}
