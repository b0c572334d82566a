package manager

import (
	"math"
	"math/rand"
	"time"

	"github.com/pkg/errors"
)

// Swipe durations are drawn from [MinSwipeDuration, MaxSwipeDuration).
const (
	MinSwipeDuration = 500 * time.Millisecond
	MaxSwipeDuration = 1000 * time.Millisecond
)

// ErrEmptyRegion is returned when a region's rounded bounds contain no pixel.
var ErrEmptyRegion = errors.New("region is empty")

// Region is a rectangle on screen: X0 <= x < X1, Y0 <= y < Y1.
// Bounds are rounded to whole pixels before sampling.
type Region struct {
	X0, Y0, X1, Y1 float64
}

func (r Region) randomPoint(rng *rand.Rand) (int, int, error) {
	x, err := randomIn(rng, r.X0, r.X1)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "x in [%v, %v)", r.X0, r.X1)
	}
	y, err := randomIn(rng, r.Y0, r.Y1)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "y in [%v, %v)", r.Y0, r.Y1)
	}
	return x, y, nil
}

func randomIn(rng *rand.Rand, lo, hi float64) (int, error) {
	l, h := int(math.RoundToEven(lo)), int(math.RoundToEven(hi))
	if h <= l {
		return 0, ErrEmptyRegion
	}
	return l + rng.Intn(h-l), nil
}

func swipeDuration(rng *rand.Rand) time.Duration {
	span := int((MaxSwipeDuration - MinSwipeDuration) / time.Millisecond)
	return MinSwipeDuration + time.Duration(rng.Intn(span))*time.Millisecond
}
