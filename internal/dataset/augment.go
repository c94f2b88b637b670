package dataset

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"leafsense/internal/types"
)

// Augmenter expands a dataset to a target row count by resampling existing
// rows and jittering their numeric fields. Original rows pass through
// untouched and keep their positions.
type Augmenter struct {
	rng *rand.Rand
	now time.Time
}

// NewAugmenter creates an Augmenter seeded for reproducible output.
func NewAugmenter(seed int64) *Augmenter {
	return &Augmenter{
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now().UTC(),
	}
}

// Augment returns a dataset of exactly target rows. The first len(rows)
// entries are the input rows, unmodified; the remainder are jittered copies
// of randomly selected base rows with fresh sample IDs and timestamps.
// If the input already has target or more rows, it is returned as-is.
func (a *Augmenter) Augment(rows []types.Sample, target int) []types.Sample {
	if len(rows) >= target {
		return rows
	}

	out := make([]types.Sample, 0, target)
	out = append(out, rows...)

	for i := 0; len(out) < target; i++ {
		base := rows[a.rng.Intn(len(rows))]
		out = append(out, a.vary(base, len(rows)+i+1))
	}
	return out
}

// vary produces one jittered copy of base with a new sequential sample ID.
func (a *Augmenter) vary(base types.Sample, id int) types.Sample {
	s := base
	s.SampleID = fmt.Sprintf("SAMPLE_%06d", id)
	s.Timestamp = a.now.AddDate(0, 0, -a.rng.Intn(366))

	age := base.PlantAgeDays + a.randint(-10, 10)
	if age < minPlantAge {
		age = minPlantAge
	}
	s.PlantAgeDays = age

	s.SoilPH = round(clamp(base.SoilPH+a.uniform(-0.3, 0.3), minSoilPH, maxSoilPH), 2)
	s.SoilMoisture = round(clamp(base.SoilMoisture+a.uniform(-5, 5), minMoisture, maxMoisture), 1)
	s.Temperature = round(clamp(base.Temperature+a.uniform(-2, 2), minTemp, maxTemp), 1)
	s.Humidity = round(clamp(base.Humidity+a.uniform(-5, 5), minHumidity, maxHumidity), 1)

	// Lesion fields only vary when the base row actually shows lesions.
	if base.LesionPresent {
		count := base.LesionCount + a.randint(-3, 3)
		if count < 0 {
			count = 0
		}
		s.LesionCount = count
		s.SpotSize = round(math.Max(0, base.SpotSize+a.uniform(-1, 1)), 1)
	}

	return s
}

// randint draws an integer from [lo, hi] inclusive.
func (a *Augmenter) randint(lo, hi int) int {
	return lo + a.rng.Intn(hi-lo+1)
}

// uniform draws from [lo, hi).
func (a *Augmenter) uniform(lo, hi float64) float64 {
	return lo + a.rng.Float64()*(hi-lo)
}
