package dataset

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"leafsense/internal/types"
)

// Value ranges for the continuous environmental readings. Generation samples
// uniformly inside these bounds; augmentation clamps jittered values back
// into them.
const (
	minPlantAge = 20
	maxPlantAge = 150
	minSoilPH   = 5.5
	maxSoilPH   = 8.0
	minMoisture = 15.0
	maxMoisture = 85.0
	minTemp     = 15.0
	maxTemp     = 38.0
	minHumidity = 30.0
	maxHumidity = 95.0

	maxLesionCount = 25
	maxSpotSize    = 15.0
)

// Generator produces labeled synthetic Observations from the fixed category
// tables. All randomness flows through the seeded source, so a Generator
// with a fixed seed is fully deterministic.
type Generator struct {
	rng *rand.Rand
	now time.Time
}

// NewGenerator creates a Generator seeded for reproducible output. The
// current time anchors the trailing-year timestamp window.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now().UTC(),
	}
}

// Generate produces n labeled samples with sequential sample IDs starting
// at SAMPLE_000001.
func (g *Generator) Generate(n int) []types.Sample {
	samples := make([]types.Sample, 0, n)
	for i := 0; i < n; i++ {
		samples = append(samples, g.sample(i+1))
	}
	return samples
}

// sample generates a single plant observation.
func (g *Generator) sample(id int) types.Sample {
	crop := Crops[g.rng.Intn(len(Crops))]
	disease := crop.Diseases[g.rng.Intn(len(crop.Diseases))]
	healthy := disease == "Healthy"

	s := types.Sample{
		SampleID:     fmt.Sprintf("SAMPLE_%06d", id),
		Timestamp:    g.now.AddDate(0, 0, -g.rng.Intn(366)),
		LabelDisease: disease,
	}
	s.CropType = crop.Crop
	s.PlantAgeDays = minPlantAge + g.rng.Intn(maxPlantAge-minPlantAge+1)
	s.LocationRegion = Regions[g.rng.Intn(len(Regions))]
	s.SoilPH = round(g.uniform(minSoilPH, maxSoilPH), 2)
	s.SoilMoisture = round(g.uniform(minMoisture, maxMoisture), 1)
	s.Temperature = round(g.uniform(minTemp, maxTemp), 1)
	s.Humidity = round(g.uniform(minHumidity, maxHumidity), 1)

	if healthy {
		s.LeafColor = HealthyLeafColors[g.rng.Intn(len(HealthyLeafColors))]
		s.LesionPresent = false
		s.LesionCount = 0
		s.SpotSize = 0
		// Healthy plants mostly show no deficiency signs: 3-in-4 "None",
		// otherwise a uniform draw over the real deficiencies.
		if g.rng.Intn(4) == 3 {
			s.NutrientDef = NutrientDeficiencies[1+g.rng.Intn(len(NutrientDeficiencies)-1)]
		} else {
			s.NutrientDef = "None"
		}
		s.Severity = "None"
	} else {
		colors := append(append([]string{}, DiseasedLeafColors...), HealthyLeafColors...)
		s.LeafColor = colors[g.rng.Intn(len(colors))]
		s.LesionPresent = g.rng.Intn(3) < 2
		if s.LesionPresent {
			s.LesionCount = g.rng.Intn(maxLesionCount + 1)
			s.SpotSize = round(g.uniform(0, maxSpotSize), 1)
		}
		s.NutrientDef = NutrientDeficiencies[g.rng.Intn(len(NutrientDeficiencies))]
		s.Severity = Severities[g.rng.Intn(len(Severities))]
	}

	return s
}

// uniform draws from [lo, hi).
func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// round rounds x to the given number of decimal places.
func round(x float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(x*p) / p
}

// clamp bounds x into [lo, hi].
func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
