// Package dataset produces and transforms the synthetic plant-disease
// dataset: generation from fixed category tables, augmentation by resampling
// and jittering, and CSV serialization with a fixed column header.
package dataset

// CropDiseases pairs a crop with the diseases observed for it. Crops are kept
// in a slice (not a map) so generation order is deterministic under a seed.
type CropDiseases struct {
	Crop     string
	Diseases []string
}

// Crops enumerates the supported crops and their common diseases.
// "Healthy" is always the first entry.
var Crops = []CropDiseases{
	{"Tomato", []string{
		"Healthy", "Early_Blight", "Late_Blight", "Leaf_Mold",
		"Septoria_Leaf_Spot", "Bacterial_Spot", "Yellow_Leaf_Curl_Virus",
	}},
	{"Potato", []string{
		"Healthy", "Early_Blight", "Late_Blight", "Bacterial_Wilt",
	}},
	{"Wheat", []string{
		"Healthy", "Rust", "Powdery_Mildew", "Septoria_Tritici_Blotch",
	}},
	{"Rice", []string{
		"Healthy", "Bacterial_Leaf_Blight", "Brown_Spot", "Leaf_Smut",
	}},
	{"Corn", []string{
		"Healthy", "Northern_Leaf_Blight", "Gray_Leaf_Spot", "Common_Rust",
	}},
	{"Cotton", []string{
		"Healthy", "Bacterial_Blight", "Fusarium_Wilt", "Verticillium_Wilt",
	}},
	{"Soybean", []string{
		"Healthy", "Frogeye_Leaf_Spot", "Downy_Mildew", "Bacterial_Blight",
	}},
	{"Pepper", []string{
		"Healthy", "Bacterial_Spot", "Phytophthora_Blight",
	}},
}

// Regions enumerates the growing regions observations can come from.
var Regions = []string{
	"North", "South", "East", "West", "Central",
	"Northeast", "Northwest", "Southeast", "Southwest",
}

// HealthyLeafColors and DiseasedLeafColors are the leaf color vocabularies
// for healthy and diseased plants. Diseased plants may still show healthy
// colors (early infection), so generation draws from both sets for them.
var (
	HealthyLeafColors  = []string{"Dark_Green", "Green"}
	DiseasedLeafColors = []string{"Yellow", "Yellow_Green", "Brown", "Light_Green", "Pale_Green"}
)

// NutrientDeficiencies enumerates visible deficiency signs; index 0 is the
// "no sign" value.
var NutrientDeficiencies = []string{
	"None", "Nitrogen", "Phosphorus", "Potassium", "Magnesium", "Iron", "Calcium",
}

// Severities enumerates disease severity grades for diseased samples.
// Healthy samples carry severity "None".
var Severities = []string{"Mild", "Moderate", "Severe"}
