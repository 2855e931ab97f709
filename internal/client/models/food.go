package models

// FoodItem is a search or barcode hit.
type FoodItem struct {
	ID               int64      `json:"id,omitempty"`
	Name             string     `json:"name"`
	Brand            string     `json:"brand,omitempty"`
	Barcode          string     `json:"barcode,omitempty"`
	Nutrition        *Nutrition `json:"nutrition,omitempty"`
	HasNutrition     bool       `json:"hasNutrition"`
	Source           string     `json:"source,omitempty"`
	AvailableOffline bool       `json:"available_offline"`
	NutriscoreGrade  string     `json:"nutriscore_grade,omitempty"`
}

type FoodSearchResponse struct {
	Query        string     `json:"query"`
	TotalResults int        `json:"total_results"`
	LocalResults int        `json:"local_results"`
	CachedNew    int        `json:"cached_new"`
	APIUsed      string     `json:"api_used,omitempty"`
	Foods        []FoodItem `json:"foods"`
}

type BarcodeSearchResponse struct {
	Barcode string    `json:"barcode"`
	Found   bool      `json:"found"`
	Source  string    `json:"source,omitempty"`
	Food    *FoodItem `json:"food,omitempty"`
	Message string    `json:"message,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// FoodDetail is the full record from /api/foods/{id}/complete. Nutrition is
// per 100 g and nil when HasNutrition is false.
type FoodDetail struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Brand        string     `json:"brand,omitempty"`
	Barcode      string     `json:"barcode,omitempty"`
	Nutrition    *Nutrition `json:"nutrition,omitempty"`
	HasNutrition bool       `json:"hasNutrition"`
}

// Scaled returns n for grams of food, given n is per 100 g.
func (n Nutrition) Scaled(grams float64) Nutrition {
	f := grams / 100
	return Nutrition{
		Calories: n.Calories * f,
		Protein:  n.Protein * f,
		Carbs:    n.Carbs * f,
		Fat:      n.Fat * f,
		Fiber:    n.Fiber * f,
		Sugar:    n.Sugar * f,
		Sodium:   n.Sodium * f,
		Unit:     n.Unit,
	}
}
