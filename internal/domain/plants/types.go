package plants

import "time"

// Plant is a catalog row with bilingual content and optimal ranges.
type Plant struct {
	ID                 string    `json:"id"`
	NameZH             string    `json:"nameZh"`
	NameEN             string    `json:"nameEn"`
	DescriptionZH      string    `json:"descriptionZh,omitempty"`
	DescriptionEN      string    `json:"descriptionEn,omitempty"`
	MeaningZH          string    `json:"meaningZh,omitempty"`
	MeaningEN          string    `json:"meaningEn,omitempty"`
	CareGuideZH        string    `json:"careGuideZh,omitempty"`
	CareGuideEN        string    `json:"careGuideEn,omitempty"`
	ImageURL           string    `json:"imageUrl,omitempty"`
	OptimalTempMin     *float64  `json:"optimalTempMin,omitempty"`
	OptimalTempMax     *float64  `json:"optimalTempMax,omitempty"`
	OptimalHumidityMin *float64  `json:"optimalHumidityMin,omitempty"`
	OptimalHumidityMax *float64  `json:"optimalHumidityMax,omitempty"`
	IsDailyFeatured    bool      `json:"isDailyFeatured"`
	FeaturedDate       string    `json:"featuredDate,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

// UserPlant is one plant in a user's garden.
type UserPlant struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	PlantID    string    `json:"plantId"`
	CustomName string    `json:"customName,omitempty"`
	ImageURL   string    `json:"imageUrl,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CareRecord is one entry in the plant care log.
type CareRecord struct {
	ID          string    `json:"id"`
	UserPlantID string    `json:"userPlantId"`
	Action      string    `json:"action"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AddPlantRequest adds a catalog plant to a user's garden.
type AddPlantRequest struct {
	PlantID    string `json:"plantId" binding:"required"`
	CustomName string `json:"customName"`
	ImageURL   string `json:"imageUrl"`
	Notes      string `json:"notes"`
}

// CareRecordRequest logs one care action for a user plant.
type CareRecordRequest struct {
	Action string `json:"action" binding:"required"`
	Notes  string `json:"notes"`
}
