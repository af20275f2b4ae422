package plantrepo

import (
	"time"

	"github.com/linwei/smartliving/internal/domain/plants"
)

func ptr(v float64) *float64 { return &v }

// DefaultCatalog returns a small starter catalog used when the service runs
// without a database.
func DefaultCatalog() []plants.Plant {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []plants.Plant{
		{
			ID:                 "pothos",
			NameZH:             "绿萝",
			NameEN:             "Pothos",
			DescriptionZH:      "耐阴好养的室内绿植，适合新手。",
			DescriptionEN:      "A shade-tolerant, easy-care houseplant, great for beginners.",
			MeaningZH:          "坚韧善良，守望幸福。",
			MeaningEN:          "Resilience and quiet good fortune.",
			OptimalTempMin:     ptr(18),
			OptimalTempMax:     ptr(28),
			OptimalHumidityMin: ptr(50),
			OptimalHumidityMax: ptr(80),
			CreatedAt:          base,
		},
		{
			ID:                 "spider-plant",
			NameZH:             "吊兰",
			NameEN:             "Spider Plant",
			DescriptionZH:      "净化空气能力强，悬挂摆放皆宜。",
			DescriptionEN:      "A strong air purifier that works hanging or potted.",
			MeaningZH:          "朴实无华，生生不息。",
			MeaningEN:          "Simplicity and endless vitality.",
			OptimalTempMin:     ptr(15),
			OptimalTempMax:     ptr(25),
			OptimalHumidityMin: ptr(40),
			OptimalHumidityMax: ptr(70),
			CreatedAt:          base.Add(time.Hour),
		},
		{
			ID:                 "lucky-bamboo",
			NameZH:             "富贵竹",
			NameEN:             "Lucky Bamboo",
			DescriptionZH:      "水培土培均可，寓意吉祥。",
			DescriptionEN:      "Grows in water or soil and symbolizes good luck.",
			MeaningZH:          "花开富贵，竹报平安。",
			MeaningEN:          "Prosperity and peace.",
			OptimalTempMin:     ptr(16),
			OptimalTempMax:     ptr(26),
			OptimalHumidityMin: ptr(50),
			OptimalHumidityMax: ptr(75),
			CreatedAt:          base.Add(2 * time.Hour),
		},
	}
}
