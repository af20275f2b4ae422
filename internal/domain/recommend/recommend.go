// Package recommend derives clothing and home-environment advice from an
// environment reading. Everything here is pure: no I/O, no clock, identical
// inputs always produce identical outputs.
package recommend

import "github.com/linwei/smartliving/pkg/i18n"

// Clothing holds one outfit suggestion per daily scenario.
type Clothing struct {
	Commute string `json:"commute"`
	Home    string `json:"home"`
	Sport   string `json:"sport"`
}

// Humidity and PM2.5 thresholds for the environment advisories.
const (
	humidityLow  = 40
	humidityHigh = 70
	pm25Good     = 50
	pm25Poor     = 100
)

// ClothingFor maps temperature into one of four fixed outfit bands. Bands are
// closed on the left: exactly 10°C lands in the second band, 20°C in the
// third, 28°C in the fourth.
func ClothingFor(tempC float64, lang i18n.Language) Clothing {
	switch {
	case tempC < 10:
		return Clothing{
			Commute: i18n.T(lang, "羽绒服、厚外套、围巾", "Down jacket, thick coat, scarf"),
			Home:    i18n.T(lang, "毛衣、长裤、拖鞋", "Sweater, pants, slippers"),
			Sport:   i18n.T(lang, "运动外套、长袖运动服", "Sports jacket, long-sleeve sportswear"),
		}
	case tempC < 20:
		return Clothing{
			Commute: i18n.T(lang, "风衣、薄外套、长裤", "Windbreaker, light jacket, pants"),
			Home:    i18n.T(lang, "长袖T恤、休闲裤", "Long-sleeve t-shirt, casual pants"),
			Sport:   i18n.T(lang, "运动夹克、运动裤", "Sports jacket, sports pants"),
		}
	case tempC < 28:
		return Clothing{
			Commute: i18n.T(lang, "衬衫、轻薄外套、长裤", "Shirt, light jacket, pants"),
			Home:    i18n.T(lang, "T恤、短裤或长裤", "T-shirt, shorts or pants"),
			Sport:   i18n.T(lang, "运动T恤、运动短裤", "Sports t-shirt, sports shorts"),
		}
	default:
		return Clothing{
			Commute: i18n.T(lang, "短袖、轻薄衣物、防晒", "Short sleeves, light clothing, sun protection"),
			Home:    i18n.T(lang, "背心、短裤、凉鞋", "Tank top, shorts, sandals"),
			Sport:   i18n.T(lang, "速干T恤、运动短裤", "Quick-dry t-shirt, sports shorts"),
		}
	}
}

// AdviceFor evaluates humidity and PM2.5 independently; both advisories may
// appear together, the humidity one first. When nothing triggers it returns
// the single "conditions are good" message.
func AdviceFor(humidityPct, pm25 float64, lang i18n.Language) []string {
	advice := make([]string, 0, 2)

	if humidityPct < humidityLow {
		advice = append(advice, i18n.T(lang, "💧 湿度偏低，建议开启加湿器", "💧 Low humidity, recommend using humidifier"))
	} else if humidityPct > humidityHigh {
		advice = append(advice, i18n.T(lang, "🌡️ 湿度偏高，建议开启除湿器", "🌡️ High humidity, recommend using dehumidifier"))
	}

	if pm25 < pm25Good {
		advice = append(advice, i18n.T(lang, "🪟 空气质量良好，适合开窗通风", "🪟 Good air quality, suitable for opening windows"))
	} else if pm25 > pm25Poor {
		advice = append(advice, i18n.T(lang, "😷 空气质量差，建议开启空气净化器", "😷 Poor air quality, recommend using air purifier"))
	}

	if len(advice) == 0 {
		return []string{i18n.T(lang, "✅ 环境状况良好", "✅ Environment conditions are good")}
	}
	return advice
}
