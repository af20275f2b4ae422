package assistant

import (
	"fmt"

	"github.com/linwei/smartliving/pkg/i18n"
)

// fallbackCareGuide is the hand-written guide substituted when the guide
// generator fails for any reason. Unlike free chat, this path never surfaces
// an error because a complete canned answer exists.
func fallbackCareGuide(plantName string, lang i18n.Language) string {
	if lang == i18n.English {
		return fmt.Sprintf(`# %s Care Guide

## 1. Light Requirements
Place in bright, indirect light. Avoid strong direct sunlight.

## 2. Watering Method
Keep soil moist but not waterlogged. Water every 2-3 days in spring/summer, reduce in fall/winter.

## 3. Temperature Requirements
Ideal temperature is 18-28°C. Avoid sudden temperature changes.

## 4. Humidity Control
Prefers higher humidity. Mist leaves regularly.

## 5. Fertilizing Recommendations
Apply diluted liquid fertilizer 1-2 times monthly during growing season.

## 6. Soil Configuration
Use loose, well-draining soil mix.

## 7. Common Issues
- Yellowing leaves: Overwatering or insufficient light
- Slow growth: May need more frequent fertilization
- Dry leaves: Air humidity may be too low

## 8. Special Notes
Note: These are general care guidelines. Adjust based on your plant's specific needs.`, plantName)
	}
	return fmt.Sprintf(`# %s养护指南

## 1. 光照需求
建议放置在光线明亮处，避免强烈直射阳光。

## 2. 浇水方法
保持土壤湿润，但避免积水。春夏季节每2-3天浇水一次，秋冬季节适当减少。

## 3. 温度要求
适宜温度为18-28°C，注意避免温度剧烈变化。

## 4. 湿度控制
喜欢较高的空气湿度，可定期向叶面喷水。

## 5. 施肥建议
生长期每月施肥1-2次，使用稀释的液体肥料。

## 6. 土壤配置
使用疏松透气、排水良好的土壤。

## 7. 常见问题
- 叶片发黄：可能是浇水过多或光照不足
- 生长缓慢：可能需要增加施肥频率
- 叶片干枯：空气湿度可能过低

## 8. 特别提示
注：以上为通用养护建议，具体养护方式请根据植物实际情况调整。`, plantName)
}
