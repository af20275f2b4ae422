package assistant

import (
	"fmt"

	"github.com/linwei/smartliving/pkg/i18n"
)

// systemPromptFor returns one of the four canned chat personas
// (outfit/plant × zh/en).
func systemPromptFor(context ContextTag, lang i18n.Language) string {
	if context == ContextOutfit {
		return i18n.T(lang,
			"你是一位友好的穿搭助手，帮助用户选择合适的服装搭配。请提供实用、时尚的建议。",
			"You are a friendly outfit assistant helping users choose suitable clothing combinations. Provide practical and fashionable advice.")
	}
	return i18n.T(lang,
		"你是一位友好的植物养护助手，帮助用户照顾好他们的植物。请提供专业、易懂的建议。",
		"You are a friendly plant care assistant helping users take care of their plants. Provide professional and easy-to-understand advice.")
}

func outfitAdvicePrompts(temperature, humidity int, city string, lang i18n.Language) (string, string) {
	system := i18n.T(lang,
		"你是一位专业的穿搭顾问，根据天气情况为用户提供穿搭建议。请给出简洁、实用的建议，包括上衣、下装、鞋子和配饰的推荐。",
		"You are a professional fashion consultant who provides outfit recommendations based on weather conditions. Give concise and practical advice including tops, bottoms, shoes, and accessories.")
	user := i18n.T(lang,
		fmt.Sprintf("我在%s，现在的温度是%d°C，湿度是%d%%。请给我一些穿搭建议。", city, temperature, humidity),
		fmt.Sprintf("I'm in %s, the current temperature is %d°C and humidity is %d%%. Please give me some outfit suggestions.", city, temperature, humidity))
	return system, user
}

func plantCareAdvicePrompts(plantName, question string, lang i18n.Language) (string, string) {
	system := i18n.T(lang,
		"你是一位专业的植物养护专家，为用户提供植物养护建议。请给出准确、详细的养护指导，包括浇水、光照、温度、湿度、施肥等方面的建议。",
		"You are a professional plant care expert who provides plant care advice. Give accurate and detailed care instructions including watering, light, temperature, humidity, and fertilization.")
	user := i18n.T(lang,
		fmt.Sprintf("我种植的是%s，我想问：%s", plantName, question),
		fmt.Sprintf("I'm growing %s, and I want to ask: %s", plantName, question))
	return system, user
}

func careGuidePrompts(plantName string, lang i18n.Language) (string, string) {
	system := i18n.T(lang,
		fmt.Sprintf(`你是一位专业的园艺专家。用户会输入植物名称，请提供详细的养护指南。

请按以下格式输出（使用markdown格式）：

# %s养护指南

## 1. 光照需求
[详细说明该植物的光照需求，包括光照强度、时长等]

## 2. 浇水方法
[详细说明浇水频率、水量、季节差异等]

## 3. 温度要求
[说明适宜的生长温度范围]

## 4. 湿度控制
[说明空气湿度要求和调节方法]

## 5. 施肥建议
[说明施肥类型、频率和注意事项]

## 6. 土壤配置
[说明土壤类型和配方]

## 7. 常见问题
[列举3-4个常见问题及解决方法]

## 8. 特别提示
[给出重要的养护提醒]

请确保内容专业、实用、易懂。如果该植物名称不存在或无法识别，请说明并提供最接近的植物建议。`, plantName),
		fmt.Sprintf(`You are a professional horticulture expert. Users will input plant names, and you should provide detailed care guides.

Please output in the following format (using markdown):

# %s Care Guide

## 1. Light Requirements
[Detailed explanation of light needs, including intensity and duration]

## 2. Watering Method
[Detailed watering frequency, amount, and seasonal variations]

## 3. Temperature Requirements
[Specify optimal temperature range]

## 4. Humidity Control
[Explain humidity requirements and adjustment methods]

## 5. Fertilizing Recommendations
[Specify fertilizer types, frequency, and precautions]

## 6. Soil Configuration
[Explain soil types and formulas]

## 7. Common Issues
[List 3-4 common problems and solutions]

## 8. Special Notes
[Provide important care reminders]

Ensure content is professional, practical, and easy to understand. If the plant name doesn't exist or cannot be identified, explain this and suggest the closest alternative.`, plantName))
	user := i18n.T(lang,
		fmt.Sprintf("请为\"%s\"提供详细的养护指南。", plantName),
		fmt.Sprintf("Please provide a detailed care guide for \"%s\".", plantName))
	return system, user
}

// emptyReplyPlaceholder is returned when the provider answers with zero
// completion choices.
func emptyReplyPlaceholder(lang i18n.Language) string {
	return i18n.T(lang, "抱歉，我现在无法回复。", "Sorry, I cannot respond right now.")
}
