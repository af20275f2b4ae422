package recommend

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linwei/smartliving/pkg/i18n"
)

func TestClothingForBands(t *testing.T) {
	cases := []struct {
		name    string
		temp    float64
		commute string
	}{
		{"freezing", -5, "Down jacket, thick coat, scarf"},
		{"just below cold boundary", 9.9, "Down jacket, thick coat, scarf"},
		{"boundary ten", 10, "Windbreaker, light jacket, pants"},
		{"mild", 15, "Windbreaker, light jacket, pants"},
		{"boundary twenty", 20, "Shirt, light jacket, pants"},
		{"warm", 27.9, "Shirt, light jacket, pants"},
		{"boundary twenty eight", 28, "Short sleeves, light clothing, sun protection"},
		{"hot", 35, "Short sleeves, light clothing, sun protection"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClothingFor(tc.temp, i18n.English)
			require.Equal(t, tc.commute, got.Commute)
			require.NotEmpty(t, got.Home)
			require.NotEmpty(t, got.Sport)
		})
	}
}

func TestClothingForChinese(t *testing.T) {
	got := ClothingFor(5, i18n.Chinese)
	require.Equal(t, "羽绒服、厚外套、围巾", got.Commute)
	require.Equal(t, "毛衣、长裤、拖鞋", got.Home)
}

func TestAdviceForMatrix(t *testing.T) {
	cases := []struct {
		name     string
		humidity float64
		pm25     float64
		want     []string
	}{
		{
			name:     "all nominal",
			humidity: 55,
			pm25:     75,
			want:     []string{"✅ Environment conditions are good"},
		},
		{
			name:     "low humidity only",
			humidity: 30,
			pm25:     75,
			want:     []string{"💧 Low humidity, recommend using humidifier"},
		},
		{
			name:     "high humidity and poor air",
			humidity: 80,
			pm25:     150,
			want: []string{
				"🌡️ High humidity, recommend using dehumidifier",
				"😷 Poor air quality, recommend using air purifier",
			},
		},
		{
			name:     "low humidity and clean air",
			humidity: 20,
			pm25:     10,
			want: []string{
				"💧 Low humidity, recommend using humidifier",
				"🪟 Good air quality, suitable for opening windows",
			},
		},
		{
			name:     "boundary values trigger nothing",
			humidity: 40,
			pm25:     50,
			want:     []string{"✅ Environment conditions are good"},
		},
		{
			name:     "upper boundaries trigger nothing",
			humidity: 70,
			pm25:     100,
			want:     []string{"✅ Environment conditions are good"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, AdviceFor(tc.humidity, tc.pm25, i18n.English))
		})
	}
}

func TestAdviceForDeterministic(t *testing.T) {
	first := AdviceFor(80, 150, i18n.Chinese)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, AdviceFor(80, 150, i18n.Chinese))
	}
}
