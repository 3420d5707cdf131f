package heliacal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlProfile = `
location:
  lon: 23.72
  lat: 37.97
  height: 100
atmosphere:
  pressure: 1013.25
  temperature: 15
  humidity: 40
  visual_range: 0.25
observer:
  age: 36
  snellen: 1
  binocular: true
flags: 2048
`

const tomlProfile = `
flags = 3072

[location]
lon = 23.72
lat = 37.97
height = 100

[atmosphere]
pressure = 1013.25
temperature = 15
humidity = 40

[observer]
age = 50
snellen = 1.2
`

func TestDecodeProfile_YAML(t *testing.T) {
	p, err := DecodeProfile(strings.NewReader(yamlProfile), "yaml")
	require.NoError(t, err)

	assert.Equal(t, athens, p.Location)
	assert.Equal(t, 0.25, p.Atmosphere.VisualRange)
	assert.True(t, p.Observer.Binocular)
	assert.Equal(t, Search1Period, p.Flags)

	req := p.Request(jan2025, "venus", EveningFirst)
	assert.Equal(t, "venus", req.Object)
	assert.Equal(t, EveningFirst, req.Event)
	assert.Equal(t, p.Location, req.Location)
	assert.Equal(t, Search1Period, req.Flags)
}

func TestDecodeProfile_TOML(t *testing.T) {
	p, err := DecodeProfile(strings.NewReader(tomlProfile), "TOML")
	require.NoError(t, err)

	assert.Equal(t, athens, p.Location)
	assert.Equal(t, standard, p.Atmosphere)
	assert.Equal(t, Observer{Age: 50, Snellen: 1.2}, p.Observer)
	assert.True(t, p.Flags.Has(Search1Period|NoDetails))
}

func TestDecodeProfile_Errors(t *testing.T) {
	_, err := DecodeProfile(strings.NewReader(yamlProfile), "json")
	assert.EqualError(t, err, `unsupported profile format "json"`)

	_, err = DecodeProfile(strings.NewReader("location: [1, 2"), "yml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse profile")

	_, err = DecodeProfile(strings.NewReader("[location]\nheight = 25000\n"), "toml")
	assert.ErrorIs(t, err, ErrValidation)
}
