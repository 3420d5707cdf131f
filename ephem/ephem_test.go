package ephem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseObject(t *testing.T) {
	tests := []struct {
		in   string
		star bool
		body Body
		name string
	}{
		{"Venus", false, Venus, "venus"},
		{"MERCURY", false, Mercury, "mercury"},
		{"moon", false, Moon, "moon"},
		{" sun ", false, Sun, "sun"},
		{"Neptun", false, Neptune, "neptune"},
		{"433", false, AsteroidOffset + 433, "433"},
		{"Sirius", true, -1, "sirius"},
		{"0", true, -1, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			obj := ParseObject(tt.in)
			assert.Equal(t, tt.star, obj.IsStar())
			assert.Equal(t, tt.body, obj.Body())
			assert.Equal(t, tt.name, obj.Name())
		})
	}
}

func TestObjectIs(t *testing.T) {
	assert.True(t, Planet(Moon).Is(Moon))
	assert.False(t, Planet(Moon).Is(Sun))
	assert.False(t, Star("sun").Is(Sun))
}

func TestBodyString(t *testing.T) {
	assert.Equal(t, "jupiter", Jupiter.String())
	assert.Equal(t, "body(42)", Body(42).String())
}
