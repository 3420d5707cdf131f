package heliacal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeliacalEvents_KeepsOrder(t *testing.T) {
	p := Profile{Location: athens, Atmosphere: standard, Observer: nakedEye}
	reqs := []Request{
		p.Request(jan2025, "sun", MorningFirst),
		p.Request(jan2025, "moon", EveningLast),
		p.Request(jan2025, "mars", AcronychalSetting),
	}

	results, err := New(aboveSky, WithWorkers(2)).HeliacalEvents(context.Background(), reqs)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	require.Len(t, results, 3)
	assert.Contains(t, results[0].Message, "the sun has no heliacal rising or setting")
	assert.Contains(t, results[1].Message, "does not exist for the moon")
	assert.Contains(t, results[2].Message, "is not provided for mars")
	for _, r := range results {
		assert.Equal(t, StatusError, r.Status)
	}
}

func TestHeliacalEvents_NotFoundIsNoError(t *testing.T) {
	p := Profile{Location: polarSite, Atmosphere: standard, Observer: nakedEye, Flags: Search1Period}
	reqs := []Request{
		p.Request(jan2025, "polaris", MorningFirst),
		p.Request(jan2025+100, "polaris", MorningFirst),
	}

	results, err := New(circumpolarStar(), WithWorkers(1)).HeliacalEvents(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, StatusNotFound, r.Status)
	}
}

func TestHeliacalEvents_Empty(t *testing.T) {
	results, err := New(aboveSky).HeliacalEvents(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
