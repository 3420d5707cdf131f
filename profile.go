package heliacal

import (
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Profile bundles the observing circumstances that usually stay fixed
// between searches.
type Profile struct {
	Location   Location   `yaml:"location" toml:"location"`
	Atmosphere Atmosphere `yaml:"atmosphere" toml:"atmosphere"`
	Observer   Observer   `yaml:"observer" toml:"observer"`
	Flags      Flags      `yaml:"flags" toml:"flags"`
}

// DecodeProfile reads a Profile in the given format, "yaml" (or "yml") or
// "toml".
func DecodeProfile(r io.Reader, format string) (Profile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read profile: %w", err)
	}

	var p Profile
	switch strings.ToLower(format) {
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &p)
	case "toml":
		err = toml.Unmarshal(data, &p)
	default:
		return Profile{}, fmt.Errorf("unsupported profile format %q", format)
	}
	if err != nil {
		return Profile{}, fmt.Errorf("failed to parse profile: %w", err)
	}
	if err := validateHeight("decode profile", p.Location); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Request returns a batch request for object and event under p.
func (p Profile) Request(start float64, object string, event EventType) Request {
	return Request{
		Start:      start,
		Location:   p.Location,
		Atmosphere: p.Atmosphere,
		Observer:   p.Observer,
		Object:     object,
		Event:      event,
		Flags:      p.Flags,
	}
}
