package heliacal_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/thurmanmarka/heliacal"
	"github.com/thurmanmarka/heliacal/ephem/approx"
)

func ExampleEngine_HeliacalEvent() {
	handler := log.NewWithOptions(os.Stderr, log.Options{Prefix: "heliacal", Level: log.ErrorLevel})
	e := heliacal.New(approx.New(), heliacal.WithLogger(slog.New(handler)))
	loc := heliacal.Location{Lon: 23.72, Lat: 37.97, Height: 100}
	atm := heliacal.Atmosphere{Pressure: 1013.25, Temperature: 15, Humidity: 40}

	res, err := e.HeliacalEvent(context.Background(), 2460676.5, loc, atm, heliacal.Observer{}, "moon", heliacal.EveningFirst, 0)
	if err != nil {
		fmt.Println(res.Status, err)
		return
	}
	fmt.Println(res.Status, res.Count)
	fmt.Println(res.Times[0] <= res.Times[1] && res.Times[1] <= res.Times[2])
	// Output:
	// ok 3
	// true
}

func ExampleDecodeProfile() {
	const profile = `
location:
  lon: 23.72
  lat: 37.97
  height: 100
atmosphere:
  pressure: 1013.25
  temperature: 15
  humidity: 40
observer:
  age: 50
flags: 1024
`
	p, err := heliacal.DecodeProfile(strings.NewReader(profile), "yaml")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(p.Location.Lat, p.Observer.Age, p.Flags.Has(heliacal.NoDetails))

	req := p.Request(2460676.5, "sirius", heliacal.MorningFirst)
	fmt.Println(req.Object, req.Event)
	// Output:
	// 37.97 50 true
	// sirius morning first
}
