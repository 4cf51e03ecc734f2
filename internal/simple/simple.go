// Package simple models the target-list ("target set") sequence: a flat
// list of targets, each with its own exposure plan.
package simple

import (
	"fmt"
	"math"

	"github.com/AaronLay10/nina-sequence-editor/internal/sequence"
)

type ImageType string

const (
	ImageLight    ImageType = "LIGHT"
	ImageDark     ImageType = "DARK"
	ImageBias     ImageType = "BIAS"
	ImageFlat     ImageType = "FLAT"
	ImageSnapshot ImageType = "SNAPSHOT"
)

type Binning struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type Filter struct {
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// Exposure is one line of a target's exposure plan.
type Exposure struct {
	ID            string          `json:"id"`
	Enabled       bool            `json:"enabled"`
	Status        sequence.Status `json:"status"`
	ExposureTime  float64         `json:"exposureTime"`
	ImageType     ImageType       `json:"imageType"`
	Filter        *Filter         `json:"filter,omitempty"`
	Binning       Binning         `json:"binning"`
	Gain          int             `json:"gain"`
	Offset        int             `json:"offset"`
	TotalCount    int             `json:"totalCount"`
	ProgressCount int             `json:"progressCount"`
	Dither        bool            `json:"dither"`
	DitherEvery   int             `json:"ditherEvery"`
}

// NewExposure returns a 10 x 60s light frame plan with camera defaults.
func NewExposure() *Exposure {
	return &Exposure{
		ID:           sequence.NewID(),
		Enabled:      true,
		Status:       sequence.StatusCreated,
		ExposureTime: 60,
		ImageType:    ImageLight,
		Binning:      Binning{X: 1, Y: 1},
		Gain:         -1,
		Offset:       -1,
		TotalCount:   10,
		DitherEvery:  1,
	}
}

// Remaining returns the frames still to take, never negative.
func (e *Exposure) Remaining() int {
	return max(e.TotalCount-e.ProgressCount, 0)
}

// Runtime returns the seconds needed for the remaining frames.
// Disabled exposures take no time.
func (e *Exposure) Runtime(downloadTime float64) float64 {
	if !e.Enabled {
		return 0
	}
	return float64(e.Remaining()) * (e.ExposureTime + downloadTime)
}

func (e *Exposure) validate() []string {
	var errs []string
	if e.ExposureTime <= 0 {
		errs = append(errs, "Exposure time must be positive")
	}
	if e.TotalCount < 0 {
		errs = append(errs, "Total count cannot be negative")
	}
	if e.ProgressCount < 0 {
		errs = append(errs, "Progress count cannot be negative")
	}
	if e.DitherEvery < 1 {
		errs = append(errs, "Dither every must be at least 1")
	}
	return errs
}

func (e *Exposure) clone() *Exposure {
	cpy := *e
	if e.Filter != nil {
		f := *e.Filter
		cpy.Filter = &f
	}
	return &cpy
}

// Coordinates are J2000 equatorial coordinates in sexagesimal parts.
type Coordinates struct {
	RAHours     int     `json:"raHours"`
	RAMinutes   int     `json:"raMinutes"`
	RASeconds   float64 `json:"raSeconds"`
	DecDegrees  int     `json:"decDegrees"`
	DecMinutes  int     `json:"decMinutes"`
	DecSeconds  float64 `json:"decSeconds"`
	NegativeDec bool    `json:"negativeDec"`
}

// RADegrees returns right ascension in decimal degrees.
func (c Coordinates) RADegrees() float64 {
	return (float64(c.RAHours) + float64(c.RAMinutes)/60 + c.RASeconds/3600) * 15
}

// DecDegreesDecimal returns declination in signed decimal degrees.
func (c Coordinates) DecDegreesDecimal() float64 {
	v := math.Abs(float64(c.DecDegrees)) + float64(c.DecMinutes)/60 + c.DecSeconds/3600
	if c.NegativeDec {
		return -v
	}
	return v
}

// CoordinatesFromDecimal splits decimal RA hours and Dec degrees into parts,
// rounding seconds to two decimals.
func CoordinatesFromDecimal(raHours, decDegrees float64) Coordinates {
	raH := math.Floor(raHours)
	raM := math.Floor((raHours - raH) * 60)
	raS := ((raHours-raH)*60 - raM) * 60

	neg := decDegrees < 0
	dec := math.Abs(decDegrees)
	decD := math.Floor(dec)
	decM := math.Floor((dec - decD) * 60)
	decS := ((dec-decD)*60 - decM) * 60

	return Coordinates{
		RAHours:     int(raH),
		RAMinutes:   int(raM),
		RASeconds:   math.Round(raS*100) / 100,
		DecDegrees:  int(decD),
		DecMinutes:  int(decM),
		DecSeconds:  math.Round(decS*100) / 100,
		NegativeDec: neg,
	}
}

// String formats as "00h 42m 44.3s +41° 16' 9.0\"".
func (c Coordinates) String() string {
	sign := "+"
	if c.NegativeDec {
		sign = "-"
	}
	return fmt.Sprintf("%02dh %02dm %.1fs %s%d° %02d' %.1f\"",
		c.RAHours, c.RAMinutes, c.RASeconds, sign, c.DecDegrees, c.DecMinutes, c.DecSeconds)
}

func (c Coordinates) validate() []string {
	var errs []string
	if c.RAHours < 0 || c.RAHours >= 24 {
		errs = append(errs, "RA hours must be between 0 and 23")
	}
	if c.RAMinutes < 0 || c.RAMinutes >= 60 {
		errs = append(errs, "RA minutes must be between 0 and 59")
	}
	if c.RASeconds < 0 || c.RASeconds >= 60 {
		errs = append(errs, "RA seconds must be between 0 and 59.99")
	}
	if c.DecDegrees < 0 || c.DecDegrees > 90 {
		errs = append(errs, "Dec degrees must be between 0 and 90")
	}
	if c.DecMinutes < 0 || c.DecMinutes >= 60 {
		errs = append(errs, "Dec minutes must be between 0 and 59")
	}
	if c.DecSeconds < 0 || c.DecSeconds >= 60 {
		errs = append(errs, "Dec seconds must be between 0 and 59.99")
	}
	return errs
}

// Target is one object of the target set.
type Target struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Status           sequence.Status `json:"status"`
	TargetName       string          `json:"targetName"`
	Coordinates      Coordinates     `json:"coordinates"`
	PositionAngle    float64         `json:"positionAngle"`
	Delay            int             `json:"delay"`
	SlewToTarget     bool            `json:"slewToTarget"`
	CenterTarget     bool            `json:"centerTarget"`
	StartGuiding     bool            `json:"startGuiding"`
	AutoFocusOnStart bool            `json:"autoFocusOnStart"`
	Exposures        []*Exposure     `json:"exposures"`
}

// NewTarget returns a target with one default exposure.
func NewTarget(name string) *Target {
	if name == "" {
		name = "Target"
	}
	return &Target{
		ID:               sequence.NewID(),
		Name:             name,
		Status:           sequence.StatusCreated,
		TargetName:       name,
		SlewToTarget:     true,
		CenterTarget:     true,
		StartGuiding:     true,
		AutoFocusOnStart: true,
		Exposures:        []*Exposure{NewExposure()},
	}
}

// Runtime returns delay plus the runtime of every exposure, in seconds.
func (t *Target) Runtime(downloadTime float64) float64 {
	total := float64(t.Delay)
	for _, e := range t.Exposures {
		total += e.Runtime(downloadTime)
	}
	return total
}

func (t *Target) validate() []string {
	var errs []string
	if t.TargetName == "" {
		errs = append(errs, "Target name is required")
	}
	errs = append(errs, t.Coordinates.validate()...)
	for _, e := range t.Exposures {
		errs = append(errs, e.validate()...)
	}
	return errs
}

func (t *Target) findExposure(id string) (int, *Exposure) {
	for i, e := range t.Exposures {
		if e.ID == id {
			return i, e
		}
	}
	return -1, nil
}

type StartOptions struct {
	CoolCameraAtStart     bool    `json:"coolCameraAtSequenceStart"`
	CoolCameraTemperature float64 `json:"coolCameraTemperature"`
	CoolCameraDuration    int     `json:"coolCameraDuration"`
	UnparkMountAtStart    bool    `json:"unparkMountAtSequenceStart"`
	DoMeridianFlip        bool    `json:"doMeridianFlip"`
}

type EndOptions struct {
	WarmCameraAtEnd    bool `json:"warmCamAtSequenceEnd"`
	WarmCameraDuration int  `json:"warmCameraDuration"`
	ParkMountAtEnd     bool `json:"parkMountAtSequenceEnd"`
}

// Sequence is a target set.
type Sequence struct {
	ID                    string       `json:"id"`
	Title                 string       `json:"title"`
	Targets               []*Target    `json:"targets"`
	EstimatedDownloadTime float64      `json:"estimatedDownloadTime"`
	StartOptions          StartOptions `json:"startOptions"`
	EndOptions            EndOptions   `json:"endOptions"`
}

// New returns a target set holding one default target.
func New(title string) *Sequence {
	if title == "" {
		title = "Target Set"
	}
	return &Sequence{
		ID:                    sequence.NewID(),
		Title:                 title,
		Targets:               []*Target{NewTarget("")},
		EstimatedDownloadTime: 5,
		StartOptions: StartOptions{
			CoolCameraAtStart:     true,
			CoolCameraTemperature: -10,
			CoolCameraDuration:    600,
			UnparkMountAtStart:    true,
			DoMeridianFlip:        true,
		},
		EndOptions: EndOptions{
			WarmCameraAtEnd:    true,
			WarmCameraDuration: 600,
			ParkMountAtEnd:     true,
		},
	}
}

// FindTarget returns the target with id, or nil.
func (s *Sequence) FindTarget(id string) *Target {
	for _, t := range s.Targets {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Validate returns every problem found, or nil.
func (s *Sequence) Validate() []string {
	var errs []string
	if s.Title == "" {
		errs = append(errs, "Sequence title is required")
	}
	if len(s.Targets) == 0 {
		errs = append(errs, "At least one target is required")
	}
	for _, t := range s.Targets {
		errs = append(errs, t.validate()...)
	}
	return errs
}
