package models

// Conference identifies the conference a game is played under.
type Conference string

const (
	ConferenceNone     Conference = "none"
	ConferenceAmerican Conference = "aac"
	ConferenceACC      Conference = "acc"
	ConferenceBig12    Conference = "bigtwelve"
	ConferenceBigTen   Conference = "bigten"
	ConferenceCUSA     Conference = "cusa"
	ConferenceMAC      Conference = "mac"
	ConferenceMWC      Conference = "mwc"
	ConferencePac12    Conference = "pac-12"
	ConferenceSEC      Conference = "sec"
	ConferenceSunBelt  Conference = "sbc"
)

// ConferenceInfo pairs a conference code with its display label.
type ConferenceInfo struct {
	Code  Conference `json:"code" yaml:"code"`
	Label string     `json:"label" yaml:"label"`
}

// DefaultConferences returns the conference dropdown in display order.
func DefaultConferences() []ConferenceInfo {
	return []ConferenceInfo{
		{Code: ConferenceNone, Label: "Non Conference"},
		{Code: ConferenceAmerican, Label: "American"},
		{Code: ConferenceACC, Label: "ACC"},
		{Code: ConferenceBig12, Label: "Big 12"},
		{Code: ConferenceBigTen, Label: "Big Ten"},
		{Code: ConferenceCUSA, Label: "Conference USA"},
		{Code: ConferenceMAC, Label: "Mid American"},
		{Code: ConferenceMWC, Label: "Mountain West"},
		{Code: ConferencePac12, Label: "Pac-12"},
		{Code: ConferenceSEC, Label: "SEC"},
		{Code: ConferenceSunBelt, Label: "Sun Belt"},
	}
}
