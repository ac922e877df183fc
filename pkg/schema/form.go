package schema

// Form is one submission of the generation form.
type Form struct {
	Mode              string `json:"mode" validate:"oneof=Birthday Anniversary Wedding General"`
	PersonName        string `json:"personName"`
	DOB               string `json:"dob,omitempty"`
	ExternalCharacter string `json:"externalCharacter,omitempty"`
	VisualStyle       string `json:"visualStyle" validate:"oneof=Realistic Anime Cyberpunk"`
	Tone              string `json:"tone" validate:"oneof=Wholesome Exciting Cinematic"`
}

const (
	DefaultMode        = "Birthday"
	DefaultVisualStyle = "Realistic"
	DefaultTone        = "Wholesome"
)
