package models

// VoicePreset holds the 0-100 voice sliders.
type VoicePreset struct {
	Name       string `json:"name"`
	Casualness int    `json:"casualness"`
	Sharpness  int    `json:"sharpness"`
	Emotional  int    `json:"emotional"`
}

func DefaultVoicePreset() VoicePreset {
	return VoicePreset{
		Name:       "My Voice",
		Casualness: 60,
		Sharpness:  50,
		Emotional:  70,
	}
}
