package models

// Insight is one audience observation the creator can build a contrail from.
type Insight struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Confidence int    `json:"confidence"` // 1-4 dots
	Selected   bool   `json:"selected"`
	Example    string `json:"example,omitempty"`
}

const DefaultDailyInsight = "Your audience saves honesty more than polish"

// DefaultInsights is the seeded insight canvas.
func DefaultInsights() []Insight {
	return []Insight{
		{
			ID:         "1",
			Title:      "Personal POV increases saves",
			Confidence: 4,
			Example:    "Share your perspective, not just tips",
		},
		{
			ID:         "2",
			Title:      "Your audience drops if hook > 7 words",
			Confidence: 3,
			Example:    "Keep hooks short and punchy",
		},
		{
			ID:         "3",
			Title:      "Carousels outperform reels for advice",
			Confidence: 4,
			Example:    "Break down complex ideas in slides",
		},
	}
}
