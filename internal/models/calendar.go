package models

type ContentType string

const (
	FormatReel     ContentType = "reel"
	FormatCarousel ContentType = "carousel"
	FormatStory    ContentType = "story"
)

func (c ContentType) IsValid() bool {
	return c == FormatReel || c == FormatCarousel || c == FormatStory
}

type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostScheduled PostStatus = "scheduled"
	PostPosted    PostStatus = "posted"
)

func (s PostStatus) IsValid() bool {
	return s == PostDraft || s == PostScheduled || s == PostPosted
}

type PublishIntent string

const (
	IntentTeach               PublishIntent = "teach"
	IntentConnect             PublishIntent = "connect"
	IntentTriggerConversation PublishIntent = "trigger-conversation"
	IntentTestNew             PublishIntent = "test-new"
)

func (p PublishIntent) IsValid() bool {
	switch p {
	case IntentTeach, IntentConnect, IntentTriggerConversation, IntentTestNew:
		return true
	}
	return false
}

type CalendarPost struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Date            string        `json:"date"` // YYYY-MM-DD
	Format          ContentType   `json:"format"`
	Status          PostStatus    `json:"status"`
	Contrail        string        `json:"contrail,omitempty"`
	Intent          PublishIntent `json:"intent,omitempty"`
	PerformanceNote string        `json:"performanceNote,omitempty"`
}

func DefaultCalendarPosts() []CalendarPost {
	return []CalendarPost{
		{
			ID:       "1",
			Title:    "The mistake I made before my first brand deal",
			Date:     "2026-02-08",
			Format:   FormatCarousel,
			Status:   PostDraft,
			Contrail: "Saves + Personal Storytelling",
		},
		{
			ID:       "2",
			Title:    "Why I stopped chasing viral content",
			Date:     "2026-02-10",
			Format:   FormatReel,
			Status:   PostScheduled,
			Contrail: "Authority + Honesty",
		},
	}
}
