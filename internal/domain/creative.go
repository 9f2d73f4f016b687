package domain

// MaxGalleryItems caps the per-user gallery. On overflow the oldest entries
// are dropped first, both in the remote store and in the local cache.
const MaxGalleryItems = 12

// Settings is the immutable generation snapshot attached to a creative at
// creation time. Only the caption may change afterwards.
type Settings struct {
	Category     string `json:"category"`
	Description  string `json:"description"`
	TextOnImage  string `json:"textOnImage"`
	CTAText      string `json:"ctaText"`
	Style        string `json:"style"`
	Format       string `json:"format"`
	Objective    string `json:"objective"`
	Niche        string `json:"niche"`
	ColorPalette string `json:"colorPalette"`
}

// Creative is one generated marketing image plus its settings snapshot and
// an optional caption populated asynchronously after creation.
type Creative struct {
	ID        string   `json:"id"`
	URL       string   `json:"url"`
	Timestamp int64    `json:"timestamp"`
	Caption   string   `json:"caption,omitempty"`
	Settings  Settings `json:"settings"`
}
