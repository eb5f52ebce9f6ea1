// Package catalog loads the blueprint index, derives the presentation fields of
// every entry, and answers search/filter/sort queries over the result.
package catalog

import "time"

// Blueprint is one entry of the index exactly as it arrives over the wire.
// The compact JSON keys are the ones written by the index generator.
type Blueprint struct {
	ID            string   `json:"id"`
	Name          string   `json:"n"`
	Author        string   `json:"a"`
	AuthorSteamID string   `json:"sid,omitempty"`
	Category      string   `json:"c"`
	Version       string   `json:"v"`
	Description   string   `json:"t"`
	Width         int      `json:"w"`
	Height        int      `json:"h"`
	Mods          []string `json:"m"`
	AssetPath     string   `json:"p"`
	Likes         int      `json:"s_l"`
	Dislikes      int      `json:"s_d"`
	Downloads     int      `json:"s_dl"`
	UploadedAt    string   `json:"dt"`
	UpdatedAt     string   `json:"ut,omitempty"`
	Featured      int      `json:"fe"` // 0 or 1
}

// Index is the document served as index.json.
// Only Blueprints feeds the pipeline; the rest is informational.
type Index struct {
	Version     string      `json:"version"`
	GeneratedAt string      `json:"generated_at"`
	Mode        string      `json:"mode"`
	Count       int         `json:"count"`
	Blueprints  []Blueprint `json:"blueprints"`
}

// Record is a Blueprint plus the fields derived from it at load time.
// Records are values; nothing updates them after Enrich returns.
type Record struct {
	Blueprint

	MainImageURL string    `json:"image_main"`
	ThumbnailURL string    `json:"image_minimap"`
	Rating       *float64  `json:"rating"` // nil when there are too few votes
	Score        float64   `json:"score"`
	Uploaded     time.Time `json:"-"`
}

// HasRating reports whether enough votes were cast for a rating.
func (r Record) HasRating() bool {
	return r.Rating != nil
}

// RatingOrZero is the rating used for ordering: absent ratings count as 0.
func (r Record) RatingOrZero() float64 {
	if r.Rating == nil {
		return 0
	}
	return *r.Rating
}

// CategoryLabel returns the category with empty values normalized to Uncategorized.
func (r Record) CategoryLabel() string {
	return normalizeCategory(r.Category)
}

// TotalVotes is likes plus dislikes.
func (r Record) TotalVotes() int {
	return r.Likes + r.Dislikes
}

// Tier identifies which location served the index.
type Tier string

const (
	TierLocal  Tier = "local"
	TierRemote Tier = "remote"
)

// LoadResult couples the fetched index with the base path that image URLs must be
// resolved against. The two are only ever produced together by Source.Load.
type LoadResult struct {
	Index    Index
	BasePath string
	Tier     Tier
}

// Enrich derives every record of the result against the result's own base path.
func (lr LoadResult) Enrich() []Record {
	records := make([]Record, 0, len(lr.Index.Blueprints))
	for _, bp := range lr.Index.Blueprints {
		records = append(records, Enrich(bp, lr.BasePath))
	}
	return records
}
