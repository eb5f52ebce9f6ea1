package catalog

import (
	"reflect"
	"testing"
	"time"
)

func TestEnrichRatingAndScore(t *testing.T) {
	tests := []struct {
		name       string
		bp         Blueprint
		wantRating *float64
		wantScore  float64
	}{
		{
			"featured with unanimous likes",
			Blueprint{Likes: 10, Dislikes: 0, Downloads: 100, Featured: 1},
			ptr(100),
			200,
		},
		{
			"too few votes",
			Blueprint{Likes: 2, Dislikes: 1, Downloads: 0, Featured: 0},
			nil,
			10,
		},
		{
			"exactly the threshold has no rating",
			Blueprint{Likes: 3, Dislikes: 2},
			nil,
			15,
		},
		{
			"one vote above the threshold",
			Blueprint{Likes: 3, Dislikes: 3, Downloads: 7},
			ptr(50),
			22,
		},
		{
			"missing counts are zero",
			Blueprint{},
			nil,
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Enrich(tt.bp, "./")
			if !reflect.DeepEqual(rec.Rating, tt.wantRating) {
				t.Errorf("Rating = %v, want %v", deref(rec.Rating), deref(tt.wantRating))
			}
			if rec.Score != tt.wantScore {
				t.Errorf("Score = %v, want %v", rec.Score, tt.wantScore)
			}
		})
	}
}

func TestEnrichRatingFormula(t *testing.T) {
	for likes := 0; likes <= 12; likes++ {
		for dislikes := 0; dislikes <= 12; dislikes++ {
			rec := Enrich(Blueprint{Likes: likes, Dislikes: dislikes}, "./")
			total := likes + dislikes
			if total <= MinVotes {
				if rec.Rating != nil {
					t.Fatalf("likes=%d dislikes=%d: expected no rating, got %v", likes, dislikes, *rec.Rating)
				}
				continue
			}
			want := 100 * float64(likes) / float64(total)
			if rec.Rating == nil || *rec.Rating != want {
				t.Fatalf("likes=%d dislikes=%d: rating = %v, want %v", likes, dislikes, deref(rec.Rating), want)
			}
		}
	}
}

func TestEnrichImageURLs(t *testing.T) {
	tests := []struct {
		assetPath string
		basePath  string
		wantMain  string
		wantThumb string
	}{
		{"blueprints/foo.xml", "./", "./images/foo.png", "./images/foo_minimap.png"},
		{"blueprints/foo.xml", "https://mirror.example.org/", "https://mirror.example.org/images/foo.png", "https://mirror.example.org/images/foo_minimap.png"},
		{"foo.xml", "./", "./images/foo.png", "./images/foo_minimap.png"},
		{"blueprints/sub/bar_v2.xml", "./", "./images/sub/bar_v2.png", "./images/sub/bar_v2_minimap.png"},
		{"", "./", "./images/.png", "./images/_minimap.png"},
		{"other/baz.txt", "./", "./images/other/baz.txt.png", "./images/other/baz.txt_minimap.png"},
	}

	for _, tt := range tests {
		t.Run(tt.assetPath, func(t *testing.T) {
			rec := Enrich(Blueprint{AssetPath: tt.assetPath}, tt.basePath)
			if rec.MainImageURL != tt.wantMain {
				t.Errorf("MainImageURL = %q, want %q", rec.MainImageURL, tt.wantMain)
			}
			if rec.ThumbnailURL != tt.wantThumb {
				t.Errorf("ThumbnailURL = %q, want %q", rec.ThumbnailURL, tt.wantThumb)
			}
		})
	}
}

func TestEnrichIsPure(t *testing.T) {
	bp := Blueprint{
		ID:         "bp-1",
		Name:       "Steel Factory",
		Mods:       []string{"ludeon.rimworld.royalty"},
		AssetPath:  "blueprints/steel.xml",
		Likes:      9,
		Dislikes:   3,
		Downloads:  40,
		UploadedAt: "2024-06-01T10:00:00Z",
		Featured:   1,
	}
	first := Enrich(bp, "./")
	second := Enrich(bp, "./")
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Enrich is not deterministic:\n%+v\n%+v", first, second)
	}

	first.Mods[0] = "changed"
	if bp.Mods[0] != "ludeon.rimworld.royalty" {
		t.Fatal("Enrich must not share the raw record's mod list")
	}
}

func TestEnrichFeaturedOutOfRange(t *testing.T) {
	rec := Enrich(Blueprint{Featured: 7}, "./")
	if rec.Score != 50 {
		t.Errorf("Score = %v, want 50 for a non-zero featured flag", rec.Score)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-01", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-06-01T12:30:00Z", time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)},
		{"2024-06-01T12:30:00.123456Z", time.Date(2024, 6, 1, 12, 30, 0, 123456000, time.UTC)},
		{"2024-06-01T14:30:00+02:00", time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)},
		{"", time.Time{}},
		{"not a date", time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := parseTimestamp(tt.in)
			if !got.Equal(tt.want) {
				t.Errorf("parseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoadResultEnrichUsesItsBasePath(t *testing.T) {
	lr := LoadResult{
		Index: Index{Blueprints: []Blueprint{
			{ID: "a", AssetPath: "blueprints/a.xml"},
			{ID: "b", AssetPath: "blueprints/b.xml"},
		}},
		BasePath: "https://mirror.example.org/",
		Tier:     TierRemote,
	}
	records := lr.Enrich()
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	for _, r := range records {
		want := "https://mirror.example.org/images/" + r.ID + ".png"
		if r.MainImageURL != want {
			t.Errorf("MainImageURL = %q, want %q", r.MainImageURL, want)
		}
	}
}

func ptr(f float64) *float64 { return &f }

func deref(f *float64) any {
	if f == nil {
		return "absent"
	}
	return *f
}
