package catalog

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const (
	// MinVotes is the number of votes a blueprint must exceed before it gets a rating.
	MinVotes = 5

	downloadWeight = 1
	likeWeight     = 5
	featuredWeight = 50

	assetDirPrefix = "blueprints/"
	assetExt       = ".xml"
	imageDir       = "images/"
)

// Enrich computes the derived fields of a blueprint. It never fails: a malformed
// asset path only produces an image URL that does not resolve.
func Enrich(bp Blueprint, basePath string) Record {
	stem := assetStem(bp.AssetPath)
	rec := Record{
		Blueprint:    bp,
		MainImageURL: basePath + imageDir + stem + ".png",
		ThumbnailURL: basePath + imageDir + stem + "_minimap.png",
		Rating:       rating(bp.Likes, bp.Dislikes),
		Score:        score(bp),
		Uploaded:     parseTimestamp(bp.UploadedAt),
	}
	// Mods is the only reference-typed field; keep it out of reach of the caller's slice.
	if bp.Mods != nil {
		rec.Mods = append([]string(nil), bp.Mods...)
	}
	return rec
}

func assetStem(assetPath string) string {
	stem := strings.TrimPrefix(assetPath, assetDirPrefix)
	return strings.TrimSuffix(stem, assetExt)
}

func rating(likes, dislikes int) *float64 {
	total := likes + dislikes
	if total <= MinVotes {
		return nil
	}
	r := 100 * float64(likes) / float64(total)
	return &r
}

func score(bp Blueprint) float64 {
	featured := 0
	if bp.Featured != 0 {
		featured = 1
	}
	return float64(bp.Downloads*downloadWeight + bp.Likes*likeWeight + featured*featuredWeight)
}

// parseTimestamp returns the zero time for empty or unparsable input.
func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC()
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
