package cmd

import (
	"fmt"
	"strings"

	"blueprint-browser/catalog"
	"blueprint-browser/ui"
)

const dateLayout = "2006-01-02"

func renderHeader() string {
	return ui.Header.Render(fmt.Sprintf("  %-34s %-18s %-16s %6s %7s %7s %10s",
		"Name", "Author", "Category", "Rating", "Likes", "DLs", "Uploaded"))
}

// renderRow formats one record as a table line. Column widths are padded before
// colouring so escape codes don't break alignment.
func renderRow(r catalog.Record) string {
	marker := " "
	if r.Featured != 0 {
		marker = ui.Featured.Render("★")
	}
	category := r.CategoryLabel()
	return fmt.Sprintf("%s %-34s %-18s %s %s %7s %7s %10s",
		marker,
		ui.Truncate(r.Name, 34),
		ui.Truncate(r.Author, 18),
		ui.Colorize(fmt.Sprintf("%-16s", ui.Truncate(category, 16)), ui.CategoryColor(category)),
		ui.Colorize(fmt.Sprintf("%6s", ui.FormatRating(r.Rating)), ui.RatingColor(r.Rating)),
		ui.Count(r.Likes),
		ui.Count(r.Downloads),
		formatDate(r),
	)
}

func formatDate(r catalog.Record) string {
	if r.Uploaded.IsZero() {
		if r.UploadedAt == "" {
			return "-"
		}
		return ui.Truncate(r.UploadedAt, 10)
	}
	return r.Uploaded.Format(dateLayout)
}

// renderDetail lays out every field of a record for the show command and the
// browser's detail pane.
func renderDetail(r catalog.Record) string {
	var b strings.Builder

	title := ui.Title.Render(r.Name)
	if r.Featured != 0 {
		title += " " + ui.Featured.Render("★ featured")
	}
	b.WriteString(title + "\n")
	b.WriteString(fmt.Sprintf("by %s  ·  %s\n\n", r.Author, ui.Category(r.CategoryLabel())))

	description := strings.TrimSpace(r.Description)
	if description == "" {
		description = ui.Muted.Render("No description provided.")
	}
	b.WriteString(description + "\n\n")

	field := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s %s\n", ui.Muted.Render(fmt.Sprintf("%-12s", label)), value))
	}
	field("ID", r.ID)
	if r.AuthorSteamID != "" {
		field("Steam ID", r.AuthorSteamID)
	}
	field("Version", valueOr(r.Version, "-"))
	field("Size", fmt.Sprintf("%d x %d", r.Width, r.Height))
	field("Rating", fmt.Sprintf("%s (%d votes)", ui.Rating(r.Rating), r.TotalVotes()))
	field("Likes", fmt.Sprintf("%d  /  dislikes %d", r.Likes, r.Dislikes))
	field("Downloads", fmt.Sprintf("%d", r.Downloads))
	field("Score", fmt.Sprintf("%.0f", r.Score))
	field("Uploaded", formatDate(r))
	if r.UpdatedAt != "" {
		field("Updated", r.UpdatedAt)
	}
	field("Image", r.MainImageURL)
	field("Minimap", r.ThumbnailURL)

	b.WriteString("\n" + ui.Muted.Render("Required mods") + "\n")
	if len(r.Mods) == 0 {
		b.WriteString("  none (vanilla)\n")
	}
	for _, mod := range r.Mods {
		b.WriteString("  • " + mod + "\n")
	}
	return b.String()
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
