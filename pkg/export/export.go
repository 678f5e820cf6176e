// Package export writes review collections to files for sharing outside the browser.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/review_viewer/pkg/model"
)

// Supported export formats
const (
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "md"
	FormatXLSX     = "xlsx"
	FormatSVG      = "svg"
	FormatPNG      = "png"
)

// Formats lists every format Write accepts
var Formats = []string{FormatJSON, FormatYAML, FormatMarkdown, FormatXLSX, FormatSVG, FormatPNG}

// FormatFromPath infers the export format from a file extension
func FormatFromPath(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "yml":
		return FormatYAML
	case "markdown":
		return FormatMarkdown
	}
	return ext
}

// Write encodes reviews in the given format
func Write(w io.Writer, format string, reviews []model.Review) error {
	if reviews == nil {
		reviews = []model.Review{}
	}
	switch strings.ToLower(format) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reviews)
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reviews); err != nil {
			return err
		}
		return enc.Close()
	case FormatMarkdown, "markdown":
		return writeMarkdown(w, reviews)
	case FormatXLSX:
		return writeXLSX(w, reviews)
	case FormatSVG:
		return writeSVGChart(w, model.ComputeRatingStats(reviews))
	case FormatPNG:
		return writePNGChart(w, model.ComputeRatingStats(reviews))
	default:
		return fmt.Errorf("unsupported export format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// SaveFile writes reviews to path, inferring the format from the extension
// when format is empty
func SaveFile(path, format string, reviews []model.Review) error {
	if format == "" {
		format = FormatFromPath(path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Write(f, format, reviews); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func writeMarkdown(w io.Writer, reviews []model.Review) error {
	var b strings.Builder
	b.WriteString("| Show | Author | Rating | Review |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, r := range reviews {
		rating := model.RatingStars(r.Rating)
		if label := model.RatingLabel(r.Rating); label != "" {
			rating += " " + label
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			mdCell(r.Show), mdCell(r.Author), rating, mdCell(r.Review))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func mdCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

func writeXLSX(w io.Writer, reviews []model.Review) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Reviews"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	headers := []string{"ID", "Show", "Author", "Rating", "Label", "Review"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for row, r := range reviews {
		values := []any{r.ID, r.Show, r.Author, r.Rating, model.RatingLabel(r.Rating), r.Review}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}
