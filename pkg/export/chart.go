package export

import (
	"fmt"
	"image/color"
	"io"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/Dicklesworthstone/review_viewer/pkg/model"
)

// chart geometry shared by the SVG and PNG renderers
const (
	chartWidth   = 640
	chartHeight  = 360
	chartMargin  = 40
	chartBarGap  = 12
	chartBuckets = model.MaxRating + 1
)

type bar struct {
	x, y, w, h int
	count      int
	label      string
}

func layoutBars(stats model.RatingStats) []bar {
	plotW := chartWidth - 2*chartMargin
	plotH := chartHeight - 3*chartMargin
	barW := (plotW - chartBarGap*(chartBuckets-1)) / chartBuckets
	top := stats.MaxBucket()

	bars := make([]bar, chartBuckets)
	for i := 0; i < chartBuckets; i++ {
		h := 0
		if top > 0 {
			h = stats.Histogram[i] * plotH / top
		}
		bars[i] = bar{
			x:     chartMargin + i*(barW+chartBarGap),
			y:     chartMargin*2 + plotH - h,
			w:     barW,
			h:     h,
			count: stats.Histogram[i],
			label: fmt.Sprintf("%d %s", i, model.RatingLabel(i)),
		}
	}
	return bars
}

func chartTitle(stats model.RatingStats) string {
	return fmt.Sprintf("Ratings: %d reviews, mean %.2f, sd %.2f", stats.Count, stats.Mean, stats.StdDev)
}

func writeSVGChart(w io.Writer, stats model.RatingStats) error {
	canvas := svg.New(w)
	canvas.Start(chartWidth, chartHeight)
	canvas.Rect(0, 0, chartWidth, chartHeight, "fill:#282A36")
	canvas.Text(chartMargin, chartMargin, chartTitle(stats), "fill:#F8F8F2;font-family:monospace;font-size:16px")

	baseline := chartHeight - chartMargin
	for _, b := range layoutBars(stats) {
		canvas.Rect(b.x, b.y, b.w, b.h, "fill:#BD93F9")
		canvas.Text(b.x+b.w/2, b.y-4, fmt.Sprintf("%d", b.count), "fill:#F8F8F2;font-family:monospace;font-size:12px;text-anchor:middle")
		canvas.Text(b.x+b.w/2, baseline+16, b.label, "fill:#BFBFBF;font-family:monospace;font-size:11px;text-anchor:middle")
	}
	canvas.Line(chartMargin, baseline, chartWidth-chartMargin, baseline, "stroke:#6272A4;stroke-width:1")
	canvas.End()
	return nil
}

func writePNGChart(w io.Writer, stats model.RatingStats) error {
	dc := gg.NewContext(chartWidth, chartHeight)
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(color.RGBA{0x28, 0x2A, 0x36, 0xFF})
	dc.Clear()

	dc.SetColor(color.RGBA{0xF8, 0xF8, 0xF2, 0xFF})
	dc.DrawString(chartTitle(stats), chartMargin, chartMargin)

	baseline := float64(chartHeight - chartMargin)
	for _, b := range layoutBars(stats) {
		dc.SetColor(color.RGBA{0xBD, 0x93, 0xF9, 0xFF})
		dc.DrawRectangle(float64(b.x), float64(b.y), float64(b.w), float64(b.h))
		dc.Fill()

		cx := float64(b.x) + float64(b.w)/2
		dc.SetColor(color.RGBA{0xF8, 0xF8, 0xF2, 0xFF})
		dc.DrawStringAnchored(fmt.Sprintf("%d", b.count), cx, float64(b.y)-6, 0.5, 0)
		dc.SetColor(color.RGBA{0xBF, 0xBF, 0xBF, 0xFF})
		dc.DrawStringAnchored(b.label, cx, baseline+16, 0.5, 0)
	}

	dc.SetColor(color.RGBA{0x62, 0x72, 0xA4, 0xFF})
	dc.SetLineWidth(1)
	dc.DrawLine(chartMargin, baseline, chartWidth-chartMargin, baseline)
	dc.Stroke()

	return dc.EncodePNG(w)
}
