package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/fencecalc/internal/model"
)

// TakeoffSummary holds the data encoded into a takeoff sheet's QR code.
type TakeoffSummary struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	FenceType string  `json:"fence_type"`
	Length    float64 `json:"length"`
	Unit      string  `json:"unit"`
	Posts     int     `json:"posts,omitempty"`
	Panels    int     `json:"panels,omitempty"`
	Bags      int     `json:"concrete_bags,omitempty"`
	GateType  string  `json:"gate_type,omitempty"`
	Gates     int     `json:"gates,omitempty"`
	Total     float64 `json:"total,omitempty"`
	Currency  string  `json:"currency,omitempty"`
}

// SummarizeTakeoff extracts the QR summary of a takeoff.
func SummarizeTakeoff(t model.Takeoff) TakeoffSummary {
	s := TakeoffSummary{
		ID:        t.ID,
		Name:      t.Name,
		FenceType: t.Request.Fence.FenceType,
		Length:    t.Request.Fence.Length,
		Unit:      string(t.Request.Fence.Unit),
	}
	if t.Estimate != nil {
		s.Posts = t.Estimate.Posts
		s.Panels = t.Estimate.Panels
		s.Bags = t.Estimate.ConcreteBags
	}
	if t.Gates != nil {
		s.GateType = t.Gates.GateType
		s.Gates = t.Gates.GateCount
	}
	if t.Cost != nil {
		s.Total = t.Cost.Total
		s.Currency = t.Cost.Currency
	}
	return s
}

// drawSummaryQR renders the QR code of s at (x, y) with the given size in mm.
func drawSummaryQR(pdf *fpdf.Fpdf, s TakeoffSummary, x, y, size float64) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal takeoff summary: %w", err)
	}

	png, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := "qr_" + s.ID
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	pdf.ImageOptions(imgName, x, y, size, size, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	return nil
}
