package app

import (
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// shownPost is one post printed during the session.
type shownPost struct {
	Handle string
	Text   string
}

// writePostsPDF renders the shown posts grouped by handle, one paragraph per
// post, in the order they were displayed.
func writePostsPDF(posts []shownPost, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Bluesky posts", true)
	pdf.SetCreator(Version(), true)
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()

	current := ""
	for _, p := range posts {
		if p.Handle != current {
			current = p.Handle
			pdf.Ln(3)
			pdf.SetFont("Helvetica", "B", 14)
			pdf.CellFormat(0, 8, tr("@"+current), "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 11)
		}
		text := strings.TrimSpace(p.Text)
		pdf.MultiCell(0, 5, tr(text), "", "L", false)
		pdf.Ln(4)
	}
	return pdf.OutputFileAndClose(outPath)
}
