package storage

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

const doiSearchPages = 3

var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// PDFInfo is the metadata detected in an uploaded PDF.
type PDFInfo struct {
	Pages int
	DOI   string
}

// InspectPDF reads the page count of the PDF at path and looks for a DOI on its
// first pages. Malformed documents return an error.
func InspectPDF(path string) (info *PDFInfo, err error) {
	// the parser panics on some corrupt cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			info = nil
			err = fmt.Errorf("failed to parse pdf %s: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf %s: %w", path, err)
	}
	defer f.Close()

	info = &PDFInfo{Pages: r.NumPage()}

	maxPages := min(doiSearchPages, info.Pages)
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if doi := FindDOI(text); doi != "" {
			info.DOI = doi
			break
		}
	}

	return info, nil
}

// FindDOI returns the first plausible DOI in text, or "".
func FindDOI(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		match = strings.TrimRight(match, ".,;:)")
		if isValidDOI(match) {
			return match
		}
	}
	return ""
}

func isValidDOI(doi string) bool {
	if len(doi) < 10 || !strings.HasPrefix(doi, "10.") {
		return false
	}
	slash := strings.Index(doi, "/")
	return slash != -1 && slash < len(doi)-1
}
