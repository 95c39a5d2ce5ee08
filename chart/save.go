package chart

import "fmt"

// Save renders the charts in the given format. Html goes to a single page at htmlPath and png
// writes one image per chart under pngDir. It returns the written paths.
func Save(format Format, htmlPath, pngDir, pageTitle string, cs []*Chart) ([]string, error) {
	switch format {
	case HTMLFormat:
		if err := SaveHTML(htmlPath, pageTitle, cs); err != nil {
			return nil, err
		}
		return []string{htmlPath}, nil
	case PNGFormat:
		return SavePNG(pngDir, cs)
	default:
		return nil, fmt.Errorf("%q, %w", format, ErrUnknownFormat)
	}
}
