package source

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"taskboard/internal/attachments"
	interrors "taskboard/internal/errors"
)

// FromHTML extracts embedded images from a dropped HTML fragment. Browsers
// serialize clipboard and drag payloads as markup with data URL img tags;
// everything else in the fragment is ignored. Names come from alt text when
// present, otherwise a positional placeholder.
func FromHTML(fragment string) ([]File, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, interrors.NewInvalidInput("unparseable html fragment", err)
	}

	var files []File
	doc.Find("img").Each(func(i int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok || !attachments.IsDataURL(src) {
			return
		}
		mimeType, data, err := attachments.ParseDataURL(src)
		if err != nil {
			return
		}
		name := strings.TrimSpace(sel.AttrOr("alt", ""))
		if name == "" {
			name = defaultNameForMIME(mimeType, len(files)+1)
		}
		files = append(files, FromBytes(name, mimeType, data))
	})
	return files, nil
}
