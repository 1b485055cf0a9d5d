package http

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gin-gonic/gin"

	interrors "taskboard/internal/errors"
	"taskboard/internal/intake/source"
)

// createEditorRequest is the body of POST /api/editors.
type createEditorRequest struct {
	Title  string `json:"title"`
	Column string `json:"column,omitempty"`
}

// intakeItem is one candidate in a JSON intake request. DataURL carries a
// single image; HTML carries a dropped fragment whose embedded images are
// extracted.
type intakeItem struct {
	Filename string `json:"filename,omitempty"`
	DataURL  string `json:"data_url,omitempty"`
	HTML     string `json:"html,omitempty"`
}

// intakeJSONRequest is the JSON body of POST /api/editors/:id/attachments.
type intakeJSONRequest struct {
	Items []intakeItem `json:"items"`
}

// parseIntakeRequest turns an upload request into pipeline candidates.
// Multipart forms carry browser file-picker uploads; JSON bodies carry
// data URLs and dropped HTML fragments.
func parseIntakeRequest(c *gin.Context) ([]source.File, error) {
	switch c.ContentType() {
	case "multipart/form-data":
		return parseMultipartIntake(c)
	case "application/json":
		return parseJSONIntake(c)
	default:
		return nil, interrors.NewInvalidInput(
			fmt.Sprintf("unsupported content type %q, use multipart/form-data or application/json", c.ContentType()), nil)
	}
}

func parseMultipartIntake(c *gin.Context) ([]source.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, interrors.NewInvalidInput("malformed multipart form", err)
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		headers = form.File["file"]
	}
	if len(headers) == 0 {
		return nil, interrors.NewInvalidInput("multipart form carries no files", nil)
	}

	files := make([]source.File, 0, len(headers))
	for i, header := range headers {
		name := sanitizeUploadName(header.Filename, fmt.Sprintf("upload-%d", i+1))
		files = append(files, source.New(name, header.Header.Get("Content-Type"), header.Size, fileHeaderOpener(header)))
	}
	return files, nil
}

func fileHeaderOpener(header *multipart.FileHeader) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return header.Open()
	}
}

func parseJSONIntake(c *gin.Context) ([]source.File, error) {
	var req intakeJSONRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, interrors.NewInvalidInput("malformed json body", err)
	}
	if len(req.Items) == 0 {
		return nil, interrors.NewInvalidInput("json body carries no items", nil)
	}

	var files []source.File
	for i, item := range req.Items {
		switch {
		case strings.TrimSpace(item.DataURL) != "":
			name := sanitizeUploadName(item.Filename, "")
			file, err := source.FromDataURL(name, item.DataURL)
			if err != nil {
				return nil, err
			}
			files = append(files, file)
		case strings.TrimSpace(item.HTML) != "":
			extracted, err := source.FromHTML(item.HTML)
			if err != nil {
				return nil, err
			}
			files = append(files, extracted...)
		default:
			return nil, interrors.NewInvalidInput(fmt.Sprintf("item %d carries neither data_url nor html", i), nil)
		}
	}
	if len(files) == 0 {
		return nil, interrors.NewInvalidInput("no image candidates in request", nil)
	}
	return files, nil
}
