package media

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/h2non/filetype"
	"github.com/labstack/echo/v4"
)

const (
	FallbackMIME = "application/octet-stream"
	CacheMaxAge  = time.Hour
)

var ErrNotImage = errors.New("upload is not an image")

// PlaceholderGIF is a 1x1 transparent GIF.
var PlaceholderGIF = []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00\x00\x00\x00\xff\xff\xff!\xf9\x04\x01\x00\x00\x00\x00," +
	"\x00\x00\x00\x00\x01\x00\x01\x00\x00\x02\x02L\x01\x00;")

type Image struct {
	Data []byte
	Name string
	MIME string
	Size int64
}

// IsImageMIME reports whether a declared content type is an image type.
func IsImageMIME(mime string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mime)), "image/")
}

// FromUpload reads an optional multipart file. A nil header or one without a filename means no upload.
func FromUpload(fh *multipart.FileHeader) (*Image, error) {
	if fh == nil || fh.Filename == "" {
		return nil, nil
	}
	declared := fh.Header.Get(echo.HeaderContentType)
	if !IsImageMIME(declared) {
		return nil, ErrNotImage
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return &Image{Data: data, Name: fh.Filename, MIME: declared, Size: int64(len(data))}, nil
}

// ResolveMIME returns the stored type, else a type sniffed from the bytes, else FallbackMIME.
func ResolveMIME(stored string, data []byte) string {
	if stored != "" {
		return stored
	}
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	return FallbackMIME
}

func ETag(data []byte) string {
	sum := sha256.Sum256(data)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

// DownloadName builds the inline filename from a fixed base and the uploaded file's extension,
// e.g. produto_7.png. The extension is slugified since it ends up in a response header.
func DownloadName(base, filename string) string {
	ext := slug.Make(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" || len(ext) > 5 {
		return base
	}
	return base + "." + ext
}

// Serve writes a stored image with one-hour caching; a matching If-None-Match gets 304 without a body.
func Serve(c echo.Context, data []byte, storedMIME, name string) error {
	h := c.Response().Header()
	h.Set(echo.HeaderContentType, ResolveMIME(storedMIME, data))
	h.Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(CacheMaxAge.Seconds())))
	h.Set("ETag", ETag(data))
	h.Set(echo.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", name))

	http.ServeContent(c.Response(), c.Request(), name, time.Time{}, bytes.NewReader(data))
	return nil
}

func ServePlaceholder(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.Blob(http.StatusOK, "image/gif", PlaceholderGIF)
}
