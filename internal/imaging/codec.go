package imaging

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// LabelExt is the extension of the label file next to every image.
const LabelExt = ".txt"

// ImageExts are the recognised image file extensions.
var ImageExts = []string{".tif", ".tiff", ".jpg", ".jpeg", ".png", ".gif", ".bmp"}

const jpegQuality = 95

// IsImage reports whether name carries a recognised image extension.
func IsImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range ImageExts {
		if ext == e {
			return true
		}
	}
	return false
}

// LabelPath returns the label file path belonging to an image path.
func LabelPath(imagePath string) string {
	if !IsImage(imagePath) {
		return imagePath
	}
	return strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + LabelExt
}

func decode(r io.Reader, name string) (image.Image, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return png.Decode(r)
	case ".jpg", ".jpeg":
		return jpeg.Decode(r)
	case ".gif":
		return gif.Decode(r)
	case ".tif", ".tiff":
		return tiff.Decode(r)
	case ".bmp":
		return bmp.Decode(r)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(name))
}

func encode(w io.Writer, img image.Image, name string) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return png.Encode(w, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	case ".gif":
		return gif.Encode(w, img, nil)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case ".bmp":
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(name))
}
