package scope

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"dsoctl/internal/scpi"
)

// screenshotFormats maps file extensions to the device's display data
// format tokens.
var screenshotFormats = map[string]string{
	"png":  "PNG",
	"bmp":  "BMP",
	"bmp8": "BMP8bit",
	"tif":  "TIFF",
	"tiff": "TIFF",
}

// ScreenshotFormat resolves a filename to the device format token.
// Validated before any device interaction so a bad filename never
// costs a transport round trip.
func ScreenshotFormat(filename string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	format, ok := screenshotFormats[ext]
	if !ok {
		return "", fmt.Errorf("unsupported screenshot format %q (supported: png, bmp, bmp8, tiff)", ext)
	}
	return format, nil
}

// Screenshot captures the display and writes the image verbatim to w.
// A size-mismatched frame is still written, with a warning; a missing
// frame header is a hard failure.
func (s *Scope) Screenshot(w io.Writer, format string) *Result {
	r := &Result{}

	raw, err := s.readBlock(fmt.Sprintf(":DISPlay:DATA? %s", format))
	if err != nil {
		r.failf("screenshot: %v", err)
		return r
	}
	payload, declared, err := scpi.DecodeBlock(raw)
	if err != nil {
		r.failf("screenshot: %v", err)
		return r
	}
	if len(payload) < declared {
		r.warnf("screenshot: missing data, declared %d bytes but got %d", declared, len(payload))
	} else if len(payload) > declared {
		r.warnf("screenshot: too much data, declared %d bytes but got %d", declared, len(payload))
	}

	if _, err := w.Write(payload); err != nil {
		r.failf("screenshot: write: %v", err)
	}
	return r
}
