// Package export writes finished QR surfaces as PNG, JPG, SVG or a
// print-ready HTML page.
package export

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"image"
	"image/color"
	"io"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/prasetyowira/qrstudio/constant"
)

// Format is an export file format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPG  Format = "jpg"
	FormatSVG  Format = "svg"
	FormatHTML Format = "html"
)

const (
	jpgPadding = 20
	jpgQuality = 95
)

var ErrUnknownFormat = errors.New(constant.ErrUnknownFormat)

// ParseFormat maps a query value to a Format. Empty means PNG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPG, nil
	case "svg":
		return FormatSVG, nil
	case "html", "pdf":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatJPG:
		return constant.ContentTypeJPEG
	case FormatSVG:
		return constant.ContentTypeSVG
	case FormatHTML:
		return constant.ContentTypeHTML
	default:
		return constant.ContentTypePNG
	}
}

// Extension returns the file extension of f, without the dot.
func (f Format) Extension() string {
	return string(f)
}

// Write encodes img as f. bg is used where the format needs a backdrop.
func Write(w io.Writer, f Format, img image.Image, bg color.Color) error {
	switch f {
	case FormatPNG:
		return PNG(w, img)
	case FormatJPG:
		return JPG(w, img, bg)
	case FormatSVG:
		return SVG(w, img, bg)
	case FormatHTML:
		return HTML(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// PNG writes img losslessly.
func PNG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}

// JPG pastes img onto a bg canvas with a 20px margin and writes it at
// quality 95.
func JPG(w io.Writer, img image.Image, bg color.Color) error {
	b := img.Bounds()
	canvas := imaging.New(b.Dx()+2*jpgPadding, b.Dy()+2*jpgPadding, bg)
	canvas = imaging.Paste(canvas, img, image.Pt(jpgPadding, jpgPadding))
	return imaging.Encode(w, canvas, imaging.JPEG, imaging.JPEGQuality(jpgQuality))
}

// SVG wraps img, as an embedded PNG, in an SVG document with a bg rect.
func SVG(w io.Writer, img image.Image, bg color.Color) error {
	uri, err := dataURI(img)
	if err != nil {
		return err
	}
	side := img.Bounds().Dx()

	_, err = fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%[1]d" height="%[1]d" viewBox="0 0 %[1]d %[1]d">
  <rect width="100%%" height="100%%" fill="%[2]s"/>
  <image xlink:href="%[3]s" width="%[1]d" height="%[1]d"/>
</svg>`, side, hexColor(bg), uri)
	return err
}

var printPage = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>QR Code</title>
  <style>
    body { margin: 0; padding: 20px; text-align: center; font-family: Arial, sans-serif; }
    .qr-container { display: inline-block; padding: 30px; background: white; border: 3px solid black; }
    img { display: block; width: {{.Side}}px; height: {{.Side}}px; }
    .info { margin-top: 20px; font-size: 12px; color: #666; }
  </style>
</head>
<body>
  <div class="qr-container">
    <img src="{{.Src}}" alt="QR Code">
    <div class="info">Generated by qrstudio</div>
  </div>
</body>
</html>
`))

// HTML writes a print-ready page showing img at its native size.
func HTML(w io.Writer, img image.Image) error {
	uri, err := dataURI(img)
	if err != nil {
		return err
	}
	return printPage.Execute(w, struct {
		Side int
		Src  template.URL
	}{
		Side: img.Bounds().Dx(),
		Src:  template.URL(uri),
	})
}

func dataURI(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := PNG(&buf, img); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func hexColor(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 0 {
		return "transparent"
	}
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}
