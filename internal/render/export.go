package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"
)

var ErrUnsupportedFormat = errors.New("render: unsupported image format")

// FileName returns "<prefix>_<spacing>m.<format>", e.g.
// gravity_fields_spacing_5m.png.
func FileName(prefix string, spacing float64, format string) string {
	return fmt.Sprintf("%s_%sm.%s", prefix, FormatMetres(spacing), format)
}

// Supported reports whether format can be written.
func Supported(format string) bool {
	switch strings.ToLower(format) {
	case "png", "jpg", "jpeg", "svg", "pdf":
		return true
	}
	return false
}

func newCanvas(format string, w, h vg.Length, dpi int) (vg.CanvasWriterTo, error) {
	switch strings.ToLower(format) {
	case "png":
		return vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))}, nil
	case "jpg", "jpeg":
		return vgimg.JpegCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))}, nil
	case "svg":
		return vgsvg.New(w, h), nil
	case "pdf":
		return vgpdf.New(w, h), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Write renders fig in the given format to w.
func Write(w io.Writer, format string, fig Figure, opts Options) error {
	c, err := newCanvas(format, opts.Width, opts.Height, opts.DPI)
	if err != nil {
		return err
	}
	if err := fig.Draw(draw.New(c), opts); err != nil {
		return err
	}
	_, err = c.WriteTo(w)
	return err
}

// Save renders fig to path. The format follows the file extension.
func Save(path string, fig Figure, opts Options) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if !Supported(format) {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, format, fig, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
