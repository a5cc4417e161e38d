// Package imagery inspects uploaded artwork: it sniffs the content type,
// decodes the image, renders a jpeg thumbnail and pulls the prominent colour
// and a few exif fields
package imagery

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"time"

	perr "atelier/internal/platform/errors"
	ptime "atelier/internal/platform/time"

	"github.com/EdlinOrg/prominentcolor"
	"github.com/disintegration/imaging"
	exif "github.com/dsoprea/go-exif/v3"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const (
	DefaultThumbWidth  = 400
	DefaultJPEGQuality = 80
	DefaultMaxPixels   = 40_000_000

	// ThumbType is the content type of every rendered thumbnail
	ThumbType = "image/jpeg"

	exifTimeLayout = "2006:01:02 15:04:05"
)

// Options tunes Inspect; zero values fall back to the defaults
type Options struct {
	ThumbWidth  int
	JPEGQuality int
	MaxPixels   int
}

// Exif is the subset of camera metadata kept with an artwork
type Exif struct {
	Make    string     `json:"make,omitempty"`
	Model   string     `json:"model,omitempty"`
	TakenAt *time.Time `json:"taken_at,omitempty"`
}

// Empty reports whether no field was found
func (e Exif) Empty() bool { return e.Make == "" && e.Model == "" && e.TakenAt == nil }

// Info describes an inspected upload
type Info struct {
	ContentType string
	Ext         string
	Width       int
	Height      int
	Color       string
	Exif        Exif
	Thumb       []byte
}

// Inspector turns raw upload bytes into an Info
type Inspector struct {
	opts Options
}

// New returns an Inspector with opts applied over the defaults
func New(opts Options) *Inspector {
	if opts.ThumbWidth <= 0 {
		opts.ThumbWidth = DefaultThumbWidth
	}
	if opts.JPEGQuality <= 0 || opts.JPEGQuality > 100 {
		opts.JPEGQuality = DefaultJPEGQuality
	}
	if opts.MaxPixels <= 0 {
		opts.MaxPixels = DefaultMaxPixels
	}
	return &Inspector{opts: opts}
}

// Inspect validates data as an image and derives everything stored with it
// anything that is not a decodable image is an InvalidArgument error
func (in *Inspector) Inspect(data []byte) (Info, error) {
	mt, err := sniff(data)
	if err != nil {
		return Info{}, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, perr.WithField(perr.Wrap(err, perr.ErrorCodeInvalidArgument, "cannot decode image"), "image")
	}
	if cfg.Width*cfg.Height > in.opts.MaxPixels {
		return Info{}, perr.WithField(perr.InvalidArgf("image is %dx%d, over the pixel limit", cfg.Width, cfg.Height), "image")
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return Info{}, perr.WithField(perr.Wrap(err, perr.ErrorCodeInvalidArgument, "cannot decode image"), "image")
	}

	thumb := Thumbnail(img, in.opts.ThumbWidth)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(in.opts.JPEGQuality)); err != nil {
		return Info{}, perr.Wrap(err, perr.ErrorCodeUnknown, "encode thumbnail")
	}

	b := img.Bounds()
	info := Info{
		ContentType: mt.String(),
		Ext:         mt.Extension(),
		Width:       b.Dx(),
		Height:      b.Dy(),
		Thumb:       buf.Bytes(),
		Exif:        ReadExif(data),
	}
	// the thumbnail is small enough for k-means and keeps the colour stable
	if c, err := Prominent(thumb); err == nil {
		info.Color = c
	}
	return info, nil
}

// Sniff checks that data looks like an image from its leading bytes and returns
// the detected content type and extension; nothing is decoded
func Sniff(data []byte) (contentType, ext string, err error) {
	mt, err := sniff(data)
	if err != nil {
		return "", "", err
	}
	return mt.String(), mt.Extension(), nil
}

func sniff(data []byte) (*mimetype.MIME, error) {
	if len(data) == 0 {
		return nil, perr.WithField(perr.InvalidArgf("empty upload"), "image")
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, perr.WithField(perr.InvalidArgf("unsupported file type %s", mt.String()), "image")
	}
	return mt, nil
}

// Thumbnail scales img down to width keeping the aspect ratio; smaller images are not enlarged
func Thumbnail(img image.Image, width int) image.Image {
	if img.Bounds().Dx() <= width {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, width, 0, imaging.Lanczos)
}

// Prominent returns the dominant colour of img as #rrggbb
func Prominent(img image.Image) (string, error) {
	colors, err := prominentcolor.KmeansWithArgs(prominentcolor.ArgumentNoCropping, img)
	if err != nil {
		return "", err
	}
	if len(colors) == 0 {
		return "", fmt.Errorf("no colours found")
	}
	c := colors[0].Color
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B), nil
}

// ReadExif extracts camera make, model and capture time; images without exif give a zero Exif
func ReadExif(data []byte) Exif {
	raw, err := exif.SearchAndExtractExif(data)
	if err != nil {
		return Exif{}
	}
	entries, _, err := exif.GetFlatExifData(raw, nil)
	if err != nil {
		return Exif{}
	}

	var out Exif
	times := map[string]string{}
	for _, e := range entries {
		v := strings.TrimSpace(strings.ReplaceAll(e.FormattedFirst, "\x00", ""))
		if v == "" {
			continue
		}
		switch e.TagName {
		case "Make":
			out.Make = v
		case "Model":
			out.Model = v
		case "DateTimeOriginal", "CreateDate", "DateTime":
			times[e.TagName] = v
		}
	}
	for _, tag := range []string{"DateTimeOriginal", "CreateDate", "DateTime"} {
		if t, ok := parseExifTime(times[tag]); ok {
			out.TakenAt = ptime.Ptr(t)
			break
		}
	}
	return out
}

func parseExifTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(exifTimeLayout, s)
	if err != nil || t.Year() < 1900 {
		return time.Time{}, false
	}
	return t.UTC(), true
}
