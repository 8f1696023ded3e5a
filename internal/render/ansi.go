// Package render draws profiles and the swipe deck on a terminal.
package render

import (
	"crypto/md5"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
)

// Photo dimensions in character cells
const (
	ArtWidth  = 24
	ArtHeight = 12
)

// LoadArt returns the ANSI rendition of an image, converting it on first
// use and caching the result under cacheDir/ansi_cache
func LoadArt(imagePath, cacheDir string) (string, error) {
	if imagePath == "" {
		return "", fmt.Errorf("profile has no photo")
	}

	info, err := os.Stat(imagePath)
	if err != nil {
		return "", fmt.Errorf("photo not found: %s", imagePath)
	}

	dir := filepath.Join(cacheDir, "ansi_cache")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create ANSI cache directory: %w", err)
	}

	// a changed photo gets a new cache entry
	key := fmt.Sprintf("%s|%d|%d", imagePath, info.Size(), info.ModTime().UnixNano())
	cachePath := filepath.Join(dir, fmt.Sprintf("%x.ansi", md5.Sum([]byte(key))))

	if data, err := os.ReadFile(cachePath); err == nil {
		return string(data), nil
	}

	art, err := convertImage(imagePath)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(cachePath, []byte(art), 0644); err != nil {
		return "", fmt.Errorf("failed to write ANSI art to cache: %w", err)
	}
	return art, nil
}

func convertImage(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}
	return ImageToANSI(img, ArtWidth, ArtHeight), nil
}

// ImageToANSI draws img as width x height cells of upper half blocks, each
// cell carrying two pixel rows: the top one as foreground and the bottom
// one as background
func ImageToANSI(img image.Image, width, height int) string {
	resized := resize.Resize(uint(width*2), uint(height*2), img, resize.Lanczos3)

	var b strings.Builder
	for y := 0; y < height*2; y += 2 {
		for x := 0; x < width*2; x += 2 {
			top := average(pixel(resized, x, y), pixel(resized, x+1, y))
			bottom := average(pixel(resized, x, y+1), pixel(resized, x+1, y+1))
			tr, tg, tb := top.RGB255()
			br, bg, bb := bottom.RGB255()
			fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀\x1b[0m", tr, tg, tb, br, bg, bb)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// pixel returns the color at x, y; black outside the image
func pixel(img image.Image, x, y int) colorful.Color {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return colorful.Color{}
	}
	c, ok := colorful.MakeColor(img.At(x, y))
	if !ok {
		// fully transparent
		return colorful.Color{}
	}
	return c
}

func average(colors ...colorful.Color) colorful.Color {
	var r, g, b float64
	for _, c := range colors {
		r += c.R
		g += c.G
		b += c.B
	}
	n := float64(len(colors))
	return colorful.Color{R: r / n, G: g / n, B: b / n}.Clamped()
}

// Solid returns a width x height block of a single color, used when a
// profile has no photo
func Solid(c color.Color, width, height int) string {
	cc, _ := colorful.MakeColor(c)
	r, g, b := cc.RGB255()
	row := fmt.Sprintf("\x1b[48;2;%d;%d;%dm%s\x1b[0m\n", r, g, b, strings.Repeat(" ", width))
	return strings.Repeat(row, height)
}

// StripANSI removes SGR escape sequences
func StripANSI(s string) string {
	var out strings.Builder
	inEscape := false
	for _, c := range s {
		switch {
		case inEscape:
			if c == 'm' {
				inEscape = false
			}
		case c == '\x1b':
			inEscape = true
		default:
			out.WriteRune(c)
		}
	}
	return out.String()
}

// VisibleWidth counts the runes left after stripping escapes
func VisibleWidth(s string) int {
	return utf8.RuneCountInString(StripANSI(s))
}

// Wrap breaks text into lines of at most width runes. Words longer than
// width get a line of their own.
func Wrap(text string, width int) []string {
	if width < 10 {
		width = 40
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	line := ""
	for _, word := range words {
		switch {
		case line == "":
			line = word
		case utf8.RuneCountInString(line)+1+utf8.RuneCountInString(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	return append(lines, line)
}
