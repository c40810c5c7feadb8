package arbor

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ErrInvalidColor is wrapped by every color parsing failure.
var ErrInvalidColor = errors.New("arbor: invalid color")

// ColorParser converts a caller-supplied color value into a packed 0xRRGGBB
// integer. Alpha in the input, if any, is discarded.
type ColorParser interface {
	ParseColor(v any) (uint32, error)
}

// DefaultColorParser accepts:
//   - integers in 0..0xFFFFFF
//   - "#rgb", "#rrggbb" and "0xrrggbb" strings
//   - CSS "rgb(r, g, b)" and "rgba(r, g, b, a)" strings
//   - CSS color names ("cornflowerblue")
//   - any image/color.Color
type DefaultColorParser struct{}

// ParseColor implements ColorParser.
func (DefaultColorParser) ParseColor(v any) (uint32, error) {
	switch c := v.(type) {
	case int:
		return packedFromInt(int64(c))
	case int32:
		return packedFromInt(int64(c))
	case int64:
		return packedFromInt(c)
	case uint:
		return packedFromUint(uint64(c))
	case uint32:
		return packedFromUint(uint64(c))
	case uint64:
		return packedFromUint(c)
	case string:
		return parseColorString(c)
	case color.Color:
		cf, ok := colorful.MakeColor(c)
		if !ok {
			// Fully transparent colors carry no recoverable RGB.
			return 0, nil
		}
		r, g, b := cf.RGB255()
		return packRGB(r, g, b), nil
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrInvalidColor, v)
	}
}

func packRGB(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

func unpackRGB(v uint32) (r, g, b uint8) {
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}

func packedFromInt(v int64) (uint32, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: %d is negative", ErrInvalidColor, v)
	}
	return packedFromUint(uint64(v))
}

func packedFromUint(v uint64) (uint32, error) {
	if v > 0xFFFFFF {
		return 0, fmt.Errorf("%w: %#x exceeds 0xFFFFFF", ErrInvalidColor, v)
	}
	return uint32(v), nil
}

func parseColorString(s string) (uint32, error) {
	str := strings.ToLower(strings.TrimSpace(s))
	switch {
	case str == "":
		return 0, fmt.Errorf("%w: empty string", ErrInvalidColor)
	case strings.HasPrefix(str, "#"):
		cf, err := colorful.Hex(str)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		r, g, b := cf.RGB255()
		return packRGB(r, g, b), nil
	case strings.HasPrefix(str, "0x"):
		if len(str) != 8 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		v, err := strconv.ParseUint(str[2:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		return uint32(v), nil
	case strings.HasPrefix(str, "rgb"):
		return parseCSSRGB(s, str)
	}
	if named, ok := colornames.Map[str]; ok {
		return packRGB(named.R, named.G, named.B), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

// parseCSSRGB parses "rgb(r, g, b)" or "rgba(r, g, b, a)" with integer
// channels in 0..255. The alpha component is validated and dropped.
func parseCSSRGB(orig, str string) (uint32, error) {
	var body string
	switch {
	case strings.HasPrefix(str, "rgba(") && strings.HasSuffix(str, ")"):
		body = str[len("rgba(") : len(str)-1]
	case strings.HasPrefix(str, "rgb(") && strings.HasSuffix(str, ")"):
		body = str[len("rgb(") : len(str)-1]
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, orig)
	}
	parts := strings.Split(body, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, orig)
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidColor, orig)
		}
		ch[i] = uint8(v)
	}
	if len(parts) == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidColor, orig)
		}
	}
	return packRGB(ch[0], ch[1], ch[2]), nil
}
