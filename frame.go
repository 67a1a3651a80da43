// Pixel formats and device-resident frame descriptors.
package nvcodec

// PixelFormat represents video pixel formats.
type PixelFormat int

const (
	PixelFormatI420   PixelFormat = iota // YUV 4:2:0 planar (Y + U + V)
	PixelFormatNV12                      // YUV 4:2:0 semi-planar (Y + interleaved UV)
	PixelFormatRGB24                     // Packed RGB, 3 bytes per pixel
	PixelFormatRGBA32                    // Packed RGBA, 4 bytes per pixel
	PixelFormatBGRA32                    // Packed BGRA, 4 bytes per pixel
	PixelFormatBGR24                     // Packed BGR, 3 bytes per pixel
)

func (p PixelFormat) String() string {
	switch p {
	case PixelFormatI420:
		return "I420"
	case PixelFormatNV12:
		return "NV12"
	case PixelFormatRGB24:
		return "RGB24"
	case PixelFormatRGBA32:
		return "RGBA32"
	case PixelFormatBGRA32:
		return "BGRA32"
	case PixelFormatBGR24:
		return "BGR24"
	default:
		return "Unknown"
	}
}

// PlaneCount returns the number of planes for this pixel format.
func (p PixelFormat) PlaneCount() int {
	switch p {
	case PixelFormatI420:
		return 3 // Y, U, V
	case PixelFormatNV12:
		return 2 // Y, UV
	case PixelFormatRGB24, PixelFormatBGR24, PixelFormatRGBA32, PixelFormatBGRA32:
		return 1 // Packed
	default:
		return 0
	}
}

// RowBytes returns the bytes one row of width pixels occupies in the
// first plane, without padding.
func (p PixelFormat) RowBytes(width int) int {
	switch p {
	case PixelFormatI420, PixelFormatNV12:
		return width
	case PixelFormatRGB24, PixelFormatBGR24:
		return width * 3
	case PixelFormatRGBA32, PixelFormatBGRA32:
		return width * 4
	default:
		return 0
	}
}

// NV12Size returns the size of a pitched NV12 frame: height luma rows
// followed by ceil(height/2) chroma rows, each pitch bytes.
func NV12Size(pitch, height int) int {
	return pitch * frameRows(PixelFormatNV12, height)
}

// frameRows returns the number of pitch-wide rows a frame of format
// occupies. 4:2:0 chroma adds ceil(height/2) rows: interleaved for NV12,
// and for I420 the two half-width planes share those rows.
func frameRows(format PixelFormat, height int) int {
	if format.PlaneCount() > 1 {
		return height + (height+1)/2
	}
	return height
}

// DeviceFrame describes an image in device memory. It owns nothing.
type DeviceFrame struct {
	Ptr    DevicePtr   // First byte of the first plane
	Pitch  int         // Bytes between rows
	Width  int         // Frame width in pixels
	Height int         // Frame height in pixels
	Format PixelFormat // Pixel format
}

// Frame describes the allocation as a width x height image of format.
func (m *DeviceMemory) Frame(width, height int, format PixelFormat) DeviceFrame {
	return DeviceFrame{
		Ptr:    m.ptr,
		Pitch:  m.pitch,
		Width:  width,
		Height: height,
		Format: format,
	}
}
