package trajectory

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// The prediction caches store plain NumPy arrays: little-endian float32
// or float64, C order, one or two dimensions. That is the only subset
// this reader accepts.

var npyMagic = []byte("\x93NUMPY")

type npyHeader struct {
	descr        string
	fortranOrder bool
	shape        []int
}

// parseNPY decodes a .npy payload into a flat float64 slice plus shape.
func parseNPY(data []byte) ([]float64, []int, error) {
	if len(data) < len(npyMagic)+4 || !bytes.Equal(data[:len(npyMagic)], npyMagic) {
		return nil, nil, fmt.Errorf("not a npy file: bad magic")
	}

	major := data[6]
	rest := data[8:]

	var headerLen int
	switch major {
	case 1:
		if len(rest) < 2 {
			return nil, nil, fmt.Errorf("npy header truncated")
		}
		headerLen = int(binary.LittleEndian.Uint16(rest))
		rest = rest[2:]
	case 2, 3:
		if len(rest) < 4 {
			return nil, nil, fmt.Errorf("npy header truncated")
		}
		headerLen = int(binary.LittleEndian.Uint32(rest))
		rest = rest[4:]
	default:
		return nil, nil, fmt.Errorf("unsupported npy version %d", major)
	}

	if len(rest) < headerLen {
		return nil, nil, fmt.Errorf("npy header truncated: want %d bytes, have %d", headerLen, len(rest))
	}

	hdr, err := parseNPYHeader(string(rest[:headerLen]))
	if err != nil {
		return nil, nil, err
	}
	if hdr.fortranOrder {
		return nil, nil, fmt.Errorf("fortran-order npy arrays are not supported")
	}

	var itemSize int
	switch hdr.descr {
	case "<f4":
		itemSize = 4
	case "<f8":
		itemSize = 8
	default:
		return nil, nil, fmt.Errorf("unsupported npy dtype %q", hdr.descr)
	}

	count := 1
	for _, dim := range hdr.shape {
		count *= dim
	}

	payload := rest[headerLen:]
	if len(payload) < count*itemSize {
		return nil, nil, fmt.Errorf("npy payload truncated: want %d bytes, have %d", count*itemSize, len(payload))
	}

	values := make([]float64, count)
	for i := 0; i < count; i++ {
		chunk := payload[i*itemSize:]
		if itemSize == 4 {
			values[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(chunk)))
		} else {
			values[i] = math.Float64frombits(binary.LittleEndian.Uint64(chunk))
		}
	}

	return values, hdr.shape, nil
}

// parseNPYHeader parses the Python dict literal in the npy header, e.g.
// {'descr': '<f8', 'fortran_order': False, 'shape': (10, 3), }
func parseNPYHeader(s string) (npyHeader, error) {
	var hdr npyHeader

	descr, err := headerValue(s, "'descr':")
	if err != nil {
		return hdr, err
	}
	hdr.descr = strings.Trim(descr, "' ")

	order, err := headerValue(s, "'fortran_order':")
	if err != nil {
		return hdr, err
	}
	hdr.fortranOrder = strings.TrimSpace(order) == "True"

	start := strings.Index(s, "'shape':")
	if start < 0 {
		return hdr, fmt.Errorf("npy header missing shape")
	}
	open := strings.Index(s[start:], "(")
	closeIdx := strings.Index(s[start:], ")")
	if open < 0 || closeIdx < 0 || closeIdx < open {
		return hdr, fmt.Errorf("malformed npy shape in header %q", s)
	}
	for _, part := range strings.Split(s[start+open+1:start+closeIdx], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		dim, err := strconv.Atoi(part)
		if err != nil {
			return hdr, fmt.Errorf("malformed npy shape dimension %q: %w", part, err)
		}
		if dim < 0 {
			return hdr, fmt.Errorf("negative npy shape dimension %d", dim)
		}
		hdr.shape = append(hdr.shape, dim)
	}
	if len(hdr.shape) == 0 || len(hdr.shape) > 2 {
		return hdr, fmt.Errorf("unsupported npy rank %d", len(hdr.shape))
	}

	return hdr, nil
}

// headerValue extracts the value following key up to the next comma.
func headerValue(s, key string) (string, error) {
	start := strings.Index(s, key)
	if start < 0 {
		return "", fmt.Errorf("npy header missing %s", strings.Trim(key, "':"))
	}
	rest := s[start+len(key):]
	end := strings.Index(rest, ",")
	if end < 0 {
		end = len(rest)
	}
	return strings.TrimSpace(rest[:end]), nil
}
