// Package protocol holds the line-based text protocol spoken by the TRNG device.
//
//	client -> device  GET_DATA\n
//	device -> client  LEN:<uint>,COMPLEX:<uint>,KEY:<hex>
//	client -> device  CMD_UP\n | CMD_DOWN\n | CMD_SELECT\n   (no reply)
package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/moyoez/trng-go/types"
)

const (
	RequestGetData = "GET_DATA\n"

	prefixLength     = "LEN:"
	prefixComplexity = "COMPLEX:"
	prefixKey        = "KEY:"
	fieldCount       = 3

	// MaxLength is the largest LEN accepted from the device.
	MaxLength = 4096
)

var ErrParse = errors.New("invalid device response")

// ParseResponse parses one device answer. Any violation fails the whole response.
func ParseResponse(response string) (types.DeviceResponse, error) {
	var out types.DeviceResponse

	parts := strings.Split(strings.TrimSpace(response), ",")
	if len(parts) != fieldCount {
		return out, fmt.Errorf("%w: invalid response format (%d parts)", ErrParse, len(parts))
	}

	lenPart, ok := strings.CutPrefix(parts[0], prefixLength)
	if !ok {
		return out, fmt.Errorf("%w: missing LEN", ErrParse)
	}
	length, err := parseUnsigned(lenPart, strconv.IntSize-1)
	if err != nil {
		return out, fmt.Errorf("%w: invalid LEN value %q", ErrParse, lenPart)
	}
	if length > MaxLength {
		return out, fmt.Errorf("%w: LEN value %d out of range (max %d)", ErrParse, length, MaxLength)
	}

	complexPart, ok := strings.CutPrefix(parts[1], prefixComplexity)
	if !ok {
		return out, fmt.Errorf("%w: missing COMPLEX", ErrParse)
	}
	// the firmware sends a single byte worth of complexity
	complexity, err := parseUnsigned(complexPart, 8)
	if err != nil {
		return out, fmt.Errorf("%w: invalid COMPLEX value %q", ErrParse, complexPart)
	}

	keyPart, ok := strings.CutPrefix(parts[2], prefixKey)
	if !ok {
		return out, fmt.Errorf("%w: missing KEY", ErrParse)
	}

	out.Length = int(length)
	out.Complexity = int(complexity)
	out.CiphertextHex = keyPart
	return out, nil
}

// parseUnsigned is ParseUint that also accepts one leading '+'.
func parseUnsigned(s string, bits int) (uint64, error) {
	return strconv.ParseUint(strings.TrimPrefix(s, "+"), 10, bits)
}
