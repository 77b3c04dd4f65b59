package transfer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/moyoez/trng-go/protocol"
	"github.com/moyoez/trng-go/tool"
)

const defaultReadBufferSize = 256

// FetchDeviceData sends GET_DATA and returns the raw response text.
// Invalid UTF-8 is replaced, never rejected.
func FetchDeviceData(ctx context.Context, opts DeviceOptions) (string, error) {
	conn, stop, err := dialDevice(ctx, opts)
	if err != nil {
		return "", err
	}
	defer stop()
	defer func() {
		if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			tool.DefaultLogger.Debugf("Failed to close device connection: %v", err)
		}
	}()

	if _, err := io.WriteString(conn, protocol.RequestGetData); err != nil {
		return "", fmt.Errorf("%w: %w", ErrWrite, ioError(ctx, err))
	}

	size := opts.ReadBufferSize
	if size <= 0 {
		size = defaultReadBufferSize
	}

	var raw []byte
	switch opts.Framing {
	case tool.FramingLine:
		raw, err = readLine(conn, size)
	default:
		raw, err = readSingle(conn, size)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRead, ioError(ctx, err))
	}
	tool.DefaultLogger.Debugf("Received %d bytes from device %s", len(raw), opts.Address)
	return strings.ToValidUTF8(string(raw), "\uFFFD"), nil
}

// readSingle issues exactly one read. A response split across segments is not reassembled.
func readSingle(r io.Reader, size int) ([]byte, error) {
	buf := make([]byte, size)
	n, err := r.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:n], nil
}

// readLine reads up to and including the first newline, or until EOF.
func readLine(r io.Reader, size int) ([]byte, error) {
	br := bufio.NewReaderSize(r, size)
	line, err := br.ReadSlice('\n')
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return line, nil
	case errors.Is(err, bufio.ErrBufferFull):
		return nil, fmt.Errorf("response exceeds %d bytes", br.Size())
	default:
		return nil, err
	}
}
