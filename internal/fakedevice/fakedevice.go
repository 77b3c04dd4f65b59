// Package fakedevice is an in-process stand-in for the TRNG firmware, used by tests.
package fakedevice

import (
	"bufio"
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"
)

// ChunkDelay separates the chunks of a split reply, long enough for a single Read to see only the first.
const ChunkDelay = 50 * time.Millisecond

// Device answers GET_DATA with its reply and records every line it receives.
type Device struct {
	ln net.Listener
	wg sync.WaitGroup

	mu    sync.Mutex
	reply []string
	lines []string
}

// Start listens on a random loopback port. A reply given as several chunks is written
// piece by piece with ChunkDelay in between, like a firmware flushing early.
func Start(reply ...string) (*Device, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	d := &Device{ln: ln, reply: reply}
	d.wg.Add(1)
	go d.serve()
	return d, nil
}

func (d *Device) Addr() string {
	return d.ln.Addr().String()
}

// Lines returns the request lines received so far.
func (d *Device) Lines() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.lines...)
}

func (d *Device) Close() error {
	err := d.ln.Close()
	d.wg.Wait()
	return err
}

func (d *Device) serve() {
	defer d.wg.Done()
	for {
		conn, err := d.ln.Accept()
		if err != nil {
			return
		}
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.handle(conn)
		}()
	}
}

func (d *Device) handle(conn net.Conn) {
	defer conn.Close()
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil && line == "" {
		return
	}
	d.mu.Lock()
	d.lines = append(d.lines, line)
	reply := d.reply
	d.mu.Unlock()

	if strings.TrimSpace(line) != "GET_DATA" {
		return
	}
	for i, chunk := range reply {
		if i > 0 {
			time.Sleep(ChunkDelay)
		}
		if _, err := io.WriteString(conn, chunk); err != nil {
			return
		}
	}
}

// EncryptCBC pads seed with PKCS#7 and encrypts it the way the firmware does.
func EncryptCBC(key, iv, seed []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	n := aes.BlockSize - len(seed)%aes.BlockSize
	padded := append(append([]byte{}, seed...), bytes.Repeat([]byte{byte(n)}, n)...)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	return hex.EncodeToString(out), nil
}

// EncryptECB encrypts a single 16 byte seed block.
func EncryptECB(key, seed []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	if len(seed) != aes.BlockSize {
		return "", fmt.Errorf("ecb seed must be %d bytes", aes.BlockSize)
	}
	out := make([]byte, aes.BlockSize)
	block.Encrypt(out, seed)
	return hex.EncodeToString(out), nil
}

// Response formats a GET_DATA answer.
func Response(length, complexity int, keyHex string) string {
	return fmt.Sprintf("LEN:%d,COMPLEX:%d,KEY:%s\n", length, complexity, keyHex)
}
