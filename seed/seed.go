// Package seed recovers the raw entropy the device ships encrypted with the shared AES-128 secret.
package seed

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/awnumar/memguard"
)

// Mode selects the wire variant the firmware was built with. A device speaks exactly one.
type Mode string

const (
	ModeCBC Mode = "cbc" // two blocks, AES-128-CBC with PKCS#7 padding
	ModeECB Mode = "ecb" // one block, no chaining, no padding
)

const (
	cbcCiphertextSize = 2 * aes.BlockSize
	ecbCiphertextSize = aes.BlockSize
)

var (
	ErrInvalidHex      = errors.New("invalid HEX key format")
	ErrCiphertextSize  = errors.New("unexpected ciphertext size")
	ErrPadding         = errors.New("decryption / padding error")
	ErrUnsupportedMode = errors.New("unsupported cipher mode")
)

// Secret is the key material shared out-of-band with the firmware. It is never sent over the wire.
type Secret struct {
	Key [16]byte
	IV  [16]byte
}

// ParseMode accepts cbc or ecb, any case.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeCBC:
		return ModeCBC, nil
	case ModeECB:
		return ModeECB, nil
	default:
		return "", fmt.Errorf("%w %q (want cbc or ecb)", ErrUnsupportedMode, s)
	}
}

// Decrypter unwraps seeds for one configured device. Safe for concurrent use.
type Decrypter struct {
	block cipher.Block
	iv    [16]byte
	mode  Mode
}

func NewDecrypter(secret Secret, mode Mode) (*Decrypter, error) {
	if mode != ModeCBC && mode != ModeECB {
		return nil, fmt.Errorf("%w %q", ErrUnsupportedMode, mode)
	}
	block, err := aes.NewCipher(secret.Key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to initialize decryptor: %v", err)
	}
	return &Decrypter{block: block, iv: secret.IV, mode: mode}, nil
}

func (d *Decrypter) Mode() Mode {
	return d.mode
}

// CiphertextSize is the exact number of raw bytes the mode accepts.
func (d *Decrypter) CiphertextSize() int {
	if d.mode == ModeECB {
		return ecbCiphertextSize
	}
	return cbcCiphertextSize
}

// DecryptSeed hex-decodes ciphertextHex and decrypts it. The size is checked before
// the cipher is touched. The returned slice belongs to the caller, who should wipe it.
func (d *Decrypter) DecryptSeed(ciphertextHex string) ([]byte, error) {
	buf, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	if want := d.CiphertextSize(); len(buf) != want {
		return nil, fmt.Errorf("%w: expected %d bytes of ciphertext, got %d", ErrCiphertextSize, want, len(buf))
	}

	switch d.mode {
	case ModeECB:
		d.block.Decrypt(buf, buf)
		return buf, nil
	default:
		cipher.NewCBCDecrypter(d.block, d.iv[:]).CryptBlocks(buf, buf)
		plain, err := unpadPKCS7(buf, aes.BlockSize)
		if err != nil {
			memguard.WipeBytes(buf)
			return nil, fmt.Errorf("%w: %v", ErrPadding, err)
		}
		// padding bytes are not part of the seed
		memguard.WipeBytes(buf[len(plain):])
		return plain, nil
	}
}
