package seed

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = Secret{
	Key: [16]byte{0x2B, 0x7E, 0x15, 0x16, 0x28, 0xAE, 0xD2, 0xA6, 0xAB, 0xF7, 0x15, 0x88, 0x09, 0xCF, 0x4F, 0x3C},
	IV:  [16]byte{0xff, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f},
}

// encryptCBC pads plain the way the firmware does and returns the hex ciphertext.
func encryptCBC(t *testing.T, secret Secret, plain []byte) string {
	t.Helper()
	n := aes.BlockSize - len(plain)%aes.BlockSize
	padded := append(append([]byte{}, plain...), bytes.Repeat([]byte{byte(n)}, n)...)
	block, err := aes.NewCipher(secret.Key[:])
	require.NoError(t, err)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, secret.IV[:]).CryptBlocks(out, padded)
	return hex.EncodeToString(out)
}

func encryptRawCBC(t *testing.T, secret Secret, padded []byte) string {
	t.Helper()
	block, err := aes.NewCipher(secret.Key[:])
	require.NoError(t, err)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, secret.IV[:]).CryptBlocks(out, padded)
	return hex.EncodeToString(out)
}

func seedBytes() []byte {
	b := make([]byte, 16)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

func TestDecryptSeedCBC(t *testing.T) {
	d, err := NewDecrypter(testSecret, ModeCBC)
	require.NoError(t, err)

	got, err := d.DecryptSeed(encryptCBC(t, testSecret, seedBytes()))
	require.NoError(t, err)
	assert.Equal(t, seedBytes(), got)
}

func TestDecryptSeedCBCUppercaseHex(t *testing.T) {
	d, err := NewDecrypter(testSecret, ModeCBC)
	require.NoError(t, err)

	ct := encryptCBC(t, testSecret, seedBytes())
	got, err := d.DecryptSeed(string(bytes.ToUpper([]byte(ct))))
	require.NoError(t, err)
	assert.Equal(t, seedBytes(), got)
}

func TestDecryptSeedCBCShortPlaintext(t *testing.T) {
	d, err := NewDecrypter(testSecret, ModeCBC)
	require.NoError(t, err)

	// 20 bytes of plaintext pad to two blocks as well
	plain := bytes.Repeat([]byte{0xAA}, 20)
	got, err := d.DecryptSeed(encryptCBC(t, testSecret, plain))
	require.NoError(t, err)
	assert.Equal(t, plain, got)
}

func TestDecryptSeedDeterministic(t *testing.T) {
	d, err := NewDecrypter(testSecret, ModeCBC)
	require.NoError(t, err)
	ct := encryptCBC(t, testSecret, seedBytes())

	first, err := d.DecryptSeed(ct)
	require.NoError(t, err)
	second, err := d.DecryptSeed(ct)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDecryptSeedInvalidHex(t *testing.T) {
	d, err := NewDecrypter(testSecret, ModeCBC)
	require.NoError(t, err)

	for _, in := range []string{"zz", "abc", "0g"} {
		_, err := d.DecryptSeed(in)
		assert.ErrorIs(t, err, ErrInvalidHex, in)
	}
}

func TestDecryptSeedWrongSize(t *testing.T) {
	d, err := NewDecrypter(testSecret, ModeCBC)
	require.NoError(t, err)

	_, err = d.DecryptSeed(hex.EncodeToString(make([]byte, 30)))
	require.ErrorIs(t, err, ErrCiphertextSize)
	assert.Contains(t, err.Error(), "expected 32 bytes of ciphertext, got 30")
	assert.False(t, errors.Is(err, ErrPadding), "decryption must not be attempted")
}

func TestDecryptSeedBadPadding(t *testing.T) {
	d, err := NewDecrypter(testSecret, ModeCBC)
	require.NoError(t, err)

	// last byte 0x00 is never valid PKCS#7
	padded := append(seedBytes(), make([]byte, 16)...)
	_, err = d.DecryptSeed(encryptRawCBC(t, testSecret, padded))
	assert.ErrorIs(t, err, ErrPadding)

	// inconsistent padding bytes
	padded = append(seedBytes(), bytes.Repeat([]byte{0x04}, 16)...)
	padded[len(padded)-2] = 0x03
	_, err = d.DecryptSeed(encryptRawCBC(t, testSecret, padded))
	assert.ErrorIs(t, err, ErrPadding)
}

func TestDecryptSeedWrongKey(t *testing.T) {
	other := testSecret
	other.Key[0] ^= 0xFF
	d, err := NewDecrypter(other, ModeCBC)
	require.NoError(t, err)

	got, err := d.DecryptSeed(encryptCBC(t, testSecret, seedBytes()))
	if err == nil {
		// garbage that happens to look padded is still not the seed
		assert.NotEqual(t, seedBytes(), got)
		return
	}
	assert.ErrorIs(t, err, ErrPadding)
}

func TestDecryptSeedECB(t *testing.T) {
	block, err := aes.NewCipher(testSecret.Key[:])
	require.NoError(t, err)
	ct := make([]byte, 16)
	block.Encrypt(ct, seedBytes())

	d, err := NewDecrypter(testSecret, ModeECB)
	require.NoError(t, err)
	assert.Equal(t, 16, d.CiphertextSize())

	got, err := d.DecryptSeed(hex.EncodeToString(ct))
	require.NoError(t, err)
	assert.Equal(t, seedBytes(), got)

	// a CBC sized payload is rejected in ECB mode
	_, err = d.DecryptSeed(hex.EncodeToString(make([]byte, 32)))
	assert.ErrorIs(t, err, ErrCiphertextSize)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" CBC ")
	require.NoError(t, err)
	assert.Equal(t, ModeCBC, m)

	m, err = ParseMode("ecb")
	require.NoError(t, err)
	assert.Equal(t, ModeECB, m)

	_, err = ParseMode("gcm")
	assert.ErrorIs(t, err, ErrUnsupportedMode)

	_, err = NewDecrypter(testSecret, Mode("ctr"))
	assert.ErrorIs(t, err, ErrUnsupportedMode)
}

func TestUnpadPKCS7(t *testing.T) {
	buf := append(bytes.Repeat([]byte{1}, 12), 4, 4, 4, 4)
	got, err := unpadPKCS7(buf, 16)
	require.NoError(t, err)
	assert.Len(t, got, 12)

	full := bytes.Repeat([]byte{16}, 16)
	got, err = unpadPKCS7(full, 16)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = unpadPKCS7(append(bytes.Repeat([]byte{1}, 15), 17), 16)
	assert.Error(t, err)

	_, err = unpadPKCS7([]byte{1, 2, 3}, 16)
	assert.Error(t, err)
}
