package seed

import "fmt"

// unpadPKCS7 strips and validates PKCS#7 padding in place.
func unpadPKCS7(buf []byte, blockSize int) ([]byte, error) {
	if len(buf) == 0 || len(buf)%blockSize != 0 {
		return nil, fmt.Errorf("invalid padded length %d", len(buf))
	}
	n := int(buf[len(buf)-1])
	if n == 0 || n > blockSize || n > len(buf) {
		return nil, fmt.Errorf("invalid padding size %d", n)
	}
	for _, b := range buf[len(buf)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("invalid padding byte")
		}
	}
	return buf[:len(buf)-n], nil
}
