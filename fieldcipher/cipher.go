// Package fieldcipher encrypts individual PII fields at rest.
//
// The envelope format is a wire contract shared with previously written
// records: colon-joined hex segments. Current records are AES-256-GCM with a
// 16-byte nonce, encoded as "nonce:tag:ciphertext". Legacy records are
// AES-256-CBC encoded as "nonce:ciphertext" and are decrypted but never
// produced. Values without a colon are treated as plaintext and passed
// through unchanged in both directions.
package fieldcipher

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	keyLength   = 32
	nonceLength = 16
	delimiter   = ":"
)

// ErrDecrypt reports an envelope that failed authentication, hex decoding,
// or has a segment count that is neither the legacy nor the current shape.
var ErrDecrypt = errors.New("fieldcipher: decryption failed")

// Cipher performs authenticated field encryption with a fixed key derived
// from a variable-length passphrase. It is safe for concurrent use.
type Cipher struct {
	key []byte
}

// New derives the AES-256 key by right-padding the secret with '0' bytes and
// truncating to 32 bytes, matching the key schedule of the records already
// in storage. An empty secret is rejected.
func New(secret string) (*Cipher, error) {
	if secret == "" {
		return nil, errors.New("fieldcipher: empty secret")
	}
	key := make([]byte, keyLength)
	copy(key, secret)
	for i := len(secret); i < keyLength; i++ {
		key[i] = '0'
	}
	return &Cipher{key: key}, nil
}

// Encrypt seals plaintext into a "nonce:tag:ciphertext" hex envelope with a
// fresh random nonce per call. Empty input is returned unchanged so optional
// fields stay absent rather than becoming ciphertext of "".
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return plaintext, nil
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("fieldcipher: %w", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, nonceLength)
	if err != nil {
		return "", fmt.Errorf("fieldcipher: %w", err)
	}

	nonce := make([]byte, nonceLength)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("fieldcipher: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, []byte(plaintext), nil)
	tagStart := len(sealed) - gcm.Overhead()
	ciphertext, tag := sealed[:tagStart], sealed[tagStart:]

	return hex.EncodeToString(nonce) + delimiter +
		hex.EncodeToString(tag) + delimiter +
		hex.EncodeToString(ciphertext), nil
}

// Decrypt opens an envelope produced by Encrypt, or a legacy two-segment
// CBC envelope. Input without a delimiter is returned unchanged: records
// written before field encryption was introduced are already plaintext.
func (c *Cipher) Decrypt(envelope string) (string, error) {
	if envelope == "" || !strings.Contains(envelope, delimiter) {
		return envelope, nil
	}

	parts := strings.Split(envelope, delimiter)
	switch len(parts) {
	case 2:
		return c.decryptLegacy(parts[0], parts[1])
	case 3:
		return c.decryptGCM(parts[0], parts[1], parts[2])
	default:
		return "", fmt.Errorf("%w: unexpected envelope shape", ErrDecrypt)
	}
}

func (c *Cipher) decryptGCM(nonceHex, tagHex, ctHex string) (string, error) {
	nonce, err := hex.DecodeString(nonceHex)
	if err != nil {
		return "", fmt.Errorf("%w: bad nonce encoding", ErrDecrypt)
	}
	tag, err := hex.DecodeString(tagHex)
	if err != nil {
		return "", fmt.Errorf("%w: bad tag encoding", ErrDecrypt)
	}
	ciphertext, err := hex.DecodeString(ctHex)
	if err != nil {
		return "", fmt.Errorf("%w: bad ciphertext encoding", ErrDecrypt)
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("fieldcipher: %w", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, len(nonce))
	if err != nil {
		return "", fmt.Errorf("%w: bad nonce length", ErrDecrypt)
	}
	if len(tag) != gcm.Overhead() {
		return "", fmt.Errorf("%w: bad tag length", ErrDecrypt)
	}

	plaintext, err := gcm.Open(nil, nonce, append(ciphertext, tag...), nil)
	if err != nil {
		return "", fmt.Errorf("%w: authentication failed", ErrDecrypt)
	}
	return string(plaintext), nil
}

// decryptLegacy handles records written by the pre-AEAD CBC code path.
func (c *Cipher) decryptLegacy(ivHex, ctHex string) (string, error) {
	iv, err := hex.DecodeString(ivHex)
	if err != nil || len(iv) != aes.BlockSize {
		return "", fmt.Errorf("%w: bad legacy iv", ErrDecrypt)
	}
	ciphertext, err := hex.DecodeString(ctHex)
	if err != nil || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: bad legacy ciphertext", ErrDecrypt)
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("fieldcipher: %w", err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := stripPKCS7(plaintext)
	if err != nil {
		return "", err
	}
	return string(unpadded), nil
}

func stripPKCS7(data []byte) ([]byte, error) {
	n := int(data[len(data)-1])
	if n == 0 || n > aes.BlockSize || n > len(data) {
		return nil, fmt.Errorf("%w: bad legacy padding", ErrDecrypt)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("%w: bad legacy padding", ErrDecrypt)
		}
	}
	return data[:len(data)-n], nil
}
