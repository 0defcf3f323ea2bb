package vault

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/scrypt"
)

var (
	// ErrInvalidCiphertext indicates the ciphertext is empty, not hex, or not
	// block-aligned.
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
	// ErrInvalidPadding indicates the decrypted plaintext carried broken
	// PKCS#7 padding, which almost always means a wrong key or corrupt file.
	ErrInvalidPadding = errors.New("invalid padding")
)

// deriveKey stretches the fixed passphrase into a 32-byte AES key. The
// parameters match the previous implementation of this tool so that vault
// files written by it keep decrypting.
func deriveKey(passphrase, salt string) ([]byte, error) {
	return scrypt.Key([]byte(passphrase), []byte(salt), 16384, 8, 1, 32)
}

// encrypt applies AES-256-CBC with an all-zero IV and returns the ciphertext
// hex-encoded. The fixed IV means identical plaintexts produce identical
// ciphertexts; it is kept for wire compatibility with existing vault files
// rather than generated per write.
func encrypt(key, plaintext []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	out := make([]byte, len(padded))
	iv := make([]byte, aes.BlockSize)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)

	return hex.EncodeToString(out), nil
}

// decrypt reverses encrypt.
func decrypt(key []byte, ciphertext string) ([]byte, error) {
	raw, err := hex.DecodeString(ciphertext)
	if err != nil {
		return nil, ErrInvalidCiphertext
	}
	if len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return nil, ErrInvalidCiphertext
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(raw))
	iv := make([]byte, aes.BlockSize)
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, raw)

	return pkcs7Unpad(out, aes.BlockSize)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrInvalidPadding
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, ErrInvalidPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrInvalidPadding
		}
	}
	return data[:len(data)-n], nil
}
