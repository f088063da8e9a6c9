package cookies

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha1"

	"golang.org/x/crypto/pbkdf2"
)

// Key-derivation parameters fixed by Chromium's own scheme for
// Safe Storage on macOS; not a free design choice.
const (
	keySalt       = "saltysalt"
	keyIterations = 1003
	keyLength     = 16
)

// encryption IV: sixteen spaces, again fixed by Chromium.
var cookieIV = bytes.Repeat([]byte{' '}, aes.BlockSize)

// deriveKey derives the AES-128 cookie key from the Safe Storage
// passphrase.
func deriveKey(passphrase string) []byte {
	return pbkdf2.Key([]byte(passphrase), []byte(keySalt), keyIterations, keyLength, sha1.New)
}

// decryptValue decrypts one encrypted_value. Values carry a "v10" or
// "v11" version prefix; unprefixed values are already plaintext and pass
// through. Any decryption failure yields "".
func decryptValue(encrypted []byte, key []byte) string {
	if len(encrypted) == 0 {
		return ""
	}

	prefix := string(encrypted[:min(3, len(encrypted))])
	if prefix != "v10" && prefix != "v11" {
		return string(encrypted)
	}

	payload := encrypted[3:]
	if len(payload) == 0 || len(payload)%aes.BlockSize != 0 {
		return ""
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return ""
	}

	decrypted := make([]byte, len(payload))
	cipher.NewCBCDecrypter(block, cookieIV).CryptBlocks(decrypted, payload)

	return string(stripPKCS7(decrypted))
}

// stripPKCS7 removes PKCS#7 padding; malformed padding yields nil.
func stripPKCS7(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	n := int(data[len(data)-1])
	if n == 0 || n > aes.BlockSize || n > len(data) {
		return nil
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil
		}
	}
	return data[:len(data)-n]
}
