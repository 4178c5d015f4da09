package codec

import (
	"crypto/rand"
	"errors"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrCiphertextTooShort is returned when a stored payload is shorter than
// the nonce it must begin with. It means the entry was truncated or written
// by something other than this cache.
var ErrCiphertextTooShort = errors.New("codec: ciphertext shorter than nonce")

/*
Encryptor applies authenticated encryption to payloads when a caller opts
in at Set time.

Encryption is the LAST transform on write (after compression), so it is
the FIRST to be reversed on read. The nonce is generated per payload and
prepended to the ciphertext; there is no shared mutable state, so one
Encryptor serves any number of logically-concurrent operations.
*/
type Encryptor struct {
	key []byte
}

// NewEncryptor builds an Encryptor from a 32-byte key.
func NewEncryptor(key []byte) (*Encryptor, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, errors.New("codec: encryption key must be 32 bytes")
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &Encryptor{key: k}, nil
}

func (e *Encryptor) Encrypt(plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(e.key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (e *Encryptor) Decrypt(ciphertext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(e.key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < aead.NonceSize() {
		return nil, ErrCiphertextTooShort
	}
	nonce, sealed := ciphertext[:aead.NonceSize()], ciphertext[aead.NonceSize():]
	return aead.Open(nil, nonce, sealed, nil)
}
