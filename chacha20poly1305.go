// Package chacha20poly1305 implements the ChaCha20-Poly1305 AEAD
// construction as defined in RFC 8439. The underlying ChaCha20 and Poly1305
// primitives come from golang.org/x/crypto.
package chacha20poly1305

import (
	"crypto/cipher"
	"errors"

	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/poly1305"
)

const (
	// KeySize is the size of the secret key in bytes.
	KeySize = 32

	// NonceSize is the size of the nonce in bytes. Nonces must be unique
	// per key; the library does not and cannot enforce this.
	NonceSize = 12

	// TagSize is the size of the Poly1305 authentication tag in bytes.
	TagSize = 16

	// maxPlaintextSize is the largest message the 32-bit block counter
	// can keystream in a single call.
	maxPlaintextSize = (1 << 38) - 64

	// maxCiphertextSize is maxPlaintextSize plus the tag, for the
	// combined ciphertext||tag format.
	maxCiphertextSize = (1 << 38) - 48
)

var (
	// ErrInvalidKey is returned when the key is absent or not exactly 32 bytes.
	ErrInvalidKey = errors.New("chacha20poly1305: invalid key size")

	// ErrMissingArgument is returned when a required buffer is nil.
	ErrMissingArgument = errors.New("chacha20poly1305: missing required argument")

	// ErrLengthMismatch is returned when the plaintext and ciphertext
	// buffers differ in length.
	ErrLengthMismatch = errors.New("chacha20poly1305: plaintext and ciphertext lengths differ")

	// ErrInvalidNonceLength is returned when the nonce is not exactly
	// NonceSize (or NonceSizeX) bytes.
	ErrInvalidNonceLength = errors.New("chacha20poly1305: invalid nonce size")

	// ErrInvalidTagLength is returned when the tag buffer is not exactly
	// TagSize bytes.
	ErrInvalidTagLength = errors.New("chacha20poly1305: invalid tag size")

	// ErrTagMismatch is returned when decryption fails authentication.
	ErrTagMismatch = errors.New("chacha20poly1305: message authentication failed")

	// ErrCiphertextTooShort is returned when a combined ciphertext is
	// shorter than the tag.
	ErrCiphertextTooShort = errors.New("chacha20poly1305: ciphertext too short")

	// ErrLengthOverflow is returned when a message is too large for a
	// single keystream.
	ErrLengthOverflow = errors.New("chacha20poly1305: message too large")
)

// ChaCha20Poly1305 implements the RFC 8439 AEAD construction.
// It implements the cipher.AEAD interface.
type ChaCha20Poly1305 struct {
	key      [KeySize]byte
	released bool
}

var _ cipher.AEAD = (*ChaCha20Poly1305)(nil)

// New creates a new ChaCha20-Poly1305 instance with the given key.
// The key must be exactly 32 bytes long and is copied; the caller's slice
// is not retained.
func New(key []byte) (*ChaCha20Poly1305, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}

	c := new(ChaCha20Poly1305)
	copy(c.key[:], key)
	return c, nil
}

// checkArgs validates the detached-form arguments. It runs before any
// cryptographic work and has no side effects on failure. A nil in buffer is
// a valid empty message; a nil out buffer is only valid for one.
func checkArgs(nonceSize int, nonce, tag, in, out []byte) error {
	if nonce == nil || tag == nil {
		return ErrMissingArgument
	}
	if out == nil && len(in) > 0 {
		return ErrMissingArgument
	}
	if len(out) != len(in) {
		return ErrLengthMismatch
	}
	if len(nonce) != nonceSize {
		return ErrInvalidNonceLength
	}
	if len(tag) != TagSize {
		return ErrInvalidTagLength
	}
	if uint64(len(in)) > maxPlaintextSize {
		return ErrLengthOverflow
	}
	return nil
}

// seal encrypts plaintext into ciphertext and writes the Poly1305 tag.
// Arguments are assumed validated.
func (c *ChaCha20Poly1305) seal(ciphertext, tag, nonce, plaintext, additionalData []byte) {
	s, err := chacha20.NewUnauthenticatedCipher(c.key[:], nonce)
	if err != nil {
		panic(err) // key and nonce sizes were already checked
	}

	// The first 32 bytes of keystream block 0 are the one-time Poly1305
	// key; the rest of the block is discarded. Data starts at block 1.
	var polyKey [KeySize]byte
	defer clear(polyKey[:])
	s.XORKeyStream(polyKey[:], polyKey[:])
	s.SetCounter(1)

	s.XORKeyStream(ciphertext, plaintext)

	var t [TagSize]byte
	defer clear(t[:])
	poly1305.Sum(&t, macData(additionalData, ciphertext), &polyKey)
	copy(tag, t[:])
}

// open verifies the tag over the received ciphertext and, only on success,
// decrypts it into plaintext. On failure the plaintext buffer is zero-filled
// so that no stale caller data survives the call. Arguments are assumed
// validated.
func (c *ChaCha20Poly1305) open(plaintext, nonce, ciphertext, tag, additionalData []byte) error {
	s, err := chacha20.NewUnauthenticatedCipher(c.key[:], nonce)
	if err != nil {
		panic(err) // key and nonce sizes were already checked
	}

	var polyKey [KeySize]byte
	defer clear(polyKey[:])
	s.XORKeyStream(polyKey[:], polyKey[:])
	s.SetCounter(1)

	var received [TagSize]byte
	defer clear(received[:])
	copy(received[:], tag)

	// poly1305.Verify compares in constant time.
	if !poly1305.Verify(&received, macData(additionalData, ciphertext), &polyKey) {
		clear(plaintext)
		return ErrTagMismatch
	}

	s.XORKeyStream(plaintext, ciphertext)
	return nil
}

// Encrypt encrypts plaintext into the caller-supplied ciphertext buffer and
// writes the authentication tag into the caller-supplied tag buffer. The
// ciphertext buffer must have the same length as the plaintext and the tag
// buffer must be exactly TagSize bytes. additionalData is authenticated but
// not encrypted and may be nil. The plaintext is never modified.
func (c *ChaCha20Poly1305) Encrypt(nonce, plaintext, ciphertext, tag, additionalData []byte) error {
	if c.released {
		panic("chacha20poly1305: use of released context")
	}
	if err := checkArgs(NonceSize, nonce, tag, plaintext, ciphertext); err != nil {
		return err
	}

	c.seal(ciphertext, tag, nonce, plaintext, additionalData)
	return nil
}

// Decrypt verifies the tag over ciphertext and additionalData and, only if
// it matches, decrypts the ciphertext into the caller-supplied plaintext
// buffer. On ErrTagMismatch the plaintext buffer is zero-filled.
func (c *ChaCha20Poly1305) Decrypt(nonce, ciphertext, tag, plaintext, additionalData []byte) error {
	if c.released {
		panic("chacha20poly1305: use of released context")
	}
	if err := checkArgs(NonceSize, nonce, tag, ciphertext, plaintext); err != nil {
		return err
	}

	return c.open(plaintext, nonce, ciphertext, tag, additionalData)
}

// Seal encrypts and authenticates plaintext and appends the result,
// ciphertext followed by the 16-byte tag, to dst. The nonce must be
// NonceSize bytes and unique for all time, for the given key.
func (c *ChaCha20Poly1305) Seal(dst, nonce, plaintext, additionalData []byte) []byte {
	if c.released {
		panic("chacha20poly1305: use of released context")
	}
	if len(nonce) != NonceSize {
		panic("chacha20poly1305: bad nonce length passed to Seal")
	}
	if uint64(len(plaintext)) > maxPlaintextSize {
		panic("chacha20poly1305: plaintext too large")
	}

	ret, out := sliceForAppend(dst, len(plaintext)+TagSize)
	c.seal(out[:len(plaintext)], out[len(plaintext):], nonce, plaintext, additionalData)
	return ret
}

// Open authenticates and decrypts a combined ciphertext||tag buffer,
// appending the plaintext to dst. It returns ErrTagMismatch if the message
// was tampered with.
func (c *ChaCha20Poly1305) Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error) {
	if c.released {
		panic("chacha20poly1305: use of released context")
	}
	if len(nonce) != NonceSize {
		return nil, ErrInvalidNonceLength
	}
	if len(ciphertext) < TagSize {
		return nil, ErrCiphertextTooShort
	}
	if uint64(len(ciphertext)) > maxCiphertextSize {
		return nil, ErrLengthOverflow
	}

	tag := ciphertext[len(ciphertext)-TagSize:]
	ciphertext = ciphertext[:len(ciphertext)-TagSize]

	ret, out := sliceForAppend(dst, len(ciphertext))
	if err := c.open(out, nonce, ciphertext, tag, additionalData); err != nil {
		return nil, err
	}
	return ret, nil
}

// Release overwrites the stored key with zeros. The context must not be
// used afterwards: any further operation panics. The caller must not
// release a context while an operation on it is in flight.
func (c *ChaCha20Poly1305) Release() {
	clear(c.key[:])
	c.released = true
}

// sliceForAppend extends the input slice to accommodate n more bytes.
// Returns the extended slice and the n-byte slice to write to.
func sliceForAppend(in []byte, n int) (head, tail []byte) {
	if total := len(in) + n; cap(in) >= total {
		head = in[:total]
	} else {
		head = make([]byte, total)
		copy(head, in)
	}
	tail = head[len(in):]
	return
}

// NonceSize returns the size of the nonce that must be passed to Seal and Open.
func (c *ChaCha20Poly1305) NonceSize() int {
	return NonceSize
}

// Overhead returns the difference between plaintext and combined ciphertext lengths.
func (c *ChaCha20Poly1305) Overhead() int {
	return TagSize
}
