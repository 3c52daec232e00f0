package chacha20poly1305

import (
	"crypto/cipher"

	"golang.org/x/crypto/chacha20"
)

// NonceSizeX is the size of the nonce used by XChaCha20-Poly1305, in bytes.
// 24-byte nonces are large enough to be chosen at random with a negligible
// risk of collision.
const NonceSizeX = 24

// XChaCha20Poly1305 is the extended-nonce variant of the construction.
// HChaCha20 compresses the key and the first 16 nonce bytes into a
// per-message subkey; the remaining 8 nonce bytes feed the regular
// 12-byte-nonce construction.
// It implements the cipher.AEAD interface.
type XChaCha20Poly1305 struct {
	key      [KeySize]byte
	released bool
}

var _ cipher.AEAD = (*XChaCha20Poly1305)(nil)

// NewX creates a new XChaCha20-Poly1305 instance with the given 32-byte key.
func NewX(key []byte) (*XChaCha20Poly1305, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}

	x := new(XChaCha20Poly1305)
	copy(x.key[:], key)
	return x, nil
}

// derive builds the inner 12-byte-nonce context for one message. The caller
// must Release it before returning so the subkey does not outlive the call.
func (x *XChaCha20Poly1305) derive(nonce []byte) (*ChaCha20Poly1305, [NonceSize]byte) {
	subKey, err := chacha20.HChaCha20(x.key[:], nonce[:16])
	if err != nil {
		panic(err) // key and nonce sizes were already checked
	}

	inner := new(ChaCha20Poly1305)
	copy(inner.key[:], subKey)
	clear(subKey)

	var innerNonce [NonceSize]byte
	copy(innerNonce[4:], nonce[16:])
	return inner, innerNonce
}

// Encrypt is the detached form of Seal; see ChaCha20Poly1305.Encrypt.
// The nonce must be NonceSizeX bytes.
func (x *XChaCha20Poly1305) Encrypt(nonce, plaintext, ciphertext, tag, additionalData []byte) error {
	if x.released {
		panic("chacha20poly1305: use of released context")
	}
	if err := checkArgs(NonceSizeX, nonce, tag, plaintext, ciphertext); err != nil {
		return err
	}

	inner, innerNonce := x.derive(nonce)
	defer inner.Release()
	inner.seal(ciphertext, tag, innerNonce[:], plaintext, additionalData)
	return nil
}

// Decrypt is the detached form of Open; see ChaCha20Poly1305.Decrypt.
// On ErrTagMismatch the plaintext buffer is zero-filled.
func (x *XChaCha20Poly1305) Decrypt(nonce, ciphertext, tag, plaintext, additionalData []byte) error {
	if x.released {
		panic("chacha20poly1305: use of released context")
	}
	if err := checkArgs(NonceSizeX, nonce, tag, ciphertext, plaintext); err != nil {
		return err
	}

	inner, innerNonce := x.derive(nonce)
	defer inner.Release()
	return inner.open(plaintext, innerNonce[:], ciphertext, tag, additionalData)
}

// Seal encrypts and authenticates plaintext and appends ciphertext||tag to dst.
func (x *XChaCha20Poly1305) Seal(dst, nonce, plaintext, additionalData []byte) []byte {
	if x.released {
		panic("chacha20poly1305: use of released context")
	}
	if len(nonce) != NonceSizeX {
		panic("chacha20poly1305: bad nonce length passed to Seal")
	}
	if uint64(len(plaintext)) > maxPlaintextSize {
		panic("chacha20poly1305: plaintext too large")
	}

	inner, innerNonce := x.derive(nonce)
	defer inner.Release()

	ret, out := sliceForAppend(dst, len(plaintext)+TagSize)
	inner.seal(out[:len(plaintext)], out[len(plaintext):], innerNonce[:], plaintext, additionalData)
	return ret
}

// Open authenticates and decrypts a combined ciphertext||tag buffer.
func (x *XChaCha20Poly1305) Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error) {
	if x.released {
		panic("chacha20poly1305: use of released context")
	}
	if len(nonce) != NonceSizeX {
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

	inner, innerNonce := x.derive(nonce)
	defer inner.Release()

	ret, out := sliceForAppend(dst, len(ciphertext))
	if err := inner.open(out, innerNonce[:], ciphertext, tag, additionalData); err != nil {
		return nil, err
	}
	return ret, nil
}

// Release overwrites the stored key with zeros. The context must not be
// used afterwards: any further operation panics.
func (x *XChaCha20Poly1305) Release() {
	clear(x.key[:])
	x.released = true
}

// NonceSize returns the size of the nonce that must be passed to Seal and Open.
func (x *XChaCha20Poly1305) NonceSize() int {
	return NonceSizeX
}

// Overhead returns the difference between plaintext and combined ciphertext lengths.
func (x *XChaCha20Poly1305) Overhead() int {
	return TagSize
}
