/*
Package chacha20poly1305 implements the ChaCha20-Poly1305 authenticated
encryption with associated data (AEAD) construction as defined in RFC 8439,
along with its XChaCha20-Poly1305 extended-nonce variant.

ChaCha20-Poly1305 combines the ChaCha20 stream cipher with the Poly1305
one-time authenticator: the first keystream block keys Poly1305 for the
message, the following blocks encrypt the payload, and the tag covers both
the ciphertext and optional associated data that is authenticated but not
encrypted.

Sizes (fixed by the construction):
  - Key: 32 bytes
  - Nonce: 12 bytes (24 bytes for XChaCha20-Poly1305)
  - Tag: 16 bytes

Nonces must never repeat for a given key: reusing a (key, nonce) pair reuses
keystream and destroys both confidentiality and authenticity. The 12-byte
nonce is best used as a counter; the 24-byte XChaCha20-Poly1305 nonce is
large enough to be drawn at random.

Basic Usage:

	key := make([]byte, chacha20poly1305.KeySize)
	// Fill key with random bytes...

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		panic(err)
	}
	defer aead.Release()

	nonce := make([]byte, chacha20poly1305.NonceSize)
	plaintext := []byte("secret message")
	ad := []byte("additional authenticated data")

	// Encrypt: returns ciphertext with the 16-byte tag appended
	ciphertext := aead.Seal(nil, nonce, plaintext, ad)

	// Decrypt
	decrypted, err := aead.Open(nil, nonce, ciphertext, ad)
	if err != nil {
		panic("authentication failed")
	}

Detached Operation:

	// Encrypt into caller-supplied buffers, tag kept separate
	ciphertext := make([]byte, len(plaintext))
	tag := make([]byte, chacha20poly1305.TagSize)
	err := aead.Encrypt(nonce, plaintext, ciphertext, tag, ad)

	// Decrypt verifies the tag before producing any plaintext; on
	// failure the output buffer is zero-filled
	decrypted := make([]byte, len(ciphertext))
	err = aead.Decrypt(nonce, ciphertext, tag, decrypted, ad)

Both ChaCha20Poly1305 and XChaCha20Poly1305 implement crypto/cipher.AEAD.

Release overwrites the stored key with zeros; a released instance panics on
further use. Encrypt and decrypt calls on one instance are safe to run
concurrently, but Release must not race with in-flight calls. Per-message
secrets, such as the one-time Poly1305 key and derived subkeys, never
outlive the call that produced them.
*/
package chacha20poly1305
