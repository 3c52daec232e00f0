package chacha20poly1305

import (
	"bytes"
	"testing"

	xcrypto "golang.org/x/crypto/chacha20poly1305"
)

func TestXAgainstReference(t *testing.T) {
	key := make([]byte, KeySize)
	fill(key, 0x5A)
	nonce := make([]byte, NonceSizeX)
	fill(nonce, 0xC3)

	aead, err := NewX(key)
	if err != nil {
		t.Fatalf("NewX() failed: %v", err)
	}
	ref, err := xcrypto.NewX(key)
	if err != nil {
		t.Fatalf("reference NewX() failed: %v", err)
	}

	for _, ptLen := range []int{0, 1, 16, 64, 115, 1000} {
		for _, adLen := range []int{0, 12, 17} {
			plaintext := make([]byte, ptLen)
			fill(plaintext, byte(ptLen))
			ad := make([]byte, adLen)
			fill(ad, byte(adLen))

			got := aead.Seal(nil, nonce, plaintext, ad)
			want := ref.Seal(nil, nonce, plaintext, ad)
			if !bytes.Equal(got, want) {
				t.Fatalf("pt=%d ad=%d: Seal() mismatch\ngot:  %x\nwant: %x",
					ptLen, adLen, got, want)
			}

			if _, err := aead.Open(nil, nonce, want, ad); err != nil {
				t.Fatalf("pt=%d ad=%d: Open() of reference output failed: %v",
					ptLen, adLen, err)
			}
			if _, err := ref.Open(nil, nonce, got, ad); err != nil {
				t.Fatalf("pt=%d ad=%d: reference Open() of our output failed: %v",
					ptLen, adLen, err)
			}
		}
	}
}

func TestXRoundTripDetached(t *testing.T) {
	key := make([]byte, KeySize)
	fill(key, 0x77)
	aead, _ := NewX(key)

	nonce := make([]byte, NonceSizeX)
	fill(nonce, 0x88)
	plaintext := []byte("extended nonce round trip")
	ad := []byte("context")

	ciphertext := make([]byte, len(plaintext))
	tag := make([]byte, TagSize)
	if err := aead.Encrypt(nonce, plaintext, ciphertext, tag, ad); err != nil {
		t.Fatalf("Encrypt() failed: %v", err)
	}

	decrypted := make([]byte, len(ciphertext))
	if err := aead.Decrypt(nonce, ciphertext, tag, decrypted, ad); err != nil {
		t.Fatalf("Decrypt() failed: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("Decrypt() failed\ngot:  %x\nwant: %x", decrypted, plaintext)
	}

	// Detached and combined forms must agree.
	sealed := aead.Seal(nil, nonce, plaintext, ad)
	if !bytes.Equal(sealed[:len(plaintext)], ciphertext) {
		t.Error("detached and combined ciphertexts differ")
	}
	if !bytes.Equal(sealed[len(plaintext):], tag) {
		t.Error("detached and combined tags differ")
	}
}

func TestXTamperDetection(t *testing.T) {
	key := make([]byte, KeySize)
	aead, _ := NewX(key)

	nonce := make([]byte, NonceSizeX)
	plaintext := []byte("payload")
	sealed := aead.Seal(nil, nonce, plaintext, nil)

	for i := range sealed {
		modified := make([]byte, len(sealed))
		copy(modified, sealed)
		modified[i] ^= 0x80

		if _, err := aead.Open(nil, nonce, modified, nil); err != ErrTagMismatch {
			t.Fatalf("byte %d: expected ErrTagMismatch, got %v", i, err)
		}
	}

	// A different nonce must reject the message as well.
	otherNonce := make([]byte, NonceSizeX)
	otherNonce[0] = 1
	if _, err := aead.Open(nil, otherNonce, sealed, nil); err != ErrTagMismatch {
		t.Errorf("expected ErrTagMismatch for wrong nonce, got %v", err)
	}
}

func TestXNonceValidation(t *testing.T) {
	key := make([]byte, KeySize)
	aead, _ := NewX(key)

	plaintext := []byte("message")
	ciphertext := make([]byte, len(plaintext))
	tag := make([]byte, TagSize)

	// The 12-byte nonce of the base construction is invalid here.
	shortNonce := make([]byte, NonceSize)
	if err := aead.Encrypt(shortNonce, plaintext, ciphertext, tag, nil); err != ErrInvalidNonceLength {
		t.Errorf("expected ErrInvalidNonceLength, got %v", err)
	}
	if _, err := aead.Open(nil, shortNonce, make([]byte, TagSize), nil); err != ErrInvalidNonceLength {
		t.Errorf("expected ErrInvalidNonceLength, got %v", err)
	}
}

func TestXRelease(t *testing.T) {
	key := make([]byte, KeySize)
	fill(key, 0x99)
	aead, _ := NewX(key)
	aead.Release()

	for i, b := range aead.key {
		if b != 0 {
			t.Fatalf("key byte %d is %#x after Release(), want 0", i, b)
		}
	}

	defer func() {
		if recover() == nil {
			t.Error("Seal() after Release() did not panic")
		}
	}()
	aead.Seal(nil, make([]byte, NonceSizeX), nil, nil)
}

func TestXNonceSizeAndOverhead(t *testing.T) {
	key := make([]byte, KeySize)
	aead, _ := NewX(key)

	if aead.NonceSize() != NonceSizeX {
		t.Errorf("expected nonce size %d, got %d", NonceSizeX, aead.NonceSize())
	}
	if aead.Overhead() != TagSize {
		t.Errorf("expected overhead %d, got %d", TagSize, aead.Overhead())
	}
}

func BenchmarkXSeal(b *testing.B) {
	key := make([]byte, KeySize)
	aead, _ := NewX(key)
	nonce := make([]byte, NonceSizeX)
	plaintext := make([]byte, 1024)
	ad := make([]byte, 32)

	b.SetBytes(int64(len(plaintext)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		aead.Seal(nil, nonce, plaintext, ad)
	}
}
