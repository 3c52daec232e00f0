package chacha20poly1305

import "encoding/binary"

// macData assembles the message authenticated by Poly1305, laid out as in
// RFC 8439, section 2.8:
//
//	additionalData || pad16(additionalData)
//	|| ciphertext || pad16(ciphertext)
//	|| len(additionalData) || len(ciphertext)
//
// where pad16 pads with zero bytes up to the next 16-byte boundary and the
// two lengths are 8-byte little-endian values. This byte layout is a wire
// contract: any deviation produces tags incompatible with every other
// RFC 8439 implementation.
//
// The whole message is built in a single allocation.
func macData(additionalData, ciphertext []byte) []byte {
	adPad := padLen(len(additionalData))
	ctPad := padLen(len(ciphertext))

	msg := make([]byte, len(additionalData)+adPad+len(ciphertext)+ctPad+16)
	n := copy(msg, additionalData)
	n += adPad // padding bytes are already zero
	n += copy(msg[n:], ciphertext)
	n += ctPad
	binary.LittleEndian.PutUint64(msg[n:], uint64(len(additionalData)))
	binary.LittleEndian.PutUint64(msg[n+8:], uint64(len(ciphertext)))
	return msg
}

// padLen returns the number of zero bytes needed to bring n up to a
// multiple of 16, which is zero when n already is one.
func padLen(n int) int {
	return (16 - n%16) % 16
}
