// Package codec holds the payload transforms applied between a caller's
// value and the bytes a tier actually stores: serialization, optional
// compression for large payloads, and optional encryption.
package codec

/*
Codec is the compression collaborator.

Any lossless byte codec satisfies the contract; the cache only requires
that Decompress(Compress(b)) returns b byte-for-byte. The codec must be
stateless so logically-concurrent cache operations can share one instance.
*/
type Codec interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}
