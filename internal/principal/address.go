package principal

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash/crc32"
)

// accountDomainSeparator prefixes the digest input so account identifiers can
// never collide with hashes computed for other purposes over the same bytes.
const accountDomainSeparator = "\x0Aaccount-id"

// Subaccount scopes an account identifier below a principal. The default
// (all-zero) subaccount is used everywhere in this service.
type Subaccount [32]byte

var DefaultSubaccount = Subaccount{}

// AccountIdentifier is the canonical binary address of a principal on the
// ledger: a 4-byte big-endian CRC32 check followed by the 28-byte SHA-224
// digest of domain separator + principal + subaccount.
type AccountIdentifier [32]byte

// AccountID derives the ledger address for a principal and subaccount.
func AccountID(p Principal, sub Subaccount) AccountIdentifier {
	h := sha256.New224()
	h.Write([]byte(accountDomainSeparator))
	h.Write(p.raw)
	h.Write(sub[:])
	digest := h.Sum(nil)

	var out AccountIdentifier
	binary.BigEndian.PutUint32(out[:4], crc32.ChecksumIEEE(digest))
	copy(out[4:], digest)
	return out
}

func (a AccountIdentifier) Bytes() []byte {
	b := make([]byte, len(a))
	copy(b, a[:])
	return b
}

// Hex renders the address as lower-case hex, the form exposed over the API.
func (a AccountIdentifier) Hex() string {
	return hex.EncodeToString(a[:])
}
