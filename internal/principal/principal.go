package principal

import (
	"encoding/base32"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"strings"
)

var (
	ErrInvalidPrincipal = errors.New("invalid principal text")
)

// encoding is the unpadded base32 alphabet used by the principal text format.
var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Principal is the opaque identity of a caller. The raw bytes are treated as
// an opaque blob; only the text codec and address derivation interpret them.
type Principal struct {
	raw []byte
}

// FromBytes wraps raw principal bytes without validation.
func FromBytes(b []byte) Principal {
	raw := make([]byte, len(b))
	copy(raw, b)
	return Principal{raw: raw}
}

// FromText parses the canonical dash-grouped base32 text form. The decoded
// value carries a 4-byte big-endian CRC32 prefix over the principal bytes,
// which is verified here.
func FromText(s string) (Principal, error) {
	compact := strings.ReplaceAll(strings.TrimSpace(s), "-", "")
	if compact == "" {
		return Principal{}, ErrInvalidPrincipal
	}

	decoded, err := encoding.DecodeString(strings.ToUpper(compact))
	if err != nil {
		return Principal{}, ErrInvalidPrincipal
	}
	if len(decoded) < 4 {
		return Principal{}, ErrInvalidPrincipal
	}

	check := binary.BigEndian.Uint32(decoded[:4])
	raw := decoded[4:]
	if crc32.ChecksumIEEE(raw) != check {
		return Principal{}, ErrInvalidPrincipal
	}

	return FromBytes(raw), nil
}

// Bytes returns a copy of the raw principal bytes.
func (p Principal) Bytes() []byte {
	b := make([]byte, len(p.raw))
	copy(b, p.raw)
	return b
}

func (p Principal) IsZero() bool {
	return len(p.raw) == 0
}

// String renders the canonical text form: base32(crc32(raw) || raw),
// lower-case, grouped in runs of five separated by dashes.
func (p Principal) String() string {
	buf := make([]byte, 4+len(p.raw))
	binary.BigEndian.PutUint32(buf[:4], crc32.ChecksumIEEE(p.raw))
	copy(buf[4:], p.raw)

	encoded := strings.ToLower(encoding.EncodeToString(buf))

	var sb strings.Builder
	for i, r := range encoded {
		if i > 0 && i%5 == 0 {
			sb.WriteByte('-')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
