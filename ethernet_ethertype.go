package hybridpipe

import (
	"encoding/binary"
	"fmt"
)

// EtherType is a type used to represent the EtherType of an ethernet frame.
// Defined as a 2-byte array, variables of this type are intended to be used as
// immutable values.
type EtherType [2]byte

func (e EtherType) Equal(other EtherType) bool {
	return e[0] == other[0] && e[1] == other[1]
}

func (e EtherType) Uint16() uint16 {
	return binary.BigEndian.Uint16(e[:])
}

func (e EtherType) String() string {
	return fmt.Sprintf("0x%04x", e.Uint16())
}

// EtherTypeFromUint16 builds an EtherType from its numeric form, as found in
// profile files and eth_type criteria.
func EtherTypeFromUint16(v uint16) EtherType {
	var e EtherType
	binary.BigEndian.PutUint16(e[:], v)
	return e
}

// EtherType values the model quirks care about
var (
	EtherTypeIPv4 = EtherType{0x08, 0x00}
	EtherTypeARP  = EtherType{0x08, 0x06}
	EtherTypeVLAN = EtherType{0x81, 0x00}
	EtherTypeIPv6 = EtherType{0x86, 0xDD}
	EtherTypeMPLS = EtherType{0x88, 0x47}
	EtherTypeLLDP = EtherType{0x88, 0xCC}
)
