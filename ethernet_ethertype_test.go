package hybridpipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEtherTypeRoundTrip(t *testing.T) {
	assert.Equal(t, EtherTypeIPv4, EtherTypeFromUint16(0x0800))
	assert.Equal(t, EtherTypeVLAN, EtherTypeFromUint16(0x8100))
	assert.Equal(t, uint16(0x86dd), EtherTypeIPv6.Uint16())

	assert.True(t, EtherTypeIPv4.Equal(EtherTypeFromUint16(0x0800)))
	assert.False(t, EtherTypeIPv4.Equal(EtherTypeARP))

	assert.Equal(t, "0x0800", EtherTypeIPv4.String())
}
