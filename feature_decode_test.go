package hybridpipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// oxmHeader builds a raw match-field header for the basic match class.
func oxmHeader(index int) uint32 {
	return 0x8000<<16 | uint32(index)<<9
}

func TestDecodeMatchFieldTable(t *testing.T) {
	expected := []FieldKind{
		FieldInPort, FieldInPhyPort, FieldMetadata, FieldEthDst, FieldEthSrc,
		FieldEthType, FieldVlanVid, FieldVlanPcp, FieldIPDscp, FieldIPEcn,
		FieldIPProto, FieldIPv4Src, FieldIPv4Dst, FieldTCPSrc, FieldTCPDst,
		FieldUDPSrc, FieldUDPDst, FieldSCTPSrc, FieldSCTPDst, FieldICMPv4Type,
		FieldICMPv4Code, FieldARPOp, FieldARPSpa, FieldARPTpa, FieldARPSha,
		FieldARPTha, FieldIPv6Src, FieldIPv6Dst, FieldIPv6FlowLabel,
		FieldICMPv6Type, FieldICMPv6Code, FieldIPv6NDTarget, FieldIPv6NDSll,
		FieldIPv6NDTll, FieldMPLSLabel, FieldMPLSTc, FieldMPLSBos,
		FieldPBBIsid, FieldTunnelID, FieldIPv6ExtHdr,
	}

	for index, want := range expected {
		kind, ok := DecodeMatchField(oxmHeader(index))
		assert.True(t, ok, "index %d", index)
		assert.Equal(t, want, kind, "index %d", index)
	}
}

func TestDecodeMatchFieldZeroClass(t *testing.T) {
	// legacy zero-class headers still carry a usable field index
	kind, ok := DecodeMatchField(uint32(5) << 9)
	assert.True(t, ok)
	assert.Equal(t, FieldEthType, kind)
}

func TestDecodeMatchFieldExperimenterClass(t *testing.T) {
	_, ok := DecodeMatchField(0xffff<<16 | uint32(3)<<9)
	assert.False(t, ok)
}

func TestDecodeMatchFieldIndexOutOfRange(t *testing.T) {
	for _, index := range []int{40, 63, 127} {
		_, ok := DecodeMatchField(oxmHeader(index))
		assert.False(t, ok, "index %d", index)
	}
}

func TestDecodeAction(t *testing.T) {
	cases := map[ActionCode]ActionKind{
		ActionCodeOutput:       ActionOutput,
		ActionCodeGroup:        ActionGroup,
		ActionCodeMeter:        ActionMeter,
		ActionCodeEnqueue:      ActionQueue,
		ActionCodeExperimenter: ActionExtension,
	}

	for code, want := range cases {
		kind, ok := DecodeAction(code)
		assert.True(t, ok)
		assert.Equal(t, want, kind)
	}

	// modification codes are not plain actions
	_, ok := DecodeAction(ActionCodeSetVlanPcp)
	assert.False(t, ok)

	_, ok = DecodeAction(ActionCode(999))
	assert.False(t, ok)
}

func TestDecodeModificationSubtypes(t *testing.T) {
	l2, ok := DecodeL2Subtype(ActionCodeSetVlanPcp)
	assert.True(t, ok)
	assert.Equal(t, L2VlanPcp, l2)

	l2, ok = DecodeL2Subtype(ActionCodeSetDlDst)
	assert.True(t, ok)
	assert.Equal(t, L2EthDst, l2)

	l3, ok := DecodeL3Subtype(ActionCodeDecNwTTL)
	assert.True(t, ok)
	assert.Equal(t, L3DecTTL, l3)

	l4, ok := DecodeL4Subtype(ActionCodeSetTpSrc)
	assert.True(t, ok)
	assert.Equal(t, L4TCPSrc, l4)

	_, ok = DecodeL2Subtype(ActionCodeOutput)
	assert.False(t, ok)
	_, ok = DecodeL3Subtype(ActionCodeSetVlanVid)
	assert.False(t, ok)
	_, ok = DecodeL4Subtype(ActionCodeSetNwSrc)
	assert.False(t, ok)
}
