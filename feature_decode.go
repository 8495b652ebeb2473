package hybridpipe

import (
	log "github.com/sirupsen/logrus"
)

// ActionCode is a protocol-level action type code as advertised by a device
// in its capability reply. The enumeration is closed; unknown codes decode
// to a miss and are skipped by callers.
type ActionCode int

const (
	ActionCodeOutput ActionCode = iota
	ActionCodeSetVlanVid
	ActionCodeSetVlanPcp
	ActionCodeSetDlSrc
	ActionCodeSetDlDst
	ActionCodeSetNwSrc
	ActionCodeSetNwDst
	ActionCodeSetTpSrc
	ActionCodeSetTpDst
	ActionCodeEnqueue
	ActionCodeCopyTTLOut
	ActionCodeCopyTTLIn
	ActionCodeSetMPLSLabel
	ActionCodeDecMPLSTTL
	ActionCodePushVLAN
	ActionCodePopVLAN
	ActionCodePushMPLS
	ActionCodePopMPLS
	ActionCodeGroup
	ActionCodeDecNwTTL
	ActionCodeMeter
	ActionCodeExperimenter
)

const oxmExperimenterClass = 0xffff

// oxmFieldKinds is the fixed ordered table mapping the 7-bit OXM field index
// to the abstract match-field kind.
var oxmFieldKinds = [...]FieldKind{
	FieldInPort,
	FieldInPhyPort,
	FieldMetadata,
	FieldEthDst,
	FieldEthSrc,
	FieldEthType,
	FieldVlanVid,
	FieldVlanPcp,
	FieldIPDscp,
	FieldIPEcn,
	FieldIPProto,
	FieldIPv4Src,
	FieldIPv4Dst,
	FieldTCPSrc,
	FieldTCPDst,
	FieldUDPSrc,
	FieldUDPDst,
	FieldSCTPSrc,
	FieldSCTPDst,
	FieldICMPv4Type,
	FieldICMPv4Code,
	FieldARPOp,
	FieldARPSpa,
	FieldARPTpa,
	FieldARPSha,
	FieldARPTha,
	FieldIPv6Src,
	FieldIPv6Dst,
	FieldIPv6FlowLabel,
	FieldICMPv6Type,
	FieldICMPv6Code,
	FieldIPv6NDTarget,
	FieldIPv6NDSll,
	FieldIPv6NDTll,
	FieldMPLSLabel,
	FieldMPLSTc,
	FieldMPLSBos,
	FieldPBBIsid,
	FieldTunnelID,
	FieldIPv6ExtHdr,
}

// DecodeMatchField interprets a raw 32-bit OXM header. Bits 31..16 carry the
// match class (all-ones is the experimenter class and cannot be interpreted),
// bits 15..9 carry the field index into the fixed field table. A false return
// means the header is unrecognized; callers log and skip.
func DecodeMatchField(header uint32) (FieldKind, bool) {
	class := header >> 16
	if class == oxmExperimenterClass {
		log.WithField("header", header).
			Warn("cannot interpret experimenter match class")
		return 0, false
	}

	index := int(header >> 9 & 0x7f)
	if index >= len(oxmFieldKinds) {
		log.WithField("header", header).
			WithField("index", index).
			Warn("cannot interpret match field index")
		return 0, false
	}

	return oxmFieldKinds[index], true
}

var actionCodeKinds = map[ActionCode]ActionKind{
	ActionCodeGroup:        ActionGroup,
	ActionCodeMeter:        ActionMeter,
	ActionCodeOutput:       ActionOutput,
	ActionCodeEnqueue:      ActionQueue,
	ActionCodeExperimenter: ActionExtension,
}

// DecodeAction maps an action code to its plain (non-modification) action
// kind. Modification codes miss here and are resolved through the subtype
// decoders.
func DecodeAction(code ActionCode) (ActionKind, bool) {
	kind, ok := actionCodeKinds[code]
	return kind, ok
}

var l2SubtypeCodes = map[ActionCode]L2Subtype{
	ActionCodeSetVlanPcp:   L2VlanPcp,
	ActionCodeDecMPLSTTL:   L2DecMPLSTTL,
	ActionCodePopMPLS:      L2MPLSPop,
	ActionCodePopVLAN:      L2VlanPop,
	ActionCodePushMPLS:     L2MPLSPush,
	ActionCodePushVLAN:     L2VlanPush,
	ActionCodeSetDlDst:     L2EthDst,
	ActionCodeSetDlSrc:     L2EthSrc,
	ActionCodeSetMPLSLabel: L2MPLSLabel,
	ActionCodeSetVlanVid:   L2VlanID,
}

// DecodeL2Subtype maps an action code to an ethernet-level modification.
func DecodeL2Subtype(code ActionCode) (L2Subtype, bool) {
	sub, ok := l2SubtypeCodes[code]
	return sub, ok
}

var l3SubtypeCodes = map[ActionCode]L3Subtype{
	ActionCodeCopyTTLIn:  L3TTLIn,
	ActionCodeCopyTTLOut: L3TTLOut,
	ActionCodeDecNwTTL:   L3DecTTL,
	ActionCodeSetNwDst:   L3IPv4Dst,
	ActionCodeSetNwSrc:   L3IPv4Src,
}

// DecodeL3Subtype maps an action code to an IP-level modification.
func DecodeL3Subtype(code ActionCode) (L3Subtype, bool) {
	sub, ok := l3SubtypeCodes[code]
	return sub, ok
}

var l4SubtypeCodes = map[ActionCode]L4Subtype{
	ActionCodeSetTpSrc: L4TCPSrc,
	ActionCodeSetTpDst: L4TCPDst,
}

// DecodeL4Subtype maps an action code to a transport-level modification.
func DecodeL4Subtype(code ActionCode) (L4Subtype, bool) {
	sub, ok := l4SubtypeCodes[code]
	return sub, ok
}
