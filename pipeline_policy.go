package hybridpipe

import "strings"

// ModelPolicy is the immutable per-model configuration of the classification
// engine: static-default capability tables used until discovery runs, the
// default table for unclassified rules, and the model's quirks on hardware
// eligibility. Policies are plain values built once at device attach.
type ModelPolicy struct {
	Name         string
	DefaultTable TableID

	// Defaults seeds a device's FeatureSet when no capability reply has
	// been ingested.
	Defaults StaticDefaults

	// Manual fallback hardware tables, in effect while the device's
	// FeatureSet is not auto-discovered. L3/L4 modification hardware sets
	// have no manual fallback, they are only ever learned from discovery.
	HardwareFields  []FieldKind
	HardwareActions []ActionKind
	HardwareL2Mods  []L2Subtype

	// Group types the model can run in hardware. Empty means group actions
	// never go to hardware.
	HardwareGroupTypes []GroupType

	// HardwareEthType constrains the value of an eth_type criterion for
	// hardware matching. Nil means no constraint.
	HardwareEthType func(EtherType) bool

	// PairedFields maps a criterion kind to another kind that must appear
	// in the same rule for the criterion to be hardware-eligible.
	PairedFields map[FieldKind]FieldKind

	// BlockedHardwareFields are kinds a specific sub-model never matches in
	// hardware regardless of what discovery advertised.
	BlockedHardwareFields []FieldKind
}

// defaultStaticFeatures is the manually-maintained unsupported set shared by
// both hardware module generations. Refer to the device manuals; these are
// the features no modeled switch processes at all.
func defaultStaticFeatures() StaticDefaults {
	return StaticDefaults{
		Fields: []FieldKind{
			FieldMetadata,
			FieldIPEcn,
			FieldSCTPSrc,
			FieldSCTPSrcMasked,
			FieldSCTPDst,
			FieldSCTPDstMasked,
			FieldIPv6NDSll,
			FieldIPv6NDTll,
			FieldMPLSLabel,
			FieldMPLSTc,
			FieldMPLSBos,
			FieldPBBIsid,
			FieldTunnelID,
			FieldIPv6ExtHdr,
		},
		Actions: []ActionKind{
			ActionQueue,
			ActionMetadata,
			ActionL0Mod,
			ActionL1Mod,
			ActionProtocolIndependent,
			ActionExtension,
			ActionStatTrigger,
		},
		L2Mods: []L2Subtype{
			L2MPLSPush,
			L2MPLSPop,
			L2MPLSLabel,
			L2MPLSBos,
			L2DecMPLSTTL,
		},
		L3Mods: []L3Subtype{
			L3TTLIn,
			L3TTLOut,
			L3DecTTL,
		},
		// all L4 modifications are supported
	}
}

// PolicyV1 is the policy for switches employing the V1 hardware module
// (2910, 3500, 6200, 6600 class devices). The hardware table handles a small
// IPv4-oriented match set; unclassified rules default to software.
func PolicyV1() ModelPolicy {
	return ModelPolicy{
		Name:         "v1",
		DefaultTable: SoftwareTable,
		Defaults:     defaultStaticFeatures(),
		HardwareFields: []FieldKind{
			FieldInPort,
			FieldVlanVid,
			FieldEthType,
			FieldIPv4Src,
			FieldIPv4Dst,
			FieldIPProto,
			FieldIPDscp,
			FieldTCPSrc,
			FieldTCPDst,
		},
		HardwareActions: []ActionKind{
			ActionOutput,
			ActionL2Mod,
		},
		HardwareL2Mods: []L2Subtype{
			L2VlanPcp,
		},
		// hardware match on eth_type works only for IPv4
		HardwareEthType: func(t EtherType) bool {
			return t.Equal(EtherTypeIPv4)
		},
		// in_port is matched in hardware only alongside an eth_type criterion
		PairedFields: map[FieldKind]FieldKind{
			FieldInPort: FieldEthType,
		},
	}
}

// PolicyV2 is the policy for switches employing the V2 hardware module
// (2920, 3800, 5400R class devices). Larger hardware match set, hardware
// groups of type all, and hardware as the default table. The hardware
// description is consulted for sub-model quirks: 2920 devices cannot match
// eth_dst in hardware.
func PolicyV2(hardwareDescription string) ModelPolicy {
	policy := ModelPolicy{
		Name:         "v2",
		DefaultTable: HardwareTable,
		Defaults:     defaultStaticFeatures(),
		HardwareFields: []FieldKind{
			FieldInPort,
			FieldVlanVid,
			FieldVlanPcp,
			FieldEthType,
			FieldEthSrc,
			FieldEthDst,
			FieldIPv4Src,
			FieldIPv4Dst,
			FieldIPProto,
			FieldIPDscp,
			FieldTCPSrc,
			FieldTCPDst,
		},
		HardwareActions: []ActionKind{
			ActionOutput,
			ActionGroup,
			ActionL2Mod,
		},
		HardwareL2Mods: []L2Subtype{
			L2EthSrc,
			L2EthDst,
			L2VlanID,
			L2VlanPcp,
		},
		HardwareGroupTypes: []GroupType{GroupAll},
		// hardware match on eth_type does not work for VLAN-tagged (0x8100)
		HardwareEthType: func(t EtherType) bool {
			return !t.Equal(EtherTypeVLAN)
		},
	}

	if strings.Contains(hardwareDescription, "2920") {
		policy.BlockedHardwareFields = []FieldKind{FieldEthDst}
	}

	return policy
}

func (p ModelPolicy) blocksHardwareField(kind FieldKind) bool {
	for _, blocked := range p.BlockedHardwareFields {
		if blocked == kind {
			return true
		}
	}
	return false
}

func (p ModelPolicy) hardwareGroupType(t GroupType) bool {
	for _, gt := range p.HardwareGroupTypes {
		if gt == t {
			return true
		}
	}
	return false
}
