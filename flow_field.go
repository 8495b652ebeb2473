package hybridpipe

import "fmt"

// FieldKind is an abstract, protocol-independent category of match field.
// The values are opaque tags, not wire codes; DecodeMatchField maps OXM
// headers onto them.
type FieldKind int

const (
	FieldInPort FieldKind = iota
	FieldInPhyPort
	FieldMetadata
	FieldEthDst
	FieldEthSrc
	FieldEthType
	FieldVlanVid
	FieldVlanPcp
	FieldIPDscp
	FieldIPEcn
	FieldIPProto
	FieldIPv4Src
	FieldIPv4Dst
	FieldTCPSrc
	FieldTCPDst
	FieldUDPSrc
	FieldUDPDst
	FieldSCTPSrc
	FieldSCTPDst
	FieldICMPv4Type
	FieldICMPv4Code
	FieldARPOp
	FieldARPSpa
	FieldARPTpa
	FieldARPSha
	FieldARPTha
	FieldIPv6Src
	FieldIPv6Dst
	FieldIPv6FlowLabel
	FieldICMPv6Type
	FieldICMPv6Code
	FieldIPv6NDTarget
	FieldIPv6NDSll
	FieldIPv6NDTll
	FieldMPLSLabel
	FieldMPLSTc
	FieldMPLSBos
	FieldPBBIsid
	FieldTunnelID
	FieldIPv6ExtHdr
	FieldSCTPSrcMasked
	FieldSCTPDstMasked

	fieldKindEnd
)

var fieldKindNames = map[FieldKind]string{
	FieldInPort:        "in_port",
	FieldInPhyPort:     "in_phy_port",
	FieldMetadata:      "metadata",
	FieldEthDst:        "eth_dst",
	FieldEthSrc:        "eth_src",
	FieldEthType:       "eth_type",
	FieldVlanVid:       "vlan_vid",
	FieldVlanPcp:       "vlan_pcp",
	FieldIPDscp:        "ip_dscp",
	FieldIPEcn:         "ip_ecn",
	FieldIPProto:       "ip_proto",
	FieldIPv4Src:       "ipv4_src",
	FieldIPv4Dst:       "ipv4_dst",
	FieldTCPSrc:        "tcp_src",
	FieldTCPDst:        "tcp_dst",
	FieldUDPSrc:        "udp_src",
	FieldUDPDst:        "udp_dst",
	FieldSCTPSrc:       "sctp_src",
	FieldSCTPDst:       "sctp_dst",
	FieldICMPv4Type:    "icmpv4_type",
	FieldICMPv4Code:    "icmpv4_code",
	FieldARPOp:         "arp_op",
	FieldARPSpa:        "arp_spa",
	FieldARPTpa:        "arp_tpa",
	FieldARPSha:        "arp_sha",
	FieldARPTha:        "arp_tha",
	FieldIPv6Src:       "ipv6_src",
	FieldIPv6Dst:       "ipv6_dst",
	FieldIPv6FlowLabel: "ipv6_flabel",
	FieldICMPv6Type:    "icmpv6_type",
	FieldICMPv6Code:    "icmpv6_code",
	FieldIPv6NDTarget:  "ipv6_nd_target",
	FieldIPv6NDSll:     "ipv6_nd_sll",
	FieldIPv6NDTll:     "ipv6_nd_tll",
	FieldMPLSLabel:     "mpls_label",
	FieldMPLSTc:        "mpls_tc",
	FieldMPLSBos:       "mpls_bos",
	FieldPBBIsid:       "pbb_isid",
	FieldTunnelID:      "tunnel_id",
	FieldIPv6ExtHdr:    "ipv6_exthdr",
	FieldSCTPSrcMasked: "sctp_src_masked",
	FieldSCTPDstMasked: "sctp_dst_masked",
}

func (k FieldKind) String() string {
	if name, ok := fieldKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("field(%d)", int(k))
}

// ParseFieldKind resolves a field name as used in model profile files.
func ParseFieldKind(name string) (FieldKind, error) {
	for kind, n := range fieldKindNames {
		if n == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown match field %q", name)
}

// AllFieldKinds returns every defined FieldKind. Used to build the
// conservative "everything unsupported" default.
func AllFieldKinds() []FieldKind {
	kinds := make([]FieldKind, 0, int(fieldKindEnd))
	for k := FieldInPort; k < fieldKindEnd; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}
