package hybridpipe

import "fmt"

// ActionKind is an abstract category of rule action. Modification kinds
// (L0..L4) carry a further subtype on the Action itself.
type ActionKind int

const (
	ActionOutput ActionKind = iota
	ActionGroup
	ActionMeter
	ActionQueue
	ActionMetadata
	ActionExtension
	ActionL0Mod
	ActionL1Mod
	ActionL2Mod
	ActionL3Mod
	ActionL4Mod
	ActionProtocolIndependent
	ActionStatTrigger

	actionKindEnd
)

var actionKindNames = map[ActionKind]string{
	ActionOutput:              "output",
	ActionGroup:               "group",
	ActionMeter:               "meter",
	ActionQueue:               "queue",
	ActionMetadata:            "metadata",
	ActionExtension:           "extension",
	ActionL0Mod:               "l0_mod",
	ActionL1Mod:               "l1_mod",
	ActionL2Mod:               "l2_mod",
	ActionL3Mod:               "l3_mod",
	ActionL4Mod:               "l4_mod",
	ActionProtocolIndependent: "protocol_independent",
	ActionStatTrigger:         "stat_trigger",
}

func (k ActionKind) String() string {
	if name, ok := actionKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(k))
}

// ParseActionKind resolves an action name as used in model profile files.
func ParseActionKind(name string) (ActionKind, error) {
	for kind, n := range actionKindNames {
		if n == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", name)
}

// AllActionKinds returns every defined ActionKind.
func AllActionKinds() []ActionKind {
	kinds := make([]ActionKind, 0, int(actionKindEnd))
	for k := ActionOutput; k < actionKindEnd; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// L2Subtype narrows an ActionL2Mod action to the specific ethernet-level
// rewrite it performs.
type L2Subtype int

const (
	L2EthSrc L2Subtype = iota
	L2EthDst
	L2VlanID
	L2VlanPcp
	L2VlanPush
	L2VlanPop
	L2MPLSPush
	L2MPLSPop
	L2MPLSLabel
	L2MPLSBos
	L2TunnelID
	L2DecMPLSTTL

	l2SubtypeEnd
)

var l2SubtypeNames = map[L2Subtype]string{
	L2EthSrc:     "eth_src",
	L2EthDst:     "eth_dst",
	L2VlanID:     "vlan_id",
	L2VlanPcp:    "vlan_pcp",
	L2VlanPush:   "vlan_push",
	L2VlanPop:    "vlan_pop",
	L2MPLSPush:   "mpls_push",
	L2MPLSPop:    "mpls_pop",
	L2MPLSLabel:  "mpls_label",
	L2MPLSBos:    "mpls_bos",
	L2TunnelID:   "tunnel_id",
	L2DecMPLSTTL: "dec_mpls_ttl",
}

func (s L2Subtype) String() string {
	if name, ok := l2SubtypeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("l2_mod(%d)", int(s))
}

// ParseL2Subtype resolves an L2 modification name from a profile file.
func ParseL2Subtype(name string) (L2Subtype, error) {
	for sub, n := range l2SubtypeNames {
		if n == name {
			return sub, nil
		}
	}
	return 0, fmt.Errorf("unknown l2 modification %q", name)
}

// AllL2Subtypes returns every defined L2Subtype.
func AllL2Subtypes() []L2Subtype {
	subs := make([]L2Subtype, 0, int(l2SubtypeEnd))
	for s := L2EthSrc; s < l2SubtypeEnd; s++ {
		subs = append(subs, s)
	}
	return subs
}

// L3Subtype narrows an ActionL3Mod action.
type L3Subtype int

const (
	L3IPv4Src L3Subtype = iota
	L3IPv4Dst
	L3IPv6Src
	L3IPv6Dst
	L3IPv6FlowLabel
	L3DecTTL
	L3TTLIn
	L3TTLOut
	L3ARPOp
	L3ARPSpa
	L3ARPSha

	l3SubtypeEnd
)

var l3SubtypeNames = map[L3Subtype]string{
	L3IPv4Src:       "ipv4_src",
	L3IPv4Dst:       "ipv4_dst",
	L3IPv6Src:       "ipv6_src",
	L3IPv6Dst:       "ipv6_dst",
	L3IPv6FlowLabel: "ipv6_flabel",
	L3DecTTL:        "dec_ttl",
	L3TTLIn:         "ttl_in",
	L3TTLOut:        "ttl_out",
	L3ARPOp:         "arp_op",
	L3ARPSpa:        "arp_spa",
	L3ARPSha:        "arp_sha",
}

func (s L3Subtype) String() string {
	if name, ok := l3SubtypeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("l3_mod(%d)", int(s))
}

// ParseL3Subtype resolves an L3 modification name from a profile file.
func ParseL3Subtype(name string) (L3Subtype, error) {
	for sub, n := range l3SubtypeNames {
		if n == name {
			return sub, nil
		}
	}
	return 0, fmt.Errorf("unknown l3 modification %q", name)
}

// AllL3Subtypes returns every defined L3Subtype.
func AllL3Subtypes() []L3Subtype {
	subs := make([]L3Subtype, 0, int(l3SubtypeEnd))
	for s := L3IPv4Src; s < l3SubtypeEnd; s++ {
		subs = append(subs, s)
	}
	return subs
}

// L4Subtype narrows an ActionL4Mod action.
type L4Subtype int

const (
	L4TCPSrc L4Subtype = iota
	L4TCPDst
	L4UDPSrc
	L4UDPDst

	l4SubtypeEnd
)

var l4SubtypeNames = map[L4Subtype]string{
	L4TCPSrc: "tcp_src",
	L4TCPDst: "tcp_dst",
	L4UDPSrc: "udp_src",
	L4UDPDst: "udp_dst",
}

func (s L4Subtype) String() string {
	if name, ok := l4SubtypeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("l4_mod(%d)", int(s))
}

// ParseL4Subtype resolves an L4 modification name from a profile file.
func ParseL4Subtype(name string) (L4Subtype, error) {
	for sub, n := range l4SubtypeNames {
		if n == name {
			return sub, nil
		}
	}
	return 0, fmt.Errorf("unknown l4 modification %q", name)
}

// AllL4Subtypes returns every defined L4Subtype.
func AllL4Subtypes() []L4Subtype {
	subs := make([]L4Subtype, 0, int(l4SubtypeEnd))
	for s := L4TCPSrc; s < l4SubtypeEnd; s++ {
		subs = append(subs, s)
	}
	return subs
}
