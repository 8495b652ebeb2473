package hybridpipe

// TableID identifies one of the two processing stages of a hybrid switch
// pipeline. Hardware offers line-rate processing for a restricted capability
// subset, software offers full capability at lower performance.
type TableID uint8

const (
	HardwareTable TableID = 100
	SoftwareTable TableID = 200
)

func (t TableID) String() string {
	switch t {
	case HardwareTable:
		return "hardware"
	case SoftwareTable:
		return "software"
	}
	return "unknown"
}

// PortNumber is a logical switch port. ControllerPort is the reserved port
// addressing the controller itself.
type PortNumber uint32

const ControllerPort PortNumber = 0xfffffffd

// Criterion is a single match entry of a rule. Value carries the raw match
// value and is opaque to classification, except for eth_type criteria where
// the EtherType is consulted by model quirks.
type Criterion struct {
	Kind    FieldKind
	EthType EtherType
	Value   []byte
}

// Action is a single entry of a rule's action list. The subtype fields are
// meaningful only for the corresponding modification kind; Port only for
// output actions, Group only for group actions.
type Action struct {
	Kind ActionKind
	L2   L2Subtype
	L3   L3Subtype
	L4   L4Subtype

	Port  PortNumber
	Group GroupID
}

// Rule is a forwarding rule submitted for installation: match criteria
// (unique by kind) plus an ordered action list. ClearDeferred marks rules
// that clear previously deferred actions, an effect no modeled device runs
// in hardware.
type Rule struct {
	Criteria      []Criterion
	Actions       []Action
	ClearDeferred bool
}

// HasCriterion reports whether the rule carries a criterion of the given kind.
func (r Rule) HasCriterion(kind FieldKind) bool {
	for _, c := range r.Criteria {
		if c.Kind == kind {
			return true
		}
	}
	return false
}

// Placement is the outcome of classifying a rule. For software placements,
// HardwareMatch holds the reduced hardware-eligible subset of the rule's
// criteria, usable for an auxiliary hardware pre-filter rule.
type Placement struct {
	Table         TableID
	HardwareMatch []Criterion
}
