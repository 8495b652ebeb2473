package hybridpipe

// GroupID references a group entry installed on a device.
type GroupID uint32

// GroupState is the installation state of a group on a device. Only groups
// in state GroupAdded count as installed for hardware eligibility.
type GroupState int

const (
	GroupPendingAdd GroupState = iota
	GroupAdded
	GroupPendingDelete
)

// GroupType is the fan-out semantic of a group.
type GroupType int

const (
	GroupAll GroupType = iota
	GroupSelect
	GroupIndirect
	GroupFailover
)

func (t GroupType) String() string {
	switch t {
	case GroupAll:
		return "all"
	case GroupSelect:
		return "select"
	case GroupIndirect:
		return "indirect"
	case GroupFailover:
		return "failover"
	}
	return "unknown"
}

// Group is the read-only view of a device group entry.
type Group struct {
	ID    GroupID
	State GroupState
	Type  GroupType
}

// GroupReader is the read-only query interface onto the group-management
// subsystem, consumed during classification of group actions.
type GroupReader interface {
	Groups(deviceID string) []Group
}
