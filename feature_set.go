package hybridpipe

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// StaticDefaults is a per-model manual capability configuration: everything a
// device of that model cannot process at all, software or hardware. Used to
// seed a FeatureSet when no capability discovery has run.
type StaticDefaults struct {
	Fields  []FieldKind
	Actions []ActionKind
	L2Mods  []L2Subtype
	L3Mods  []L3Subtype
	L4Mods  []L4Subtype
}

// FeatureSet holds the capabilities of a single device: the sets of match
// fields, actions and modification subtypes the device does not support at
// all, and the subsets additionally confirmed to run in the hardware table.
//
// A FeatureSet is shared between the discovery-reply ingestion path and
// concurrent classification reads; all access goes through its lock.
type FeatureSet struct {
	mu sync.RWMutex

	unsupportedFields  map[FieldKind]struct{}
	unsupportedActions map[ActionKind]struct{}
	unsupportedL2      map[L2Subtype]struct{}
	unsupportedL3      map[L3Subtype]struct{}
	unsupportedL4      map[L4Subtype]struct{}

	hardwareFields  map[FieldKind]struct{}
	hardwareActions map[ActionKind]struct{}
	hardwareL2      map[L2Subtype]struct{}
	hardwareL3      map[L3Subtype]struct{}
	hardwareL4      map[L4Subtype]struct{}

	autoDiscovered bool
}

// newFeatureSet builds a FeatureSet with every known kind marked unsupported.
// Nothing is presumed supported until discovery or static defaults prove
// otherwise.
func newFeatureSet() *FeatureSet {
	s := emptyFeatureSet()
	for _, k := range AllFieldKinds() {
		s.unsupportedFields[k] = struct{}{}
	}
	for _, k := range AllActionKinds() {
		s.unsupportedActions[k] = struct{}{}
	}
	for _, sub := range AllL2Subtypes() {
		s.unsupportedL2[sub] = struct{}{}
	}
	for _, sub := range AllL3Subtypes() {
		s.unsupportedL3[sub] = struct{}{}
	}
	for _, sub := range AllL4Subtypes() {
		s.unsupportedL4[sub] = struct{}{}
	}
	return s
}

// newFeatureSetWithDefaults builds a FeatureSet whose unsupported sets are
// exactly the given static defaults. The hardware sets stay empty.
func newFeatureSetWithDefaults(defaults StaticDefaults) *FeatureSet {
	s := emptyFeatureSet()
	for _, k := range defaults.Fields {
		s.unsupportedFields[k] = struct{}{}
	}
	for _, k := range defaults.Actions {
		s.unsupportedActions[k] = struct{}{}
	}
	for _, sub := range defaults.L2Mods {
		s.unsupportedL2[sub] = struct{}{}
	}
	for _, sub := range defaults.L3Mods {
		s.unsupportedL3[sub] = struct{}{}
	}
	for _, sub := range defaults.L4Mods {
		s.unsupportedL4[sub] = struct{}{}
	}
	return s
}

func emptyFeatureSet() *FeatureSet {
	return &FeatureSet{
		unsupportedFields:  make(map[FieldKind]struct{}),
		unsupportedActions: make(map[ActionKind]struct{}),
		unsupportedL2:      make(map[L2Subtype]struct{}),
		unsupportedL3:      make(map[L3Subtype]struct{}),
		unsupportedL4:      make(map[L4Subtype]struct{}),
		hardwareFields:     make(map[FieldKind]struct{}),
		hardwareActions:    make(map[ActionKind]struct{}),
		hardwareL2:         make(map[L2Subtype]struct{}),
		hardwareL3:         make(map[L3Subtype]struct{}),
		hardwareL4:         make(map[L4Subtype]struct{}),
	}
}

// AutoDiscovered reports whether the set was populated from a capability
// reply, as opposed to static defaults only.
func (s *FeatureSet) AutoDiscovered() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.autoDiscovered
}

// RecordSupportedField marks a match field as supported by the device.
// Idempotent.
func (s *FeatureSet) RecordSupportedField(kind FieldKind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.unsupportedFields, kind)
}

// RecordSupportedAction marks an action kind as supported. Idempotent.
func (s *FeatureSet) RecordSupportedAction(kind ActionKind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.unsupportedActions, kind)
}

// RecordSupportedL2Mod marks an L2 modification subtype as supported.
func (s *FeatureSet) RecordSupportedL2Mod(sub L2Subtype) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.unsupportedL2, sub)
}

// RecordSupportedL3Mod marks an L3 modification subtype as supported.
func (s *FeatureSet) RecordSupportedL3Mod(sub L3Subtype) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.unsupportedL3, sub)
}

// RecordSupportedL4Mod marks an L4 modification subtype as supported.
func (s *FeatureSet) RecordSupportedL4Mod(sub L4Subtype) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.unsupportedL4, sub)
}

// RecordHardwareField marks a match field as runnable in the hardware table,
// which implies the field is supported at all.
func (s *FeatureSet) RecordHardwareField(kind FieldKind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hardwareFields[kind] = struct{}{}
	delete(s.unsupportedFields, kind)
}

// RecordHardwareAction marks an action kind as hardware-capable.
func (s *FeatureSet) RecordHardwareAction(kind ActionKind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hardwareActions[kind] = struct{}{}
	delete(s.unsupportedActions, kind)
}

// RecordHardwareL2Mod marks an L2 modification subtype as hardware-capable.
func (s *FeatureSet) RecordHardwareL2Mod(sub L2Subtype) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hardwareL2[sub] = struct{}{}
	delete(s.unsupportedL2, sub)
}

// RecordHardwareL3Mod marks an L3 modification subtype as hardware-capable.
func (s *FeatureSet) RecordHardwareL3Mod(sub L3Subtype) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hardwareL3[sub] = struct{}{}
	delete(s.unsupportedL3, sub)
}

// RecordHardwareL4Mod marks an L4 modification subtype as hardware-capable.
func (s *FeatureSet) RecordHardwareL4Mod(sub L4Subtype) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hardwareL4[sub] = struct{}{}
	delete(s.unsupportedL4, sub)
}

// UnsupportedFields returns a copy of the set of unsupported match fields.
func (s *FeatureSet) UnsupportedFields() map[FieldKind]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copySet(s.unsupportedFields)
}

// UnsupportedActions returns a copy of the set of unsupported action kinds.
func (s *FeatureSet) UnsupportedActions() map[ActionKind]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copySet(s.unsupportedActions)
}

// UnsupportedL2Mods returns a copy of the unsupported L2 subtypes.
func (s *FeatureSet) UnsupportedL2Mods() map[L2Subtype]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copySet(s.unsupportedL2)
}

// UnsupportedL3Mods returns a copy of the unsupported L3 subtypes.
func (s *FeatureSet) UnsupportedL3Mods() map[L3Subtype]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copySet(s.unsupportedL3)
}

// UnsupportedL4Mods returns a copy of the unsupported L4 subtypes.
func (s *FeatureSet) UnsupportedL4Mods() map[L4Subtype]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copySet(s.unsupportedL4)
}

// HardwareFields returns a copy of the hardware-capable match fields.
func (s *FeatureSet) HardwareFields() map[FieldKind]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copySet(s.hardwareFields)
}

// HardwareActions returns a copy of the hardware-capable action kinds.
func (s *FeatureSet) HardwareActions() map[ActionKind]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copySet(s.hardwareActions)
}

// HardwareL2Mods returns a copy of the hardware-capable L2 subtypes.
func (s *FeatureSet) HardwareL2Mods() map[L2Subtype]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copySet(s.hardwareL2)
}

// HardwareL3Mods returns a copy of the hardware-capable L3 subtypes.
func (s *FeatureSet) HardwareL3Mods() map[L3Subtype]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copySet(s.hardwareL3)
}

// HardwareL4Mods returns a copy of the hardware-capable L4 subtypes.
func (s *FeatureSet) HardwareL4Mods() map[L4Subtype]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copySet(s.hardwareL4)
}

// LogSummary logs the size of every capability set at debug level, keyed by
// device for correlation with discovery logs.
func (s *FeatureSet) LogSummary(deviceID string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log.WithFields(log.Fields{
		"device":              deviceID,
		"auto_discovered":     s.autoDiscovered,
		"unsupported_fields":  len(s.unsupportedFields),
		"unsupported_actions": len(s.unsupportedActions),
		"hardware_fields":     len(s.hardwareFields),
		"hardware_actions":    len(s.hardwareActions),
		"hardware_l2":         len(s.hardwareL2),
		"hardware_l3":         len(s.hardwareL3),
		"hardware_l4":         len(s.hardwareL4),
	}).Debug("device capability summary")
}

func copySet[K comparable](src map[K]struct{}) map[K]struct{} {
	dst := make(map[K]struct{}, len(src))
	for k := range src {
		dst[k] = struct{}{}
	}
	return dst
}
