package hybridpipe

import (
	log "github.com/sirupsen/logrus"
)

// PropertyType tags a property block inside a per-table capability record.
// The set is closed; blocks with types this module does not consume are
// skipped with a diagnostic.
type PropertyType int

const (
	PropInstructions      PropertyType = 0
	PropInstructionsMiss  PropertyType = 1
	PropNextTables        PropertyType = 2
	PropNextTablesMiss    PropertyType = 3
	PropWriteActions      PropertyType = 4
	PropWriteActionsMiss  PropertyType = 5
	PropApplyActions      PropertyType = 6
	PropApplyActionsMiss  PropertyType = 7
	PropMatch             PropertyType = 8
	PropWildcards         PropertyType = 10 // wildcardable fields, not matchable; never ingested
	PropWriteSetField     PropertyType = 12
	PropWriteSetFieldMiss PropertyType = 13
	PropApplySetField     PropertyType = 14
	PropApplySetFieldMiss PropertyType = 15
	PropExperimenter      PropertyType = 0xfffe
	PropExperimenterMiss  PropertyType = 0xffff
)

// TableFeatureProperty is one property block of a table's capability record:
// a type tag plus either raw match-field headers (match and set-field blocks)
// or raw action codes (action blocks).
type TableFeatureProperty struct {
	Type         PropertyType
	FieldHeaders []uint32
	ActionCodes  []ActionCode
}

// TableFeatures is the advertised capability record of a single table.
type TableFeatures struct {
	TableID    TableID
	Properties []TableFeatureProperty
}

// IngestTableFeatures populates the set from a capability-advertisement
// reply. Each decoded field or action is recorded as supported, and
// additionally as hardware-capable when the advertising table is one of the
// given hardware tables. Unknown codes and property-block types are skipped.
//
// The whole ingestion runs as one exclusive write section, so concurrent
// classification reads see either the state before or after it. Re-running
// with identical input is a no-op.
func (s *FeatureSet) IngestTableFeatures(entries []TableFeatures, hardwareTables ...TableID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range entries {
		isHardware := false
		for _, hw := range hardwareTables {
			if table.TableID == hw {
				isHardware = true
				break
			}
		}

		for _, prop := range table.Properties {
			switch prop.Type {
			case PropMatch:
				s.ingestMatchFields(prop.FieldHeaders, isHardware)
			case PropWriteActions, PropWriteActionsMiss, PropApplyActions, PropApplyActionsMiss:
				for _, code := range prop.ActionCodes {
					s.ingestAction(code, isHardware)
				}
			case PropWriteSetField, PropWriteSetFieldMiss, PropApplySetField, PropApplySetFieldMiss:
				s.ingestSetFields(prop.FieldHeaders, isHardware)
			default:
				log.WithField("property_type", int(prop.Type)).
					WithField("table", table.TableID).
					Warn("ignoring capability property block")
			}
		}
	}

	s.autoDiscovered = true
}

func (s *FeatureSet) ingestMatchFields(headers []uint32, isHardware bool) {
	for _, header := range headers {
		kind, ok := DecodeMatchField(header)
		if !ok {
			continue
		}

		delete(s.unsupportedFields, kind)
		if isHardware {
			s.hardwareFields[kind] = struct{}{}
		}
	}
}

// ingestAction resolves an advertised action code to a plain action kind or,
// failing that, to an L2/L3/L4 modification subtype.
func (s *FeatureSet) ingestAction(code ActionCode, isHardware bool) {
	if kind, ok := DecodeAction(code); ok {
		delete(s.unsupportedActions, kind)
		if isHardware {
			s.hardwareActions[kind] = struct{}{}
		}
		return
	}

	if sub, ok := DecodeL2Subtype(code); ok {
		s.ingestL2Mod(sub, isHardware)
		return
	}

	if sub, ok := DecodeL3Subtype(code); ok {
		s.ingestL3Mod(sub, isHardware)
		return
	}

	if sub, ok := DecodeL4Subtype(code); ok {
		s.ingestL4Mod(sub, isHardware)
		return
	}

	log.WithField("action_code", int(code)).
		Warn("cannot interpret action code")
}

func (s *FeatureSet) ingestL2Mod(sub L2Subtype, isHardware bool) {
	delete(s.unsupportedActions, ActionL2Mod)
	delete(s.unsupportedL2, sub)
	if isHardware {
		s.hardwareActions[ActionL2Mod] = struct{}{}
		s.hardwareL2[sub] = struct{}{}
	}
}

func (s *FeatureSet) ingestL3Mod(sub L3Subtype, isHardware bool) {
	delete(s.unsupportedActions, ActionL3Mod)
	delete(s.unsupportedL3, sub)
	if isHardware {
		s.hardwareActions[ActionL3Mod] = struct{}{}
		s.hardwareL3[sub] = struct{}{}
	}
}

func (s *FeatureSet) ingestL4Mod(sub L4Subtype, isHardware bool) {
	delete(s.unsupportedActions, ActionL4Mod)
	delete(s.unsupportedL4, sub)
	if isHardware {
		s.hardwareActions[ActionL4Mod] = struct{}{}
		s.hardwareL4[sub] = struct{}{}
	}
}

// setFieldL2Mods and friends map a settable match field, as advertised in a
// set-field property block, to the modification subtype that rewrites it.
var setFieldL2Mods = map[FieldKind]L2Subtype{
	FieldEthSrc:    L2EthSrc,
	FieldEthDst:    L2EthDst,
	FieldVlanVid:   L2VlanID,
	FieldVlanPcp:   L2VlanPcp,
	FieldMPLSLabel: L2MPLSLabel,
	FieldMPLSBos:   L2MPLSBos,
	FieldTunnelID:  L2TunnelID,
}

var setFieldL3Mods = map[FieldKind]L3Subtype{
	FieldARPOp:         L3ARPOp,
	FieldARPSha:        L3ARPSha,
	FieldARPSpa:        L3ARPSpa,
	FieldIPv4Src:       L3IPv4Src,
	FieldIPv4Dst:       L3IPv4Dst,
	FieldIPv6Src:       L3IPv6Src,
	FieldIPv6Dst:       L3IPv6Dst,
	FieldIPv6FlowLabel: L3IPv6FlowLabel,
}

var setFieldL4Mods = map[FieldKind]L4Subtype{
	FieldTCPSrc: L4TCPSrc,
	FieldTCPDst: L4TCPDst,
	FieldUDPSrc: L4UDPSrc,
	FieldUDPDst: L4UDPDst,
}

var setFieldActions = map[FieldKind]ActionKind{
	FieldMetadata: ActionMetadata,
}

func (s *FeatureSet) ingestSetFields(headers []uint32, isHardware bool) {
	for _, header := range headers {
		kind, ok := DecodeMatchField(header)
		if !ok {
			continue
		}

		if sub, ok := setFieldL2Mods[kind]; ok {
			s.ingestL2Mod(sub, isHardware)
			continue
		}
		if sub, ok := setFieldL3Mods[kind]; ok {
			s.ingestL3Mod(sub, isHardware)
			continue
		}
		if sub, ok := setFieldL4Mods[kind]; ok {
			s.ingestL4Mod(sub, isHardware)
			continue
		}
		if action, ok := setFieldActions[kind]; ok {
			delete(s.unsupportedActions, action)
			if isHardware {
				s.hardwareActions[action] = struct{}{}
			}
			continue
		}

		log.WithField("field", kind.String()).
			Debug("settable field has no modification mapping")
	}
}
