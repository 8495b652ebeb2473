package hybridpipe

import (
	log "github.com/sirupsen/logrus"
)

// Pipeline is the classification engine for one attached device model: it
// combines the model policy, the device's FeatureSet from the registry and
// the read-only group state to place each rule into the hardware or software
// table.
//
// Classification never mutates the registry; it is a pure function of the
// capability state, the policy and the rule at call time.
type Pipeline struct {
	policy   ModelPolicy
	registry *FeatureRegistry
	groups   GroupReader
}

// NewPipeline builds the engine. groups may be nil for models without
// hardware group support.
func NewPipeline(policy ModelPolicy, registry *FeatureRegistry, groups GroupReader) *Pipeline {
	return &Pipeline{
		policy:   policy,
		registry: registry,
		groups:   groups,
	}
}

// Policy returns the model policy the engine was built with.
func (p *Pipeline) Policy() ModelPolicy {
	return p.policy
}

// DefaultTable is the table for rules installed without classification.
func (p *Pipeline) DefaultTable() TableID {
	return p.policy.DefaultTable
}

// Attach returns the device's FeatureSet, seeding it with the model's static
// defaults on first contact.
func (p *Pipeline) Attach(deviceID string) *FeatureSet {
	return p.registry.GetOrCreateWithDefaults(deviceID, p.policy.Defaults)
}

// IsRuleUnsupported reports whether the rule contains any match criterion,
// action or modification subtype the device does not support at all. Such a
// rule cannot be installed and must be rejected upstream.
func (p *Pipeline) IsRuleUnsupported(deviceID string, rule Rule) bool {
	set := p.Attach(deviceID)

	set.mu.RLock()
	defer set.mu.RUnlock()

	unsupported := false

	for _, c := range rule.Criteria {
		if _, ok := set.unsupportedFields[c.Kind]; ok {
			log.WithField("device", deviceID).
				WithField("criterion", c.Kind.String()).
				Warn("unsupported criterion")
			unsupported = true
		}
	}

	for _, a := range rule.Actions {
		if _, ok := set.unsupportedActions[a.Kind]; ok {
			log.WithField("device", deviceID).
				WithField("action", a.Kind.String()).
				Warn("unsupported action")
			unsupported = true
		}

		switch a.Kind {
		case ActionL2Mod:
			if _, ok := set.unsupportedL2[a.L2]; ok {
				log.WithField("device", deviceID).
					WithField("l2_mod", a.L2.String()).
					Warn("unsupported l2 modification")
				unsupported = true
			}
		case ActionL3Mod:
			if _, ok := set.unsupportedL3[a.L3]; ok {
				log.WithField("device", deviceID).
					WithField("l3_mod", a.L3.String()).
					Warn("unsupported l3 modification")
				unsupported = true
			}
		case ActionL4Mod:
			if _, ok := set.unsupportedL4[a.L4]; ok {
				log.WithField("device", deviceID).
					WithField("l4_mod", a.L4.String()).
					Warn("unsupported l4 modification")
				unsupported = true
			}
		}
	}

	return unsupported
}

// Classify places a rule. All criteria and actions must be hardware-capable
// and pass the model quirks for the rule to reach the hardware table;
// otherwise the rule goes to software together with the reduced
// hardware-eligible match usable as a pre-filter rule.
func (p *Pipeline) Classify(deviceID string, rule Rule) Placement {
	set := p.Attach(deviceID)

	set.mu.RLock()
	defer set.mu.RUnlock()

	if p.classifyLocked(deviceID, set, rule) {
		log.WithField("device", deviceID).
			WithField("policy", p.policy.Name).
			Debug("rule supported in hardware")
		return Placement{Table: HardwareTable}
	}

	log.WithField("device", deviceID).
		WithField("policy", p.policy.Name).
		Debug("rule only supported in software")
	return Placement{
		Table:         SoftwareTable,
		HardwareMatch: p.hardwareMatchLocked(set, rule),
	}
}

// HardwareMatch returns the subset of the rule's criteria that the device can
// match in hardware, honoring the model quirks. Useful to pre-classify
// traffic for a rule that itself runs in software.
func (p *Pipeline) HardwareMatch(deviceID string, rule Rule) []Criterion {
	set := p.Attach(deviceID)

	set.mu.RLock()
	defer set.mu.RUnlock()

	return p.hardwareMatchLocked(set, rule)
}

func (p *Pipeline) classifyLocked(deviceID string, set *FeatureSet, rule Rule) bool {
	for _, c := range rule.Criteria {
		if !p.hardwareFieldLocked(set, c.Kind) {
			log.WithField("device", deviceID).
				WithField("criterion", c.Kind.String()).
				Warn("criterion only supported in software")
			return false
		}

		if !p.hardwareCriterionValueOK(c) {
			log.WithField("device", deviceID).
				WithField("criterion", c.Kind.String()).
				Warn("criterion value only matched in software")
			return false
		}

		if required, ok := p.policy.PairedFields[c.Kind]; ok && !rule.HasCriterion(required) {
			log.WithField("device", deviceID).
				WithField("criterion", c.Kind.String()).
				WithField("required", required.String()).
				Warn("criterion without its paired criterion is only supported in software")
			return false
		}
	}

	// clearing deferred actions is software-only on every modeled device
	if rule.ClearDeferred {
		log.WithField("device", deviceID).
			Warn("clear action only supported in software")
		return false
	}

	for _, a := range rule.Actions {
		if !p.hardwareActionLocked(set, a.Kind) {
			log.WithField("device", deviceID).
				WithField("action", a.Kind.String()).
				Warn("action only supported in software")
			return false
		}

		// output to the controller needs framing the device cannot add
		if a.Kind == ActionOutput && a.Port == ControllerPort {
			log.WithField("device", deviceID).
				Warn("forwarding to controller only supported in software")
			return false
		}

		if a.Kind == ActionL2Mod && !p.hardwareL2ModLocked(set, a.L2) {
			log.WithField("device", deviceID).
				WithField("l2_mod", a.L2.String()).
				Warn("l2 modification only supported in software")
			return false
		}

		if a.Kind == ActionL3Mod {
			if _, ok := set.hardwareL3[a.L3]; !ok {
				log.WithField("device", deviceID).
					WithField("l3_mod", a.L3.String()).
					Warn("l3 modification only supported in software")
				return false
			}
		}

		if a.Kind == ActionL4Mod {
			if _, ok := set.hardwareL4[a.L4]; !ok {
				log.WithField("device", deviceID).
					WithField("l4_mod", a.L4.String()).
					Warn("l4 modification only supported in software")
				return false
			}
		}

		if a.Kind == ActionGroup && !p.groupInHardware(deviceID, a.Group) {
			return false
		}
	}

	return true
}

// groupInHardware checks that the referenced group is installed on the
// device and of a type the model runs in hardware.
func (p *Pipeline) groupInHardware(deviceID string, id GroupID) bool {
	if p.groups == nil {
		log.WithField("device", deviceID).
			Warn("no group state available, group action goes to software")
		return false
	}

	for _, group := range p.groups.Groups(deviceID) {
		if group.State != GroupAdded || group.ID != id {
			continue
		}

		if !p.policy.hardwareGroupType(group.Type) {
			log.WithField("device", deviceID).
				WithField("group_type", group.Type.String()).
				Warn("group type only supported in software")
			return false
		}

		return true
	}

	log.WithField("device", deviceID).
		WithField("group", uint32(id)).
		Warn("referenced group is not installed on the device")
	return false
}

func (p *Pipeline) hardwareMatchLocked(set *FeatureSet, rule Rule) []Criterion {
	var match []Criterion

	for _, c := range rule.Criteria {
		if !p.hardwareFieldLocked(set, c.Kind) {
			continue
		}
		if !p.hardwareCriterionValueOK(c) {
			continue
		}
		if required, ok := p.policy.PairedFields[c.Kind]; ok && !rule.HasCriterion(required) {
			continue
		}

		match = append(match, c)
	}

	return match
}

// hardwareCriterionValueOK applies the per-kind value quirks: a blocked kind
// never matches in hardware, and eth_type values must pass the model's
// eth_type predicate.
func (p *Pipeline) hardwareCriterionValueOK(c Criterion) bool {
	if p.policy.blocksHardwareField(c.Kind) {
		return false
	}
	if c.Kind == FieldEthType && p.policy.HardwareEthType != nil {
		return p.policy.HardwareEthType(c.EthType)
	}
	return true
}

// Effective hardware capability: discovered data once the capability reply
// was ingested, the policy's manual fallback before that. L3/L4 modification
// hardware sets are only ever populated by discovery and are read directly
// from the set.

func (p *Pipeline) hardwareFieldLocked(set *FeatureSet, kind FieldKind) bool {
	if set.autoDiscovered {
		_, ok := set.hardwareFields[kind]
		return ok
	}
	for _, k := range p.policy.HardwareFields {
		if k == kind {
			return true
		}
	}
	return false
}

func (p *Pipeline) hardwareActionLocked(set *FeatureSet, kind ActionKind) bool {
	if set.autoDiscovered {
		_, ok := set.hardwareActions[kind]
		return ok
	}
	for _, k := range p.policy.HardwareActions {
		if k == kind {
			return true
		}
	}
	return false
}

func (p *Pipeline) hardwareL2ModLocked(set *FeatureSet, sub L2Subtype) bool {
	if set.autoDiscovered {
		_, ok := set.hardwareL2[sub]
		return ok
	}
	for _, s := range p.policy.HardwareL2Mods {
		if s == sub {
			return true
		}
	}
	return false
}
