package hybridpipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const testDevice = "of:0000000000000001"

type fakeGroups struct {
	groups []Group
}

func (f *fakeGroups) Groups(string) []Group {
	return f.groups
}

func newV1Pipeline() *Pipeline {
	return NewPipeline(PolicyV1(), NewFeatureRegistry(), nil)
}

func newV2Pipeline(hardware string, groups GroupReader) *Pipeline {
	return NewPipeline(PolicyV2(hardware), NewFeatureRegistry(), groups)
}

func ipv4Rule(actions ...Action) Rule {
	return Rule{
		Criteria: []Criterion{
			{Kind: FieldInPort},
			{Kind: FieldEthType, EthType: EtherTypeIPv4},
		},
		Actions: actions,
	}
}

func TestClassifyV1IPv4RuleGoesToHardware(t *testing.T) {
	pipeline := newV1Pipeline()
	rule := ipv4Rule(Action{Kind: ActionOutput, Port: 3})

	assert.False(t, pipeline.IsRuleUnsupported(testDevice, rule))

	placement := pipeline.Classify(testDevice, rule)
	assert.Equal(t, HardwareTable, placement.Table)
	assert.Empty(t, placement.HardwareMatch)
}

func TestClassifyV1ArpEthTypeGoesToSoftware(t *testing.T) {
	pipeline := newV1Pipeline()
	rule := Rule{
		Criteria: []Criterion{
			{Kind: FieldInPort},
			{Kind: FieldEthType, EthType: EtherTypeARP},
		},
		Actions: []Action{{Kind: ActionOutput, Port: 3}},
	}

	placement := pipeline.Classify(testDevice, rule)
	assert.Equal(t, SoftwareTable, placement.Table)

	// in_port is still hardware-eligible, its paired eth_type criterion is
	// present even though the eth_type value itself is not
	assert.Len(t, placement.HardwareMatch, 1)
	assert.Equal(t, FieldInPort, placement.HardwareMatch[0].Kind)
}

func TestClassifyV1InPortWithoutEthTypeGoesToSoftware(t *testing.T) {
	pipeline := newV1Pipeline()
	rule := Rule{
		Criteria: []Criterion{{Kind: FieldInPort}},
		Actions:  []Action{{Kind: ActionOutput, Port: 3}},
	}

	placement := pipeline.Classify(testDevice, rule)
	assert.Equal(t, SoftwareTable, placement.Table)
	assert.Empty(t, placement.HardwareMatch)
}

func TestClassifyClearDeferredGoesToSoftware(t *testing.T) {
	pipeline := newV1Pipeline()
	rule := ipv4Rule(Action{Kind: ActionOutput, Port: 3})
	rule.ClearDeferred = true

	placement := pipeline.Classify(testDevice, rule)
	assert.Equal(t, SoftwareTable, placement.Table)

	// the whole match set stays hardware-eligible for a pre-filter rule
	assert.Len(t, placement.HardwareMatch, 2)
}

func TestClassifyControllerOutputGoesToSoftware(t *testing.T) {
	pipeline := newV1Pipeline()
	rule := ipv4Rule(Action{Kind: ActionOutput, Port: ControllerPort})

	placement := pipeline.Classify(testDevice, rule)
	assert.Equal(t, SoftwareTable, placement.Table)
}

func TestClassifyV2VlanEthTypeGoesToSoftware(t *testing.T) {
	pipeline := newV2Pipeline("3800", nil)
	rule := Rule{
		Criteria: []Criterion{{Kind: FieldEthType, EthType: EtherTypeVLAN}},
		Actions:  []Action{{Kind: ActionOutput, Port: 3}},
	}

	placement := pipeline.Classify(testDevice, rule)
	assert.Equal(t, SoftwareTable, placement.Table)
}

func TestClassifyV2GroupNotInstalledGoesToSoftware(t *testing.T) {
	pipeline := newV2Pipeline("3800", &fakeGroups{})
	rule := ipv4Rule(Action{Kind: ActionGroup, Group: 7})

	placement := pipeline.Classify(testDevice, rule)
	assert.Equal(t, SoftwareTable, placement.Table)
}

func TestClassifyV2InstalledAllGroupGoesToHardware(t *testing.T) {
	groups := &fakeGroups{groups: []Group{
		{ID: 7, State: GroupAdded, Type: GroupAll},
	}}
	pipeline := newV2Pipeline("3800", groups)
	rule := ipv4Rule(Action{Kind: ActionGroup, Group: 7})

	placement := pipeline.Classify(testDevice, rule)
	assert.Equal(t, HardwareTable, placement.Table)
}

func TestClassifyV2SelectGroupGoesToSoftware(t *testing.T) {
	groups := &fakeGroups{groups: []Group{
		{ID: 7, State: GroupAdded, Type: GroupSelect},
	}}
	pipeline := newV2Pipeline("3800", groups)
	rule := ipv4Rule(Action{Kind: ActionGroup, Group: 7})

	placement := pipeline.Classify(testDevice, rule)
	assert.Equal(t, SoftwareTable, placement.Table)
}

func TestClassifyV2PendingGroupGoesToSoftware(t *testing.T) {
	groups := &fakeGroups{groups: []Group{
		{ID: 7, State: GroupPendingAdd, Type: GroupAll},
	}}
	pipeline := newV2Pipeline("3800", groups)
	rule := ipv4Rule(Action{Kind: ActionGroup, Group: 7})

	placement := pipeline.Classify(testDevice, rule)
	assert.Equal(t, SoftwareTable, placement.Table)
}

func TestClassify2920EthDstQuirk(t *testing.T) {
	pipeline := newV2Pipeline("HP 2920-24G", nil)
	rule := Rule{
		Criteria: []Criterion{
			{Kind: FieldEthDst, Value: []byte{0x42, 0x69, 0, 0, 0, 1}},
			{Kind: FieldEthType, EthType: EtherTypeIPv4},
		},
		Actions: []Action{{Kind: ActionOutput, Port: 3}},
	}

	placement := pipeline.Classify(testDevice, rule)
	assert.Equal(t, SoftwareTable, placement.Table)

	// eth_dst never appears in the reduced hardware match on a 2920
	for _, c := range placement.HardwareMatch {
		assert.NotEqual(t, FieldEthDst, c.Kind)
	}
	assert.Len(t, placement.HardwareMatch, 1)

	// the same rule is hardware-eligible on a 3800
	other := newV2Pipeline("3800", nil)
	assert.Equal(t, HardwareTable, other.Classify(testDevice, rule).Table)
}

func TestIsRuleUnsupportedVeto(t *testing.T) {
	pipeline := newV1Pipeline()

	// metadata match is statically unsupported on both generations
	rule := Rule{
		Criteria: []Criterion{
			{Kind: FieldMetadata},
			{Kind: FieldEthType, EthType: EtherTypeIPv4},
		},
		Actions: []Action{{Kind: ActionOutput, Port: 3}},
	}
	assert.True(t, pipeline.IsRuleUnsupported(testDevice, rule))

	// unsupported action kind
	rule = ipv4Rule(Action{Kind: ActionQueue})
	assert.True(t, pipeline.IsRuleUnsupported(testDevice, rule))

	// unsupported modification subtype
	rule = ipv4Rule(Action{Kind: ActionL2Mod, L2: L2MPLSPush})
	assert.True(t, pipeline.IsRuleUnsupported(testDevice, rule))

	// fully supported rule passes
	rule = ipv4Rule(Action{Kind: ActionOutput, Port: 3})
	assert.False(t, pipeline.IsRuleUnsupported(testDevice, rule))
}

func TestClassifyV1VlanPcpRewriteInHardware(t *testing.T) {
	pipeline := newV1Pipeline()
	rule := ipv4Rule(
		Action{Kind: ActionOutput, Port: 3},
		Action{Kind: ActionL2Mod, L2: L2VlanPcp},
	)

	placement := pipeline.Classify(testDevice, rule)
	assert.Equal(t, HardwareTable, placement.Table)

	// eth_src rewrite is a V2 hardware capability, not V1
	rule = ipv4Rule(Action{Kind: ActionL2Mod, L2: L2EthSrc})
	placement = pipeline.Classify(testDevice, rule)
	assert.Equal(t, SoftwareTable, placement.Table)
}

func TestClassifyUsesDiscoveredCapabilities(t *testing.T) {
	registry := NewFeatureRegistry()
	pipeline := NewPipeline(PolicyV1(), registry, nil)

	// discovery advertises a hardware table without in_port matching
	set := pipeline.Attach(testDevice)
	set.IngestTableFeatures([]TableFeatures{
		{
			TableID: HardwareTable,
			Properties: []TableFeatureProperty{
				{
					Type:         PropMatch,
					FieldHeaders: []uint32{oxmHeader(5), oxmHeader(11)}, // eth_type, ipv4_src
				},
				{
					Type:        PropApplyActions,
					ActionCodes: []ActionCode{ActionCodeOutput},
				},
			},
		},
	}, HardwareTable)

	rule := Rule{
		Criteria: []Criterion{{Kind: FieldEthType, EthType: EtherTypeIPv4}},
		Actions:  []Action{{Kind: ActionOutput, Port: 3}},
	}
	assert.Equal(t, HardwareTable, pipeline.Classify(testDevice, rule).Table)

	// in_port was in the manual fallback but not advertised by the device
	rule = ipv4Rule(Action{Kind: ActionOutput, Port: 3})
	assert.Equal(t, SoftwareTable, pipeline.Classify(testDevice, rule).Table)
}

func TestHardwareMatchExtraction(t *testing.T) {
	pipeline := newV1Pipeline()
	rule := Rule{
		Criteria: []Criterion{
			{Kind: FieldInPort},
			{Kind: FieldEthType, EthType: EtherTypeIPv4},
			{Kind: FieldIPv4Dst, Value: []byte{10, 0, 0, 1}},
			{Kind: FieldIPv6Src}, // not hardware-capable on V1
		},
		Actions: []Action{{Kind: ActionOutput, Port: 3}},
	}

	match := pipeline.HardwareMatch(testDevice, rule)
	kinds := make([]FieldKind, 0, len(match))
	for _, c := range match {
		kinds = append(kinds, c.Kind)
	}
	assert.ElementsMatch(t, []FieldKind{FieldInPort, FieldEthType, FieldIPv4Dst}, kinds)
}

func TestDefaultTablePerPolicy(t *testing.T) {
	assert.Equal(t, SoftwareTable, newV1Pipeline().DefaultTable())
	assert.Equal(t, HardwareTable, newV2Pipeline("3800", nil).DefaultTable())
}

func TestPolicyForDescription(t *testing.T) {
	assert.Equal(t, "v1", PolicyForDescription("HP 3500yl-24G").Name)
	assert.Equal(t, "v2", PolicyForDescription("HP 3800-24G").Name)

	policy := PolicyForDescription("HP 2920-24G")
	assert.Equal(t, "v2", policy.Name)
	assert.True(t, policy.blocksHardwareField(FieldEthDst))
}
