package hybridpipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetOrCreateConservativeDefault(t *testing.T) {
	registry := NewFeatureRegistry()
	set := registry.GetOrCreate("of:0000000000000001")

	assert.Len(t, set.UnsupportedFields(), len(AllFieldKinds()))
	assert.Len(t, set.UnsupportedActions(), len(AllActionKinds()))
	assert.Len(t, set.UnsupportedL2Mods(), len(AllL2Subtypes()))
	assert.Len(t, set.UnsupportedL3Mods(), len(AllL3Subtypes()))
	assert.Len(t, set.UnsupportedL4Mods(), len(AllL4Subtypes()))

	assert.Empty(t, set.HardwareFields())
	assert.Empty(t, set.HardwareActions())
	assert.False(t, set.AutoDiscovered())
}

func TestGetOrCreateWithStaticDefaults(t *testing.T) {
	registry := NewFeatureRegistry()
	defaults := StaticDefaults{
		Fields:  []FieldKind{FieldMetadata, FieldIPEcn},
		Actions: []ActionKind{ActionQueue},
		L2Mods:  []L2Subtype{L2MPLSPush},
		L3Mods:  []L3Subtype{L3TTLIn},
	}

	set := registry.GetOrCreateWithDefaults("of:0000000000000001", defaults)

	assert.Equal(t, map[FieldKind]struct{}{
		FieldMetadata: {},
		FieldIPEcn:    {},
	}, set.UnsupportedFields())
	assert.Equal(t, map[ActionKind]struct{}{ActionQueue: {}}, set.UnsupportedActions())
	assert.Equal(t, map[L2Subtype]struct{}{L2MPLSPush: {}}, set.UnsupportedL2Mods())
	assert.Equal(t, map[L3Subtype]struct{}{L3TTLIn: {}}, set.UnsupportedL3Mods())
	assert.Empty(t, set.UnsupportedL4Mods())
	assert.Empty(t, set.HardwareFields())
	assert.False(t, set.AutoDiscovered())
}

func TestGetOrCreateReturnsSameInstance(t *testing.T) {
	registry := NewFeatureRegistry()

	first := registry.GetOrCreate("of:0000000000000001")
	second := registry.GetOrCreate("of:0000000000000001")
	assert.Same(t, first, second)

	// defaults are not re-applied to an existing entry
	third := registry.GetOrCreateWithDefaults("of:0000000000000001", StaticDefaults{
		Fields: []FieldKind{FieldMetadata},
	})
	assert.Same(t, first, third)
	assert.Len(t, third.UnsupportedFields(), len(AllFieldKinds()))
}

func TestClearRemovesDevice(t *testing.T) {
	registry := NewFeatureRegistry()

	first := registry.GetOrCreate("of:0000000000000001")
	registry.Clear("of:0000000000000001")

	_, ok := registry.Lookup("of:0000000000000001")
	assert.False(t, ok)

	second := registry.GetOrCreate("of:0000000000000001")
	assert.NotSame(t, first, second)
}

func TestHardwareImpliesSupported(t *testing.T) {
	registry := NewFeatureRegistry()
	set := registry.GetOrCreate("of:0000000000000001")

	set.RecordHardwareField(FieldInPort)
	set.RecordHardwareAction(ActionOutput)
	set.RecordHardwareL2Mod(L2VlanPcp)
	set.RecordHardwareL3Mod(L3IPv4Src)
	set.RecordHardwareL4Mod(L4TCPDst)

	assert.NotContains(t, set.UnsupportedFields(), FieldInPort)
	assert.NotContains(t, set.UnsupportedActions(), ActionOutput)
	assert.NotContains(t, set.UnsupportedL2Mods(), L2VlanPcp)
	assert.NotContains(t, set.UnsupportedL3Mods(), L3IPv4Src)
	assert.NotContains(t, set.UnsupportedL4Mods(), L4TCPDst)

	assert.Contains(t, set.HardwareFields(), FieldInPort)
	assert.Contains(t, set.HardwareActions(), ActionOutput)
}

func TestRecordIsIdempotent(t *testing.T) {
	registry := NewFeatureRegistry()
	set := registry.GetOrCreate("of:0000000000000001")

	set.RecordSupportedField(FieldEthType)
	set.RecordHardwareField(FieldEthType)
	before := set.HardwareFields()

	set.RecordSupportedField(FieldEthType)
	set.RecordHardwareField(FieldEthType)

	assert.Equal(t, before, set.HardwareFields())
	assert.NotContains(t, set.UnsupportedFields(), FieldEthType)
}
