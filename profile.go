package hybridpipe

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ModelProfile couples a model policy with the hardware-description
// substrings it applies to. Profiles loaded from a file take precedence over
// the built-in V1/V2 policies, so capability corrections for a specific
// model can ship as configuration.
type ModelProfile struct {
	Match  []string
	Policy ModelPolicy
}

// Profiles is an ordered profile list; the first matching entry wins.
type Profiles []ModelProfile

// PolicyFor returns the policy of the first profile matching the hardware
// description.
func (p Profiles) PolicyFor(hardwareDescription string) (ModelPolicy, bool) {
	for _, profile := range p {
		for _, m := range profile.Match {
			if strings.Contains(hardwareDescription, m) {
				log.WithField("hardware", hardwareDescription).
					WithField("policy", profile.Policy.Name).
					Debug("selected model policy from profile file")
				return profile.Policy, true
			}
		}
	}
	return ModelPolicy{}, false
}

type profileFile struct {
	Models []profileEntry `yaml:"models"`
}

type profileEntry struct {
	Name            string            `yaml:"name"`
	Match           []string          `yaml:"match"`
	DefaultTable    string            `yaml:"default_table"`
	EthTypeRequired *uint16           `yaml:"eth_type_required"`
	EthTypeExcluded *uint16           `yaml:"eth_type_excluded"`
	Unsupported     profileCapTables  `yaml:"unsupported"`
	Hardware        profileCapTables  `yaml:"hardware"`
	PairedFields    map[string]string `yaml:"paired_fields"`
	BlockedFields   []string          `yaml:"blocked_fields"`
}

type profileCapTables struct {
	Fields     []string `yaml:"fields"`
	Actions    []string `yaml:"actions"`
	L2Mods     []string `yaml:"l2_mods"`
	L3Mods     []string `yaml:"l3_mods"`
	L4Mods     []string `yaml:"l4_mods"`
	GroupTypes []string `yaml:"group_types"`
}

// LoadProfiles reads model profiles from a YAML file.
func LoadProfiles(path string) (Profiles, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile file: %w", err)
	}
	return ParseProfiles(data)
}

// ParseProfiles parses model profiles from YAML. Unknown kind names are
// configuration errors, not decode misses, and fail the whole load.
func ParseProfiles(data []byte) (Profiles, error) {
	var file profileFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing profile file: %w", err)
	}

	profiles := make(Profiles, 0, len(file.Models))
	for _, entry := range file.Models {
		profile, err := buildProfile(entry)
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", entry.Name, err)
		}
		profiles = append(profiles, profile)
	}

	return profiles, nil
}

func buildProfile(entry profileEntry) (ModelProfile, error) {
	policy := ModelPolicy{Name: entry.Name}

	switch entry.DefaultTable {
	case "hardware":
		policy.DefaultTable = HardwareTable
	case "software", "":
		policy.DefaultTable = SoftwareTable
	default:
		return ModelProfile{}, fmt.Errorf("unknown default table %q", entry.DefaultTable)
	}

	defaults, err := parseCapTables(entry.Unsupported)
	if err != nil {
		return ModelProfile{}, err
	}
	policy.Defaults = defaults.static

	hardware, err := parseCapTables(entry.Hardware)
	if err != nil {
		return ModelProfile{}, err
	}
	policy.HardwareFields = hardware.static.Fields
	policy.HardwareActions = hardware.static.Actions
	policy.HardwareL2Mods = hardware.static.L2Mods
	policy.HardwareGroupTypes = hardware.groupTypes

	if entry.EthTypeRequired != nil && entry.EthTypeExcluded != nil {
		return ModelProfile{}, fmt.Errorf("eth_type_required and eth_type_excluded are mutually exclusive")
	}
	if entry.EthTypeRequired != nil {
		required := EtherTypeFromUint16(*entry.EthTypeRequired)
		policy.HardwareEthType = func(t EtherType) bool { return t.Equal(required) }
	}
	if entry.EthTypeExcluded != nil {
		excluded := EtherTypeFromUint16(*entry.EthTypeExcluded)
		policy.HardwareEthType = func(t EtherType) bool { return !t.Equal(excluded) }
	}

	if len(entry.PairedFields) > 0 {
		policy.PairedFields = make(map[FieldKind]FieldKind, len(entry.PairedFields))
		for field, required := range entry.PairedFields {
			kind, err := ParseFieldKind(field)
			if err != nil {
				return ModelProfile{}, err
			}
			requiredKind, err := ParseFieldKind(required)
			if err != nil {
				return ModelProfile{}, err
			}
			policy.PairedFields[kind] = requiredKind
		}
	}

	for _, field := range entry.BlockedFields {
		kind, err := ParseFieldKind(field)
		if err != nil {
			return ModelProfile{}, err
		}
		policy.BlockedHardwareFields = append(policy.BlockedHardwareFields, kind)
	}

	return ModelProfile{Match: entry.Match, Policy: policy}, nil
}

type capTables struct {
	static     StaticDefaults
	groupTypes []GroupType
}

func parseCapTables(tables profileCapTables) (capTables, error) {
	var out capTables

	for _, name := range tables.Fields {
		kind, err := ParseFieldKind(name)
		if err != nil {
			return out, err
		}
		out.static.Fields = append(out.static.Fields, kind)
	}
	for _, name := range tables.Actions {
		kind, err := ParseActionKind(name)
		if err != nil {
			return out, err
		}
		out.static.Actions = append(out.static.Actions, kind)
	}
	for _, name := range tables.L2Mods {
		sub, err := ParseL2Subtype(name)
		if err != nil {
			return out, err
		}
		out.static.L2Mods = append(out.static.L2Mods, sub)
	}
	for _, name := range tables.L3Mods {
		sub, err := ParseL3Subtype(name)
		if err != nil {
			return out, err
		}
		out.static.L3Mods = append(out.static.L3Mods, sub)
	}
	for _, name := range tables.L4Mods {
		sub, err := ParseL4Subtype(name)
		if err != nil {
			return out, err
		}
		out.static.L4Mods = append(out.static.L4Mods, sub)
	}
	for _, name := range tables.GroupTypes {
		gt, err := parseGroupType(name)
		if err != nil {
			return out, err
		}
		out.groupTypes = append(out.groupTypes, gt)
	}

	return out, nil
}

func parseGroupType(name string) (GroupType, error) {
	switch name {
	case "all":
		return GroupAll, nil
	case "select":
		return GroupSelect, nil
	case "indirect":
		return GroupIndirect, nil
	case "failover":
		return GroupFailover, nil
	}
	return 0, fmt.Errorf("unknown group type %q", name)
}
