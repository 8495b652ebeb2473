package main

import (
	"fmt"
	"hybridpipe"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

func printUsage() {
	fmt.Println("Usage: hybridpipe <command>")
	fmt.Println("Commands:")
	fmt.Println("  classify <scenario-file> [profile-file]")
}

// scenarioFile describes a device and the rules to classify against it.
type scenarioFile struct {
	Device string         `yaml:"device"`
	Rules  []scenarioRule `yaml:"rules"`
}

type scenarioRule struct {
	Criteria      []scenarioCriterion `yaml:"criteria"`
	Actions       []scenarioAction    `yaml:"actions"`
	ClearDeferred bool                `yaml:"clear_deferred"`
}

type scenarioCriterion struct {
	Field   string `yaml:"field"`
	EthType uint16 `yaml:"eth_type"`
}

type scenarioAction struct {
	Action string `yaml:"action"`
	L2Mod  string `yaml:"l2_mod"`
	L3Mod  string `yaml:"l3_mod"`
	L4Mod  string `yaml:"l4_mod"`
	Port   uint32 `yaml:"port"`
	Group  uint32 `yaml:"group"`
}

func main() {
	log.SetLevel(log.WarnLevel)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "classify":
		if len(os.Args) < 3 {
			printUsage()
			os.Exit(1)
		}

		profile := ""
		if len(os.Args) > 3 {
			profile = os.Args[3]
		}

		if err := classify(os.Args[2], profile); err != nil {
			log.WithField("error", err).Error("classify failed")
			os.Exit(1)
		}
	default:
		printUsage()
		os.Exit(1)
	}
}

func classify(scenarioPath, profilePath string) error {
	data, err := os.ReadFile(scenarioPath)
	if err != nil {
		return fmt.Errorf("reading scenario: %w", err)
	}

	var scenario scenarioFile
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return fmt.Errorf("parsing scenario: %w", err)
	}

	policy := hybridpipe.PolicyForDescription(scenario.Device)
	if profilePath != "" {
		profiles, err := hybridpipe.LoadProfiles(profilePath)
		if err != nil {
			return err
		}
		if p, ok := profiles.PolicyFor(scenario.Device); ok {
			policy = p
		}
	}

	registry := hybridpipe.NewFeatureRegistry()
	pipeline := hybridpipe.NewPipeline(policy, registry, nil)

	fmt.Printf("device: %s (policy %s, default table %s)\n",
		scenario.Device, policy.Name, pipeline.DefaultTable())

	for i, r := range scenario.Rules {
		rule, err := buildRule(r)
		if err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}

		if pipeline.IsRuleUnsupported(scenario.Device, rule) {
			fmt.Printf("rule %d: rejected (unsupported features)\n", i)
			continue
		}

		placement := pipeline.Classify(scenario.Device, rule)
		fmt.Printf("rule %d: %s table", i, placement.Table)
		if len(placement.HardwareMatch) > 0 {
			fmt.Printf(" (hardware pre-filter on")
			for _, c := range placement.HardwareMatch {
				fmt.Printf(" %s", c.Kind)
			}
			fmt.Printf(")")
		}
		fmt.Println()
	}

	return nil
}

func buildRule(r scenarioRule) (hybridpipe.Rule, error) {
	var rule hybridpipe.Rule
	rule.ClearDeferred = r.ClearDeferred

	for _, c := range r.Criteria {
		kind, err := hybridpipe.ParseFieldKind(c.Field)
		if err != nil {
			return rule, err
		}
		rule.Criteria = append(rule.Criteria, hybridpipe.Criterion{
			Kind:    kind,
			EthType: hybridpipe.EtherTypeFromUint16(c.EthType),
		})
	}

	for _, a := range r.Actions {
		kind, err := hybridpipe.ParseActionKind(a.Action)
		if err != nil {
			return rule, err
		}

		action := hybridpipe.Action{
			Kind:  kind,
			Port:  hybridpipe.PortNumber(a.Port),
			Group: hybridpipe.GroupID(a.Group),
		}

		if a.L2Mod != "" {
			if action.L2, err = hybridpipe.ParseL2Subtype(a.L2Mod); err != nil {
				return rule, err
			}
		}
		if a.L3Mod != "" {
			if action.L3, err = hybridpipe.ParseL3Subtype(a.L3Mod); err != nil {
				return rule, err
			}
		}
		if a.L4Mod != "" {
			if action.L4, err = hybridpipe.ParseL4Subtype(a.L4Mod); err != nil {
				return rule, err
			}
		}

		rule.Actions = append(rule.Actions, action)
	}

	return rule, nil
}
