package hybridpipe

import (
	"strings"

	log "github.com/sirupsen/logrus"
)

// v1Models are hardware descriptions of switches running the V1 hardware
// module. 5400 and 8200 chassis operate as V1 only when configured to allow
// V1 modules; absent that knowledge they are treated as V2.
var v1Models = []string{"2910", "3500", "6200", "6600"}

// PolicyForDescription selects the model policy for a device from its
// hardware description string, as reported at connection time. Models not on
// the V1 list get the V2 policy, the current hardware generation.
func PolicyForDescription(hardwareDescription string) ModelPolicy {
	for _, model := range v1Models {
		if strings.Contains(hardwareDescription, model) {
			log.WithField("hardware", hardwareDescription).
				WithField("policy", "v1").
				Debug("selected model policy")
			return PolicyV1()
		}
	}

	log.WithField("hardware", hardwareDescription).
		WithField("policy", "v2").
		Debug("selected model policy")
	return PolicyV2(hardwareDescription)
}
