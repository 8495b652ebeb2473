package hybridpipe

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// FeatureRegistry maps a device's datapath id to its FeatureSet. Entries are
// created lazily on first access, at most one per device, and removed when
// the device disconnects so a fresh discovery can run on reconnect.
//
// The registry is owned by the connection manager and passed by reference to
// whoever needs capability data; there is no process-global instance.
type FeatureRegistry struct {
	mu      sync.Mutex
	devices map[string]*FeatureSet
}

func NewFeatureRegistry() *FeatureRegistry {
	return &FeatureRegistry{
		devices: make(map[string]*FeatureSet),
	}
}

// GetOrCreate returns the FeatureSet for the device, creating one with every
// known kind marked unsupported if the device is not yet known.
func (r *FeatureRegistry) GetOrCreate(deviceID string) *FeatureSet {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.devices[deviceID]
	if !ok {
		set = newFeatureSet()
		r.devices[deviceID] = set

		log.WithField("device", deviceID).
			Debug("created feature set with conservative defaults")
	}

	return set
}

// GetOrCreateWithDefaults returns the FeatureSet for the device, creating one
// seeded from the given static defaults if the device is not yet known. An
// existing entry is returned unchanged, defaults are not re-applied.
func (r *FeatureRegistry) GetOrCreateWithDefaults(deviceID string, defaults StaticDefaults) *FeatureSet {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.devices[deviceID]
	if !ok {
		set = newFeatureSetWithDefaults(defaults)
		r.devices[deviceID] = set

		log.WithField("device", deviceID).
			Debug("created feature set from static defaults")
	}

	return set
}

// Lookup returns the FeatureSet for the device without creating one.
func (r *FeatureRegistry) Lookup(deviceID string) (*FeatureSet, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.devices[deviceID]
	return set, ok
}

// Clear removes the device's entry. Invoked on disconnect; the connection
// manager must make sure no classification for the device is still in flight.
func (r *FeatureRegistry) Clear(deviceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.devices, deviceID)

	log.WithField("device", deviceID).
		Debug("cleared feature set")
}
