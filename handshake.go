package hybridpipe

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
)

// DiscoveryState tracks the capability-discovery exchange for one device
// connection.
type DiscoveryState int

const (
	DiscoveryNotStarted DiscoveryState = iota
	DiscoveryInProgress
	DiscoveryCompleted
)

// Sequencing errors of the discovery exchange. These indicate a protocol or
// caller bug; they never corrupt the registry state.
var (
	ErrDiscoveryStarted    = errors.New("discovery already started")
	ErrDiscoveryNotStarted = errors.New("discovery not started")
	ErrDiscoveryCompleted  = errors.New("discovery already completed")
)

// HandshakeConn is the narrow transport surface the discovery exchange
// needs: flush stale device state, then request the capability tables. The
// wire encoding behind these calls is not this module's concern.
type HandshakeConn interface {
	FlushFlows() error
	FlushGroups() error
	RequestTableFeatures() error
}

// StatsReply marks decoded statistics replies coming back from the
// transport. The exchange completes on any stats reply; one that is not the
// capability advertisement leaves the set on its static defaults.
type StatsReply interface {
	statsReply()
}

// TableFeaturesReply is the decoded capability-advertisement reply delivered
// back into the exchange.
type TableFeaturesReply struct {
	Entries []TableFeatures
}

func (TableFeaturesReply) statsReply() {}

// discoveryGenerations correlates log lines of one exchange; a plain counter
// is enough, the exchange runs once per device connection.
var discoveryGenerations uint64

// Discovery drives the one-shot capability exchange for a single device
// connection and feeds the reply into the device's FeatureSet. The caller
// owns message sequencing; Discovery only validates it.
type Discovery struct {
	mu         sync.Mutex
	state      DiscoveryState
	generation uint64

	deviceID       string
	set            *FeatureSet
	conn           HandshakeConn
	hardwareTables []TableID
}

// NewDiscovery prepares an exchange for the device. The hardware table is
// assumed to be the standard hardware stage unless overridden with
// WithHardwareTables.
func NewDiscovery(deviceID string, set *FeatureSet, conn HandshakeConn) *Discovery {
	return &Discovery{
		generation:     atomic.AddUint64(&discoveryGenerations, 1),
		deviceID:       deviceID,
		set:            set,
		conn:           conn,
		hardwareTables: []TableID{HardwareTable},
	}
}

// WithHardwareTables overrides which advertised table ids count as hardware.
func (d *Discovery) WithHardwareTables(tables ...TableID) *Discovery {
	d.hardwareTables = tables
	return d
}

// Start flushes stale flows and groups on the device and requests its
// capability tables. Calling Start on a running or completed exchange is a
// sequencing error. A transport failure leaves the exchange unstarted so the
// connection manager may retry or tear down.
func (d *Discovery) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != DiscoveryNotStarted {
		return ErrDiscoveryStarted
	}
	d.state = DiscoveryInProgress

	log.WithField("device", d.deviceID).
		WithField("generation", d.generation).
		Info("starting capability discovery")

	if err := d.conn.FlushFlows(); err != nil {
		d.state = DiscoveryNotStarted
		return fmt.Errorf("flushing flows: %w", err)
	}
	if err := d.conn.RequestTableFeatures(); err != nil {
		d.state = DiscoveryNotStarted
		return fmt.Errorf("requesting table features: %w", err)
	}
	if err := d.conn.FlushGroups(); err != nil {
		d.state = DiscoveryNotStarted
		return fmt.Errorf("flushing groups: %w", err)
	}

	return nil
}

// Completed reports whether the exchange has finished. Asking before Start is
// a sequencing error.
func (d *Discovery) Completed() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == DiscoveryNotStarted {
		return false, ErrDiscoveryNotStarted
	}
	return d.state == DiscoveryCompleted, nil
}

// Deliver hands a message received during the exchange. A TableFeaturesReply
// is ingested into the device's FeatureSet and completes the exchange; any
// other statistics reply completes it with the set left on its static
// defaults. Messages that are no statistics reply at all are ignored and the
// exchange stays in progress.
func (d *Discovery) Deliver(reply any) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case DiscoveryNotStarted:
		return ErrDiscoveryNotStarted
	case DiscoveryCompleted:
		return ErrDiscoveryCompleted
	}

	switch msg := reply.(type) {
	case TableFeaturesReply:
		d.set.IngestTableFeatures(msg.Entries, d.hardwareTables...)

		log.WithField("device", d.deviceID).
			WithField("generation", d.generation).
			WithField("tables", len(msg.Entries)).
			Info("finished reading device capability tables")
	case StatsReply:
		log.WithField("device", d.deviceID).
			WithField("generation", d.generation).
			Warn("stats reply is not a table features reply, keeping static defaults")
	default:
		log.WithField("device", d.deviceID).
			WithField("generation", d.generation).
			Warn("ignoring message unrelated to capability discovery")
		return nil
	}

	d.state = DiscoveryCompleted

	log.WithField("device", d.deviceID).
		WithField("generation", d.generation).
		Info("capability discovery ended")
	return nil
}
