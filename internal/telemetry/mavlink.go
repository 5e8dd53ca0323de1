// Package telemetry publishes vehicle poses over MAVLink for external
// consumers (ground stations, visualizers). Fire-and-forget: publish
// errors are logged and dropped, nothing flows back into the
// simulation.
package telemetry

import (
	"github.com/bluenviron/gomavlib/v3"
	"github.com/bluenviron/gomavlib/v3/pkg/dialects/common"
	"go.uber.org/zap"

	"github.com/san-kum/quadsim/internal/env"
)

// PosePublisher is an env.Observer that emits ATTITUDE_QUATERNION and
// LOCAL_POSITION_NED once per simulation step.
type PosePublisher struct {
	node   *gomavlib.Node
	logger *zap.SugaredLogger
}

// NewPosePublisher opens a MAVLink v2 UDP client node toward address
// (host:port).
func NewPosePublisher(address string, logger *zap.SugaredLogger) (*PosePublisher, error) {
	node, err := gomavlib.NewNode(gomavlib.NodeConf{
		Endpoints: []gomavlib.EndpointConf{
			gomavlib.EndpointUDPClient{Address: address},
		},
		Dialect:     common.Dialect,
		OutVersion:  gomavlib.V2,
		OutSystemID: 10,
	})
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &PosePublisher{node: node, logger: logger}, nil
}

// OnStep publishes the snapshot's pose. The simulation world frame is
// ENU; MAVLink local frames are NED, so x/y swap and z flips.
func (p *PosePublisher) OnStep(s env.Snapshot) {
	bootMs := uint32(s.Time * 1000)

	att := &common.MessageAttitudeQuaternion{
		TimeBootMs: bootMs,
		Q1:         float32(s.State.Att.Real),
		Q2:         float32(s.State.Att.Imag),
		Q3:         float32(s.State.Att.Jmag),
		Q4:         float32(s.State.Att.Kmag),
		Rollspeed:  float32(s.Action.Rates.X),
		Pitchspeed: float32(s.Action.Rates.Y),
		Yawspeed:   float32(s.Action.Rates.Z),
	}

	pos := &common.MessageLocalPositionNed{
		TimeBootMs: bootMs,
		X:          float32(s.State.Pos.Y),
		Y:          float32(s.State.Pos.X),
		Z:          float32(-s.State.Pos.Z),
		Vx:         float32(s.State.Vel.Y),
		Vy:         float32(s.State.Vel.X),
		Vz:         float32(-s.State.Vel.Z),
	}

	if err := p.node.WriteMessageAll(att); err != nil {
		p.logger.Debugw("attitude publish failed", "err", err)
	}
	if err := p.node.WriteMessageAll(pos); err != nil {
		p.logger.Debugw("position publish failed", "err", err)
	}
}

// Close shuts the MAVLink node down.
func (p *PosePublisher) Close() {
	p.node.Close()
}
