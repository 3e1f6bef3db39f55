package protocol

import (
	"encoding/json"
	"strings"

	"github.com/louisbranch/wit/internal/gaze"
	apperrors "github.com/louisbranch/wit/internal/platform/errors"
)

// Observer is notified of every dispatch outcome. Implementations run on the
// dispatching goroutine.
type Observer interface {
	SampleAccepted(fixation bool)
	FrameRejected(code apperrors.Code)
	Reconfigured(cfg gaze.Config)
}

type nopObserver struct{}

func (nopObserver) SampleAccepted(bool)          {}
func (nopObserver) FrameRejected(apperrors.Code) {}
func (nopObserver) Reconfigured(gaze.Config)     {}

// Dispatcher applies inbound messages to one session and builds replies. It
// is not safe for concurrent use; each connection owns its own.
type Dispatcher struct {
	session  *gaze.Session
	defaults gaze.Config
	observer Observer
}

// NewDispatcher binds a dispatcher to session. defaults supplies the values
// for fields a config message leaves out. A nil observer is allowed.
func NewDispatcher(session *gaze.Session, defaults gaze.Config, observer Observer) *Dispatcher {
	if session == nil {
		session = gaze.NewSession(gaze.WithConfig(defaults))
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Dispatcher{session: session, defaults: defaults, observer: observer}
}

// Session returns the session the dispatcher drives.
func (d *Dispatcher) Session() *gaze.Session { return d.session }

// HandleFrame decodes one raw frame and dispatches it. The returned reply is
// always sendable; err is non-nil when the frame was rejected.
func (d *Dispatcher) HandleFrame(data []byte) (Outbound, error) {
	var msg Inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		return d.Reject(apperrors.Wrap(apperrors.CodeInvalidFrame, "decode gaze frame", err))
	}
	return d.Handle(msg)
}

// Handle dispatches a decoded message. A message without a type is treated
// as a gaze sample.
func (d *Dispatcher) Handle(msg Inbound) (Outbound, error) {
	switch msg.Type {
	case TypeGaze, "":
		return d.handleGaze(msg)
	case TypeConfig:
		applied := d.session.Reconfigure(msg.Config.Apply(d.defaults))
		d.observer.Reconfigured(applied)
		return Ack(TypeConfigAck), nil
	case TypeReset:
		d.session.Reset()
		return Ack(TypeResetAck), nil
	default:
		return d.Reject(apperrors.WithMetadata(
			apperrors.CodeUnknownMessageType,
			"unsupported message type",
			map[string]string{"type": msg.Type},
		))
	}
}

func (d *Dispatcher) handleGaze(msg Inbound) (Outbound, error) {
	if msg.X == nil || msg.Y == nil {
		var missing []string
		if msg.X == nil {
			missing = append(missing, "x")
		}
		if msg.Y == nil {
			missing = append(missing, "y")
		}
		return d.Reject(apperrors.WithMetadata(
			apperrors.CodeInvalidSample,
			"gaze sample requires x and y",
			map[string]string{"missing": strings.Join(missing, ",")},
		))
	}
	update, err := d.session.Ingest(*msg.X, *msg.Y, msg.Timestamp)
	if err != nil {
		return d.Reject(err)
	}
	d.observer.SampleAccepted(update.Fixation)
	return GazeUpdate(update), nil
}

// Reject reports err to the observer and returns it with its error frame.
func (d *Dispatcher) Reject(err error) (Outbound, error) {
	d.observer.FrameRejected(apperrors.CodeOf(err))
	return ErrorFrame(err), err
}

// ErrorFrame converts err into an error message. Internal messages and causes
// are never sent to clients.
func ErrorFrame(err error) Outbound {
	code := apperrors.CodeOf(err)
	return Outbound{
		Type:    TypeError,
		Code:    string(code),
		Message: code.UserMessage(),
		Details: apperrors.MetadataOf(err),
	}
}
