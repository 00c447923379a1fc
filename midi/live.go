package midi

import (
	"context"

	"github.com/jsphweid/chorale/model"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"go.uber.org/zap"
)

// InPorts lists the names of the available input ports. A driver must be
// registered by the caller.
func InPorts() []string {
	var names []string
	for _, in := range midi.GetInPorts() {
		names = append(names, in.String())
	}
	return names
}

func toInputEvent(msg midi.Message, timestampms int32) (model.InputEvent, bool) {
	var ch, key, vel uint8
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		return model.InputEvent{Kind: model.NoteOn, Pitch: int(key), Tick: int64(timestampms)}, true
	case msg.GetNoteEnd(&ch, &key):
		return model.InputEvent{Kind: model.NoteOff, Pitch: int(key), Tick: int64(timestampms)}, true
	default:
		return model.InputEvent{}, false
	}
}

// Listen forwards note events from input port to out until ctx is done.
// Events keep the order the driver delivers them in; out should have a
// single consumer.
func Listen(ctx context.Context, port int, out chan<- model.InputEvent, log *zap.Logger) error {
	in, err := midi.InPort(port)
	if err != nil {
		return errors.Wrapf(err, "can't find MIDI input %d", port)
	}

	stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		ev, ok := toInputEvent(msg, timestampms)
		if !ok {
			return
		}
		select {
		case out <- ev:
		case <-ctx.Done():
		}
	}, midi.HandleError(func(listenErr error) {
		log.Warn("MIDI listener error", zap.String("port", in.String()), zap.Error(listenErr))
	}))
	if err != nil {
		return errors.Wrapf(err, "could not listen to %s", in.String())
	}

	log.Info("listening for MIDI input", zap.String("port", in.String()))
	<-ctx.Done()
	stop()
	return nil
}

// CloseDriver releases the registered driver's ports.
func CloseDriver() {
	midi.CloseDriver()
}
