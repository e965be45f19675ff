package wire

import "github.com/quicforge/quicpacker/internal/utils"

// LogFrame logs a frame that was just added to a packet, at debug level.
// The assembler calls this for every frame it adds to a packet whenever it
// has a logger, mirroring the teacher's own "\t<- &wire.XFrame{...}" style.
func LogFrame(logger utils.Logger, frame Frame, sent bool) {
	if !sent {
		logger.Debugf("\t<- %#v", frame)
		return
	}
	logger.Debugf("\t-> %#v", frame)
}
