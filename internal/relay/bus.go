package relay

// Bus fans frames out to the same room hosted in other processes. The
// in-memory hub is complete without one; a Bus only adds cross-process
// reach, it is never part of the local delivery path.
//
// A frame published by this process must not be delivered back to it.
type Bus interface {
	// Publish sends a frame to roomID subscribers in other processes.
	Publish(roomID string, frame []byte) error

	// Subscribe registers deliver for frames other processes publish to
	// roomID, returning a function that tears the subscription down.
	Subscribe(roomID string, deliver func(frame []byte)) (func(), error)
}
