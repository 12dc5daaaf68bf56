package hailstone

type (
	// AudioContext plays decoded samples. Play starts a one-shot voice and
	// returns immediately; ended is called once, from any goroutine, when the
	// voice finishes on its own. ended is not called for voices that were
	// stopped.
	AudioContext interface {
		Play(sample *Sample, ended func()) (Voice, error)
		Close() error
	}

	// Voice is one playing instance of a sample. Stopping a voice that has
	// already finished or been stopped returns ErrVoiceStopped.
	Voice interface {
		Stop() error
	}

	// ReadyWaiter is implemented by audio contexts that need time to open the
	// device. Ready is closed when the context can play.
	ReadyWaiter interface {
		Ready() <-chan struct{}
	}
)
