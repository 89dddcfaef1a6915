package filelog

import (
	"time"
)

// rotationPhase is the state of the active file. phaseRotating is only
// observable while the logger mutex is held.
type rotationPhase int

const (
	phaseActive rotationPhase = iota
	phaseRotating
)

// rotateReason tells why a rotation boundary was crossed.
type rotateReason int

const (
	rotateNone rotateReason = iota
	rotateSize
	rotateAge
	rotateManual
)

func (r rotateReason) String() string {
	switch r {
	case rotateSize:
		return "size"
	case rotateAge:
		return "age"
	case rotateManual:
		return "manual"
	default:
		return "none"
	}
}

// rotationState describes the active file. It is replaced as a whole on
// every rotation.
type rotationState struct {
	path      string
	createdAt time.Time
	size      int64 // buffered plus flushed bytes since creation
}

// rotationPolicy decides when the active file must be replaced.
// Zero limits disable the corresponding trigger.
type rotationPolicy struct {
	maxFileSize      int64
	rollingFrequency time.Duration
	phase            rotationPhase
	state            rotationState
}

// shouldRotate checks both triggers for a write of incoming bytes at now.
// A record larger than maxFileSize is written whole into an empty file.
func (p *rotationPolicy) shouldRotate(incoming int64, now time.Time) rotateReason {
	if p.maxFileSize > 0 && p.state.size > 0 && p.state.size+incoming > p.maxFileSize {
		return rotateSize
	}
	if p.rollingFrequency > 0 && now.Sub(p.state.createdAt) >= p.rollingFrequency {
		return rotateAge
	}
	return rotateNone
}

// account records n bytes appended to the active file.
func (p *rotationPolicy) account(n int) {
	p.state.size += int64(n)
}

// rotateLocked closes the active file and starts a new one.
// l.mu is held.
func (l *Logger) rotateLocked(now time.Time, reason rotateReason) {
	l.policy.phase = phaseRotating
	l.writer.close()

	path := l.dirs.newFilePath(now)
	if err := touchFile(path); err != nil {
		l.report(err)
	}
	l.writer.retarget(path)
	l.policy.state = rotationState{path: path, createdAt: now}
	l.policy.phase = phaseActive

	switch reason {
	case rotateSize:
		l.counters.sizeRotations++
	case rotateAge:
		l.counters.ageRotations++
	}
	l.requestPrune()
}
