package filelog

import (
	"context"
	"time"
)

// defaultTick is used when periodic flushing is disabled, so that age
// rotation still fires on an idle logger.
const defaultTick = time.Second

func tickInterval(cfg Config) time.Duration {
	if d := cfg.flushInterval(); d > 0 {
		return d
	}
	return defaultTick
}

// processMaintenance runs in its own goroutine for the lifetime of the
// logger. Each tick checks the rotation triggers and, when enabled, flushes
// the buffer. Prune requests sent after a rotation are handled here so that
// directory scans never run on the emitting goroutine.
func (l *Logger) processMaintenance(ctx context.Context, interval time.Duration) {
	defer l.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.tick()
		case <-l.pruneCh:
			l.prune(ctx)
		case d := <-l.tickCh:
			ticker.Reset(d)
		}
	}
}

// tick rotates an aged, non-empty file and flushes pending lines.
func (l *Logger) tick() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	if l.policy.state.size > 0 {
		now := l.now()
		if reason := l.policy.shouldRotate(0, now); reason != rotateNone {
			l.rotateLocked(now, reason)
		}
	}
	if l.cfg.FlushIntervalMs > 0 {
		l.writer.flush()
	}
}

// resetTick hands a new tick interval to the maintenance goroutine, replacing
// one not yet picked up. l.mu is held.
func (l *Logger) resetTick(d time.Duration) {
	for {
		select {
		case l.tickCh <- d:
			return
		default:
		}
		select {
		case <-l.tickCh:
		default:
		}
	}
}

// requestPrune schedules a retention pass without blocking.
func (l *Logger) requestPrune() {
	select {
	case l.pruneCh <- struct{}{}:
	default:
	}
}
