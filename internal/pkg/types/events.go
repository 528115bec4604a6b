package types

// DrawObserver receives the result of every packet table redraw.
// This keeps the table decoupled from whatever renders it (CLI output, logs).
type DrawObserver interface {
	// OnDraw is called after visibility has been recomputed
	OnDraw(visible, total int)
}

// NoopDrawObserver ignores every draw
type NoopDrawObserver struct{}

func (n *NoopDrawObserver) OnDraw(visible, total int) {}
