package recorder

// NoopRecorder is used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSplit(_ *SplitEvent) error     { return nil }
func (n *NoopRecorder) RecordPayment(_ *PaymentEvent) error { return nil }
func (n *NoopRecorder) RecordUnlock(_ *UnlockEvent) error   { return nil }
func (n *NoopRecorder) Close() error                        { return nil }
