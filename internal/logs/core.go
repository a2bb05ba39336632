package logs

import "go.uber.org/zap/zapcore"

// ringCore is a zapcore.Core that records message and level into a Ring.
// Structured fields are not kept.
type ringCore struct {
	zapcore.LevelEnabler
	ring *Ring
}

// NewRingCore returns a core writing entries at or above enab into ring.
func NewRingCore(ring *Ring, enab zapcore.LevelEnabler) zapcore.Core {
	return &ringCore{LevelEnabler: enab, ring: ring}
}

func (c *ringCore) With([]zapcore.Field) zapcore.Core {
	return c
}

func (c *ringCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *ringCore) Write(ent zapcore.Entry, _ []zapcore.Field) error {
	c.ring.add(Entry{
		TimeStamp: ent.Time,
		Level:     ent.Level,
		Message:   ent.Message,
	})
	return nil
}

func (c *ringCore) Sync() error {
	return nil
}
