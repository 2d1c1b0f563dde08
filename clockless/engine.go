package clockless

// transmitter is a bit engine bound to its port and time base.
type transmitter interface {
	setOutput()
	idle()
	transmit(p *pixels)
}

// counterEngine times every bit against a free running cycle counter. Each
// bit slot is re-anchored on the counter, so time spent loading a byte or a
// slow poll only stretches the low phase it happens in.
type counterEngine[P Port, C Counter] struct {
	port P
	clk  C
	// period is T1+T2+T3. A bit goes low once the slot has oneLow (1 bit)
	// or zeroLow (0 bit) cycles left.
	period  uint32
	oneLow  uint32
	zeroLow uint32
}

func newCounterEngine[P Port, C Counter](port P, clk C, ct CycleTiming) *counterEngine[P, C] {
	return &counterEngine[P, C]{
		port:    port,
		clk:     clk,
		period:  ct.Period(),
		oneLow:  ct.T3,
		zeroLow: ct.T2 + ct.T3,
	}
}

func (e *counterEngine[P, C]) setOutput() { e.port.SetOutput() }
func (e *counterEngine[P, C]) idle()      { e.port.Clear() }

func (e *counterEngine[P, C]) transmit(p *pixels) {
	mark := e.clk.Cycles()
	for p.left > 0 {
		for pos := 0; pos < p.chans; pos++ {
			mark = e.writeByte(mark, p.load(pos))
		}
		p.next()
	}
}

// writeByte sends b MSB first. It returns as soon as the last bit goes low;
// the caller loads the next byte while that low phase runs.
func (e *counterEngine[P, C]) writeByte(mark uint32, b uint8) uint32 {
	for i := 0; i < 8; i++ {
		for int32(mark-e.clk.Cycles()) > 0 {
		}
		mark = e.clk.Cycles() + e.period
		e.port.Set()
		if b&0x80 != 0 {
			for int32(mark-e.clk.Cycles()) > int32(e.oneLow) {
			}
		} else {
			for int32(mark-e.clk.Cycles()) > int32(e.zeroLow) {
			}
		}
		e.port.Clear()
		b <<= 1
	}
	return mark
}

// delayEngine times every bit by counting cycles in a Delayer. It needs no
// timer but every cost in the loop must be known, see DelayCosts.
type delayEngine[P Port, D Delayer] struct {
	port P
	d    D
	high uint32 // T1 less the set cost
	t2   uint32
	low  uint32 // T3 less the clear and loop cost
	last uint32 // low, less the byte load cost
}

func newDelayEngine[P Port, D Delayer](port P, d D, ct CycleTiming, costs DelayCosts) *delayEngine[P, D] {
	low := subSat(ct.T3, costs.Clear+costs.Bit)
	return &delayEngine[P, D]{
		port: port,
		d:    d,
		high: subSat(ct.T1, costs.Set),
		t2:   ct.T2,
		low:  low,
		last: subSat(low, costs.Load),
	}
}

func (e *delayEngine[P, D]) setOutput() { e.port.SetOutput() }
func (e *delayEngine[P, D]) idle()      { e.port.Clear() }

func (e *delayEngine[P, D]) transmit(p *pixels) {
	for p.left > 0 {
		for pos := 0; pos < p.chans; pos++ {
			e.writeByte(p.load(pos))
		}
		p.next()
	}
}

func (e *delayEngine[P, D]) writeByte(b uint8) {
	for i := 0; i < 8; i++ {
		e.port.Set()
		e.d.Delay(e.high)
		if b&0x80 != 0 {
			e.d.Delay(e.t2)
			e.port.Clear()
		} else {
			e.port.Clear()
			e.d.Delay(e.t2)
		}
		if i == 7 {
			e.d.Delay(e.last)
		} else {
			e.d.Delay(e.low)
		}
		b <<= 1
	}
}
