// Package clockless drives single-wire LED chipsets such as the WS2812,
// SK6812, UCS1903 and the TM18xx family.
//
// These chipsets have no clock line. Every data bit starts with a high pulse
// of the same width (T1); a 1 bit stays high for T2 more, a 0 bit drops low
// for T2; both then stay low for T3. A low period longer than the chipset's
// reset time latches the frame into the LEDs.
//
// The bit engine is generic over a Port (the pin's set/clear registers) and a
// Counter or Delayer (the time base), so TinyGo specialises the hot loop for
// the concrete hardware types with no dynamic dispatch per bit. A whole frame
// is sent with interrupts masked, see CriticalSection.
//
// On a host the same engine runs against SimLine, which records every edge
// with its cycle timestamp; Decode turns a recording back into bytes so that
// timing, bit order and channel order can be checked without hardware.
package clockless
