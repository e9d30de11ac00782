//go:build rp2040 || rp2350

package progmode

import (
	"context"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
)

// UARTSource adapts a uartx PL011 instance to the programmer link. The
// programming jig clocks bytes at the configured baud rate; there is no
// higher-level framing, so one blocking byte read is the whole contract.
type UARTSource struct {
	u   *uartx.UART
	buf [1]byte
}

var _ ByteSource = (*UARTSource)(nil)

func NewUARTSource(u *uartx.UART) *UARTSource {
	return &UARTSource{u: u}
}

func (s *UARTSource) ReadByte() (byte, error) {
	for {
		n, err := s.u.RecvSomeContext(context.Background(), s.buf[:])
		if err != nil {
			return 0, err
		}
		if n == 1 {
			return s.buf[0], nil
		}
	}
}
