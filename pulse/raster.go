package pulse

// RasterLen returns the number of bytes Raster appends for codes.
func RasterLen(codes []Code) int {
	ticks := 0
	for _, c := range codes {
		if c.IsEnd() {
			break
		}
		ticks += c.Ticks()
	}
	return (ticks + 7) / 8
}

// Raster appends codes to dst as a bitstream holding one bit per tick, most
// significant bit first. It stops at the first end marker. A partial last
// byte is padded with Low.
func Raster(dst []byte, codes []Code) []byte {
	w := bitWriter{buf: dst}
	for _, c := range codes {
		if c.IsEnd() {
			break
		}
		w.repeat(c.Level1(), int(c.Length1()))
		w.repeat(c.Level2(), int(c.Length2()))
	}
	return w.flush()
}

type bitWriter struct {
	buf  []byte
	cur  byte
	nbit uint8
}

func (w *bitWriter) repeat(l Level, n int) {
	var fill byte
	if l {
		fill = 0xff
	}
	// Fill the pending byte, then write whole bytes at once.
	for n > 0 && w.nbit != 0 {
		w.put(l)
		n--
	}
	for ; n >= 8; n -= 8 {
		w.buf = append(w.buf, fill)
	}
	for ; n > 0; n-- {
		w.put(l)
	}
}

func (w *bitWriter) put(l Level) {
	if l {
		w.cur |= 0x80 >> w.nbit
	}
	w.nbit++
	if w.nbit == 8 {
		w.buf = append(w.buf, w.cur)
		w.cur, w.nbit = 0, 0
	}
}

func (w *bitWriter) flush() []byte {
	if w.nbit != 0 {
		w.buf = append(w.buf, w.cur)
		w.cur, w.nbit = 0, 0
	}
	return w.buf
}
