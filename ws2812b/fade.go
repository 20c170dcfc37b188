package ws2812b

// fadeSteps is the number of steps per channel: up from 0 to 254, then
// down from 254 to 0.
const fadeSteps = 2 * 255

// Fade ramps the blue, green and red channel in turn up and back down
// through their range. Every step writes the current composite color to
// count LEDs before it moves the ramp on, then waits the configured fade
// step. The first frame is therefore target itself, and each ramp's last
// value shows up in the first frame of the next ramp. The other channels
// keep their value from target, or from the end of the previous ramp.
//
// Fade blocks for 3*510 steps; the first failing write aborts it.
func (d *Device) Fade(target Color, count int) error {
	c := target
	for _, set := range [...]func(*Color, uint8){setBlue, setGreen, setRed} {
		for step := 0; step < fadeSteps; step++ {
			if err := d.Write(c, count); err != nil {
				return err
			}
			set(&c, rampValue(step))
			d.cfg.Sleep(d.cfg.FadeStep)
		}
	}
	return nil
}

func rampValue(step int) uint8 {
	if step < fadeSteps/2 {
		return uint8(step)
	}
	return uint8(fadeSteps - 1 - step)
}

func setRed(c *Color, v uint8)   { c.R = v }
func setGreen(c *Color, v uint8) { c.G = v }
func setBlue(c *Color, v uint8)  { c.B = v }
