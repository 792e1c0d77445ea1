//go:build rp2040 || rp2350

package main

import (
	_ "embed"
	"machine"
	"time"

	"gobuggy/color"
	"gobuggy/config"
	"gobuggy/core"
	"gobuggy/lights"
	"gobuggy/motor"
	"gobuggy/nav"
	"gobuggy/sensor/tcs3471"
)

//go:embed buggy.json
var buggyJSON []byte

var (
	telemetry *core.TelemetryQueue
	navigator *nav.Navigator

	// Debug counters
	loopPanics  uint32
	uartErrors  uint32
	obstacleIRQ uint32
)

func main() {
	// Disable watchdog on boot to clear any previous state
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	cfg, err := config.LoadConfig(buggyJSON)
	if err != nil {
		halt("config: " + err.Error())
	}

	uart := machine.DefaultUART
	if err := uart.Configure(machine.UARTConfig{BaudRate: cfg.Telemetry.Baud}); err != nil {
		halt("uart: " + err.Error())
	}
	core.SetDebugWriter(func(s string) { println(s) })
	core.SetDebugEnabled(cfg.Debug)
	core.InitAsyncDebug()

	// Register platform drivers
	gpioDriver := NewRPGPIODriver()
	core.SetGPIODriver(gpioDriver)
	pwmDriver := NewRP2040PWMDriver()
	core.SetPWMDriver(pwmDriver)
	i2cDriver := NewRPI2CDriver()
	core.SetI2CDriver(i2cDriver)

	pins := mustPins(cfg.Pins)
	clock := core.NewSystemClock()

	left, right, err := newWheels(cfg.MotorDriver, pwmDriver, pins)
	if err != nil {
		halt("motors: " + err.Error())
	}

	sensor, err := newSensor(cfg.Sensor, cfg.Calibration, i2cDriver, pins)
	if err != nil {
		halt("sensor: " + err.Error())
	}

	panel, err := lights.NewPanel(core.MustGPIO(), lights.Pins{
		Heartbeat: pins.heartbeat,
		Retrace:   pins.retrace,
		Red:       pins.red,
		Green:     pins.green,
		Blue:      pins.blue,
	}, clock)
	if err != nil {
		halt("lights: " + err.Error())
	}

	telemetry = core.NewTelemetryQueue(cfg.Telemetry.Buffer)
	go uartWriterLoop(uart)

	navigator, err = nav.New(nav.Config{
		Left:      left,
		Right:     right,
		Sensor:    sensor,
		Profile:   cfg.Calibration,
		Capacity:  cfg.PathCapacity,
		Telemetry: telemetry,
		Lights:    panel,
		Clock:     clock,
	})
	if err != nil {
		halt("nav: " + err.Error())
	}

	// The ISR only raises the flag; the loop clears the sensor latch over I2C
	flag := navigator.Flag()
	err = gpioDriver.OnFalling(pins.obstacle, func() {
		obstacleIRQ++
		flag.Raise()
	})
	if err != nil {
		halt("obstacle interrupt: " + err.Error())
	}

	core.DebugAsync("[NAV] buggy ready, capacity " + core.Itoa(cfg.PathCapacity))

	for {
		// Recover from panics in the loop body to keep the vehicle alive
		func() {
			defer func() {
				if r := recover(); r != nil {
					loopPanics++
					core.DumpEventRing()
					left.Set(motor.Forward, 0)
					right.Set(motor.Forward, 0)
				}
			}()
			navigator.Step()
		}()
	}
}

// uartWriterLoop drains queued telemetry into the UART
func uartWriterLoop(uart *machine.UART) {
	defer func() {
		if r := recover(); r != nil {
			uartErrors++
			time.Sleep(100 * time.Millisecond)
			go uartWriterLoop(uart)
		}
	}()

	for {
		if telemetry.Pending() > 0 {
			if _, err := telemetry.Drain(uart); err != nil {
				uartErrors++
			}
		}
		// Yield to the control loop
		time.Sleep(time.Millisecond)
	}
}

// pinMap holds the parsed pin numbers of the configuration
type pinMap struct {
	leftPWM, leftDir, rightPWM, rightDir core.GPIOPin
	obstacle                             core.GPIOPin
	heartbeat, retrace                   core.GPIOPin
	red, green, blue                     core.GPIOPin
	sda, scl                             core.GPIOPin
}

func mustPins(p config.PinConfig) pinMap {
	parse := func(name string) core.GPIOPin {
		n, err := config.ParsePin(name)
		if err != nil {
			halt(err.Error())
		}
		return core.GPIOPin(n)
	}
	return pinMap{
		leftPWM:   parse(p.LeftPWM),
		leftDir:   parse(p.LeftDir),
		rightPWM:  parse(p.RightPWM),
		rightDir:  parse(p.RightDir),
		obstacle:  parse(p.Obstacle),
		heartbeat: parse(p.Heartbeat),
		retrace:   parse(p.Retrace),
		red:       parse(p.Red),
		green:     parse(p.Green),
		blue:      parse(p.Blue),
		sda:       parse(p.SDA),
		scl:       parse(p.SCL),
	}
}

func newWheels(kind string, pwm *RP2040PWMDriver, pins pinMap) (left, right motor.Wheel, err error) {
	if kind == config.DriverL9110 {
		l, err := newL9110Wheel(pwm, core.PWMPin(pins.leftPWM), core.PWMPin(pins.leftDir), motor.DefaultPWMPeriodNS)
		if err != nil {
			return nil, nil, err
		}
		r, err := newL9110Wheel(pwm, core.PWMPin(pins.rightPWM), core.PWMPin(pins.rightDir), motor.DefaultPWMPeriodNS)
		if err != nil {
			return nil, nil, err
		}
		return l, r, nil
	}

	l, err := motor.NewPWMWheel(core.MustPWM(), core.MustGPIO(), core.PWMPin(pins.leftPWM), pins.leftDir, motor.DefaultPWMPeriodNS)
	if err != nil {
		return nil, nil, err
	}
	r, err := motor.NewPWMWheel(core.MustPWM(), core.MustGPIO(), core.PWMPin(pins.rightPWM), pins.rightDir, motor.DefaultPWMPeriodNS)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

func newSensor(sc config.SensorConfig, profile color.Profile, i2c *RPI2CDriver, pins pinMap) (*tcs3471.Device, error) {
	i2c.SetPins(0, machine.Pin(pins.sda), machine.Pin(pins.scl))
	if err := i2c.ConfigureBus(0, sc.Frequency); err != nil {
		return nil, err
	}
	bus, err := i2c.Bus(0)
	if err != nil {
		return nil, err
	}

	dev := tcs3471.New(bus)
	if err := dev.Probe(); err != nil {
		return nil, err
	}
	cfg := tcs3471.DefaultConfig()
	cfg.IntegrationTime = sc.IntegrationTime
	cfg.ClearLow = sc.ClearLow
	cfg.ClearHigh = sc.ClearHigh
	cfg.Persistence = sc.Persistence
	if err := dev.Configure(cfg); err != nil {
		return nil, err
	}

	if s, err := dev.ReadColor(); err == nil {
		n, cat := color.Read(s, profile)
		core.DebugPrintln("[NAV] first reading " + cat.String() + " hue=" + core.Itoa(int(n.Hue)))
	}
	return dev, nil
}

// halt reports a fatal setup error forever
func halt(msg string) {
	for {
		println("FATAL: " + msg)
		core.DumpEventRing()
		time.Sleep(2 * time.Second)
	}
}
