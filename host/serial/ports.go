package serial

import (
	"fmt"
	"sort"
	"strings"

	bugst "go.bug.st/serial"
)

// portLister is replaced in tests
var portLister = bugst.GetPortsList

// ListPorts returns the serial devices present, skipping Bluetooth ports
func ListPorts() ([]string, error) {
	ports, err := portLister()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}

	var out []string
	for _, p := range ports {
		if strings.Contains(p, "Bluetooth") {
			continue
		}
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

// Detect picks the port to use when none was given. It fails unless exactly
// one candidate USB serial device is present.
func Detect() (string, error) {
	ports, err := ListPorts()
	if err != nil {
		return "", err
	}

	var usb []string
	for _, p := range ports {
		if isUSBSerial(p) {
			usb = append(usb, p)
		}
	}
	switch len(usb) {
	case 0:
		return "", fmt.Errorf("no USB serial device found among %d ports", len(ports))
	case 1:
		return usb[0], nil
	default:
		return "", fmt.Errorf("several USB serial devices found, pick one: %s", strings.Join(usb, ", "))
	}
}

func isUSBSerial(p string) bool {
	for _, marker := range []string{"ttyUSB", "ttyACM", "usbserial", "usbmodem", "COM"} {
		if strings.Contains(p, marker) {
			return true
		}
	}
	return false
}
