package feed

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Device is a USB 6-DOF controller model.
type Device struct {
	Vendor  string `json:"vendor"`
	Product string `json:"product"`
	Name    string `json:"name"`
}

// ID returns the vendor:product pair as lsusb prints it.
func (d Device) ID() string {
	return d.Vendor + ":" + d.Product
}

// KnownDevices lists the 3Dconnexion and Logitech controllers spacenavd drives.
var KnownDevices = []Device{
	{"256f", "c635", "SpaceMouse Compact"},
	{"256f", "c62e", "SpaceMouse Wireless (cabled)"},
	{"256f", "c62f", "SpaceMouse Wireless Receiver"},
	{"256f", "c631", "SpaceMouse Pro Wireless (cabled)"},
	{"256f", "c632", "SpaceMouse Pro Wireless Receiver"},
	{"256f", "c633", "SpaceMouse Enterprise"},
	{"256f", "c641", "SpaceMouse Module"},
	{"046d", "c603", "SpaceMouse Plus XT"},
	{"046d", "c605", "CADMan"},
	{"046d", "c606", "SpaceMouse Classic"},
	{"046d", "c621", "SpaceBall 5000"},
	{"046d", "c623", "Space Traveller"},
	{"046d", "c625", "SpacePilot Pro"},
	{"046d", "c626", "SpaceNavigator"},
	{"046d", "c627", "SpaceExplorer"},
	{"046d", "c628", "SpaceNavigator for Notebooks"},
	{"046d", "c629", "SpacePilot Pro"},
	{"046d", "c62b", "SpaceMouse Pro"},
}

// SysfsUSBRoot is where Linux lists USB devices.
const SysfsUSBRoot = "/sys/bus/usb/devices"

// SpnavSocketPaths are the places spacenavd puts its socket, in lookup order.
var SpnavSocketPaths = []string{
	"/run/spnav.sock",
	"/var/run/spnav.sock",
	"/tmp/.spnav.sock",
}

// LookupDevice finds a known device by its ids, case-insensitively.
func LookupDevice(vendor, product string) (Device, bool) {
	for _, d := range KnownDevices {
		if strings.EqualFold(d.Vendor, vendor) && strings.EqualFold(d.Product, product) {
			return d, true
		}
	}
	return Device{}, false
}

// ScanUSB walks a sysfs USB tree and returns the known controllers attached.
//
// Parameters:
//   - root: the tree, SysfsUSBRoot on a live system
//
// Returns:
//   - []Device: the attached known devices in directory order
//   - error: when root cannot be listed
func ScanUSB(root string) ([]Device, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", root, err)
	}

	var found []Device
	for _, e := range entries {
		dir := filepath.Join(root, e.Name())
		vendor, err := readID(filepath.Join(dir, "idVendor"))
		if err != nil {
			continue
		}
		product, err := readID(filepath.Join(dir, "idProduct"))
		if err != nil {
			continue
		}
		if d, ok := LookupDevice(vendor, product); ok {
			found = append(found, d)
		}
	}
	return found, nil
}

// FindSpnavSocket returns the first socket path that exists.
func FindSpnavSocket(paths []string) (string, bool) {
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && info.Mode()&os.ModeSocket != 0 {
			return p, true
		}
	}
	return "", false
}

func readID(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
