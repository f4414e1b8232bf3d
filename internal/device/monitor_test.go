package device

import (
	"testing"

	"github.com/pilebones/go-udev/netlink"

	"reelcat/internal/logging"
)

func TestMonitorRunning(t *testing.T) {
	t.Run("nil monitor returns false", func(t *testing.T) {
		var m *Monitor
		if m.Running() {
			t.Error("expected Running() to return false for nil monitor")
		}
	})

	t.Run("unstarted monitor returns false", func(t *testing.T) {
		m := NewMonitor(logging.NewNop(), nil)
		if m.Running() {
			t.Error("expected Running() to return false for unstarted monitor")
		}
	})
}

func TestMonitorStopIsIdempotent(t *testing.T) {
	m := NewMonitor(logging.NewNop(), nil)
	m.Stop()
	m.Stop()
	if m.Running() {
		t.Error("expected monitor to stay stopped")
	}
}

func TestExtractDeviceName(t *testing.T) {
	t.Run("devname env wins", func(t *testing.T) {
		uevent := netlink.UEvent{
			Env: map[string]string{
				"DEVNAME": "/dev/sdb1",
				"DEVPATH": "/devices/pci0000:00/usb1/block/sdb/sdb1",
			},
		}
		if got := extractDeviceName(uevent); got != "/dev/sdb1" {
			t.Errorf("expected /dev/sdb1, got %s", got)
		}
	})

	t.Run("falls back to devpath", func(t *testing.T) {
		uevent := netlink.UEvent{
			Env: map[string]string{
				"DEVPATH": "/devices/pci0000:00/usb1/block/sdb/sdb1",
			},
		}
		if got := extractDeviceName(uevent); got != "/dev/sdb1" {
			t.Errorf("expected /dev/sdb1, got %s", got)
		}
	})

	t.Run("empty env yields empty name", func(t *testing.T) {
		if got := extractDeviceName(netlink.UEvent{Env: map[string]string{}}); got != "" {
			t.Errorf("expected empty name, got %s", got)
		}
	})
}
