package mpris

import (
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
)

// Bus defines the D-Bus operations the MPRIS backend needs.
// This abstraction allows us to fake the session bus in tests.
type Bus interface {
	// RequestName asks for a well-known name; it reports whether we became its primary owner
	RequestName(name string) (bool, error)

	// ReleaseName gives a well-known name back to the bus
	ReleaseName(name string) error

	// Export publishes the exported methods of v on path under iface
	Export(v any, path dbus.ObjectPath, iface string) error

	// ExportProperties publishes props on path through org.freedesktop.DBus.Properties
	ExportProperties(path dbus.ObjectPath, props prop.Map) (PropertyStore, error)

	// Emit sends a signal from path
	Emit(path dbus.ObjectPath, name string, values ...any) error

	// Close closes the connection
	Close() error
}

// PropertyStore is the writable side of an exported property set
type PropertyStore interface {
	// GetMust returns the current value of a property
	GetMust(iface, property string) any

	// SetMust changes a property and emits PropertiesChanged when configured to
	SetMust(iface, property string, v any)

	// Introspection describes the properties of iface
	Introspection(iface string) []introspect.Property
}

// StdBus is the real implementation using godbus
type StdBus struct {
	conn *dbus.Conn
}

// NewStdBus opens a private connection to the session bus. A private
// connection lets us release our names by closing it.
func NewStdBus() (*StdBus, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("session bus connection failed: %w", err)
	}
	return &StdBus{conn: conn}, nil
}

func (b *StdBus) RequestName(name string) (bool, error) {
	reply, err := b.conn.RequestName(name, dbus.NameFlagDoNotQueue)
	if err != nil {
		return false, err
	}
	return reply == dbus.RequestNameReplyPrimaryOwner || reply == dbus.RequestNameReplyAlreadyOwner, nil
}

func (b *StdBus) ReleaseName(name string) error {
	_, err := b.conn.ReleaseName(name)
	return err
}

func (b *StdBus) Export(v any, path dbus.ObjectPath, iface string) error {
	return b.conn.Export(v, path, iface)
}

func (b *StdBus) ExportProperties(path dbus.ObjectPath, props prop.Map) (PropertyStore, error) {
	return prop.Export(b.conn, path, props)
}

func (b *StdBus) Emit(path dbus.ObjectPath, name string, values ...any) error {
	return b.conn.Emit(path, name, values...)
}

func (b *StdBus) Close() error {
	return b.conn.Close()
}
