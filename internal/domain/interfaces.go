package domain

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnavailable is returned when the OS transport controls cannot be reached
	ErrUnavailable = errors.New("native transport controls unavailable")
	// ErrInvalidTimeline is returned when a PlaybackTimeline breaks its invariant
	ErrInvalidTimeline = errors.New("invalid playback timeline")
	// ErrClosed is returned by operations on a released handle
	ErrClosed = errors.New("session closed")
)

// Controls is the native transport-control object owned by a session.
// Implementations wrap the OS API (SMTC on Windows, MPRIS on Linux).
// Event handlers passed to the Add* methods are invoked on threads the
// implementation does not control.
//
//go:generate mockgen -destination=mocks/controls_mock.go -package=mocks github.com/genricoloni/nowplaying/internal/domain Controls,ArtworkBackend
type Controls interface {
	// SetAutoManagement toggles the OS default command availability policy
	SetAutoManagement(enabled bool) error

	// SetEnabled shows or hides the session on the OS surface
	SetEnabled(enabled bool) error

	// SetButtonEnabled sets one capability flag
	SetButtonEnabled(button NativeButton, enabled bool) error

	// ClearDisplay clears every published display property
	ClearDisplay() error

	// SetAppMediaID sets the application identifier shown with the metadata
	SetAppMediaID(id string) error

	// SetPlaybackType sets the display type
	SetPlaybackType(t MediaType) error

	// SetMusicProperty writes one music display property
	SetMusicProperty(field MusicField, value string) error

	// SetThumbnail sets the artwork; nil clears it
	SetThumbnail(thumb Thumbnail) error

	// CommitDisplay publishes pending display changes
	CommitDisplay() error

	// UpdateTimeline publishes timeline properties
	UpdateTimeline(t NativeTimeline) error

	// SetPlaybackStatus publishes the playback status
	SetPlaybackStatus(status NativeStatus) error

	// SetShuffle publishes the shuffle state
	SetShuffle(enabled bool) error

	// SetRepeatMode publishes the auto-repeat mode
	SetRepeatMode(mode NativeRepeatMode) error

	// AddButtonPressed installs a button-press handler
	AddButtonPressed(handler func(NativeButton)) (Registration, error)

	// AddPositionChangeRequested installs a seek-request handler
	AddPositionChangeRequested(handler func(time.Duration)) (Registration, error)

	// AddShuffleChangeRequested installs a shuffle-request handler
	AddShuffleChangeRequested(handler func(bool)) (Registration, error)

	// AddRepeatModeChangeRequested installs a repeat-mode-request handler
	AddRepeatModeChangeRequested(handler func(NativeRepeatMode)) (Registration, error)

	// RemoveHandler withdraws a registration returned by one of the Add* methods
	RemoveHandler(reg Registration) error

	// Close releases the native object
	Close() error
}

// ArtworkBackend creates native stream references for artwork
type ArtworkBackend interface {
	// FromURI binds a stream reference to a remote URI
	FromURI(uri string) (Thumbnail, error)

	// LookupFile resolves a local path through the OS storage API.
	// It may block until ctx is done.
	LookupFile(ctx context.Context, path string) (FileRef, error)

	// FromFile binds a stream reference to a resolved file
	FromFile(file FileRef) (Thumbnail, error)
}

// Sink is an asynchronous, push-based output for events.
// Add must never block; it reports whether the item was accepted.
type Sink[T any] interface {
	Add(item T) bool
}

// Config defines the interface for application configuration
type Config interface {
	// GetBackend returns the native backend selection ("auto" or "memory")
	GetBackend() string

	// GetEnabled reports whether the session starts visible
	GetEnabled() bool

	// GetAppID returns the application media id, empty when unset
	GetAppID() string

	// GetIdentity returns the human readable player name
	GetIdentity() string

	// GetBusName returns the D-Bus name suffix used on Linux
	GetBusName() string

	// GetLookupTimeout bounds local artwork lookups; zero means unbounded
	GetLookupTimeout() time.Duration

	// GetCacheRemoteArt reports whether http artwork is cached locally
	GetCacheRemoteArt() bool

	// GetCacheDir returns the artwork cache directory
	GetCacheDir() string

	// GetMaxArtSize returns the longest edge of cached artwork in pixels
	GetMaxArtSize() int

	// GetSinkBuffer returns the buffer size of each event channel
	GetSinkBuffer() int

	// GetCapabilities returns the configured capability flags
	GetCapabilities() CapabilityConfig
}
