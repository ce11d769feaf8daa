// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

// Provider identifies an external SSO identity provider used to sign a
// person into an internal account.
type Provider string

const (
	// ProviderGoogle is Google Sign-In.
	ProviderGoogle Provider = "google"
)

// Platform identifies an external music-streaming service whose API the
// user's own access token is used against, client-side.
type Platform string

const (
	PlatformSpotify    Platform = "spotify"
	PlatformYouTube    Platform = "youtube"
	PlatformSoundCloud Platform = "soundcloud"
)
