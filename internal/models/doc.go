// Package models defines the data model for the music library client.
//
// The types mirror the library API's JSON schemas:
//
//   - [Song], [SongUpdate], [SongFilters] : library tracks, partial updates and list queries
//   - [Playlist], [PlaylistDetail], [PlaylistSong] : ordered song collections
//   - [MoodChain], [MoodChainDetail], [ChainSong], [Transition] : weighted playback sequences
//   - [NextSuggestion] : server-computed next-song candidates for a chain
//   - [Overview], [TopSongs], [TopArtists], [HistoryItem] : listening statistics
//   - [User], [TokenPair] : authentication
//
// List endpoints all return the generic [Page] envelope. Collections held by
// the stores are value copies of these types; nothing in this package is
// shared mutable state.
package models
