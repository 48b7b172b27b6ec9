// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for the local database and config.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize local database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "theme",
				Usage: "Set the display theme (dark or light)",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "name",
					},
				},
				Action: r.SetupTheme,
			},
		},
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Account and session operations",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password (prompted when omitted)",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create an account and sign in",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Display name",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password (prompted when omitted)",
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "whoami",
				Usage:  "Show the signed-in account",
				Action: r.AuthWhoami,
			},
			{
				Name:   "logout",
				Usage:  "Clear the persisted session",
				Action: r.AuthLogout,
			},
			{
				Name:   "health",
				Usage:  "Check API availability",
				Action: r.AuthHealth,
			},
		},
	}
}

// songsCommand handles library browsing and editing
func songsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "songs",
		Aliases: []string{"library"},
		Usage:   "Browse and edit the song library",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List songs with filters and sorting",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "search",
						Usage: "Free-text filter across title, artist and album",
					},
					&cli.StringFlag{
						Name:  "artist",
						Usage: "Filter by artist",
					},
					&cli.StringFlag{
						Name:  "album",
						Usage: "Filter by album",
					},
					&cli.StringFlag{
						Name:  "genre",
						Usage: "Filter by genre",
					},
					&cli.BoolFlag{
						Name:  "favorites",
						Usage: "Only favorited songs",
					},
					&cli.StringFlag{
						Name:  "sort",
						Usage: "Sort field: title, artist, album, created_at, play_count, last_played_at",
						Value: "created_at",
					},
					&cli.StringFlag{
						Name:  "order",
						Usage: "Sort order: asc or desc",
						Value: "desc",
					},
					&cli.IntFlag{
						Name:  "pages",
						Usage: "Number of pages to fetch",
						Value: 1,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SongsList,
			},
			{
				Name:  "get",
				Usage: "Show a single song",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SongsGet,
			},
			{
				Name:  "update",
				Usage: "Update song metadata",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title"},
					&cli.StringFlag{Name: "artist"},
					&cli.StringFlag{Name: "album"},
					&cli.StringFlag{Name: "genre"},
					&cli.IntFlag{Name: "year"},
					&cli.IntFlag{Name: "rating", Value: -1},
				},
				Action: r.SongsUpdate,
			},
			{
				Name:  "favorite",
				Usage: "Toggle a song's favorite flag",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.SongsFavorite,
			},
			{
				Name:  "delete",
				Usage: "Delete a song from the library",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.SongsDelete,
			},
			{
				Name:  "play",
				Usage: "Record a play event for a song",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "listened",
						Usage: "Seconds listened",
					},
					&cli.BoolFlag{
						Name:  "completed",
						Usage: "Whether playback finished",
						Value: true,
					},
				},
				Action: r.SongsPlay,
			},
			{
				Name:  "cached",
				Usage: "List songs from the offline cache",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of songs to show",
						Value: 50,
					},
				},
				Action: r.SongsCached,
			},
		},
	}
}

// playlistsCommand handles playlist operations
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List playlists",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PlaylistsList,
			},
			{
				Name:  "show",
				Usage: "Show a playlist with its songs",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PlaylistsShow,
			},
			{
				Name:  "create",
				Usage: "Create a playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Playlist name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "Playlist description",
					},
				},
				Action: r.PlaylistsCreate,
			},
			{
				Name:  "update",
				Usage: "Update playlist metadata",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name"},
					&cli.StringFlag{Name: "description"},
					&cli.BoolFlag{Name: "public"},
				},
				Action: r.PlaylistsUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.PlaylistsDelete,
			},
			{
				Name:  "add",
				Usage: "Add a song to a playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "playlist",
						Usage:    "Playlist ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "song",
						Usage:    "Song ID",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "position",
						Usage: "Insert position (append when omitted)",
						Value: -1,
					},
				},
				Action: r.PlaylistsAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove a song from a playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "playlist",
						Usage:    "Playlist ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "song",
						Usage:    "Song ID",
						Required: true,
					},
				},
				Action: r.PlaylistsRemove,
			},
			{
				Name:  "reorder",
				Usage: "Reorder a playlist's songs",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "playlist",
						Usage:    "Playlist ID",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:     "song",
						Usage:    "Song IDs in the new order (repeatable)",
						Required: true,
					},
				},
				Action: r.PlaylistsReorder,
			},
			{
				Name:  "export",
				Usage: "Export a playlist to csv, markdown or txt",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format: csv, markdown, txt",
						Value: "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path (file base or directory, format dependent)",
					},
					&cli.BoolFlag{
						Name:  "cover",
						Usage: "Download the cover image (markdown only)",
					},
				},
				Action: r.PlaylistsExport,
			},
		},
	}
}

// chainsCommand handles mood chain operations
func chainsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "chains",
		Usage: "Mood chain operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List mood chains",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ChainsList,
			},
			{
				Name:  "show",
				Usage: "Show a chain with its songs and transitions",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ChainsShow,
			},
			{
				Name:  "create",
				Usage: "Create a mood chain",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Chain name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "Chain description",
					},
					&cli.StringFlag{
						Name:  "style",
						Usage: "Transition style: smooth, random, energy_flow, genre_match",
						Value: "smooth",
					},
					&cli.StringSliceFlag{
						Name:  "song",
						Usage: "Initial song IDs (repeatable)",
					},
				},
				Action: r.ChainsCreate,
			},
			{
				Name:  "from-history",
				Usage: "Generate a chain from listening history",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Chain name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "min-plays",
						Usage: "Minimum plays for a song to qualify",
						Value: 2,
					},
				},
				Action: r.ChainsFromHistory,
			},
			{
				Name:  "update",
				Usage: "Update chain metadata",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name"},
					&cli.StringFlag{Name: "description"},
					&cli.StringFlag{
						Name:  "style",
						Usage: "Transition style: smooth, random, energy_flow, genre_match",
					},
				},
				Action: r.ChainsUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete a mood chain",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.ChainsDelete,
			},
			{
				Name:  "add",
				Usage: "Add a song to a chain",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "chain",
						Usage:    "Chain ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "song",
						Usage:    "Song ID",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "position",
						Usage: "Insert position (append when omitted)",
						Value: -1,
					},
				},
				Action: r.ChainsAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove a song from a chain",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "chain",
						Usage:    "Chain ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "song",
						Usage:    "Song ID",
						Required: true,
					},
				},
				Action: r.ChainsRemove,
			},
			{
				Name:  "reorder",
				Usage: "Reorder a chain's songs",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "chain",
						Usage:    "Chain ID",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:     "song",
						Usage:    "Song IDs in the new order (repeatable)",
						Required: true,
					},
				},
				Action: r.ChainsReorder,
			},
			{
				Name:  "transitions",
				Usage: "Replace the chain's transition graph",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "chain",
						Usage:    "Chain ID",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:     "edge",
						Usage:    "Edge as from:to or from:to:weight (repeatable)",
						Required: true,
					},
				},
				Action: r.ChainsTransitions,
			},
			{
				Name:  "next",
				Usage: "Suggest the next songs after the current one",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "chain",
						Usage:    "Chain ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "after",
						Usage:    "Current song ID",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "count",
						Usage: "Number of suggestions",
						Value: 3,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ChainsNext,
			},
			{
				Name:  "played",
				Usage: "Record a played transition to reinforce its weight",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "chain",
						Usage:    "Chain ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "from",
						Usage:    "Song the transition started from",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "to",
						Usage:    "Song the transition landed on",
						Required: true,
					},
				},
				Action: r.ChainsPlayed,
			},
		},
	}
}

// tagsCommand handles tag management and song tagging
func tagsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tags",
		Usage: "Tag operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List your tags",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.TagsList,
			},
			{
				Name:  "create",
				Usage: "Create a tag",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Tag name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "color",
						Usage: "Hex color like #FF5733",
					},
				},
				Action: r.TagsCreate,
			},
			{
				Name:  "update",
				Usage: "Update a tag's name or color",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name"},
					&cli.StringFlag{Name: "color"},
				},
				Action: r.TagsUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete a tag",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.TagsDelete,
			},
			{
				Name:  "add",
				Usage: "Attach a tag to a song",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "song",
						Usage:    "Song ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "tag",
						Usage:    "Tag ID",
						Required: true,
					},
				},
				Action: r.TagsAdd,
			},
			{
				Name:  "remove",
				Usage: "Detach a tag from a song",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "song",
						Usage:    "Song ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "tag",
						Usage:    "Tag ID",
						Required: true,
					},
				},
				Action: r.TagsRemove,
			},
		},
	}
}

// recommendCommand surfaces the server-side recommendation endpoints
func recommendCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "recommend",
		Usage: "Server-computed recommendations",
		Commands: []*cli.Command{
			{
				Name:  "similar",
				Usage: "Songs similar to the given song",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum songs",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.RecommendSimilar,
			},
			{
				Name:  "discover",
				Usage: "Personalized discovery sections",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Songs per section",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.RecommendDiscover,
			},
			{
				Name:  "mix",
				Usage: "Generate a personal mix",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "mood",
						Usage: "Mood filter: energetic, calm, focus",
					},
					&cli.IntFlag{
						Name:  "duration",
						Usage: "Target duration in minutes",
						Value: 60,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.RecommendMix,
			},
		},
	}
}

// statsCommand handles listening statistics
func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Listening statistics",
		Commands: []*cli.Command{
			{
				Name:  "overview",
				Usage: "Aggregate listening statistics",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "period",
						Usage: "Period: week, month, year, all",
						Value: "month",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.StatsOverview,
			},
			{
				Name:  "top-songs",
				Usage: "Most played songs",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "period",
						Usage: "Period: week, month, year, all",
						Value: "month",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Number of songs",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.StatsTopSongs,
			},
			{
				Name:  "top-artists",
				Usage: "Most played artists",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "period",
						Usage: "Period: week, month, year, all",
						Value: "month",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Number of artists",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.StatsTopArtists,
			},
			{
				Name:  "history",
				Usage: "Listening history, most recent first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "pages",
						Usage: "Number of pages to fetch",
						Value: 1,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.StatsHistory,
			},
		},
	}
}

// uploadCommand handles audio uploads
func uploadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "Upload audio files to the library",
		ArgsUsage: "FILE [FILE...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent uploads",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Upload starts per second",
			},
			&cli.BoolFlag{
				Name:  "probe",
				Usage: "Read local tags to prefill metadata",
				Value: true,
			},
		},
		Action: r.Upload,
	}
}

// searchCommand handles free-text search
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search songs, artists, albums and playlists",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "query",
			},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum matches per category",
				Value: 10,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Search,
	}
}

// tuiCommand launches the interactive terminal UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"ui"},
		Usage:   "Interactive terminal UI",
		Action:  r.TUI,
	}
}
