// package repositories provides the local persistence layer.
//
// Everything the client keeps on disk lives here, backed by the SQLite
// database opened through internal/shared:
//
//   - [TokenRepository] : the persisted access/refresh token pair (implements api.TokenStore)
//   - [PrefsRepository] : user preferences such as the UI theme
//   - [SongCacheRepository] : an offline cache of the last fetched library page
//
// The schema is created by the embedded migrations in internal/shared/sql.
package repositories
