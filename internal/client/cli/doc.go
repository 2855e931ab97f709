// Package cli provides the interactive getfit command-line client.
//
// NewApp wires local credential storage, the auth, users and nutrition
// clients, the Session Store and the date and meal-type selectors. Run
// restores the stored session and then reads commands until "exit":
//
//   - register / signup / login / logout / status
//   - profile, goals
//   - date, meal: move the diary cursor
//   - meals, type, week, summary: read the diary
//   - search, barcode, food: look foods up
//   - log, delete: change the diary
//   - export: upload a week as JSON to S3-compatible storage
//
// A request rejected with 401 is retried once after a token refresh; when
// the refresh fails too the session is ended.
package cli
