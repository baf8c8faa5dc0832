// Package crafty is a client for the Crafty Controller v2 HTTP API.
//
// The package covers the endpoint set a dashboard needs: login, server
// listing, per-server stats, lifecycle actions, console stdin, and log
// fetching. Responses share the envelope {status, data?, error?,
// error_data?}; any status other than "ok" is reported as an *APIError,
// 401/403/429 as an *AuthError, and transport failures as a *NetworkError.
//
// Panels disagree on several field encodings (player lists, memory,
// server ids), so decoded stats pass through a normalization layer that
// never fails; see ParsePlayers, ParseMemory, and ParseLogLine.
//
// Self-hosted panels usually run with a self-signed certificate. Pass
// Options.InsecureSkipVerify to tolerate that.
package crafty
