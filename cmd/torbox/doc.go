// Command torbox is a command-line client for the TorBox debrid API.
//
// Credentials come from the configuration file, a .env file or TORBOX_*
// environment variables, for example TORBOX_API_KEY or
// TORBOX_OAUTH_ACCESS_TOKEN.
package main
