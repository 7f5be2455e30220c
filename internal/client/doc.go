// Package client holds the page controllers of the GREX client. Controllers
// keep local page state, call the gateway, and report outcomes as notices.
// Remote failures never escape a user action; they become error notices and
// leave local state untouched.
package client
