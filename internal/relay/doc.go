// Package relay connects server-side chat sessions to whatever produces
// assistant replies
package relay
