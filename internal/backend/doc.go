// Package backend talks to the MythTV backend over its length-prefixed
// TCP command protocol and pushes COMMFLAG_UPDATE player messages.
//
// Every frame on the wire is an 8-byte left-justified decimal byte
// count followed by the UTF-8 payload. The client announces itself as
// a monitor after the protocol version check, then sends MESSAGE
// commands. The backend acknowledges each with the exact token "OK";
// any other response is an error condition for the caller to log.
// Delivery failures are always non-fatal: a missed update is superseded
// by the next successful one, so a flagging session never aborts
// because of them.
package backend
