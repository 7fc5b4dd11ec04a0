// Package yahoo is the authenticated Yahoo Fantasy Sports v2 client. It
// returns payloads verbatim; decoding belongs to the extraction package.
package yahoo
