// package http contains the request and response types shared by the
// codec and the server. the package name is meant to be same with the
// top level concept so that call sites read naturally, importers that
// also need net/http should alias one of them.
//
// headers are kept as an ordered list of raw (name, value) pairs, names
// are never canonicalized and duplicates are never merged.
package http
