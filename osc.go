// Package osc implements the wire format of Open Sound Control 1.0
// (https://ccrma.stanford.edu/groups/osc/spec-1_0.html): messages, bundles
// and the int32/float32/string/blob argument types. It only reads and
// writes bytes; address pattern matching, and sending and receiving over a
// particular transport, live in sibling packages (pattern, dispatch,
// transport).
package osc
