// Package host provides the native runtime environment for driving the
// Oxyde agent runtime shared library.
//
// It locates and loads the platform shared object, binds the exported
// symbol set atomically into typed call tables, and marshals values across
// the C ABI: UTF-8 text in both directions, emotion-channel float buffers,
// and the exactly-once release of every string the runtime allocates.
package host
