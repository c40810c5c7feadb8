// Package dom drives an arbor visibility monitor from the browser's
// document and window events when running under WebAssembly.
//
// The document receives the visibility-change event (standard or vendor
// prefixed); the window receives blur, focus, pagehide and pageshow; the
// document also receives click, so a click on the page counts as regaining
// focus.
//
// The adapter is only built for GOOS=js GOARCH=wasm.
package dom
