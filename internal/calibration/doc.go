// Package calibration turns a linear advance form state into a G-code
// calibration tower.
//
// The form state is decoded into Params (Decode), range checked (Validate,
// or Check for both steps) and streamed chunk by chunk to an io.StringWriter
// (Generate). Problems carry catalog keys rather than text so the caller
// can localize them.
package calibration
