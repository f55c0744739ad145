// FILE: pidcat/src/internal/core/entry.go
package core

// Record is one accepted logcat line in brief format, split into its fields.
// It lives only for the duration of the line's processing.
type Record struct {
	Level   Level  `json:"level"`
	Tag     string `json:"tag"`
	Owner   string `json:"owner"` // pid as printed by the device, not parsed
	Message string `json:"message"`
}

// Output is one unit handed from the classifier to the formatter: either a
// lifecycle banner or a record. Exactly one of the fields is set.
type Output struct {
	Banner *Banner
	Record *Record
}
