package model

// OutputPaths is where a watermarked copy of a photo is written.
type OutputPaths struct {
	Dir  string `json:"dir"`
	File string `json:"file"`
}
