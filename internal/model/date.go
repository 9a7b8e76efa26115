package model

// DateSource tells where a watermark date came from.
type DateSource string

const (
	SourceNone   DateSource = "none"   // resolution was cancelled, no watermark
	SourceExif   DateSource = "exif"   // EXIF capture date
	SourceFile   DateSource = "file"   // filesystem creation time
	SourceManual DateSource = "manual" // typed by the user
)

// DateLayout is the format of every watermark date.
const DateLayout = "2006-01-02"

// ResolvedDate is the watermark text resolved for an opened photo.
type ResolvedDate struct {
	Value  string     `json:"value"`
	Source DateSource `json:"source"`
}

// NoDate is the result of a cancelled resolution.
var NoDate = ResolvedDate{Source: SourceNone}

// Absent reports whether no watermark should be applied.
func (d ResolvedDate) Absent() bool {
	return d.Source == SourceNone || d.Source == "" || d.Value == ""
}
