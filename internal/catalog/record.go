package catalog

// Column names expected in the header row of the input sheet.
const (
	ColumnID        = "id"
	ColumnTitle     = "title"
	ColumnArtist    = "artist"
	ColumnYear      = "year"
	ColumnPeriod    = "period"
	ColumnSubject   = "subject"
	ColumnTechnique = "technique"
	ColumnImagePath = "imagePath"
	ColumnMuseum    = "museum"
	ColumnLicense   = "license"
	ColumnSourceURL = "sourceUrl"
)

// RequiredColumns lists every column a sheet must carry, in output order.
var RequiredColumns = []string{
	ColumnID,
	ColumnTitle,
	ColumnArtist,
	ColumnYear,
	ColumnPeriod,
	ColumnSubject,
	ColumnTechnique,
	ColumnImagePath,
	ColumnMuseum,
	ColumnLicense,
	ColumnSourceURL,
}

// Artwork is one normalized catalog record.
type Artwork struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Artist     string   `json:"artist"`
	Year       *int     `json:"year"`
	Periods    []string `json:"periods"`
	Subjects   []string `json:"subjects"`
	Techniques []string `json:"techniques"`
	ImagePath  string   `json:"imagePath"`
	Museum     string   `json:"museum"`
	License    string   `json:"license"`
	SourceURL  string   `json:"sourceUrl"`
}
