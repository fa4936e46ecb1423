package journal

// ImageState distinguishes where a record's image file ended up. A rename
// failure after a successful insert degrades to ImageStaged: the row exists
// and keeps pointing at the temporary path.
type ImageState string

const (
	// ImageFinal means the image was renamed to its identifier-derived path
	ImageFinal ImageState = "final"
	// ImageStaged means the image is still at its temporary upload path
	ImageStaged ImageState = "staged"
)

// Record is one persisted receipt row. Amount is in whole yen. TempName
// holds the derived identifier linking the row to its image file.
type Record struct {
	ID          uint64     `json:"id"`
	Date        string     `json:"date"`
	Merchant    string     `json:"merchant"`
	Description string     `json:"description"`
	Amount      int        `json:"amount"`
	TempName    string     `json:"temp_name"`
	ImagePath   string     `json:"image_path"`
	ImageState  ImageState `json:"image_state"`
}
