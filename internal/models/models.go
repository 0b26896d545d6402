package models

// Prediction is one ranked classification result
type Prediction struct {
	Class      string  `json:"class"`
	ClassID    string  `json:"class_id"`
	Confidence float64 `json:"confidence"`
}

// Upload is an image file picked for submission
type Upload struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
	Data        []byte `json:"-"`
}

// Size returns the payload length in bytes
func (u Upload) Size() int {
	return len(u.Data)
}
