package detector

// OCRExtractor pulls text out of a captured image. Absence is not an error.
type OCRExtractor interface {
	ExtractText(img []byte) (string, bool)
}

type NoopOCR struct{}

func (NoopOCR) ExtractText([]byte) (string, bool) {
	return "", false
}
