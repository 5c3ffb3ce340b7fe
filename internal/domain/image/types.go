package image

// ValidationResult captures the outcome of upload validation.
type ValidationResult struct {
	IsValid  bool
	Format   string
	Width    int
	Height   int
	FileSize int64
	Error    error
	Risk     string
}

// Upload is a validated photo ready for the identification API.
type Upload struct {
	ID     string
	Base64 string
	Bytes  []byte
	Format string
	Width  int
	Height int
}
