package config

const (
	// MaxUploadBytes is the maximum accepted DOCX upload size. Word manuals
	// with inlined media rarely exceed a few megabytes; 25 MB leaves room
	// for image-heavy documents without letting clients stream arbitrarily
	// large payloads into memory.
	MaxUploadBytes = 25 << 20

	// MaxQuestionTextLength is the maximum length for a stored question
	// alternative. Matches the VARCHAR(1000) column; longer generator
	// output is truncated before insert.
	MaxQuestionTextLength = 1000

	// MaxBankMapLength is the maximum length for the bank map code.
	// Limited to 100 to fit in PostgreSQL VARCHAR(100).
	MaxBankMapLength = 100
)
