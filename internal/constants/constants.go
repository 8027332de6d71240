// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// Face matching constants
const (
	// UnknownName is the label for a face that matched no stored identity
	UnknownName = "Unknown"

	// DescriptorDim is the length of a dlib face descriptor
	DescriptorDim = 128
)

// Landmark constants for the 68-point dlib predictor
const (
	// LandmarkCount is the number of points in a valid landmark set
	LandmarkCount = 68

	// LeftEyeStart and RightEyeStart are the first of six points per eye
	LeftEyeStart  = 36
	RightEyeStart = 42

	// NoseTip is the landmark index used for head movement
	NoseTip = 30
)

// Attendance ledger constants
const (
	// DateLayout formats the ledger date column (%Y-%m-%d)
	DateLayout = "2006-01-02"

	// TimeLayout formats the ledger time column (%H:%M:%S)
	TimeLayout = "15:04:05"
)

// Processing constants
const (
	// MaxImageSize is the maximum dimension (width or height) for image processing
	MaxImageSize = 1920

	// QuitKey stops the camera loops
	QuitKey = 'q'
)

// ImageExtensions are the file suffixes picked up by folder enrollment
var ImageExtensions = []string{"jpg", "jpeg", "png"}
