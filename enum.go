package compass

// Enumerable is the interface implemented by types that can only be represented by enumerable, constant values,
// like the answer choices of the questionnaire.
type Enumerable interface {
	String() string
	Valid() error
}
