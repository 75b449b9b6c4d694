package manpage

// Conventions are the project-specific names and markers the validators
// enforce. DefaultConventions returns the values used by the Ssstr manual.
type Conventions struct {
	Prefix       string // required prefix of every documented function name
	IntroName    string // primary name of the introduction page
	FuncSection  string // manual section of function pages
	IntroSection string // manual section of the introduction page
	Include      string // fixed include line of every SYNOPSIS
	Source       string // expected .TH source field
	Manual       string // expected .TH manual field
	SkipToken    string // SYNOPSIS lines containing this are not prototypes
	ExemptToken  string // base names containing this drop their last _ component before suffixing
	DateLayout   string // Go time layout the .TH date must parse with; empty disables the check
}

// DefaultConventions returns the Ssstr manual conventions.
func DefaultConventions() Conventions {
	return Conventions{
		Prefix:       "ss8_",
		IntroName:    "ssstr",
		FuncSection:  "3",
		IntroSection: "7",
		Include:      ".B #include <ss8str.h>",
		Source:       "SSSTR",
		Manual:       "Ssstr Manual",
		SkipToken:    "SS8_STATIC_INITIALIZER",
		ExemptToken:  "printf",
	}
}

// IntroReference is the mandatory final SEE ALSO entry of function pages.
func (c Conventions) IntroReference() Reference {
	return Reference{Name: c.IntroName, Section: c.IntroSection}
}
