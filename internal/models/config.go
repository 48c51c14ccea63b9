package models

// ProcessConfig contains configuration for repository processing
type ProcessConfig struct {
	// Input/Output
	ReposDir  string
	InputDir  string
	OutputDir string
	LogFile   string

	// Repository or tag names to process
	RepoNames []string

	// Require effname on every record
	Transformed bool
	// Skip the minpackages check
	NoSafetyChecks bool

	// Signing
	GPGKeyPath    string
	GPGPassphrase string
	// Public key used to verify detached signatures of input dumps
	VerifyKeyPath string
}

// CheckConfig contains configuration for checking dumps
type CheckConfig struct {
	Files       []string
	Transformed bool
	Normalize   bool
	// Output receives normalized records when set
	Output  string
	LogFile string
}

// ClassifyConfig contains configuration for version class assignment
type ClassifyConfig struct {
	Files []string
	// Version scheme used when a group's repositories do not agree on one
	Scheme string
	// ReposDir holds repository definitions, optional
	ReposDir string
	Workers  int
	// Output receives classified records when set
	Output string
}

// CompareConfig contains configuration for comparing two versions
type CompareConfig struct {
	Version1 string
	Version2 string
	Flags1   PackageFlags
	Flags2   PackageFlags
	Scheme   string
}
